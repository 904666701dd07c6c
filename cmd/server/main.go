package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appmarketplace "github.com/dealerhub/backend/internal/application/marketplace"
	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
	"github.com/dealerhub/backend/internal/infrastructure/auth"
	"github.com/dealerhub/backend/internal/infrastructure/cache"
	"github.com/dealerhub/backend/internal/infrastructure/config"
	"github.com/dealerhub/backend/internal/infrastructure/logger"
	"github.com/dealerhub/backend/internal/infrastructure/persistence"
	"github.com/dealerhub/backend/internal/infrastructure/platform"
	"github.com/dealerhub/backend/internal/infrastructure/scheduler"
	"github.com/dealerhub/backend/internal/interfaces/http/handler"
	"github.com/dealerhub/backend/internal/interfaces/http/middleware"
	"github.com/dealerhub/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting DealerHub marketplace sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Sync lock: Redis when reachable, in-memory otherwise. Single-instance
	// deployments work fine without Redis; multi-instance ones need it so
	// only one instance syncs a branch at a time.
	var syncLock shared.SyncLock
	redisLock, err := cache.NewRedisSyncLock(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory sync lock", zap.Error(err))
		syncLock = cache.NewInMemorySyncLock()
	} else {
		syncLock = redisLock
		defer func() {
			if err := redisLock.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis sync lock connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Platform adapters, built from endpoint configuration
	registry, err := buildPlatformRegistry(cfg)
	if err != nil {
		log.Fatal("Failed to build platform registry", zap.Error(err))
	}
	for _, p := range registry.ListPlatforms() {
		log.Info("Marketplace platform registered", zap.String("platform", p.Code().String()))
	}

	// Repositories
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	connectionRepo := persistence.NewGormConnectionRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	connectionService := appmarketplace.NewConnectionService(connectionRepo, registry, log)
	publishService := appmarketplace.NewPublishService(vehicleRepo, connectionRepo, listingRepo, registry, log)
	syncService := appmarketplace.NewSyncService(
		vehicleRepo,
		connectionRepo,
		publishService,
		syncLock,
		cfg.Sync.LockTTL,
		cfg.Sync.MaxConcurrentPublishes,
		log,
	)

	// Periodic listing re-sync (if enabled)
	if cfg.Scheduler.Enabled {
		resyncConfig := scheduler.ListingResyncConfig{
			Enabled:        cfg.Scheduler.Enabled,
			Interval:       cfg.Scheduler.Interval,
			BranchTimeout:  cfg.Scheduler.BranchTimeout,
			MaxConcurrency: cfg.Scheduler.MaxConcurrency,
		}
		resyncScheduler, err := scheduler.NewListingResyncScheduler(resyncConfig, connectionRepo, syncService, log)
		if err != nil {
			log.Fatal("Failed to create listing re-sync scheduler", zap.Error(err))
		}
		if err := resyncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start listing re-sync scheduler", zap.Error(err))
		}
		defer func() {
			if err := resyncScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping listing re-sync scheduler", zap.Error(err))
			}
		}()
		log.Info("Listing re-sync scheduler started",
			zap.Duration("interval", cfg.Scheduler.Interval),
			zap.Duration("branch_timeout", cfg.Scheduler.BranchTimeout),
			zap.Int("max_concurrency", cfg.Scheduler.MaxConcurrency),
		)
	}

	// HTTP handlers
	marketplaceHandler := handler.NewMarketplaceHandler(connectionService, publishService, syncService)
	systemHandler := handler.NewSystemHandler(db.DB)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request id, panic recovery, request logging,
	// security headers, CORS
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning, no authentication)
	engine.GET("/health", systemHandler.Health)

	// API routes behind JWT authentication
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	r.Register(router.NewMarketplaceRoutes(marketplaceHandler))
	r.Register(router.NewSystemRoutes(systemHandler))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildPlatformRegistry constructs the three marketplace adapters from
// endpoint configuration and registers them.
func buildPlatformRegistry(cfg *config.Config) (marketplace.PlatformRegistry, error) {
	ml := cfg.Marketplaces.MercadoLivre
	mlConfig := platform.NewMercadoLivreConfig()
	applyNonEmpty(&mlConfig.APIBaseURL, ml.APIBaseURL)
	applyNonEmpty(&mlConfig.PermalinkBaseURL, ml.PermalinkBaseURL)
	applyNonEmpty(&mlConfig.SiteID, ml.SiteID)
	applyNonEmpty(&mlConfig.CategoryID, ml.CategoryID)
	applyNonEmpty(&mlConfig.CurrencyID, ml.CurrencyID)
	applyPositive(&mlConfig.MaxImages, ml.MaxImages)
	applyPositive(&mlConfig.TimeoutSeconds, ml.TimeoutSeconds)
	mlAdapter, err := platform.NewMercadoLivreAdapter(mlConfig)
	if err != nil {
		return nil, err
	}

	meta := cfg.Marketplaces.Meta
	metaConfig := platform.NewMetaConfig()
	applyNonEmpty(&metaConfig.GraphAPIBaseURL, meta.GraphAPIBaseURL)
	applyNonEmpty(&metaConfig.APIVersion, meta.APIVersion)
	applyPositive(&metaConfig.MaxImages, meta.MaxImages)
	applyPositive(&metaConfig.TimeoutSeconds, meta.TimeoutSeconds)
	metaAdapter, err := platform.NewMetaAdapter(metaConfig)
	if err != nil {
		return nil, err
	}

	wm := cfg.Marketplaces.Webmotors
	wmConfig := platform.NewWebmotorsConfig()
	applyNonEmpty(&wmConfig.APIBaseURL, wm.APIBaseURL)
	applyNonEmpty(&wmConfig.TokenURL, wm.TokenURL)
	applyNonEmpty(&wmConfig.AdBaseURL, wm.AdBaseURL)
	applyPositive(&wmConfig.MaxImages, wm.MaxImages)
	applyPositive(&wmConfig.TimeoutSeconds, wm.TimeoutSeconds)
	wmAdapter, err := platform.NewWebmotorsAdapter(wmConfig)
	if err != nil {
		return nil, err
	}

	registry, err := platform.NewRegistry(mlAdapter, metaAdapter, wmAdapter)
	if err != nil {
		return nil, err
	}
	return registry, nil
}

func applyNonEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func applyPositive(dst *int, value int) {
	if value > 0 {
		*dst = value
	}
}
