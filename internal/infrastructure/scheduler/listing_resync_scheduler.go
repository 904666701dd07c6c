package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appmarketplace "github.com/dealerhub/backend/internal/application/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// BranchSyncExecutor Interface
// ---------------------------------------------------------------------------

// BranchSyncExecutor runs a full marketplace sync for one branch
type BranchSyncExecutor interface {
	SyncBranchUnattended(ctx context.Context, branchID uuid.UUID) (*appmarketplace.SyncResult, error)
}

// BranchLister enumerates the branches that have marketplace connections
type BranchLister interface {
	ListBranchesWithConnections(ctx context.Context) ([]uuid.UUID, error)
}

// ---------------------------------------------------------------------------
// ListingResyncConfig
// ---------------------------------------------------------------------------

// ListingResyncConfig holds configuration for the periodic listing re-sync
type ListingResyncConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// Interval is the time between sweeps
	Interval time.Duration
	// BranchTimeout is the maximum time one branch sync can run
	BranchTimeout time.Duration
	// MaxConcurrency is the maximum number of branches synced at once
	MaxConcurrency int
}

// DefaultListingResyncConfig returns default configuration
func DefaultListingResyncConfig() ListingResyncConfig {
	return ListingResyncConfig{
		Enabled:        true,
		Interval:       6 * time.Hour,
		BranchTimeout:  15 * time.Minute,
		MaxConcurrency: 2,
	}
}

// Validate validates the configuration
func (c *ListingResyncConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.BranchTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.MaxConcurrency <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// ListingResyncScheduler
// ---------------------------------------------------------------------------

// ListingResyncScheduler periodically re-publishes every connected branch's
// available vehicles so marketplace listings track inventory changes. Each
// sweep enumerates branches with connections and runs the sync orchestrator
// for each with bounded concurrency. Per-branch locking inside the
// orchestrator keeps a sweep from racing a manually triggered sync.
type ListingResyncScheduler struct {
	config   ListingResyncConfig
	branches BranchLister
	executor BranchSyncExecutor
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewListingResyncScheduler creates a new listing re-sync scheduler
func NewListingResyncScheduler(config ListingResyncConfig, branches BranchLister, executor BranchSyncExecutor, logger *zap.Logger) (*ListingResyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ListingResyncScheduler{
		config:   config,
		branches: branches,
		executor: executor,
		logger:   logger,
	}, nil
}

// Start starts the scheduler loop
func (s *ListingResyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Listing re-sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("branch_timeout", s.config.BranchTimeout),
		zap.Int("max_concurrency", s.config.MaxConcurrency),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *ListingResyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	// Wait for the in-flight sweep to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Listing re-sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Listing re-sync scheduler stop timed out")
		return ctx.Err()
	}
}

// run executes sweeps on the configured interval until the context ends
func (s *ListingResyncScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one re-sync pass over every branch with connections. Exposed
// so an operator endpoint or test can trigger a pass without waiting for
// the ticker.
func (s *ListingResyncScheduler) Sweep(ctx context.Context) {
	branches, err := s.branches.ListBranchesWithConnections(ctx)
	if err != nil {
		s.logger.Error("Listing re-sync sweep failed to enumerate branches", zap.Error(err))
		return
	}
	if len(branches) == 0 {
		return
	}

	s.logger.Info("Listing re-sync sweep started", zap.Int("branches", len(branches)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrency)

	for _, branchID := range branches {
		branchID := branchID
		g.Go(func() error {
			s.syncBranch(ctx, branchID)
			// Branch failures are logged, never propagated: one broken
			// branch must not stop the sweep.
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Listing re-sync sweep finished", zap.Int("branches", len(branches)))
}

// syncBranch runs the orchestrator for one branch with a timeout
func (s *ListingResyncScheduler) syncBranch(ctx context.Context, branchID uuid.UUID) {
	branchCtx, cancel := context.WithTimeout(ctx, s.config.BranchTimeout)
	defer cancel()

	result, err := s.executor.SyncBranchUnattended(branchCtx, branchID)
	if err != nil {
		if errors.Is(err, shared.ErrSyncAlreadyRunning) {
			s.logger.Debug("Listing re-sync skipped, branch sync already running",
				zap.String("branch_id", branchID.String()),
			)
			return
		}
		s.logger.Error("Listing re-sync failed for branch",
			zap.String("branch_id", branchID.String()),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Listing re-sync completed for branch",
		zap.String("branch_id", branchID.String()),
		zap.Int("synced", result.Synced),
		zap.Int("total_attempts", result.TotalAttempts),
		zap.Int("errors", len(result.Errors)),
	)
}
