package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appmarketplace "github.com/dealerhub/backend/internal/application/marketplace"
	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
	"github.com/dealerhub/backend/internal/infrastructure/cache"
	"github.com/dealerhub/backend/internal/infrastructure/persistence"
)

// stubPlatform is a canned marketplace adapter for integration tests. Real
// adapters are exercised by their own httptest-backed unit tests; here we
// care about the persistence and orchestration path.
type stubPlatform struct {
	code       marketplace.PlatformCode
	publishErr error
	published  int
}

func (p *stubPlatform) Code() marketplace.PlatformCode { return p.code }

func (p *stubPlatform) Validate(ctx context.Context, creds marketplace.Credentials) (*marketplace.ValidationResult, error) {
	return &marketplace.ValidationResult{
		AccountID:   "acct-" + string(p.code),
		Credentials: creds,
	}, nil
}

func (p *stubPlatform) Publish(ctx context.Context, vehicle *dealership.Vehicle, creds marketplace.Credentials) (*marketplace.PublishResult, error) {
	if p.publishErr != nil {
		return nil, p.publishErr
	}
	p.published++
	return &marketplace.PublishResult{
		ExternalID:  "ext-" + vehicle.ID.String()[:8],
		ExternalURL: "https://marketplace.example/" + vehicle.ID.String()[:8],
	}, nil
}

type stubRegistry map[marketplace.PlatformCode]marketplace.Platform

func (r stubRegistry) GetPlatform(code marketplace.PlatformCode) (marketplace.Platform, error) {
	p, ok := r[code]
	if !ok {
		return nil, marketplace.ErrUnknownPlatform
	}
	return p, nil
}

func (r stubRegistry) ListPlatforms() []marketplace.Platform {
	out := make([]marketplace.Platform, 0, len(r))
	for _, p := range r {
		out = append(out, p)
	}
	return out
}

// TestMarketplaceSyncFlow_Integration drives the full connect-publish-sync
// flow through real repositories on a real PostgreSQL database
func TestMarketplaceSyncFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()

	vehicleRepo := persistence.NewGormVehicleRepository(testDB.DB)
	connectionRepo := persistence.NewGormConnectionRepository(testDB.DB)
	listingRepo := persistence.NewGormListingRepository(testDB.DB)

	ml := &stubPlatform{code: marketplace.PlatformCodeMercadoLivre}
	wm := &stubPlatform{code: marketplace.PlatformCodeWebmotors}
	registry := stubRegistry{ml.Code(): ml, wm.Code(): wm}

	log := zap.NewNop()
	connectionService := appmarketplace.NewConnectionService(connectionRepo, registry, log)
	publishService := appmarketplace.NewPublishService(vehicleRepo, connectionRepo, listingRepo, registry, log)
	syncService := appmarketplace.NewSyncService(
		vehicleRepo, connectionRepo, publishService,
		cache.NewInMemorySyncLock(), time.Minute, 2, log,
	)

	branchID := uuid.New()
	actor := dealership.Actor{UserID: uuid.New(), BranchID: branchID}

	corollaID := testDB.CreateTestVehicle(branchID, "Toyota", "Corolla XEi", 2022, decimal.NewFromInt(120000))
	civicID := testDB.CreateTestVehicle(branchID, "Honda", "Civic", 2021, decimal.NewFromInt(110000))

	t.Run("Connect both platforms", func(t *testing.T) {
		for _, code := range []marketplace.PlatformCode{marketplace.PlatformCodeMercadoLivre, marketplace.PlatformCodeWebmotors} {
			dto, err := connectionService.Connect(ctx, actor, appmarketplace.ConnectInput{
				BranchID:    branchID,
				Platform:    code,
				Credentials: marketplace.Credentials{"access_token": "tok"},
			})
			require.NoError(t, err)
			assert.Equal(t, "active", dto.Status)
			assert.Equal(t, "********", dto.Credentials.Get("access_token"))
		}

		conns, err := connectionRepo.ListByBranch(ctx, branchID)
		require.NoError(t, err)
		assert.Len(t, conns, 2)
	})

	t.Run("Publish single vehicle", func(t *testing.T) {
		dto, err := publishService.Publish(ctx, actor, appmarketplace.PublishInput{
			VehicleID: corollaID,
			Platform:  marketplace.PlatformCodeMercadoLivre,
		})
		require.NoError(t, err)
		assert.Equal(t, "published", dto.Status)
		assert.NotEmpty(t, dto.ExternalID)

		stored, err := listingRepo.FindByVehicleAndPlatform(ctx, corollaID, marketplace.PlatformCodeMercadoLivre)
		require.NoError(t, err)
		assert.Equal(t, marketplace.ListingStatusPublished, stored.Status)
		require.NotNil(t, stored.Payload)
		assert.Equal(t, "Toyota Corolla XEi 2022", stored.Payload.Title)
	})

	t.Run("Sync branch publishes the full cross product", func(t *testing.T) {
		result, err := syncService.SyncBranch(ctx, actor, branchID)
		require.NoError(t, err)

		// 2 vehicles x 2 connections
		assert.Equal(t, 4, result.TotalAttempts)
		assert.Equal(t, 4, result.Synced)
		assert.Empty(t, result.Errors)

		for _, vehicleID := range []uuid.UUID{corollaID, civicID} {
			listings, err := listingRepo.ListByVehicle(ctx, vehicleID)
			require.NoError(t, err)
			assert.Len(t, listings, 2)
		}

		conn, err := connectionRepo.FindByBranchAndPlatform(ctx, branchID, marketplace.PlatformCodeWebmotors)
		require.NoError(t, err)
		assert.True(t, conn.IsActive())
		require.NotNil(t, conn.LastSyncAt)
	})

	t.Run("Sync skips sold vehicles", func(t *testing.T) {
		testDB.SetVehicleStatus(civicID, dealership.VehicleStatusSold)

		result, err := syncService.SyncBranch(ctx, actor, branchID)
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalAttempts)
		assert.Equal(t, 2, result.Synced)
	})

	t.Run("All-failed batch degrades the connection", func(t *testing.T) {
		ml.publishErr = marketplace.NewPlatformError(ml.code, "listing quota exceeded")
		wm.publishErr = marketplace.NewPlatformError(wm.code, "listing quota exceeded")

		result, err := syncService.SyncBranch(ctx, actor, branchID)
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalAttempts)
		assert.Equal(t, 0, result.Synced)
		assert.Len(t, result.Errors, 2)

		conn, err := connectionRepo.FindByBranchAndPlatform(ctx, branchID, marketplace.PlatformCodeMercadoLivre)
		require.NoError(t, err)
		assert.Equal(t, marketplace.ConnectionStatusError, conn.Status)

		listing, err := listingRepo.FindByVehicleAndPlatform(ctx, corollaID, marketplace.PlatformCodeMercadoLivre)
		require.NoError(t, err)
		assert.Equal(t, marketplace.ListingStatusError, listing.Status)
		assert.Contains(t, listing.LastError, "listing quota exceeded")
	})

	t.Run("Degraded connections sit out until reconnected", func(t *testing.T) {
		ml.publishErr = nil
		wm.publishErr = nil

		// Both connections were degraded by the previous batch, so the run
		// finds nothing to publish through.
		result, err := syncService.SyncBranch(ctx, actor, branchID)
		require.NoError(t, err)
		assert.Equal(t, 0, result.TotalAttempts)
		assert.Equal(t, 0, result.Synced)

		_, err = publishService.Publish(ctx, actor, appmarketplace.PublishInput{
			VehicleID: corollaID,
			Platform:  marketplace.PlatformCodeMercadoLivre,
		})
		assert.ErrorIs(t, err, shared.ErrPlatformNotLinked)

		// Reconnecting re-validates credentials and restores the connection
		dto, err := connectionService.Connect(ctx, actor, appmarketplace.ConnectInput{
			BranchID:    branchID,
			Platform:    marketplace.PlatformCodeMercadoLivre,
			Credentials: marketplace.Credentials{"access_token": "fresh"},
		})
		require.NoError(t, err)
		assert.Equal(t, "active", dto.Status)

		result, err = syncService.SyncBranch(ctx, actor, branchID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalAttempts)
		assert.Equal(t, 1, result.Synced)

		conn, err := connectionRepo.FindByBranchAndPlatform(ctx, branchID, marketplace.PlatformCodeMercadoLivre)
		require.NoError(t, err)
		assert.True(t, conn.IsActive())
		assert.Empty(t, conn.LastError)
	})
}
