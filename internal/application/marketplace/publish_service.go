package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
)

// PublishService publishes single vehicles to marketplaces and exposes the
// per-vehicle listing state. A publish attempt always leaves a listing row
// behind: success and failure are both recorded, so the UI can show what
// happened on every platform.
type PublishService struct {
	vehicles    dealership.VehicleRepository
	connections marketplace.ConnectionRepository
	listings    marketplace.ListingRepository
	platforms   marketplace.PlatformRegistry
	logger      *zap.Logger
}

// NewPublishService creates a new PublishService
func NewPublishService(
	vehicles dealership.VehicleRepository,
	connections marketplace.ConnectionRepository,
	listings marketplace.ListingRepository,
	platforms marketplace.PlatformRegistry,
	logger *zap.Logger,
) *PublishService {
	return &PublishService{
		vehicles:    vehicles,
		connections: connections,
		listings:    listings,
		platforms:   platforms,
		logger:      logger,
	}
}

// Publish sends one vehicle to one marketplace through the branch's
// connection. The outcome is recorded on the listing row either way; an
// adapter failure is reported through the listing status, not as an
// operation error. Operation errors are reserved for precondition
// violations (unknown vehicle, wrong branch, missing connection).
func (s *PublishService) Publish(ctx context.Context, actor dealership.Actor, input PublishInput) (*ListingDTO, error) {
	if !input.Platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", fmt.Sprintf("Unknown marketplace platform: %s", input.Platform))
	}

	vehicle, err := s.vehicles.FindByID(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.HasBranch() {
		return nil, shared.ErrVehicleUnassigned
	}
	if !actor.CanAccessBranch(vehicle.BranchID) {
		return nil, shared.ErrForbidden
	}
	if !vehicle.IsAvailable() {
		return nil, shared.ErrVehicleNotAvailable
	}

	conn, err := s.connections.FindByBranchAndPlatform(ctx, vehicle.BranchID, input.Platform)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrPlatformNotLinked
		}
		return nil, err
	}
	// A degraded connection counts as not connected: publishing through
	// stale credentials is rejected until the branch reconnects.
	if !conn.IsActive() {
		return nil, shared.ErrPlatformNotLinked
	}

	listing, err := s.publishToConnection(ctx, vehicle, conn)
	if err != nil {
		return nil, err
	}

	dto := NewListingDTO(listing)
	return &dto, nil
}

// ListListings returns the per-platform listing state of a vehicle
func (s *PublishService) ListListings(ctx context.Context, actor dealership.Actor, vehicleID uuid.UUID) ([]ListingDTO, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessBranch(vehicle.BranchID) {
		return nil, shared.ErrForbidden
	}

	listings, err := s.listings.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ListingDTO, len(listings))
	for i := range listings {
		dtos[i] = NewListingDTO(&listings[i])
	}
	return dtos, nil
}

// publishToConnection runs one publish attempt and persists its outcome on
// both the listing and the connection.
func (s *PublishService) publishToConnection(ctx context.Context, vehicle *dealership.Vehicle, conn *marketplace.Connection) (*marketplace.Listing, error) {
	listing, err := s.attemptPublish(ctx, vehicle, conn)
	if err != nil {
		return nil, err
	}

	if err := s.recordConnectionOutcome(ctx, conn, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// attemptPublish runs one publish attempt and persists its outcome on the
// listing row only. The connection is left untouched so the sync
// orchestrator can run attempts for one connection concurrently and settle
// the connection status once per batch. The returned error is reserved for
// infrastructure failures; an adapter failure is reported through the
// listing's status and LastError.
func (s *PublishService) attemptPublish(ctx context.Context, vehicle *dealership.Vehicle, conn *marketplace.Connection) (*marketplace.Listing, error) {
	adapter, err := s.platforms.GetPlatform(conn.Platform)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.FindByVehicleAndPlatform(ctx, vehicle.ID, conn.Platform)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		listing = marketplace.NewListing(vehicle.ID, conn.Platform)
	}

	now := time.Now()
	snapshot := &marketplace.PayloadSnapshot{
		Title:  vehicle.ListingTitle(),
		Price:  vehicle.Price,
		SentAt: now,
	}

	result, publishErr := adapter.Publish(ctx, vehicle, conn.Credentials)
	if publishErr != nil {
		listing.RecordFailure(publishErr.Error(), snapshot)
		s.logger.Warn("marketplace publish failed",
			zap.String("vehicle_id", vehicle.ID.String()),
			zap.String("platform", conn.Platform.String()),
			zap.Error(publishErr),
		)
	} else {
		listing.RecordSuccess(result, snapshot, now)
		s.logger.Info("marketplace publish succeeded",
			zap.String("vehicle_id", vehicle.ID.String()),
			zap.String("platform", conn.Platform.String()),
			zap.String("external_id", result.ExternalID),
		)
	}

	if err := s.listings.Upsert(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// recordConnectionOutcome keeps the connection's sync timestamp and last
// error current after a single publish. A lone failure never degrades the
// connection; only a fully failed sync batch does that.
func (s *PublishService) recordConnectionOutcome(ctx context.Context, conn *marketplace.Connection, listing *marketplace.Listing) error {
	conn.MarkSynced(time.Now(), listing.LastError)
	return s.connections.Update(ctx, conn)
}
