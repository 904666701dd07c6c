package marketplace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
)

// SyncService orchestrates a full branch sync: every available vehicle is
// published through every active connection with bounded concurrency. A
// per-branch lock rejects overlapping runs for the same branch.
type SyncService struct {
	vehicles      dealership.VehicleRepository
	connections   marketplace.ConnectionRepository
	publisher     *PublishService
	lock          shared.SyncLock
	lockTTL       time.Duration
	maxConcurrent int
	logger        *zap.Logger
}

// NewSyncService creates a new SyncService. maxConcurrent bounds the number
// of in-flight publish attempts per run; lockTTL caps how long a crashed run
// can keep its branch locked.
func NewSyncService(
	vehicles dealership.VehicleRepository,
	connections marketplace.ConnectionRepository,
	publisher *PublishService,
	lock shared.SyncLock,
	lockTTL time.Duration,
	maxConcurrent int,
	logger *zap.Logger,
) *SyncService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &SyncService{
		vehicles:      vehicles,
		connections:   connections,
		publisher:     publisher,
		lock:          lock,
		lockTTL:       lockTTL,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// SyncBranch publishes every available vehicle of the branch to every
// connected platform. Individual publish failures are collected into the
// result, never returned as a run failure; the run itself fails only on
// precondition violations or infrastructure errors. A second sync for the
// same branch while one is running is rejected.
func (s *SyncService) SyncBranch(ctx context.Context, actor dealership.Actor, branchID uuid.UUID) (*SyncResult, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, shared.ErrForbidden
	}
	return s.syncBranch(ctx, branchID)
}

// SyncBranchUnattended is the scheduler entry point: same run as SyncBranch
// without an acting user.
func (s *SyncService) SyncBranchUnattended(ctx context.Context, branchID uuid.UUID) (*SyncResult, error) {
	return s.syncBranch(ctx, branchID)
}

func (s *SyncService) syncBranch(ctx context.Context, branchID uuid.UUID) (*SyncResult, error) {
	lockKey := branchID.String()
	acquired, err := s.lock.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, shared.ErrSyncAlreadyRunning
	}
	defer func() {
		// Release with a fresh deadline so a cancelled run still unlocks
		if err := s.lock.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("failed to release sync lock",
				zap.String("branch_id", branchID.String()),
				zap.Error(err),
			)
		}
	}()

	connections, err := s.connections.ListActiveByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicles.ListAvailableByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{
		BranchID:      branchID,
		TotalAttempts: len(connections) * len(vehicles),
		Errors:        []SyncError{},
	}
	if result.TotalAttempts == 0 {
		s.logger.Info("marketplace sync skipped, nothing to do",
			zap.String("branch_id", branchID.String()),
			zap.Int("connections", len(connections)),
			zap.Int("vehicles", len(vehicles)),
		)
		return result, nil
	}

	s.logger.Info("marketplace sync started",
		zap.String("branch_id", branchID.String()),
		zap.Int("connections", len(connections)),
		zap.Int("vehicles", len(vehicles)),
	)

	outcomes := make([]batchOutcome, len(connections))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for ci := range connections {
		for vi := range vehicles {
			ci, vi := ci, vi
			g.Go(func() error {
				conn := &connections[ci]
				vehicle := &vehicles[vi]

				listing, err := s.publisher.attemptPublish(gctx, vehicle, conn)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					outcomes[ci].failed++
					outcomes[ci].lastError = err.Error()
					result.Errors = append(result.Errors, SyncError{
						VehicleID: vehicle.ID,
						Platform:  conn.Platform,
						Message:   err.Error(),
					})
				case listing.IsPublished():
					outcomes[ci].succeeded++
					result.Synced++
				default:
					outcomes[ci].failed++
					outcomes[ci].lastError = listing.LastError
					result.Errors = append(result.Errors, SyncError{
						VehicleID: vehicle.ID,
						Platform:  conn.Platform,
						Message:   listing.LastError,
					})
				}
				// Failures are carried in the result, not as a group error,
				// so one bad platform never cancels the rest of the batch.
				return nil
			})
		}
	}
	// Workers always return nil; Wait only propagates context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range connections {
		if err := s.settleConnection(ctx, &connections[i], outcomes[i], now); err != nil {
			s.logger.Error("failed to update connection after sync",
				zap.String("branch_id", branchID.String()),
				zap.String("platform", connections[i].Platform.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("marketplace sync finished",
		zap.String("branch_id", branchID.String()),
		zap.Int("synced", result.Synced),
		zap.Int("total_attempts", result.TotalAttempts),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// batchOutcome accumulates one connection's results within a sync run
type batchOutcome struct {
	succeeded int
	failed    int
	lastError string
}

// settleConnection applies the batch outcome to the connection: a batch in
// which every attempt failed degrades it, anything else advances the sync
// timestamp and keeps it active.
func (s *SyncService) settleConnection(ctx context.Context, conn *marketplace.Connection, outcome batchOutcome, at time.Time) error {
	if outcome.succeeded == 0 && outcome.failed > 0 {
		conn.MarkDegraded(at, outcome.lastError)
	} else {
		conn.MarkSynced(at, outcome.lastError)
	}
	return s.connections.Update(ctx, conn)
}
