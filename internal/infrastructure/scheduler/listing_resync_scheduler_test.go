package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appmarketplace "github.com/dealerhub/backend/internal/application/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

type stubBranchLister struct {
	branches []uuid.UUID
	err      error
}

func (s *stubBranchLister) ListBranchesWithConnections(ctx context.Context) ([]uuid.UUID, error) {
	return s.branches, s.err
}

type recordingExecutor struct {
	mu       sync.Mutex
	synced   []uuid.UUID
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	errs     map[uuid.UUID]error
}

func (e *recordingExecutor) SyncBranchUnattended(ctx context.Context, branchID uuid.UUID) (*appmarketplace.SyncResult, error) {
	cur := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		peak := e.peak.Load()
		if cur <= peak || e.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	if err := e.errs[branchID]; err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.synced = append(e.synced, branchID)
	e.mu.Unlock()
	return &appmarketplace.SyncResult{BranchID: branchID, Synced: 1, TotalAttempts: 1}, nil
}

func testConfig() ListingResyncConfig {
	cfg := DefaultListingResyncConfig()
	cfg.Interval = 10 * time.Millisecond
	cfg.BranchTimeout = time.Second
	return cfg
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestListingResyncConfig_Validate(t *testing.T) {
	valid := DefaultListingResyncConfig()
	assert.NoError(t, valid.Validate())

	noInterval := valid
	noInterval.Interval = 0
	assert.ErrorIs(t, noInterval.Validate(), ErrInvalidConfig)

	noTimeout := valid
	noTimeout.BranchTimeout = 0
	assert.ErrorIs(t, noTimeout.Validate(), ErrInvalidConfig)

	noConcurrency := valid
	noConcurrency.MaxConcurrency = 0
	assert.ErrorIs(t, noConcurrency.Validate(), ErrInvalidConfig)
}

func TestNewListingResyncScheduler_InvalidConfig(t *testing.T) {
	cfg := DefaultListingResyncConfig()
	cfg.MaxConcurrency = -1

	_, err := NewListingResyncScheduler(cfg, &stubBranchLister{}, &recordingExecutor{}, zap.NewNop())

	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// ---------------------------------------------------------------------------
// Sweep Tests
// ---------------------------------------------------------------------------

func TestSweep_SyncsEveryBranch(t *testing.T) {
	branches := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	executor := &recordingExecutor{}
	s, err := NewListingResyncScheduler(testConfig(), &stubBranchLister{branches: branches}, executor, zap.NewNop())
	require.NoError(t, err)

	s.Sweep(context.Background())

	assert.ElementsMatch(t, branches, executor.synced)
}

func TestSweep_BoundedConcurrency(t *testing.T) {
	branches := make([]uuid.UUID, 6)
	for i := range branches {
		branches[i] = uuid.New()
	}
	executor := &recordingExecutor{delay: 20 * time.Millisecond}
	cfg := testConfig()
	cfg.MaxConcurrency = 2
	s, err := NewListingResyncScheduler(cfg, &stubBranchLister{branches: branches}, executor, zap.NewNop())
	require.NoError(t, err)

	s.Sweep(context.Background())

	assert.Len(t, executor.synced, 6)
	assert.LessOrEqual(t, executor.peak.Load(), int32(2))
}

func TestSweep_BranchFailureDoesNotStopOthers(t *testing.T) {
	healthy := uuid.New()
	broken := uuid.New()
	busy := uuid.New()
	executor := &recordingExecutor{errs: map[uuid.UUID]error{
		broken: errors.New("database unavailable"),
		busy:   shared.ErrSyncAlreadyRunning,
	}}
	s, err := NewListingResyncScheduler(testConfig(), &stubBranchLister{branches: []uuid.UUID{broken, busy, healthy}}, executor, zap.NewNop())
	require.NoError(t, err)

	s.Sweep(context.Background())

	assert.Equal(t, []uuid.UUID{healthy}, executor.synced)
}

func TestSweep_ListerErrorAborts(t *testing.T) {
	executor := &recordingExecutor{}
	s, err := NewListingResyncScheduler(testConfig(), &stubBranchLister{err: errors.New("connection refused")}, executor, zap.NewNop())
	require.NoError(t, err)

	s.Sweep(context.Background())

	assert.Empty(t, executor.synced)
}

// ---------------------------------------------------------------------------
// Lifecycle Tests
// ---------------------------------------------------------------------------

func TestScheduler_StartTicksAndStops(t *testing.T) {
	branchID := uuid.New()
	executor := &recordingExecutor{}
	s, err := NewListingResyncScheduler(testConfig(), &stubBranchLister{branches: []uuid.UUID{branchID}}, executor, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	// Starting twice is a no-op
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool {
		executor.mu.Lock()
		defer executor.mu.Unlock()
		return len(executor.synced) >= 2
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	// Stopping twice is a no-op
	require.NoError(t, s.Stop(stopCtx))
}
