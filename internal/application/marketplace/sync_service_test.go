package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
)

const testLockTTL = 10 * time.Minute

type syncFixture struct {
	vehicles    *MockVehicleRepository
	connections *MockConnectionRepository
	listings    *MockListingRepository
	lock        *MockSyncLock
	service     *SyncService
}

func newSyncFixture(adapters ...marketplace.Platform) *syncFixture {
	f := &syncFixture{
		vehicles:    new(MockVehicleRepository),
		connections: new(MockConnectionRepository),
		listings:    new(MockListingRepository),
		lock:        new(MockSyncLock),
	}
	publisher := NewPublishService(f.vehicles, f.connections, f.listings, newStubRegistry(adapters...), zap.NewNop())
	f.service = NewSyncService(f.vehicles, f.connections, publisher, f.lock, testLockTTL, 2, zap.NewNop())
	return f
}

func (f *syncFixture) expectLock(branchID uuid.UUID) {
	f.lock.On("Acquire", mock.Anything, branchID.String(), testLockTTL).Return(true, nil)
	f.lock.On("Release", mock.Anything, branchID.String()).Return(nil)
}

func (f *syncFixture) expectNoExistingListings() {
	f.listings.On("FindByVehicleAndPlatform", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	f.listings.On("Upsert", mock.Anything, mock.AnythingOfType("*marketplace.Listing")).Return(nil)
}

func syncTestVehicles(branchID uuid.UUID, n int) []dealership.Vehicle {
	vehicles := make([]dealership.Vehicle, n)
	for i := range vehicles {
		vehicles[i] = *publishTestVehicle(branchID)
	}
	return vehicles
}

func TestSyncBranch_AllSucceed(t *testing.T) {
	ml := NewMockPlatform(marketplace.PlatformCodeMercadoLivre)
	meta := NewMockPlatform(marketplace.PlatformCodeMeta)
	f := newSyncFixture(ml, meta)
	ctx := context.Background()

	branchID := uuid.New()
	connections := []marketplace.Connection{
		*newTestConnectionForPublish(branchID, marketplace.PlatformCodeMercadoLivre),
		*newTestConnectionForPublish(branchID, marketplace.PlatformCodeMeta),
	}
	vehicles := syncTestVehicles(branchID, 3)

	f.expectLock(branchID)
	f.connections.On("ListActiveByBranch", ctx, branchID).Return(connections, nil)
	f.vehicles.On("ListAvailableByBranch", ctx, branchID).Return(vehicles, nil)
	f.expectNoExistingListings()
	ml.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(&marketplace.PublishResult{ExternalID: "MLB1"}, nil)
	meta.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(&marketplace.PublishResult{ExternalID: "fb-1"}, nil)
	f.connections.On("Update", ctx, mock.AnythingOfType("*marketplace.Connection")).Return(nil)

	result, err := f.service.SyncBranch(ctx, testActor(branchID), branchID)

	require.NoError(t, err)
	assert.Equal(t, 6, result.TotalAttempts)
	assert.Equal(t, 6, result.Synced)
	assert.Empty(t, result.Errors)
	f.lock.AssertExpectations(t)
	f.connections.AssertNumberOfCalls(t, "Update", 2)
}

func TestSyncBranch_PartialFailureKeepsConnectionActive(t *testing.T) {
	ml := NewMockPlatform(marketplace.PlatformCodeMercadoLivre)
	f := newSyncFixture(ml)
	ctx := context.Background()

	branchID := uuid.New()
	connections := []marketplace.Connection{
		*newTestConnectionForPublish(branchID, marketplace.PlatformCodeMercadoLivre),
	}
	vehicles := syncTestVehicles(branchID, 2)

	f.expectLock(branchID)
	f.connections.On("ListActiveByBranch", ctx, branchID).Return(connections, nil)
	f.vehicles.On("ListAvailableByBranch", ctx, branchID).Return(vehicles, nil)
	f.expectNoExistingListings()
	// One vehicle publishes, the other is rejected
	ml.On("Publish", mock.Anything, &vehicles[0], mock.Anything).Return(&marketplace.PublishResult{ExternalID: "MLB1"}, nil)
	ml.On("Publish", mock.Anything, &vehicles[1], mock.Anything).Return(nil,
		marketplace.NewPlatformError(marketplace.PlatformCodeMercadoLivre, "invalid category"))
	f.connections.On("Update", ctx, mock.AnythingOfType("*marketplace.Connection")).Return(nil)

	result, err := f.service.SyncBranch(ctx, testActor(branchID), branchID)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalAttempts)
	assert.Equal(t, 1, result.Synced)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, vehicles[1].ID, result.Errors[0].VehicleID)
	assert.Equal(t, marketplace.PlatformCodeMercadoLivre, result.Errors[0].Platform)
	assert.Contains(t, result.Errors[0].Message, "invalid category")

	// A partial failure never degrades the connection
	assert.Equal(t, marketplace.ConnectionStatusActive, connections[0].Status)
	require.NotNil(t, connections[0].LastSyncAt)
}

func TestSyncBranch_AllFailedDegradesConnection(t *testing.T) {
	ml := NewMockPlatform(marketplace.PlatformCodeMercadoLivre)
	wm := NewMockPlatform(marketplace.PlatformCodeWebmotors)
	f := newSyncFixture(ml, wm)
	ctx := context.Background()

	branchID := uuid.New()
	connections := []marketplace.Connection{
		*newTestConnectionForPublish(branchID, marketplace.PlatformCodeMercadoLivre),
		*newTestConnectionForPublish(branchID, marketplace.PlatformCodeWebmotors),
	}
	vehicles := syncTestVehicles(branchID, 2)

	f.expectLock(branchID)
	f.connections.On("ListActiveByBranch", ctx, branchID).Return(connections, nil)
	f.vehicles.On("ListAvailableByBranch", ctx, branchID).Return(vehicles, nil)
	f.expectNoExistingListings()
	ml.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(&marketplace.PublishResult{ExternalID: "MLB1"}, nil)
	wm.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil,
		marketplace.NewPlatformAuthError(marketplace.PlatformCodeWebmotors, "token exchange failed"))
	f.connections.On("Update", ctx, mock.AnythingOfType("*marketplace.Connection")).Return(nil)

	result, err := f.service.SyncBranch(ctx, testActor(branchID), branchID)

	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalAttempts)
	assert.Equal(t, 2, result.Synced)
	assert.Len(t, result.Errors, 2)

	assert.Equal(t, marketplace.ConnectionStatusActive, connections[0].Status)
	assert.Equal(t, marketplace.ConnectionStatusError, connections[1].Status)
	assert.Contains(t, connections[1].LastError, "token exchange failed")
}

func TestSyncBranch_OnlyActiveConnectionsAreSynced(t *testing.T) {
	meta := NewMockPlatform(marketplace.PlatformCodeMeta)
	f := newSyncFixture(meta)
	ctx := context.Background()

	// The branch has one degraded connection and one available vehicle. The
	// repository filters on status, so the run sees no connections at all.
	branchID := uuid.New()
	vehicles := syncTestVehicles(branchID, 1)

	f.expectLock(branchID)
	f.connections.On("ListActiveByBranch", ctx, branchID).Return([]marketplace.Connection{}, nil)
	f.vehicles.On("ListAvailableByBranch", ctx, branchID).Return(vehicles, nil)

	result, err := f.service.SyncBranch(ctx, testActor(branchID), branchID)

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalAttempts)
	assert.Equal(t, 0, result.Synced)
	assert.Empty(t, result.Errors)
	meta.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	f.connections.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSyncBranch_AlreadyRunning(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	branchID := uuid.New()
	f.lock.On("Acquire", mock.Anything, branchID.String(), testLockTTL).Return(false, nil)

	_, err := f.service.SyncBranch(ctx, testActor(branchID), branchID)

	assert.ErrorIs(t, err, shared.ErrSyncAlreadyRunning)
	f.connections.AssertNotCalled(t, "ListActiveByBranch", mock.Anything, mock.Anything)
	f.lock.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestSyncBranch_NothingToDo(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	branchID := uuid.New()
	f.expectLock(branchID)
	f.connections.On("ListActiveByBranch", ctx, branchID).Return([]marketplace.Connection{}, nil)
	f.vehicles.On("ListAvailableByBranch", ctx, branchID).Return([]dealership.Vehicle{}, nil)

	result, err := f.service.SyncBranch(ctx, testActor(branchID), branchID)

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalAttempts)
	assert.Equal(t, 0, result.Synced)
	assert.Empty(t, result.Errors)
	f.lock.AssertExpectations(t)
}

func TestSyncBranch_CrossBranchForbidden(t *testing.T) {
	f := newSyncFixture()

	_, err := f.service.SyncBranch(context.Background(), testActor(uuid.New()), uuid.New())

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.lock.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncBranchUnattended_SkipsActorCheck(t *testing.T) {
	f := newSyncFixture()
	ctx := context.Background()

	branchID := uuid.New()
	f.expectLock(branchID)
	f.connections.On("ListActiveByBranch", ctx, branchID).Return([]marketplace.Connection{}, nil)
	f.vehicles.On("ListAvailableByBranch", ctx, branchID).Return([]dealership.Vehicle{}, nil)

	result, err := f.service.SyncBranchUnattended(ctx, branchID)

	require.NoError(t, err)
	assert.Equal(t, branchID, result.BranchID)
}
