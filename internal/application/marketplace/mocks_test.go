package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
)

// MockVehicleRepository is a mock implementation of VehicleRepository
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*dealership.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealership.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) ListAvailableByBranch(ctx context.Context, branchID uuid.UUID) ([]dealership.Vehicle, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dealership.Vehicle), args.Error(1)
}

var _ dealership.VehicleRepository = (*MockVehicleRepository)(nil)

// MockConnectionRepository is a mock implementation of ConnectionRepository
type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) FindByBranchAndPlatform(ctx context.Context, branchID uuid.UUID, platform marketplace.PlatformCode) (*marketplace.Connection, error) {
	args := m.Called(ctx, branchID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Connection), args.Error(1)
}

func (m *MockConnectionRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]marketplace.Connection, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Connection), args.Error(1)
}

func (m *MockConnectionRepository) ListActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]marketplace.Connection, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Connection), args.Error(1)
}

func (m *MockConnectionRepository) ListBranchesWithConnections(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockConnectionRepository) Upsert(ctx context.Context, conn *marketplace.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockConnectionRepository) Update(ctx context.Context, conn *marketplace.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockConnectionRepository) Delete(ctx context.Context, branchID uuid.UUID, platform marketplace.PlatformCode) error {
	args := m.Called(ctx, branchID, platform)
	return args.Error(0)
}

var _ marketplace.ConnectionRepository = (*MockConnectionRepository)(nil)

// MockListingRepository is a mock implementation of ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByVehicleAndPlatform(ctx context.Context, vehicleID uuid.UUID, platform marketplace.PlatformCode) (*marketplace.Listing, error) {
	args := m.Called(ctx, vehicleID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Listing), args.Error(1)
}

func (m *MockListingRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]marketplace.Listing, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Listing), args.Error(1)
}

func (m *MockListingRepository) Upsert(ctx context.Context, listing *marketplace.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

var _ marketplace.ListingRepository = (*MockListingRepository)(nil)

// MockPlatform is a mock platform adapter. Code is served from a plain field
// so tests can register the same mock type under different codes.
type MockPlatform struct {
	mock.Mock
	code marketplace.PlatformCode
}

func NewMockPlatform(code marketplace.PlatformCode) *MockPlatform {
	return &MockPlatform{code: code}
}

func (m *MockPlatform) Code() marketplace.PlatformCode {
	return m.code
}

func (m *MockPlatform) Validate(ctx context.Context, creds marketplace.Credentials) (*marketplace.ValidationResult, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.ValidationResult), args.Error(1)
}

func (m *MockPlatform) Publish(ctx context.Context, vehicle *dealership.Vehicle, creds marketplace.Credentials) (*marketplace.PublishResult, error) {
	args := m.Called(ctx, vehicle, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.PublishResult), args.Error(1)
}

var _ marketplace.Platform = (*MockPlatform)(nil)

// stubRegistry serves a fixed set of adapters keyed by code
type stubRegistry struct {
	adapters map[marketplace.PlatformCode]marketplace.Platform
}

func newStubRegistry(adapters ...marketplace.Platform) *stubRegistry {
	r := &stubRegistry{adapters: make(map[marketplace.PlatformCode]marketplace.Platform)}
	for _, a := range adapters {
		r.adapters[a.Code()] = a
	}
	return r
}

func (r *stubRegistry) GetPlatform(code marketplace.PlatformCode) (marketplace.Platform, error) {
	adapter, ok := r.adapters[code]
	if !ok {
		return nil, marketplace.ErrUnknownPlatform
	}
	return adapter, nil
}

func (r *stubRegistry) ListPlatforms() []marketplace.Platform {
	platforms := make([]marketplace.Platform, 0, len(r.adapters))
	for _, a := range r.adapters {
		platforms = append(platforms, a)
	}
	return platforms
}

var _ marketplace.PlatformRegistry = (*stubRegistry)(nil)

// MockSyncLock is a mock implementation of SyncLock
type MockSyncLock struct {
	mock.Mock
}

func (m *MockSyncLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSyncLock) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var _ shared.SyncLock = (*MockSyncLock)(nil)
