package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/shared"
	"github.com/dealerhub/backend/internal/infrastructure/persistence/models"
)

// GormVehicleRepository implements dealership.VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID finds a vehicle by its ID
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*dealership.Vehicle, error) {
	var model models.VehicleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListAvailableByBranch lists all available vehicles for a branch
func (r *GormVehicleRepository) ListAvailableByBranch(ctx context.Context, branchID uuid.UUID) ([]dealership.Vehicle, error) {
	var vehicleModels []models.VehicleModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND status = ?", branchID, dealership.VehicleStatusAvailable).
		Order("created_at ASC").
		Find(&vehicleModels).Error; err != nil {
		return nil, err
	}

	vehicles := make([]dealership.Vehicle, len(vehicleModels))
	for i, model := range vehicleModels {
		vehicles[i] = *model.ToDomain()
	}
	return vehicles, nil
}

// Save creates or updates a vehicle. The marketplace subsystem never calls
// this; it exists for fixtures and the inventory screens.
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *dealership.Vehicle) error {
	model := models.VehicleModelFromDomain(vehicle)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormVehicleRepository implements VehicleRepository
var _ dealership.VehicleRepository = (*GormVehicleRepository)(nil)
