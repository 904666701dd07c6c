package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
	"github.com/dealerhub/backend/internal/infrastructure/persistence/models"
)

// GormListingRepository implements marketplace.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByVehicleAndPlatform finds the listing for a (vehicle, platform) pair
func (r *GormListingRepository) FindByVehicleAndPlatform(ctx context.Context, vehicleID uuid.UUID, platform marketplace.PlatformCode) (*marketplace.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND platform = ?", vehicleID, platform).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByVehicle lists all listings for a vehicle across platforms
func (r *GormListingRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]marketplace.Listing, error) {
	var listingModels []models.ListingModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("platform ASC").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]marketplace.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = *model.ToDomain()
	}
	return listings, nil
}

// Upsert inserts the listing or replaces the existing row for the same
// (vehicle, platform) pair. The row id and created_at of the first attempt
// survive; status, errors, external ids and the payload snapshot are
// overwritten with whatever the caller recorded.
func (r *GormListingRepository) Upsert(ctx context.Context, listing *marketplace.Listing) error {
	model := models.ListingModelFromDomain(listing)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "vehicle_id"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"external_id", "external_url", "status", "last_error", "last_synced_at", "payload_sent", "updated_at",
			}),
		}).
		Create(model).Error
}

// Ensure GormListingRepository implements ListingRepository
var _ marketplace.ListingRepository = (*GormListingRepository)(nil)
