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

// GormConnectionRepository implements marketplace.ConnectionRepository using GORM
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GormConnectionRepository
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// FindByBranchAndPlatform finds the connection for a (branch, platform) pair
func (r *GormConnectionRepository) FindByBranchAndPlatform(ctx context.Context, branchID uuid.UUID, platform marketplace.PlatformCode) (*marketplace.Connection, error) {
	var model models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND platform = ?", branchID, platform).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByBranch lists all connections for a branch
func (r *GormConnectionRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]marketplace.Connection, error) {
	var connectionModels []models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("platform ASC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}

	connections := make([]marketplace.Connection, len(connectionModels))
	for i, model := range connectionModels {
		connections[i] = *model.ToDomain()
	}
	return connections, nil
}

// ListActiveByBranch lists only the active connections for a branch
func (r *GormConnectionRepository) ListActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]marketplace.Connection, error) {
	var connectionModels []models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND status = ?", branchID, marketplace.ConnectionStatusActive).
		Order("platform ASC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}

	connections := make([]marketplace.Connection, len(connectionModels))
	for i, model := range connectionModels {
		connections[i] = *model.ToDomain()
	}
	return connections, nil
}

// ListBranchesWithConnections returns the distinct branch IDs having at
// least one connection
func (r *GormConnectionRepository) ListBranchesWithConnections(ctx context.Context) ([]uuid.UUID, error) {
	var branchIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ConnectionModel{}).
		Distinct("branch_id").
		Order("branch_id ASC").
		Pluck("branch_id", &branchIDs).Error; err != nil {
		return nil, err
	}
	return branchIDs, nil
}

// Upsert inserts the connection or replaces the existing row for the same
// (branch, platform) pair. Reconnecting keeps the original row id and
// created_at; everything else is overwritten.
func (r *GormConnectionRepository) Upsert(ctx context.Context, conn *marketplace.Connection) error {
	model := models.ConnectionModelFromDomain(conn)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "branch_id"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"credentials", "account_id", "status", "last_error", "last_sync_at", "updated_at",
			}),
		}).
		Create(model).Error
}

// Update persists status, error and sync timestamp changes
func (r *GormConnectionRepository) Update(ctx context.Context, conn *marketplace.Connection) error {
	model := models.ConnectionModelFromDomain(conn)
	result := r.db.WithContext(ctx).
		Model(&models.ConnectionModel{}).
		Where("branch_id = ? AND platform = ?", conn.BranchID, conn.Platform).
		Updates(map[string]any{
			"credentials":  model.CredentialsJSON,
			"account_id":   model.AccountID,
			"status":       model.Status,
			"last_error":   model.LastError,
			"last_sync_at": model.LastSyncAt,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the connection for a (branch, platform) pair
func (r *GormConnectionRepository) Delete(ctx context.Context, branchID uuid.UUID, platform marketplace.PlatformCode) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ConnectionModel{}, "branch_id = ? AND platform = ?", branchID, platform)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormConnectionRepository implements ConnectionRepository
var _ marketplace.ConnectionRepository = (*GormConnectionRepository)(nil)
