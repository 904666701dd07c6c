package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/backend/internal/domain/dealership"
)

// VehicleModel is the persistence model for the Vehicle domain entity.
type VehicleModel struct {
	ID           uuid.UUID                `gorm:"type:uuid;primary_key"`
	BranchID     uuid.UUID                `gorm:"type:uuid;not null;index:idx_vehicles_branch,priority:1"`
	Make         string                   `gorm:"type:varchar(100);not null"`
	Model        string                   `gorm:"type:varchar(100);not null"`
	Year         int                      `gorm:"not null"`
	Price        decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	Mileage      int                      `gorm:"not null;default:0"`
	Category     string                   `gorm:"type:varchar(20);not null;default:'used'"`
	FuelType     string                   `gorm:"type:varchar(30)"`
	Transmission string                   `gorm:"type:varchar(30)"`
	Color        string                   `gorm:"type:varchar(50)"`
	Description  string                   `gorm:"type:text"`
	ImagesJSON   string                   `gorm:"type:jsonb;column:images"`
	Status       dealership.VehicleStatus `gorm:"type:varchar(20);not null;default:'available';index:idx_vehicles_branch,priority:2"`
	CreatedAt    time.Time                `gorm:"not null"`
	UpdatedAt    time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VehicleModel) TableName() string {
	return "vehicles"
}

// ToDomain converts the persistence model to a domain Vehicle entity.
func (m *VehicleModel) ToDomain() *dealership.Vehicle {
	v := &dealership.Vehicle{
		ID:           m.ID,
		BranchID:     m.BranchID,
		Make:         m.Make,
		Model:        m.Model,
		Year:         m.Year,
		Price:        m.Price,
		Mileage:      m.Mileage,
		Category:     m.Category,
		FuelType:     m.FuelType,
		Transmission: m.Transmission,
		Color:        m.Color,
		Description:  m.Description,
		Images:       make([]string, 0),
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.ImagesJSON != "" {
		var images []string
		if err := json.Unmarshal([]byte(m.ImagesJSON), &images); err == nil {
			v.Images = images
		}
	}

	return v
}

// FromDomain populates the persistence model from a domain Vehicle entity.
func (m *VehicleModel) FromDomain(v *dealership.Vehicle) {
	m.ID = v.ID
	m.BranchID = v.BranchID
	m.Make = v.Make
	m.Model = v.Model
	m.Year = v.Year
	m.Price = v.Price
	m.Mileage = v.Mileage
	m.Category = v.Category
	m.FuelType = v.FuelType
	m.Transmission = v.Transmission
	m.Color = v.Color
	m.Description = v.Description
	m.Status = v.Status
	m.CreatedAt = v.CreatedAt
	m.UpdatedAt = v.UpdatedAt

	if len(v.Images) > 0 {
		if jsonBytes, err := json.Marshal(v.Images); err == nil {
			m.ImagesJSON = string(jsonBytes)
		}
	} else {
		m.ImagesJSON = "[]"
	}
}

// VehicleModelFromDomain creates a new persistence model from a domain Vehicle entity.
func VehicleModelFromDomain(v *dealership.Vehicle) *VehicleModel {
	m := &VehicleModel{}
	m.FromDomain(v)
	return m
}
