package dealership

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// VehicleStatus
// ---------------------------------------------------------------------------

// VehicleStatus represents the sales status of a vehicle
type VehicleStatus string

const (
	// VehicleStatusAvailable indicates the vehicle is in stock and sellable
	VehicleStatusAvailable VehicleStatus = "available"
	// VehicleStatusReserved indicates the vehicle is reserved for a customer
	VehicleStatusReserved VehicleStatus = "reserved"
	// VehicleStatusSold indicates the vehicle has been sold
	VehicleStatusSold VehicleStatus = "sold"
)

// IsValid returns true if the status is valid
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusReserved, VehicleStatusSold:
		return true
	default:
		return false
	}
}

// String returns the string representation of VehicleStatus
func (s VehicleStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Vehicle Entity
// ---------------------------------------------------------------------------

// Vehicle represents a vehicle in a branch's inventory. The marketplace
// subsystem reads vehicles but never mutates them; ownership of the record
// stays with the inventory screens.
type Vehicle struct {
	// ID is the unique identifier of the vehicle
	ID uuid.UUID
	// BranchID is the branch (dealership location) owning this vehicle
	BranchID uuid.UUID
	// Make is the manufacturer (e.g. "Toyota")
	Make string
	// Model is the commercial model name (e.g. "Corolla XEi")
	Model string
	// Year is the model year
	Year int
	// Price is the asking price
	Price decimal.Decimal
	// Mileage is the odometer reading in kilometers
	Mileage int
	// Category is the stock category ("new" or "used")
	Category string
	// FuelType is the fuel type (e.g. "flex", "gasoline", "diesel")
	FuelType string
	// Transmission is the gearbox type (e.g. "manual", "automatic")
	Transmission string
	// Color is the exterior color
	Color string
	// Description is the free-text sales description
	Description string
	// Images contains the ordered photo URLs
	Images []string
	// Status is the sales status; only available vehicles are sync-eligible
	Status VehicleStatus
	// CreatedAt is when the vehicle was registered
	CreatedAt time.Time
	// UpdatedAt is when the vehicle was last updated
	UpdatedAt time.Time
}

// ListingTitle builds the marketplace listing title for this vehicle
func (v *Vehicle) ListingTitle() string {
	return fmt.Sprintf("%s %s %d", v.Make, v.Model, v.Year)
}

// IsAvailable returns true if the vehicle is eligible for marketplace sync
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

// HasBranch returns true if the vehicle is assigned to a branch
func (v *Vehicle) HasBranch() bool {
	return v.BranchID != uuid.Nil
}

// ---------------------------------------------------------------------------
// Actor
// ---------------------------------------------------------------------------

// Actor identifies the authenticated caller of a branch-scoped operation.
// It is resolved from JWT claims at the HTTP boundary.
type Actor struct {
	// UserID is the authenticated user's ID
	UserID uuid.UUID
	// BranchID is the branch the user belongs to
	BranchID uuid.UUID
}

// CanAccessBranch returns true if the actor may operate on the given branch.
// Cross-branch access is never allowed for marketplace operations.
func (a Actor) CanAccessBranch(branchID uuid.UUID) bool {
	return a.BranchID != uuid.Nil && a.BranchID == branchID
}

// ---------------------------------------------------------------------------
// VehicleRepository Interface
// ---------------------------------------------------------------------------

// VehicleRepository defines the read-only port the marketplace subsystem
// uses to access vehicles.
type VehicleRepository interface {
	// FindByID finds a vehicle by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// ListAvailableByBranch lists all available vehicles for a branch
	ListAvailableByBranch(ctx context.Context, branchID uuid.UUID) ([]Vehicle, error)
}
