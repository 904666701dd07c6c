package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// ListingStatus
// ---------------------------------------------------------------------------

// ListingStatus represents the publication state of a listing
type ListingStatus string

const (
	// ListingStatusPublished indicates the listing exists on the platform
	ListingStatusPublished ListingStatus = "published"
	// ListingStatusError indicates the most recent publish attempt failed
	ListingStatusError ListingStatus = "error"
)

// IsValid returns true if the status is valid
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusPublished, ListingStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of ListingStatus
func (s ListingStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Listing Entity
// ---------------------------------------------------------------------------

// PayloadSnapshot records what was offered to the platform on the most
// recent attempt, for the sync-history screens.
type PayloadSnapshot struct {
	// Title is the listing title that was sent
	Title string `json:"title"`
	// Price is the price that was sent
	Price decimal.Decimal `json:"price"`
	// SentAt is when the attempt was made
	SentAt time.Time `json:"sent_at"`
}

// Listing records the publication state of one vehicle on one platform.
// At most one listing exists per (vehicle, platform) pair; republishing
// updates the row in place. A failed attempt overwrites status, error and
// snapshot but preserves any external identifiers from an earlier success.
type Listing struct {
	// ID is the unique identifier of the listing
	ID uuid.UUID
	// VehicleID is the vehicle this listing advertises
	VehicleID uuid.UUID
	// Platform is the marketplace this listing lives on
	Platform PlatformCode
	// ExternalID is the platform's identifier for the listing
	ExternalID string
	// ExternalURL is the public URL of the listing
	ExternalURL string
	// Status is published or error
	Status ListingStatus
	// LastError holds the failure message of the most recent failed attempt
	LastError string
	// LastSyncedAt is when the listing was last attempted
	LastSyncedAt *time.Time
	// Payload is the snapshot of the most recent attempt
	Payload *PayloadSnapshot
	// CreatedAt is when the listing row was first created
	CreatedAt time.Time
	// UpdatedAt is when the listing row was last modified
	UpdatedAt time.Time
}

// NewListing creates a listing row for a (vehicle, platform) pair
func NewListing(vehicleID uuid.UUID, platform PlatformCode) *Listing {
	now := time.Now()
	return &Listing{
		ID:        uuid.New(),
		VehicleID: vehicleID,
		Platform:  platform,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecordSuccess applies a successful publish result
func (l *Listing) RecordSuccess(result *PublishResult, payload *PayloadSnapshot, at time.Time) {
	l.Status = ListingStatusPublished
	l.ExternalID = result.ExternalID
	l.ExternalURL = result.ExternalURL
	l.LastError = ""
	l.LastSyncedAt = &at
	l.Payload = payload
	l.UpdatedAt = time.Now()
}

// RecordFailure applies a failed publish attempt. External identifiers and
// the success timestamp from a previous success are left untouched, so the
// platform listing stays reachable from the UI and LastSyncedAt keeps
// meaning "last time this listing was live".
func (l *Listing) RecordFailure(message string, payload *PayloadSnapshot) {
	l.Status = ListingStatusError
	l.LastError = message
	l.Payload = payload
	l.UpdatedAt = time.Now()
}

// IsPublished returns true if the listing is live on the platform
func (l *Listing) IsPublished() bool {
	return l.Status == ListingStatusPublished
}

// ---------------------------------------------------------------------------
// ListingRepository Interface
// ---------------------------------------------------------------------------

// ListingRepository defines the persistence port for listings
type ListingRepository interface {
	// FindByVehicleAndPlatform finds the listing for a (vehicle, platform) pair
	FindByVehicleAndPlatform(ctx context.Context, vehicleID uuid.UUID, platform PlatformCode) (*Listing, error)

	// ListByVehicle lists all listings for a vehicle across platforms
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]Listing, error)

	// Upsert inserts the listing or replaces the existing row for the same
	// (vehicle, platform) pair
	Upsert(ctx context.Context, listing *Listing) error
}
