package marketplace

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/backend/internal/domain/marketplace"
)

// ConnectInput carries everything needed to connect a branch to a marketplace
type ConnectInput struct {
	BranchID    uuid.UUID
	Platform    marketplace.PlatformCode
	Credentials marketplace.Credentials
}

// ConnectionDTO is the read model of a connection. Credentials are redacted;
// secrets never leave the service layer in clear text.
type ConnectionDTO struct {
	ID           uuid.UUID                `json:"id"`
	BranchID     uuid.UUID                `json:"branch_id"`
	Platform     marketplace.PlatformCode `json:"platform"`
	PlatformName string                   `json:"platform_name"`
	AccountID    string                   `json:"account_id,omitempty"`
	Status       string                   `json:"status"`
	LastError    string                   `json:"last_error,omitempty"`
	LastSyncAt   *time.Time               `json:"last_sync_at,omitempty"`
	Credentials  marketplace.Credentials  `json:"credentials"`
	CreatedAt    time.Time                `json:"created_at"`
}

// NewConnectionDTO builds a ConnectionDTO from a domain Connection
func NewConnectionDTO(conn *marketplace.Connection) ConnectionDTO {
	return ConnectionDTO{
		ID:           conn.ID,
		BranchID:     conn.BranchID,
		Platform:     conn.Platform,
		PlatformName: conn.Platform.DisplayName(),
		AccountID:    conn.AccountID,
		Status:       conn.Status.String(),
		LastError:    conn.LastError,
		LastSyncAt:   conn.LastSyncAt,
		Credentials:  conn.Credentials.Redacted(),
		CreatedAt:    conn.CreatedAt,
	}
}

// PublishInput identifies the (vehicle, platform) pair to publish
type PublishInput struct {
	VehicleID uuid.UUID
	Platform  marketplace.PlatformCode
}

// ListingDTO is the read model of a listing
type ListingDTO struct {
	ID           uuid.UUID                `json:"id"`
	VehicleID    uuid.UUID                `json:"vehicle_id"`
	Platform     marketplace.PlatformCode `json:"platform"`
	PlatformName string                   `json:"platform_name"`
	Status       string                   `json:"status"`
	ExternalID   string                   `json:"external_id,omitempty"`
	ExternalURL  string                   `json:"external_url,omitempty"`
	LastError    string                   `json:"last_error,omitempty"`
	LastSyncedAt *time.Time               `json:"last_synced_at,omitempty"`
	PayloadTitle string                   `json:"payload_title,omitempty"`
	PayloadPrice *decimal.Decimal         `json:"payload_price,omitempty"`
}

// NewListingDTO builds a ListingDTO from a domain Listing
func NewListingDTO(listing *marketplace.Listing) ListingDTO {
	dto := ListingDTO{
		ID:           listing.ID,
		VehicleID:    listing.VehicleID,
		Platform:     listing.Platform,
		PlatformName: listing.Platform.DisplayName(),
		Status:       listing.Status.String(),
		ExternalID:   listing.ExternalID,
		ExternalURL:  listing.ExternalURL,
		LastError:    listing.LastError,
		LastSyncedAt: listing.LastSyncedAt,
	}
	if listing.Payload != nil {
		dto.PayloadTitle = listing.Payload.Title
		price := listing.Payload.Price
		dto.PayloadPrice = &price
	}
	return dto
}

// SyncError describes one failed (vehicle, platform) attempt within a sync run
type SyncError struct {
	VehicleID uuid.UUID                `json:"vehicle_id"`
	Platform  marketplace.PlatformCode `json:"platform"`
	Message   string                   `json:"message"`
}

// SyncResult summarizes a branch sync run. TotalAttempts is always the full
// cross product of connections and vehicles, failed attempts included.
type SyncResult struct {
	BranchID      uuid.UUID   `json:"branch_id"`
	Synced        int         `json:"synced"`
	TotalAttempts int         `json:"total_attempts"`
	Errors        []SyncError `json:"errors"`
}
