package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/backend/internal/domain/marketplace"
)

// ConnectionModel is the persistence model for the Connection domain entity.
// The composite unique index enforces at most one connection per
// (branch, platform) pair.
type ConnectionModel struct {
	ID              uuid.UUID                    `gorm:"type:uuid;primary_key"`
	BranchID        uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex:idx_connections_branch_platform,priority:1"`
	Platform        marketplace.PlatformCode     `gorm:"type:varchar(20);not null;uniqueIndex:idx_connections_branch_platform,priority:2"`
	CredentialsJSON string                       `gorm:"type:jsonb;column:credentials;not null"`
	AccountID       string                       `gorm:"type:varchar(100)"`
	Status          marketplace.ConnectionStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastError       string                       `gorm:"type:text"`
	LastSyncAt      *time.Time                   `gorm:"index"`
	CreatedAt       time.Time                    `gorm:"not null"`
	UpdatedAt       time.Time                    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConnectionModel) TableName() string {
	return "marketplace_connections"
}

// ToDomain converts the persistence model to a domain Connection entity.
func (m *ConnectionModel) ToDomain() *marketplace.Connection {
	conn := &marketplace.Connection{
		ID:          m.ID,
		BranchID:    m.BranchID,
		Platform:    m.Platform,
		Credentials: make(marketplace.Credentials),
		AccountID:   m.AccountID,
		Status:      m.Status,
		LastError:   m.LastError,
		LastSyncAt:  m.LastSyncAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	if m.CredentialsJSON != "" {
		var creds marketplace.Credentials
		if err := json.Unmarshal([]byte(m.CredentialsJSON), &creds); err == nil {
			conn.Credentials = creds
		}
	}

	return conn
}

// FromDomain populates the persistence model from a domain Connection entity.
func (m *ConnectionModel) FromDomain(conn *marketplace.Connection) {
	m.ID = conn.ID
	m.BranchID = conn.BranchID
	m.Platform = conn.Platform
	m.AccountID = conn.AccountID
	m.Status = conn.Status
	m.LastError = conn.LastError
	m.LastSyncAt = conn.LastSyncAt
	m.CreatedAt = conn.CreatedAt
	m.UpdatedAt = conn.UpdatedAt

	if jsonBytes, err := json.Marshal(conn.Credentials); err == nil {
		m.CredentialsJSON = string(jsonBytes)
	} else {
		m.CredentialsJSON = "{}"
	}
}

// ConnectionModelFromDomain creates a new persistence model from a domain Connection entity.
func ConnectionModelFromDomain(conn *marketplace.Connection) *ConnectionModel {
	m := &ConnectionModel{}
	m.FromDomain(conn)
	return m
}

// ListingModel is the persistence model for the Listing domain entity.
// The composite unique index enforces at most one listing per
// (vehicle, platform) pair.
type ListingModel struct {
	ID           uuid.UUID                 `gorm:"type:uuid;primary_key"`
	VehicleID    uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_listings_vehicle_platform,priority:1"`
	Platform     marketplace.PlatformCode  `gorm:"type:varchar(20);not null;uniqueIndex:idx_listings_vehicle_platform,priority:2"`
	ExternalID   string                    `gorm:"type:varchar(100)"`
	ExternalURL  string                    `gorm:"type:varchar(500)"`
	Status       marketplace.ListingStatus `gorm:"type:varchar(20);not null"`
	LastError    string                    `gorm:"type:text"`
	LastSyncedAt *time.Time                `gorm:"index"`
	PayloadJSON  string                    `gorm:"type:jsonb;column:payload_sent"`
	CreatedAt    time.Time                 `gorm:"not null"`
	UpdatedAt    time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "marketplace_listings"
}

// ToDomain converts the persistence model to a domain Listing entity.
func (m *ListingModel) ToDomain() *marketplace.Listing {
	listing := &marketplace.Listing{
		ID:           m.ID,
		VehicleID:    m.VehicleID,
		Platform:     m.Platform,
		ExternalID:   m.ExternalID,
		ExternalURL:  m.ExternalURL,
		Status:       m.Status,
		LastError:    m.LastError,
		LastSyncedAt: m.LastSyncedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.PayloadJSON != "" {
		var payload marketplace.PayloadSnapshot
		if err := json.Unmarshal([]byte(m.PayloadJSON), &payload); err == nil {
			listing.Payload = &payload
		}
	}

	return listing
}

// FromDomain populates the persistence model from a domain Listing entity.
func (m *ListingModel) FromDomain(listing *marketplace.Listing) {
	m.ID = listing.ID
	m.VehicleID = listing.VehicleID
	m.Platform = listing.Platform
	m.ExternalID = listing.ExternalID
	m.ExternalURL = listing.ExternalURL
	m.Status = listing.Status
	m.LastError = listing.LastError
	m.LastSyncedAt = listing.LastSyncedAt
	m.CreatedAt = listing.CreatedAt
	m.UpdatedAt = listing.UpdatedAt

	if listing.Payload != nil {
		if jsonBytes, err := json.Marshal(listing.Payload); err == nil {
			m.PayloadJSON = string(jsonBytes)
		}
	} else {
		m.PayloadJSON = ""
	}
}

// ListingModelFromDomain creates a new persistence model from a domain Listing entity.
func ListingModelFromDomain(listing *marketplace.Listing) *ListingModel {
	m := &ListingModel{}
	m.FromDomain(listing)
	return m
}
