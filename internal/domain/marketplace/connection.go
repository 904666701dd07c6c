package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ConnectionStatus
// ---------------------------------------------------------------------------

// ConnectionStatus represents the health of a marketplace connection
type ConnectionStatus string

const (
	// ConnectionStatusActive indicates the connection is usable for publishing
	ConnectionStatusActive ConnectionStatus = "active"
	// ConnectionStatusError indicates the last sync batch failed entirely
	ConnectionStatusError ConnectionStatus = "error"
)

// IsValid returns true if the status is valid
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionStatusActive, ConnectionStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of ConnectionStatus
func (s ConnectionStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Connection Entity
// ---------------------------------------------------------------------------

// Connection links one branch to one marketplace account. At most one
// connection exists per (branch, platform) pair; reconnecting replaces the
// stored credentials in place.
type Connection struct {
	// ID is the unique identifier of the connection
	ID uuid.UUID
	// BranchID is the branch this connection belongs to
	BranchID uuid.UUID
	// Platform is the marketplace this connection targets
	Platform PlatformCode
	// Credentials is the normalized credential bundle returned by Validate
	Credentials Credentials
	// AccountID is the platform account identifier resolved at connect time
	AccountID string
	// Status is active or error
	Status ConnectionStatus
	// LastError holds the most recent failure message, if any
	LastError string
	// LastSyncAt is when this connection last completed a sync attempt
	LastSyncAt *time.Time
	// CreatedAt is when the connection was first established
	CreatedAt time.Time
	// UpdatedAt is when the connection was last modified
	UpdatedAt time.Time
}

// NewConnection creates an active connection from a validation result
func NewConnection(branchID uuid.UUID, platform PlatformCode, result *ValidationResult) *Connection {
	now := time.Now()
	return &Connection{
		ID:          uuid.New(),
		BranchID:    branchID,
		Platform:    platform,
		Credentials: result.Credentials,
		AccountID:   result.AccountID,
		Status:      ConnectionStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsActive returns true if the connection is usable for publishing
func (c *Connection) IsActive() bool {
	return c.Status == ConnectionStatusActive
}

// MarkSynced records a completed sync attempt. A non-empty lastError is
// kept for diagnostics but does not by itself degrade the connection.
func (c *Connection) MarkSynced(at time.Time, lastError string) {
	c.LastSyncAt = &at
	c.LastError = lastError
	c.UpdatedAt = time.Now()
}

// MarkDegraded flips the connection to error status. Called when every
// publish attempt for this connection failed within one sync batch. A
// degraded connection stays out of publishing until the branch reconnects,
// which re-validates the credentials and upserts it back to active.
func (c *Connection) MarkDegraded(at time.Time, lastError string) {
	c.Status = ConnectionStatusError
	c.LastSyncAt = &at
	c.LastError = lastError
	c.UpdatedAt = time.Now()
}

// ---------------------------------------------------------------------------
// ConnectionRepository Interface
// ---------------------------------------------------------------------------

// ConnectionRepository defines the persistence port for connections
type ConnectionRepository interface {
	// FindByBranchAndPlatform finds the connection for a (branch, platform)
	// pair regardless of status
	FindByBranchAndPlatform(ctx context.Context, branchID uuid.UUID, platform PlatformCode) (*Connection, error)

	// ListByBranch lists all connections for a branch
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]Connection, error)

	// ListActiveByBranch lists only the active connections for a branch;
	// degraded connections are excluded from publishing until reconnected
	ListActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]Connection, error)

	// ListBranchesWithConnections returns the distinct branch IDs having at
	// least one connection, used by the periodic re-sync scheduler
	ListBranchesWithConnections(ctx context.Context) ([]uuid.UUID, error)

	// Upsert inserts the connection or replaces the existing row for the
	// same (branch, platform) pair
	Upsert(ctx context.Context, conn *Connection) error

	// Update persists status, error and sync timestamp changes
	Update(ctx context.Context, conn *Connection) error

	// Delete removes the connection for a (branch, platform) pair
	Delete(ctx context.Context, branchID uuid.UUID, platform PlatformCode) error
}
