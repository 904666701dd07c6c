package shared

import (
	"context"
	"time"
)

// SyncLock guards a resource against concurrent synchronization runs.
// Acquire returns true when the caller now holds the lock, false when
// another run already holds it. Locks expire on their own after the TTL so
// a crashed run cannot wedge a branch forever.
type SyncLock interface {
	// Acquire attempts to take the lock for the given key
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the lock for the given key
	Release(ctx context.Context, key string) error
}
