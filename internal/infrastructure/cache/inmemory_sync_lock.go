package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dealerhub/backend/internal/domain/shared"
)

// InMemorySyncLock implements shared.SyncLock with a local map. Suitable for
// single-node deployments and tests; expired entries are reaped lazily on
// the next Acquire for the same key.
type InMemorySyncLock struct {
	mu    sync.Mutex
	locks map[string]time.Time // key -> expiration
}

// NewInMemorySyncLock creates a new in-memory sync lock
func NewInMemorySyncLock() *InMemorySyncLock {
	return &InMemorySyncLock{
		locks: make(map[string]time.Time),
	}
}

// Acquire attempts to take the lock for the given key
func (l *InMemorySyncLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiresAt, held := l.locks[key]; held && now.Before(expiresAt) {
		return false, nil
	}

	l.locks[key] = now.Add(ttl)
	return true, nil
}

// Release frees the lock for the given key
func (l *InMemorySyncLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.locks, key)
	return nil
}

// Ensure InMemorySyncLock implements SyncLock
var _ shared.SyncLock = (*InMemorySyncLock)(nil)
