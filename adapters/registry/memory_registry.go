package registry

import (
	"context"
	"sync"
	"time"

	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/ports"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// MemoryRegistry is an in-memory implementation of the SessionRegistry
// interface, intended for tests
type MemoryRegistry struct {
	entries map[string]entry
	ttl     time.Duration
	mu      sync.Mutex
}

// NewMemoryRegistry creates a new in-memory session registry
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &MemoryRegistry{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Store upserts the refresh token for userID
func (r *MemoryRegistry) Store(ctx context.Context, userID, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[userID] = entry{token: refreshToken, expiresAt: time.Now().Add(r.ttl)}
	return nil
}

// Lookup returns the active refresh token for userID
func (r *MemoryRegistry) Lookup(ctx context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[userID]
	if !ok || time.Now().After(e.expiresAt) {
		return "", core.ErrSessionNotFound
	}
	return e.token, nil
}

// Revoke deletes the entry for userID
func (r *MemoryRegistry) Revoke(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, userID)
	return nil
}

// CompareAndRevoke deletes the entry for userID if it equals expected
func (r *MemoryRegistry) CompareAndRevoke(ctx context.Context, userID, expected string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[userID]
	if !ok || time.Now().After(e.expiresAt) || e.token != expected {
		return core.ErrSessionNotFound
	}
	delete(r.entries, userID)
	return nil
}

var _ ports.SessionRegistry = (*MemoryRegistry)(nil)
