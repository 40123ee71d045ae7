package userstore

import (
	"context"
	"sync"

	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/ports"
)

// MemoryStore is an in-memory implementation of the UserStore interface,
// intended for tests
type MemoryStore struct {
	byID    map[string]*core.User
	byEmail map[string]*core.User
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory user store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*core.User),
		byEmail: make(map[string]*core.User),
	}
}

// FindByEmail returns the user registered under email
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// FindByID returns the user with the given identifier
func (s *MemoryStore) FindByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// Create inserts a new user, enforcing email uniqueness
func (s *MemoryStore) Create(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return core.ErrEmailTaken
	}

	copied := *user
	s.byID[copied.ID] = &copied
	s.byEmail[copied.Email] = &copied
	return nil
}

var _ ports.UserStore = (*MemoryStore)(nil)
