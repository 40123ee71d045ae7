package ports

import (
	"context"

	"github.com/marketloop/authd/core"
)

// UserStore persists user records in the credential store
type UserStore interface {
	// FindByEmail returns the user registered under email, or core.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*core.User, error)

	// FindByID returns the user with the given identifier, or core.ErrUserNotFound
	FindByID(ctx context.Context, id string) (*core.User, error)

	// Create inserts a new user; a duplicate email yields core.ErrEmailTaken
	Create(ctx context.Context, user *core.User) error
}
