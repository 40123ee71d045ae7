package ports

import "context"

// SessionRegistry tracks the single valid refresh token per user.
// Writes are last-writer-wins on the user's key.
type SessionRegistry interface {
	// Store upserts the refresh token for userID with the registry TTL,
	// overwriting any prior entry
	Store(ctx context.Context, userID, refreshToken string) error

	// Lookup returns the active refresh token for userID,
	// or core.ErrSessionNotFound when no entry exists
	Lookup(ctx context.Context, userID string) (string, error)

	// Revoke deletes the entry for userID; deleting a missing entry is not an error
	Revoke(ctx context.Context, userID string) error

	// CompareAndRevoke deletes the entry for userID only if it equals expected.
	// Returns core.ErrSessionNotFound when the entry is absent or does not match.
	CompareAndRevoke(ctx context.Context, userID, expected string) error
}
