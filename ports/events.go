package ports

import "context"

// EventPublisher publishes session lifecycle events to notify other services
type EventPublisher interface {
	PublishSignup(ctx context.Context, userID string) error
	PublishLogout(ctx context.Context, userID string) error
}
