package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/marketloop/authd/ports"
)

const (
	// SignupTopic is the topic for account creation events
	SignupTopic = "auth.signup"

	// LogoutTopic is the topic for logout events
	LogoutTopic = "auth.logout"
)

// SessionEvent is the payload published on session lifecycle topics
type SessionEvent struct {
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishSignup publishes an account creation event
func (p *WatermillPublisher) PublishSignup(ctx context.Context, userID string) error {
	return p.publish(SignupTopic, userID)
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, userID string) error {
	return p.publish(LogoutTopic, userID)
}

func (p *WatermillPublisher) publish(topic, userID string) error {
	event := SessionEvent{
		UserID: userID,
		At:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
