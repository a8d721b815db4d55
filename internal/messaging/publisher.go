package messaging

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/toklytics/toklytics-live/internal/domain"
)

// Publisher defines the interface for publishing power-up lifecycle events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishLifecycleEvent publishes a committed power-up lifecycle change
	PublishLifecycleEvent(ctx context.Context, event *domain.PowerUpLifecycleEvent) error
	// Close closes the connection
	Close()
}

// NewLifecycleEvent creates a lifecycle event with a fresh, time-ordered event ID.
// The ID doubles as the broker's message ID for duplicate detection.
func NewLifecycleEvent(eventType domain.PowerUpLifecycleEventType, at time.Time) *domain.PowerUpLifecycleEvent {
	return &domain.PowerUpLifecycleEvent{
		EventID:   ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		EventType: eventType,
		Timestamp: at,
	}
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event, used when no broker is configured
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishLifecycleEvent(context.Context, *domain.PowerUpLifecycleEvent) error {
	return nil
}

func (noopPublisher) Close() {}
