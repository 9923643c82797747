package outbox

import (
	"context"

	"github.com/rs/zerolog/log"
)

// EventPublisher delivers outbox events to the bus.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// MockPublisher is a simple in-memory publisher for development/testing.
type MockPublisher struct{}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (p *MockPublisher) Publish(ctx context.Context, event Event) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Msg("publishing event")
	return nil
}
