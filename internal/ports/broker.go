package ports

import (
	"context"
	"time"
)

// BrokerMessage is a distributed event on its way to the message broker.
type BrokerMessage struct {
	ID            string    `json:"id"`
	EventType     string    `json:"event_type"`
	Order         int64     `json:"order"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Payload       []byte    `json:"payload"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventBroker publishes distributed events to other services.
// Implemented by the broker adapter; called by the event publisher for
// direct sends and by the outbox relay for staged records.
type EventBroker interface {
	Publish(ctx context.Context, msg BrokerMessage) error
}
