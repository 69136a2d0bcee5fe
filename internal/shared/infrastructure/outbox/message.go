// Package outbox implements the transactional-outbox queue that carries
// completed-assessment measurements from the local session store to the
// clinic side. Messages are dispatched at least once; de-duplication beyond
// that is the transport's concern.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/cmas/internal/shared/domain"
	"github.com/google/uuid"
)

// Message is one queued domain event awaiting dispatch.
type Message struct {
	ID            int64
	EventID       uuid.UUID
	AggregateID   uuid.UUID
	AggregateType string
	RoutingKey    string
	Payload       json.RawMessage
	CreatedAt     time.Time
	DispatchedAt  *time.Time
	NextRetryAt   *time.Time
	RetryCount    int
	LastError     *string
	DeadAt        *time.Time
	DeadReason    *string
}

// NewMessage wraps a domain event for queueing.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &Message{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// IsDispatched reports whether the message has been delivered.
func (m *Message) IsDispatched() bool {
	return m.DispatchedAt != nil
}
