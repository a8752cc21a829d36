package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Header names set on every published message.
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// Envelope is the wire form of a domain event: identity fields plus the
// JSON-encoded concrete event under Data.
type Envelope struct {
	OccurredAt    time.Time       `json:"occurred_at"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	Data          json.RawMessage `json:"data"`
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
}

// NewEnvelope wraps event for publication.
func NewEnvelope(event DomainEvent) (Envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s event: %w", event.EventType(), err)
	}
	return Envelope{
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt(),
		Data:          data,
	}, nil
}

// Key is the partition key: every event of one aggregate shares it.
func (e Envelope) Key() []byte {
	return []byte(e.AggregateID.String())
}

// Headers returns the message headers consumers can filter on without
// decoding the body.
func (e Envelope) Headers() map[string]string {
	return map[string]string{
		HeaderEventType: e.EventType,
		HeaderEventID:   e.EventID.String(),
	}
}
