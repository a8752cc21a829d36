package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/events"
	pkgkafka "github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/kafka"
)

// DecodeEnvelope parses a message written by KafkaPublisher.
func DecodeEnvelope(msg pkgkafka.Message) (events.Envelope, error) {
	var env events.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return events.Envelope{}, fmt.Errorf("failed to decode event envelope: %w", err)
	}
	if env.EventType == "" {
		env.EventType = msg.Headers[events.HeaderEventType]
	}
	return env, nil
}

// NewAlertPrinter returns a consumer handler that writes each envelope of an
// accepted event type to w as one JSON line. An empty types list accepts
// every event. done, when non-nil, is called after each printed envelope.
func NewAlertPrinter(w io.Writer, types []string, done func()) pkgkafka.Handler {
	accept := make(map[string]bool, len(types))
	for _, t := range types {
		accept[t] = true
	}
	var mu sync.Mutex
	enc := json.NewEncoder(w)

	return func(_ context.Context, msg pkgkafka.Message) error {
		env, err := DecodeEnvelope(msg)
		if err != nil {
			return err
		}
		if len(accept) > 0 && !accept[env.EventType] {
			return nil
		}

		mu.Lock()
		err = enc.Encode(env)
		mu.Unlock()
		if err != nil {
			return fmt.Errorf("failed to write alert: %w", err)
		}
		if done != nil {
			done()
		}
		return nil
	}
}
