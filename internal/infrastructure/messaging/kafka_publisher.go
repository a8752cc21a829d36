// Package messaging delivers domain events to Kafka or, when no broker is
// configured, to the structured log.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/events"
	pkgkafka "github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/kafka"
)

// Producer is the subset of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaPublisher implements port.EventPublisher using Kafka. Messages are
// keyed by aggregate ID so every event of one batch lands on one partition.
type KafkaPublisher struct {
	producer Producer
	logger   *slog.Logger
	topic    string
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish sends domain events to Kafka in a single write.
func (p *KafkaPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, evt := range domainEvents {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}

		messages = append(messages, pkgkafka.Message{
			Key:     env.Key(),
			Value:   payload,
			Headers: env.Headers(),
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(messages), err)
	}

	p.logger.DebugContext(ctx, "published events",
		slog.String("topic", p.topic),
		slog.Int("count", len(messages)),
	)
	return nil
}
