package kafka

import (
	"context"
	"log/slog"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9093"}, ParseBrokers(" a:9092, ,b:9093 "))
	assert.Nil(t, ParseBrokers(""))
}

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}, ClientID: "riskd"})
	require.NoError(t, err)
	assert.Len(t, p.brokers, 2)
	assert.Empty(t, p.writers)
	assert.Equal(t, "riskd", p.transport.ClientID)

	w := p.writer("risk.alerts")
	assert.Same(t, w, p.writer("risk.alerts"))
	assert.Len(t, p.writers, 1)
	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(Config{})
	assert.Error(t, err)
}

func TestProducer_PublishNothing(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	assert.NoError(t, p.Publish(context.Background(), "risk.alerts"))
	assert.Empty(t, p.writers)
}

func TestConfig_Mechanism(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantNil bool
		wantErr bool
	}{
		{name: "disabled", cfg: Config{}, wantNil: true},
		{name: "plain", cfg: Config{SASLEnabled: true, SASLMechanism: "PLAIN", SASLUsername: "u", SASLPassword: "p"}},
		{name: "scram 512", cfg: Config{SASLEnabled: true, SASLMechanism: "SCRAM-SHA-512", SASLUsername: "u", SASLPassword: "p"}},
		{name: "unknown", cfg: Config{SASLEnabled: true, SASLMechanism: "GSSAPI"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.cfg.mechanism()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNil, m == nil)
		})
	}
}

func TestConfig_TLS(t *testing.T) {
	assert.Nil(t, Config{}.tlsConfig())
	assert.NotNil(t, Config{TLS: true}.tlsConfig())
}

func TestFromKafka(t *testing.T) {
	msg := fromKafka(kafkago.Message{
		Key:     []byte("batch"),
		Value:   []byte(`{}`),
		Headers: []kafkago.Header{{Key: "event_type", Value: []byte("risk.transaction.flagged")}},
	})
	assert.Equal(t, "batch", string(msg.Key))
	assert.Equal(t, "risk.transaction.flagged", msg.Headers["event_type"])
}

func TestNewConsumer_NoBrokers(t *testing.T) {
	_, err := NewConsumer(Config{}, "risk.alerts", nil, slog.Default())
	assert.Error(t, err)
}
