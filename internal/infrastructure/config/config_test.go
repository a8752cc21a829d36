package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.GRPCAddress())
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, "risk.alerts", cfg.AlertTopic)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.Kafka().Enabled())
	assert.Zero(t, cfg.HTTPRateLimit)

	acfg, err := cfg.Auth()
	require.NoError(t, err)
	assert.False(t, acfg.Enabled())
	assert.Equal(t, "risk-insights", acfg.Issuer)
	assert.Equal(t, time.Hour, acfg.TTL)
}

func TestConfig_AuthKeyFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	keyFile := filepath.Join(dir, "jwt_public.pem")
	require.NoError(t, os.WriteFile(keyFile, []byte("-----BEGIN PUBLIC KEY-----"), 0o600))
	t.Setenv("AUTH_JWT_PUBLIC_KEY_FILE", keyFile)

	cfg, err := config.Load()
	require.NoError(t, err)

	acfg, err := cfg.Auth()
	require.NoError(t, err)
	assert.True(t, acfg.Enabled())
	assert.Equal(t, "-----BEGIN PUBLIC KEY-----", string(acfg.PublicKeyPEM))

	t.Setenv("AUTH_JWT_PRIVATE_KEY_FILE", filepath.Join(dir, "missing.pem"))
	cfg, err = config.Load()
	require.NoError(t, err)
	_, err = cfg.Auth()
	assert.ErrorContains(t, err, "AUTH_JWT_PRIVATE_KEY_FILE")
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "8000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DATABASE_URL", "postgres://risk@db/risk")
	t.Setenv("GRPC_REFLECTION", "true")
	t.Setenv("KAFKA_SASL_MECHANISM", "SCRAM-SHA-512")
	t.Setenv("KAFKA_TLS", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddress())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka().Brokers)
	assert.True(t, cfg.UsePostgres())
	assert.True(t, cfg.GRPCReflection)

	kcfg := cfg.Kafka()
	assert.True(t, kcfg.SASLEnabled)
	assert.True(t, kcfg.TLS)
	assert.Equal(t, "SCRAM-SHA-512", kcfg.SASLMechanism)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ALERT_TOPIC=from-file\nGRPC_PORT=7000\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("GRPC_PORT", "7100")
	t.Setenv("ALERT_TOPIC", "")
	os.Unsetenv("ALERT_TOPIC")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.AlertTopic)
	assert.Equal(t, ":7100", cfg.GRPCAddress())
	os.Unsetenv("ALERT_TOPIC")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SHUTDOWN_TIMEOUT", "soon"},
		{"GRPC_REFLECTION", "maybe"},
		{"HTTP_RATE_LIMIT_RPS", "-3"},
		{"KAFKA_TLS", "sometimes"},
		{"AUTH_TOKEN_TTL", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
