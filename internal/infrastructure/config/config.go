// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/auth"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/kafka"
)

// Config holds all configuration for riskd and riskctl.
type Config struct {
	GRPCPort        string
	HTTPPort        string
	Environment     string
	LogLevel        string
	LogFormat       string
	DatabaseURL     string
	MigrationsDir   string
	ArtifactDir     string
	AlertTopic      string
	KafkaClientID   string
	KafkaGroup      string
	KafkaSASLMech   string
	KafkaSASLUser   string
	KafkaSASLPass   string
	GRPCTLSCertFile string
	GRPCTLSKeyFile  string
	KafkaBrokers    []string
	ShutdownTimeout time.Duration
	GRPCReflection  bool
	KafkaTLS        bool

	// HTTPRateLimit caps REST requests per second; zero disables the limiter.
	HTTPRateLimit int

	// Bearer-token authentication is enabled when a secret or key file is set.
	AuthSecret         string
	AuthPublicKeyFile  string
	AuthPrivateKeyFile string
	AuthIssuer         string
	AuthTokenTTL       time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory, if present, is applied first without
// overriding variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	shutdown, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	reflection, err := strconv.ParseBool(getEnv("GRPC_REFLECTION", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRPC_REFLECTION: %w", err)
	}

	kafkaTLS, err := strconv.ParseBool(getEnv("KAFKA_TLS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid KAFKA_TLS: %w", err)
	}
	tokenTTL, err := time.ParseDuration(getEnv("AUTH_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL: %w", err)
	}
	rateLimit, err := strconv.Atoi(getEnv("HTTP_RATE_LIMIT_RPS", "0"))
	if err != nil || rateLimit < 0 {
		return nil, fmt.Errorf("invalid HTTP_RATE_LIMIT_RPS %q", getEnv("HTTP_RATE_LIMIT_RPS", "0"))
	}

	return &Config{
		GRPCPort:        getEnv("GRPC_PORT", "8090"),
		HTTPPort:        getEnv("HTTP_PORT", "9090"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		ArtifactDir:     getEnv("ARTIFACT_DIR", "models/artifacts"),
		AlertTopic:      getEnv("ALERT_TOPIC", "risk.alerts"),
		KafkaClientID:   getEnv("KAFKA_CLIENT_ID", "risk-insights"),
		KafkaGroup:      getEnv("KAFKA_CONSUMER_GROUP", "riskctl-alerts"),
		KafkaSASLMech:   getEnv("KAFKA_SASL_MECHANISM", ""),
		KafkaSASLUser:   getEnv("KAFKA_SASL_USERNAME", ""),
		KafkaSASLPass:   getEnv("KAFKA_SASL_PASSWORD", ""),
		KafkaBrokers:    kafka.ParseBrokers(getEnv("KAFKA_BROKERS", "")),
		KafkaTLS:        kafkaTLS,
		GRPCTLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		GRPCReflection:  reflection,
		ShutdownTimeout: shutdown,
		HTTPRateLimit:   rateLimit,

		AuthSecret:         getEnv("AUTH_JWT_SECRET", ""),
		AuthPublicKeyFile:  getEnv("AUTH_JWT_PUBLIC_KEY_FILE", ""),
		AuthPrivateKeyFile: getEnv("AUTH_JWT_PRIVATE_KEY_FILE", ""),
		AuthIssuer:         getEnv("AUTH_ISSUER", "risk-insights"),
		AuthTokenTTL:       tokenTTL,
	}, nil
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// Kafka returns the broker settings used for alert publishing and
// consumption. SASL is enabled when a mechanism is named.
func (c *Config) Kafka() kafka.Config {
	return kafka.Config{
		Brokers:       c.KafkaBrokers,
		ClientID:      c.KafkaClientID,
		ConsumerGroup: c.KafkaGroup,
		TLS:           c.KafkaTLS,
		SASLEnabled:   c.KafkaSASLMech != "",
		SASLMechanism: c.KafkaSASLMech,
		SASLUsername:  c.KafkaSASLUser,
		SASLPassword:  c.KafkaSASLPass,
	}
}

// Auth returns the token settings, reading any configured key files.
func (c *Config) Auth() (auth.Config, error) {
	cfg := auth.Config{Secret: c.AuthSecret, Issuer: c.AuthIssuer, TTL: c.AuthTokenTTL}

	var err error
	if c.AuthPrivateKeyFile != "" {
		if cfg.PrivateKeyPEM, err = os.ReadFile(c.AuthPrivateKeyFile); err != nil {
			return auth.Config{}, fmt.Errorf("failed to read AUTH_JWT_PRIVATE_KEY_FILE: %w", err)
		}
	}
	if c.AuthPublicKeyFile != "" {
		if cfg.PublicKeyPEM, err = os.ReadFile(c.AuthPublicKeyFile); err != nil {
			return auth.Config{}, fmt.Errorf("failed to read AUTH_JWT_PUBLIC_KEY_FILE: %w", err)
		}
	}
	return cfg, nil
}

// UsePostgres reports whether artifacts are stored in PostgreSQL rather than on disk.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
