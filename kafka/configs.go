package kafka

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config defines the configuration structure for the Kafka consumer client.
// ServiceName and Brokers are required; every optional field falls back to a
// named environment variable (via ConfigFromEnv) and then to a literal
// default, in that fixed precedence order.
type Config struct {
	// ServiceName identifies the service that owns this consumer.
	// It is attached to lifecycle log entries and used as the default
	// consumer group ID when GroupID is empty. Required.
	ServiceName string `envconfig:"KAFKA_SERVICE_NAME"`

	// Brokers is the list of Kafka broker addresses. Required.
	Brokers []string `envconfig:"KAFKA_BROKERS"`

	// GroupID is the consumer group ID for coordinated consumption.
	//
	// Default: ServiceName
	GroupID string `envconfig:"KAFKA_GROUP_ID"`

	// MinBytes is the minimum number of bytes to fetch in a single request.
	// Default: 1 byte
	MinBytes int `envconfig:"KAFKA_MIN_BYTES"`

	// MaxBytes is the maximum number of bytes to fetch in a single request.
	// Default: 10MB
	MaxBytes int `envconfig:"KAFKA_MAX_BYTES"`

	// MaxWait is the maximum amount of time to wait for MinBytes to become available.
	// Default: 10s
	MaxWait time.Duration `envconfig:"KAFKA_MAX_WAIT"`

	// TLS contains TLS/SSL configuration for transport encryption.
	TLS TLSConfig

	// SASL contains SASL authentication configuration.
	SASL SASLConfig
}

// Logger is an interface that matches the servicekit logger.Logger interface.
// It provides context-aware structured logging with optional error and field parameters.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool `envconfig:"KAFKA_TLS_ENABLED"`

	// CACertPath is the file path to the CA certificate for verifying the broker
	CACertPath string `envconfig:"KAFKA_TLS_CA_CERT"`

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string `envconfig:"KAFKA_TLS_CLIENT_CERT"`

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string `envconfig:"KAFKA_TLS_CLIENT_KEY"`

	// InsecureSkipVerify controls whether to skip verification of the server's certificate
	// WARNING: Setting this to true is insecure and should only be used in testing
	InsecureSkipVerify bool `envconfig:"KAFKA_TLS_INSECURE_SKIP_VERIFY"`
}

// SASLConfig contains SASL authentication configuration parameters.
type SASLConfig struct {
	// Enabled determines whether to use SASL authentication
	Enabled bool `envconfig:"KAFKA_SASL_ENABLED"`

	// Mechanism specifies the SASL mechanism to use
	// Options: "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
	Mechanism string `envconfig:"KAFKA_SASL_MECHANISM"`

	// Username is the SASL username
	Username string `envconfig:"KAFKA_SASL_USERNAME"`

	// Password is the SASL password
	Password string `envconfig:"KAFKA_SASL_PASSWORD"` //nolint:gosec
}

// Default values for configuration
const (
	DefaultMinBytes    = 1
	DefaultMaxBytes    = 10e6 // 10MB
	DefaultMaxWait     = 10 * time.Second
	DefaultDialTimeout = 10 * time.Second
)

// ConfigFromEnv resolves the environment-variable-backed fields of Config
// once, at construction time, so the consumer itself never reads ambient
// process state. KAFKA_BROKERS accepts a comma-separated list.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
