package cache

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Default values for configuration
const (
	// DefaultTTL is the expiry applied to Set calls that don't specify one.
	DefaultTTL = 5 * time.Minute

	// DefaultHealthCheckTimeout bounds the round-trip used by HealthCheck.
	DefaultHealthCheckTimeout = 5 * time.Second
)

// Config defines the configuration structure for the cache client.
// ServiceName is the only required field; every optional field falls back to
// a named environment variable (via ConfigFromEnv) and then to a literal
// default, in that order.
type Config struct {
	// ServiceName identifies the service that owns this cache client.
	// It is used in log entries and, when KeyPrefix is empty, as the key
	// namespace. Required.
	ServiceName string `envconfig:"CACHE_SERVICE_NAME"`

	// URL is the connection URL of the backing store, either a full
	// "redis://" URL or a plain "host:port" address.
	//
	// Default: "redis://localhost:6379"
	URL string `envconfig:"REDIS_URL"`

	// KeyPrefix is the namespace prefixed to every key before transmission,
	// as "<prefix>:<key>". An empty prefix falls back to ServiceName so two
	// services sharing one store never collide.
	KeyPrefix string `envconfig:"CACHE_KEY_PREFIX"`

	// TTL is the default expiry for Set calls that don't pass one.
	//
	// Default: 5m
	TTL time.Duration `envconfig:"CACHE_DEFAULT_TTL"`
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

// ConfigFromEnv resolves the environment-variable-backed fields of Config
// once, at construction time, so the client itself never reads ambient
// process state.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills zero-valued optional fields with package defaults.
func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = "redis://localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = c.ServiceName
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
}
