package metrics

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Default values for configuration
const (
	// DefaultPushInterval is the interval between pushes to the remote
	// collector when none is configured.
	DefaultPushInterval = 15 * time.Second

	// DefaultEnvironment is used as the environment label when none is configured.
	DefaultEnvironment = "development"
)

// Config defines the configuration structure for the metrics registry and
// the optional remote pusher. ServiceName is required; every optional field
// falls back to a named environment variable (via ConfigFromEnv) and then to
// a literal default, in that fixed precedence order.
type Config struct {
	// ServiceName identifies the service exposing metrics.
	// It is attached as a constant `service` label to every metric in the
	// registry and as a batch-level label on pushed samples. Required.
	ServiceName string `envconfig:"METRICS_SERVICE_NAME"`

	// Environment tags pushed samples with a deployment environment
	// (e.g. "development", "staging", "production").
	//
	// Default: "development"
	Environment string `envconfig:"METRICS_ENVIRONMENT"`

	// RemoteURL is the remote-write endpoint the pusher POSTs harvested
	// samples to. When empty, Start() is a no-op with a warning and only
	// the pull endpoint is available.
	RemoteURL string `envconfig:"METRICS_REMOTE_URL"`

	// PushInterval is the interval between scheduled pushes.
	//
	// Default: 15s
	PushInterval time.Duration `envconfig:"METRICS_PUSH_INTERVAL"`

	// EnableSystemMetrics registers the standard Go runtime, process, and
	// build info collectors into the registry alongside application metrics.
	EnableSystemMetrics bool `envconfig:"METRICS_ENABLE_SYSTEM"`
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
// once, at construction time, so the metrics components never read ambient
// process state.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
