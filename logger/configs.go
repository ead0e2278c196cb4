package logger

import (
	"github.com/kelseyhightower/envconfig"
)

// Log level constants that define the available logging levels.
// These string constants are used in configuration to set the desired log level.
const (
	// Debug represents the most verbose logging level, intended for development and troubleshooting.
	Debug = "debug"

	// Info represents the standard logging level for general operational information.
	Info = "info"

	// Warning represents the logging level for potential issues that aren't errors.
	Warning = "warning"

	// Error represents the logging level for error conditions.
	Error = "error"
)

// Config defines the configuration structure for the logger.
// ServiceName is the only required field; every optional field falls back to
// a named environment variable (via ConfigFromEnv) and then to a literal
// default, in that order.
type Config struct {
	// ServiceName is the name of the service emitting log entries.
	// It is attached to every entry as the "service" field and used as the
	// "app" label on the remote sink. Required.
	ServiceName string `envconfig:"LOG_SERVICE_NAME"`

	// Level determines the minimum log level that will be output.
	// Valid values: "debug", "info", "warning", "error".
	//
	// Default: "info"
	Level string `envconfig:"LOG_LEVEL"`

	// Environment tags every entry (and the remote sink) with the deployment
	// environment, e.g. "development", "staging", "production".
	//
	// Default: "development"
	Environment string `envconfig:"LOG_ENVIRONMENT"`

	// EnableRemote controls whether log entries are also shipped to the
	// remote aggregation endpoint. The remote sink is only constructed when
	// EnableRemote is true, RemoteURL is non-empty, and Environment is not
	// "test". A remote sink that cannot be constructed never prevents logger
	// creation; the logger degrades to console-only output.
	//
	// Default: false
	EnableRemote bool `envconfig:"LOG_ENABLE_REMOTE"`

	// RemoteURL is the HTTP push endpoint of the log aggregation backend
	// (a Loki-style JSON push API).
	RemoteURL string `envconfig:"LOG_REMOTE_URL"`

	// EnableTracing controls whether trace and span IDs are extracted from
	// context and included in log entries produced by the WithContext
	// method variants.
	//
	// Default: false
	EnableTracing bool `envconfig:"LOG_ENABLE_TRACING"`

	// CallerSkip adjusts the caller annotation depth for wrapper scenarios.
	// Default: 1, which is correct for direct use of this package.
	CallerSkip int `envconfig:"-"`
}

// ConfigFromEnv resolves the environment-variable-backed fields of Config
// once, at construction time, so the logger itself never reads ambient
// process state. Explicitly set fields in the returned struct can still be
// overridden by the caller before passing it to NewLoggerClient.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
