package validator

import (
	"context"

	"github.com/kelseyhightower/envconfig"
)

// DefaultEnvironment is used when no environment tag is configured.
const DefaultEnvironment = "development"

// Config defines the configuration structure for the schema validator
// middleware. SchemaPath is required; every optional field falls back to a
// named environment variable (via ConfigFromEnv) and then to a literal
// default, in that fixed precedence order.
type Config struct {
	// SchemaPath is the filesystem path to the declarative API schema
	// document (OpenAPI 3, YAML or JSON). The document is loaded and
	// validated once at construction. Required.
	SchemaPath string `envconfig:"VALIDATOR_SCHEMA_PATH"`

	// IgnorePaths lists path prefixes exempt from validation. Entries may be
	// literal prefixes or regular expression fragments; they are normalized
	// into a single combined pattern anchored at the start of the request
	// path.
	IgnorePaths []string `envconfig:"VALIDATOR_IGNORE_PATHS"`

	// ValidateRequests controls request validation. Unlike response
	// validation it defaults to enabled unconditionally; use a pointer to
	// false to disable.
	//
	// Default: true
	ValidateRequests *bool `envconfig:"VALIDATOR_VALIDATE_REQUESTS"`

	// ValidateResponses controls response validation. Response bodies are
	// buffered for inspection, so this is intended as a development aid.
	//
	// Default: true when Environment is "development", false otherwise
	ValidateResponses *bool `envconfig:"VALIDATOR_VALIDATE_RESPONSES"`

	// Environment tags the runtime environment and drives the
	// ValidateResponses default.
	//
	// Default: "development"
	Environment string `envconfig:"VALIDATOR_ENVIRONMENT"`
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

// applyDefaults fills in package defaults for unset optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.ValidateRequests == nil {
		enabled := true
		cfg.ValidateRequests = &enabled
	}
	if cfg.ValidateResponses == nil {
		enabled := cfg.Environment == DefaultEnvironment
		cfg.ValidateResponses = &enabled
	}
}

// ConfigFromEnv resolves the environment-variable-backed fields of Config
// once, at construction time, so the middleware itself never reads ambient
// process state. VALIDATOR_IGNORE_PATHS accepts a comma-separated list.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
