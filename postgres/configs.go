package postgres

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents the complete configuration for a PostgreSQL database client.
// ServiceName and Schema are required; every optional field falls back to a
// named environment variable (via ConfigFromEnv) and then to a literal
// default, in that fixed precedence order.
type Config struct {
	// ServiceName identifies the service that owns this client.
	// It is attached to lifecycle log entries. Required.
	ServiceName string `envconfig:"PG_SERVICE_NAME"`

	// Schema is the logical schema this client is scoped to. It is injected
	// into the connection's search_path so every query is implicitly
	// schema-qualified. Required.
	Schema string `envconfig:"PG_SCHEMA"`

	// Connection contains the essential parameters needed to establish a database connection
	Connection Connection

	// Pool contains configuration for the connection pool behavior
	Pool Pool
}

// Connection holds the basic parameters required to connect to a PostgreSQL database.
// These parameters are used to construct the database connection string.
type Connection struct {
	// Host specifies the database server hostname or IP address
	// Default: localhost
	Host string `envconfig:"PG_HOST"`

	// Port specifies the TCP port on which the database server is listening to
	// Default: 5432
	Port string `envconfig:"PG_PORT"`

	// User specifies the database username for authentication
	User string `envconfig:"PG_USER"`

	// Password specifies the database user password for authentication
	Password string `json:"-" envconfig:"PG_PASSWORD"` //nolint:gosec

	// DbName specifies the name of the database to connect to
	DbName string `envconfig:"PG_DATABASE"`

	// SSLMode specifies the SSL mode for the connection (e.g., "disable", "require", "verify-ca", "verify-full")
	// For production environments, it's recommended to use at least "require"
	// Default: disable
	SSLMode string `envconfig:"PG_SSL_MODE"`
}

// Pool holds configuration settings for the database connection pool.
// The pool bounds concurrent connections and queues excess requests;
// backpressure is delegated entirely to the pool itself.
type Pool struct {
	// MaxOpenConns controls the maximum number of open connections to the database.
	// If set to 0, the package default is used.
	// Default: 20
	MaxOpenConns int `envconfig:"PG_MAX_OPEN_CONNS"`

	// MaxIdleConns controls the maximum number of connections in the idle connection pool.
	// If set to 0, the package default is used.
	// Default: 10
	MaxIdleConns int `envconfig:"PG_MAX_IDLE_CONNS"`

	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	// Expired connections are closed and removed from the pool during connection acquisition.
	// If set to 0, the package default is used.
	// Default: 5m
	ConnMaxLifetime time.Duration `envconfig:"PG_CONN_MAX_LIFETIME"`
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

// Default values for configuration
const (
	DefaultHost            = "localhost"
	DefaultPort            = "5432"
	DefaultSSLMode         = "disable"
	DefaultMaxOpenConns    = 20
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 5 * time.Minute
)

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
