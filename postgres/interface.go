package postgres

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Client defines the database-agnostic operations exposed by this package.
// Consumers should depend on this interface rather than the concrete
// *Postgres type; the fx module provides both.
type Client interface {
	// Query executes a parameterized SQL query and scans all result rows
	// into dest, which must be a pointer to a slice.
	Query(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// QueryOne executes a parameterized SQL query and scans the first result
	// row into dest. It returns ErrRecordNotFound when the query yields no
	// rows; it never panics on an empty result.
	QueryOne(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// Exec executes a SQL statement that returns no rows and reports the
	// number of rows affected.
	Exec(ctx context.Context, query string, args ...interface{}) (int64, error)

	// HealthCheck executes a trivial round-trip query. It returns a boolean
	// rather than an error so that health probing never throws.
	HealthCheck(ctx context.Context) bool

	// GetClient leases a single dedicated connection from the pool for
	// caller-managed multi-statement transactions. Begin, commit and
	// rollback are the caller's responsibility, as is closing the
	// connection to return it to the pool.
	GetClient(ctx context.Context) (*sql.Conn, error)

	// Stat returns a snapshot of the connection pool occupancy.
	Stat() sql.DBStats

	// Transaction executes fn within a database transaction, committing when
	// fn returns nil and rolling back otherwise.
	Transaction(ctx context.Context, fn func(tx Client) error) error

	// DB returns the underlying GORM handle for operations not covered by
	// the wrapper methods.
	DB() *gorm.DB

	// TranslateError converts database-specific errors into the standardized
	// error types declared in this package.
	TranslateError(err error) error

	// GracefulShutdown stops the background monitoring loops and closes the
	// connection pool.
	GracefulShutdown() error
}
