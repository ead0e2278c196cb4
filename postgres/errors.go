package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Common database error types that can be used by consumers of this package.
// These provide a standardized set of errors that abstract away the
// underlying database-specific error details.
var (
	// ErrServiceNameRequired is returned when a Config has no service name
	ErrServiceNameRequired = errors.New("postgres: service name is required")

	// ErrSchemaRequired is returned when a Config has no schema name
	ErrSchemaRequired = errors.New("postgres: schema is required")

	// ErrRecordNotFound is returned when a query doesn't find any matching records
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when an operation violates a foreign key constraint
	ErrForeignKey = errors.New("foreign key violation")

	// ErrInvalidData is returned when the data being saved doesn't meet validation rules
	ErrInvalidData = errors.New("invalid data")

	// ErrConnectionFailed is returned when database connection cannot be established
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrConnectionLost is returned when database connection is lost
	ErrConnectionLost = errors.New("connection lost")

	// ErrTransactionFailed is returned when a transaction fails to commit or rollback
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrQueryTimeout is returned when a query exceeds the allowed timeout
	ErrQueryTimeout = errors.New("query timeout exceeded")

	// ErrInvalidQuery is returned when the SQL query is malformed or invalid
	ErrInvalidQuery = errors.New("invalid query")

	// ErrPermissionDenied is returned when the user lacks necessary permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTableNotFound is returned when trying to access a non-existent table
	ErrTableNotFound = errors.New("table not found")

	// ErrColumnNotFound is returned when trying to access a non-existent column
	ErrColumnNotFound = errors.New("column not found")

	// ErrSchemaNotFound is returned when the configured schema doesn't exist
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrConstraintViolation is returned for general constraint violations
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrNotNullViolation is returned when trying to insert null into a not-null column
	ErrNotNullViolation = errors.New("not null constraint violation")

	// ErrDataTooLong is returned when data exceeds column length limits
	ErrDataTooLong = errors.New("data too long for column")

	// ErrDeadlock is returned when a deadlock is detected during transaction
	ErrDeadlock = errors.New("deadlock detected")

	// ErrSerializationFailure is returned when transaction serialization fails
	ErrSerializationFailure = errors.New("serialization failure")

	// ErrTooManyConnections is returned when connection pool is exhausted
	ErrTooManyConnections = errors.New("too many connections")

	// ErrInvalidPassword is returned for authentication failures
	ErrInvalidPassword = errors.New("invalid password")

	// ErrDatabaseNotFound is returned when specified database doesn't exist
	ErrDatabaseNotFound = errors.New("database not found")
)

// TranslateError converts GORM/database-specific errors into standardized application errors.
// This function provides abstraction from the underlying database implementation details,
// allowing application code to handle errors in a database-agnostic way.
//
// It maps common database errors to the standardized error types defined above.
// If an error doesn't match any known type, it's returned unchanged.
func (p *Postgres) TranslateError(err error) error {
	if err == nil {
		return nil
	}

	// First check GORM specific errors
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidValue):
		return ErrInvalidData
	case errors.Is(err, gorm.ErrInvalidTransaction):
		return ErrTransactionFailed
	case errors.Is(err, gorm.ErrMissingWhereClause):
		return ErrInvalidQuery
	case errors.Is(err, gorm.ErrInvalidField):
		return ErrColumnNotFound
	}

	// Check for PostgreSQL specific errors using pgconn.PgError
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translatePostgreSQLError(pgErr)
	}

	// Check error message for common patterns (fallback for string matching)
	return translateByErrorMessage(strings.ToLower(err.Error()), err)
}

// translatePostgreSQLError maps PostgreSQL error codes to custom errors
func translatePostgreSQLError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	// Class 08 — Connection Exception
	case "08000", "08001", "08004":
		return ErrConnectionFailed
	case "08003", "08006":
		return ErrConnectionLost

	// Class 22 — Data Exception
	case "22000", "22005", "22007":
		return ErrInvalidData
	case "22001":
		return ErrDataTooLong
	case "22002", "22004":
		return ErrNotNullViolation

	// Class 23 — Integrity Constraint Violation
	case "23000", "23514":
		return ErrConstraintViolation
	case "23502":
		return ErrNotNullViolation
	case "23503":
		return ErrForeignKey
	case "23505":
		return ErrDuplicateKey

	// Class 28 — Invalid Authorization Specification
	case "28000", "28P01":
		return ErrInvalidPassword

	// Class 3D/3F — Invalid Catalog / Schema Name
	case "3D000":
		return ErrDatabaseNotFound
	case "3F000":
		return ErrSchemaNotFound

	// Class 40 — Transaction Rollback
	case "40001":
		return ErrSerializationFailure
	case "40P01":
		return ErrDeadlock

	// Class 42 — Syntax Error or Access Rule Violation
	case "42601":
		return ErrInvalidQuery
	case "42501":
		return ErrPermissionDenied
	case "42P01":
		return ErrTableNotFound
	case "42703":
		return ErrColumnNotFound

	// Class 53 — Insufficient Resources
	case "53300":
		return ErrTooManyConnections

	// Class 57 — Operator Intervention
	case "57014":
		return ErrQueryTimeout

	default:
		return pgErr
	}
}

// translateByErrorMessage translates errors based on error message patterns.
// This is a last-resort fallback for drivers that don't surface a PgError.
func translateByErrorMessage(errMsg string, originalErr error) error {
	switch {
	case strings.Contains(errMsg, "record not found"),
		strings.Contains(errMsg, "no rows in result set"):
		return ErrRecordNotFound
	case strings.Contains(errMsg, "duplicate key"):
		return ErrDuplicateKey
	case strings.Contains(errMsg, "foreign key"):
		return ErrForeignKey
	case strings.Contains(errMsg, "connection refused"),
		strings.Contains(errMsg, "connection reset"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "too many connections"),
		strings.Contains(errMsg, "too many clients"):
		return ErrTooManyConnections
	case strings.Contains(errMsg, "password authentication failed"):
		return ErrInvalidPassword
	case strings.Contains(errMsg, "syntax error"):
		return ErrInvalidQuery
	case strings.Contains(errMsg, "deadlock"):
		return ErrDeadlock
	case strings.Contains(errMsg, "timeout"),
		strings.Contains(errMsg, "canceling statement"):
		return ErrQueryTimeout
	default:
		// Return the original error if no pattern matches
		return originalErr
	}
}
