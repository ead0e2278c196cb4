package observability

import "time"

// Observer is a unified interface for observing operations across the
// servicekit client packages. It lets applications collect metrics, traces,
// or audit logs for infrastructure operations (kafka, postgres, cache)
// without coupling the client packages to a specific observability backend.
//
// The interface is optional - every client works without an observer.
type Observer interface {
	// ObserveOperation is called when a client operation completes.
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes one completed client operation.
// It is generic enough to cover every servicekit client while still carrying
// enough detail for meaningful dashboards.
type OperationContext struct {
	// Component identifies which servicekit package performed the operation.
	// One of: "kafka", "postgres", "cache".
	Component string

	// Operation describes what was performed.
	// Examples:
	//   Kafka:    "consume", "commit"
	//   Postgres: "query", "query_one", "exec", "health_check"
	//   Cache:    "get", "set", "delete", "exists"
	Operation string

	// Resource identifies the primary resource being operated on.
	// Examples: topic name, table name, cache key prefix.
	Resource string

	// SubResource provides additional resource context (optional).
	// Examples: partition number for kafka, cache key for cache operations.
	SubResource string

	// Duration is how long the operation took.
	Duration time.Duration

	// Error is the error returned by the operation; nil on success.
	Error error

	// Size is the size of data involved in the operation (optional).
	// Rows affected for postgres, message bytes for kafka, value bytes for cache.
	Size int64

	// Metadata carries extra operation-specific context (optional).
	Metadata map[string]interface{}
}
