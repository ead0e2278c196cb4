package postgres

import (
	"time"

	"github.com/aalemi-dev/servicekit/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
// This is used internally to track database operations for metrics and tracing.
//
// Notes:
//   - resource: the schema the query ran against; if empty it falls back to
//     the database name
//   - subResource: optional additional resource context
func (p *Postgres) observeOperation(operation, resource, subResource string, duration time.Duration, err error, rowsAffected int64, metadata map[string]interface{}) {
	if p == nil || p.observer == nil {
		return
	}

	if resource == "" {
		resource = p.cfg.Connection.DbName
	}

	p.observer.ObserveOperation(observability.OperationContext{
		Component:   "postgres",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        rowsAffected,
		Metadata:    metadata,
	})
}
