package cache

import (
	"time"

	"github.com/aalemi-dev/servicekit/observability"
)

// observeOperation safely calls the observer if it's not nil.
// This helper reduces boilerplate in operation methods.
func (c *RedisCache) observeOperation(operation, key string, duration time.Duration, err error, size int64) {
	if c.observer != nil {
		c.observer.ObserveOperation(observability.OperationContext{
			Component:   "cache",
			Operation:   operation,
			Resource:    c.cfg.KeyPrefix,
			SubResource: key,
			Duration:    duration,
			Error:       err,
			Size:        size,
		})
	}
}
