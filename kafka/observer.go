package kafka

import (
	"time"

	"github.com/aalemi-dev/servicekit/observability"
)

// observeOperation safely calls the observer if it's not nil.
// This helper reduces boilerplate in the subscription loop.
func (c *Consumer) observeOperation(operation, topic, partition string, duration time.Duration, err error, size int64) {
	if c.observer != nil {
		c.observer.ObserveOperation(observability.OperationContext{
			Component:   "kafka",
			Operation:   operation,
			Resource:    topic,
			SubResource: partition,
			Duration:    duration,
			Error:       err,
			Size:        size,
		})
	}
}
