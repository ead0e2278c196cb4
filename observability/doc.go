// Package observability provides a unified interface for observing operations
// across the servicekit client packages.
//
// The package defines a single Observer interface that the kafka, postgres
// and cache clients use to emit operation events. Applications implement the
// interface once and attach it to every client, which keeps metrics and
// tracing consistent across all infrastructure layers.
//
// Observers are strictly optional: a client with no observer attached skips
// the hook entirely.
//
// Example application observer backed by the metrics package:
//
//	type metricsObserver struct {
//		operations metrics.Counter
//	}
//
//	func (o *metricsObserver) ObserveOperation(op observability.OperationContext) {
//		status := "ok"
//		if op.Error != nil {
//			status = "error"
//		}
//		o.operations.WithLabelValues(op.Component, op.Operation, status).Inc()
//	}
package observability
