package metrics

import (
	"context"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the metrics package.
// It provides the registry wrapper and the remote pusher, and registers
// lifecycle hooks that start and stop the push schedule with the application.
//
// The module provides:
// 1. *Metrics (concrete type) for direct use
// 2. MetricsCollector interface for dependency injection
// 3. *Pusher with lifecycle management: Start on application start, Stop on shutdown
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(func() (metrics.Config, error) {
//	        cfg, err := metrics.ConfigFromEnv()
//	        cfg.ServiceName = "billing-service"
//	        return cfg, err
//	    }),
//	    fx.Invoke(func(m metrics.MetricsCollector) {
//	        counter := m.CreateCounter("requests_total", "Total requests", []string{"endpoint"})
//	        counter.WithLabelValues("/api/invoices").Inc()
//	    }),
//	)
//
// Dependencies required by this module:
// - A metrics.Config instance must be available in the dependency injection container
// - A Logger instance is optional but recommended for push failure logs
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetricsWithDI, // Provides *Metrics
		NewPusher,        // Provides *Pusher
		// Also provide the MetricsCollector interface
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
	),
	fx.Invoke(RegisterPusherLifecycle),
)

// MetricsParams groups the dependencies needed to create a Metrics instance.
type MetricsParams struct {
	fx.In

	Config Config
	Logger Logger `optional:"true"` // Optional logger from servicekit logger
}

// NewMetricsWithDI creates a new Metrics instance using dependency injection.
// The optional logger is injected before the instance is returned; everything
// else delegates to NewMetrics.
func NewMetricsWithDI(params MetricsParams) (*Metrics, error) {
	m, err := NewMetrics(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		m = m.WithLogger(params.Logger)
	}
	return m, nil
}

// RegisterPusherLifecycle starts the push schedule on application start and
// stops it on shutdown. When no remote endpoint is configured, Start logs a
// warning and the application runs with the pull path only.
//
// This function is automatically invoked by FXModule and does not need to be
// called directly in application code.
func RegisterPusherLifecycle(lc fx.Lifecycle, pusher *Pusher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pusher.Start(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			pusher.Stop()
			return nil
		},
	})
}
