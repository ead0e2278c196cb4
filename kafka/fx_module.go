package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/servicekit/observability"
)

// FXModule is an fx.Module that provides and configures the Kafka consumer.
//
// The module provides:
// 1. *Consumer (concrete type) for direct use
// 2. Client interface for dependency injection
// 3. Lifecycle management: Connect on start, Disconnect on stop
//
// Usage:
//
//	app := fx.New(
//	    kafka.FXModule,
//	    fx.Provide(func() (kafka.Config, error) {
//	        cfg, err := kafka.ConfigFromEnv()
//	        cfg.ServiceName = "billing-service"
//	        return cfg, err
//	    }),
//	)
//
// Dependencies required by this module:
// - A kafka.Config instance must be available in the dependency injection container
// - Logger and Observer instances are optional
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewConsumerWithDI, // Provides *Consumer
		// Also provide the Client interface
		fx.Annotate(
			func(c *Consumer) Client { return c },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

// Params groups the dependencies needed to create a Kafka consumer.
type Params struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"` // Optional logger from servicekit logger
	Observer observability.Observer `optional:"true"` // Optional observer for metrics/tracing
}

// NewConsumerWithDI creates a new Kafka consumer using dependency injection.
// The optional logger and observer are injected before the consumer is
// returned; everything else delegates to NewConsumer.
func NewConsumerWithDI(params Params) (*Consumer, error) {
	consumer, err := NewConsumer(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		consumer = consumer.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		consumer = consumer.WithObserver(params.Observer)
	}
	return consumer, nil
}

// RegisterKafkaLifecycle connects the consumer on application start and
// disconnects it (stopping any active subscription) on shutdown.
//
// This function is automatically invoked by FXModule and does not need to be
// called directly in application code.
func RegisterKafkaLifecycle(lc fx.Lifecycle, consumer *Consumer) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return consumer.Connect(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return consumer.Disconnect()
		},
	})
}
