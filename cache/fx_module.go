package cache

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/servicekit/observability"
)

// FXModule defines the Fx module for the cache package.
//
// The module provides:
// 1. The Cache interface, backed by *RedisCache (or *NoopCache when disabled)
// 2. Lifecycle management: Connect on start, Disconnect on stop
//
// Usage:
//
//	app := fx.New(
//	    cache.FXModule,
//	    fx.Provide(func() (cache.Config, error) {
//	        cfg, err := cache.ConfigFromEnv()
//	        cfg.ServiceName = "billing-service"
//	        return cfg, err
//	    }),
//	)
//
// Dependencies required by this module:
// - A cache.Config instance must be available in the dependency injection container
// - A cache.Params.Enabled override, Logger and Observer are optional
var FXModule = fx.Module("cache",
	fx.Provide(NewCacheWithDI),
	fx.Invoke(RegisterCacheLifecycle),
)

// Params groups the dependencies needed to create a cache client.
type Params struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"` // Optional logger from servicekit logger
	Observer observability.Observer `optional:"true"` // Optional observer for metrics/tracing
	Disabled bool                   `name:"cache_disabled" optional:"true"`
}

// NewCacheWithDI creates a cache client using dependency injection, selecting
// the no-op variant when the container provides a true `cache_disabled` bool.
// The optional logger and observer are injected before the client is
// returned.
func NewCacheWithDI(params Params) (Cache, error) {
	if params.Disabled {
		return NewNoopCache(), nil
	}

	client, err := NewRedisCache(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client = client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client = client.WithObserver(params.Observer)
	}
	return client, nil
}

// RegisterCacheLifecycle connects the cache on application start and
// disconnects it on shutdown.
//
// This function is automatically invoked by FXModule and does not need to be
// called directly in application code.
func RegisterCacheLifecycle(lc fx.Lifecycle, c Cache) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return c.Connect(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return c.Disconnect()
		},
	})
}
