package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/aalemi-dev/servicekit/observability"
)

// FXModule is an fx module that provides the Postgres database component.
// It registers the Postgres constructor for dependency injection
// and sets up lifecycle hooks to properly initialize and shut down
// the database connection.
//
// This module provides:
//   - *Postgres (concrete type) - for direct use and lifecycle management
//   - Client (interface) - for consumers who want database abstraction
//
// Usage:
//
//	app := fx.New(
//	    postgres.FXModule,
//	    fx.Provide(func() (postgres.Config, error) {
//	        cfg, err := postgres.ConfigFromEnv()
//	        cfg.ServiceName = "billing-service"
//	        cfg.Schema = "billing"
//	        return cfg, err
//	    }),
//	)
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgresClientWithDI, // Returns *Postgres for internal lifecycle
		fx.Annotate(
			ProvideClient,      // Returns Client interface
			fx.As(new(Client)), // Expose as Client interface
		),
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// ProvideClient wraps the concrete *Postgres and returns it as Client interface.
// This enables applications to depend on the interface rather than concrete type.
func ProvideClient(pg *Postgres) Client {
	return pg
}

// PostgresParams groups the dependencies needed to create a Postgres client
// via dependency injection. The embedded fx.In marker enables automatic
// injection of the struct fields from the dependency container.
type PostgresParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewPostgresClientWithDI creates a new Postgres client using dependency injection.
// The optional logger and observer are injected before the client is
// returned; everything else delegates to NewPostgres.
func NewPostgresClientWithDI(params PostgresParams) (*Postgres, error) {
	client, err := NewPostgres(params.Config)
	if err != nil {
		return nil, err
	}

	if params.Logger != nil {
		client.logger = params.Logger
	}
	if params.Observer != nil {
		client.observer = params.Observer
	}

	return client, nil
}

// PostgresLifeCycleParams groups the dependencies needed for Postgres
// lifecycle management.
type PostgresLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Postgres  *Postgres
}

// RegisterPostgresLifecycle registers lifecycle hooks for the Postgres database component.
// It sets up:
// 1. Connection monitoring on application start
// 2. Automatic reconnection mechanism on application start
// 3. Graceful shutdown of database connections on application stop
//
// The function uses a WaitGroup to ensure that all goroutines complete
// before the application terminates.
func RegisterPostgresLifecycle(params PostgresLifeCycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Postgres.MonitorConnection(ctx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Postgres.RetryConnection(ctx)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Postgres.closeShutdownOnce.Do(func() {
				close(params.Postgres.shutdownSignal)
			})

			wg.Wait()

			params.Postgres.closeRetryChanOnce.Do(func() {
				close(params.Postgres.retryChanSignal)
			})

			// Close the database connection
			sqlDB, err := params.Postgres.DB().DB()
			if err == nil {
				return sqlDB.Close()
			}

			return nil
		},
	})
}
