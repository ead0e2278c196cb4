// Package postgres provides a schema-scoped PostgreSQL client built on top of GORM.
//
// The package exposes a small, database-agnostic interface (`Client`). The concrete
// implementation (`*Postgres`) wraps a `*gorm.DB` and adds:
//   - Connection establishment + pool configuration (default 20 open connections)
//   - Schema scoping: the configured schema is injected into the connection's
//     search_path, so every query is implicitly scoped without callers
//     qualifying table names
//   - Raw query helpers with duration logging (`Query`, `QueryOne`, `Exec`)
//   - Periodic health checks and automatic reconnection (via `MonitorConnection` + `RetryConnection`)
//   - Error normalization (`TranslateError`)
//
// # Concurrency model
//
// The active `*gorm.DB` connection pointer is stored in an `atomic.Pointer`. Calls that
// need a DB snapshot simply load the pointer and run the operation without holding any
// package-level locks. Reconnection swaps the pointer atomically.
//
// Basic usage
//
//	cfg := postgres.Config{
//	    ServiceName: "billing-service",
//	    Schema:      "billing",
//	    Connection: postgres.Connection{
//	        Host:     "localhost",
//	        Port:     "5432",
//	        User:     "postgres",
//	        Password: "password",
//	        DbName:   "mydb",
//	        SSLMode:  "disable",
//	    },
//	}
//
//	pg, err := postgres.NewPostgres(cfg)
//	if err != nil {
//	    // handle
//	}
//	defer pg.GracefulShutdown()
//
//	var invoices []Invoice
//	if err := pg.Query(ctx, &invoices, "SELECT * FROM invoices WHERE paid = ?", false); err != nil {
//	    // handle
//	}
//
// Caller-managed transactions
//
// `GetClient` leases a dedicated `*sql.Conn` from the pool; begin/commit/rollback
// are the caller's responsibility:
//
//	conn, err := pg.GetClient(ctx)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
// For the common case the managed helper is simpler:
//
//	err := pg.Transaction(ctx, func(tx postgres.Client) error {
//	    _, err := tx.Exec(ctx, "INSERT INTO invoices (total) VALUES (?)", total)
//	    return err
//	})
//
// # Observability (Observer hook)
//
// The Postgres client supports optional observability through the unified
// `observability.Observer` interface (`github.com/aalemi-dev/servicekit/observability`).
// If an observer is attached, it will be notified after each operation completes
// (success or error) with an `observability.OperationContext`.
//
// The Postgres client emits the following operation names:
//   - Queries: "query", "query_one", "exec", "health_check"
//   - Transactions: "transaction"
//
// Resource conventions:
//   - Resource: the configured schema (otherwise falls back to database name)
//
// # Fx integration
//
// The package provides `FXModule` which constructs `*Postgres` and also exposes it as
// the `Client` interface, plus lifecycle hooks for starting/stopping monitoring.
//
//	app := fx.New(
//	    postgres.FXModule,
//	    fx.Provide(loadPostgresConfig),
//	)
package postgres
