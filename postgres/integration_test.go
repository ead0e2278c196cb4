package postgres

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// invoiceRow is a sample row shape for raw query tests.
type invoiceRow struct {
	ID    int
	Payer string
	Total float64
}

// setupPostgresContainer starts a disposable PostgreSQL container and returns
// a Config pointing at it.
func setupPostgresContainer(ctx context.Context, t *testing.T) (Config, testcontainers.Container) {
	t.Helper()

	port, err := getFreePort()
	require.NoError(t, err)

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"5432/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		ExposedPorts: []string{"5432/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	containerInstance, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := containerInstance.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := containerInstance.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := Config{
		ServiceName: "servicekit-test",
		Schema:      "billing",
		Connection: Connection{
			Host:     host,
			Port:     mappedPort.Port(),
			User:     "testuser",
			Password: "testpass",
			DbName:   "testdb",
			SSLMode:  "disable",
		},
	}

	return cfg, containerInstance
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func() { _ = addr.Close() }()
	return addr.Addr().(*net.TCPAddr).Port, nil
}

// connectWithRetry keeps constructing the client until the container accepts
// connections or the deadline passes.
func connectWithRetry(t *testing.T, cfg Config) *Postgres {
	t.Helper()

	var pg *Postgres
	require.Eventually(t, func() bool {
		var err error
		pg, err = NewPostgres(cfg)
		return err == nil
	}, 30*time.Second, 500*time.Millisecond, "PostgreSQL not ready")
	return pg
}

// seedSchema creates the scoped schema and a sample table inside it.
func seedSchema(ctx context.Context, t *testing.T, pg *Postgres) {
	t.Helper()

	_, err := pg.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS billing")
	require.NoError(t, err)
	_, err = pg.Exec(ctx, `CREATE TABLE IF NOT EXISTS invoices (
		id SERIAL PRIMARY KEY,
		payer TEXT NOT NULL,
		total NUMERIC NOT NULL
	)`)
	require.NoError(t, err)
	_, err = pg.Exec(ctx, "TRUNCATE invoices")
	require.NoError(t, err)
}

func TestQueryOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	cfg, containerInstance := setupPostgresContainer(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	pg := connectWithRetry(t, cfg)
	defer func() {
		if err := pg.GracefulShutdown(); err != nil {
			t.Logf("failed to shut down: %v", err)
		}
	}()

	seedSchema(ctx, t, pg)

	rows, err := pg.Exec(ctx, "INSERT INTO invoices (payer, total) VALUES (?, ?), (?, ?)",
		"acme", 120.50, "globex", 99.99)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	t.Run("query returns all rows", func(t *testing.T) {
		var invoices []invoiceRow
		require.NoError(t, pg.Query(ctx, &invoices, "SELECT id, payer, total FROM invoices ORDER BY id"))
		require.Len(t, invoices, 2)
		assert.Equal(t, "acme", invoices[0].Payer)
		assert.Equal(t, "globex", invoices[1].Payer)
	})

	t.Run("query one returns first match", func(t *testing.T) {
		var invoice invoiceRow
		require.NoError(t, pg.QueryOne(ctx, &invoice, "SELECT id, payer, total FROM invoices WHERE payer = ?", "acme"))
		assert.Equal(t, "acme", invoice.Payer)
		assert.InDelta(t, 120.50, invoice.Total, 0.001)
	})

	t.Run("query one on empty result returns sentinel", func(t *testing.T) {
		var invoice invoiceRow
		err := pg.QueryOne(ctx, &invoice, "SELECT id, payer, total FROM invoices WHERE payer = ?", "nobody")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("schema scoping via search_path", func(t *testing.T) {
		// The table was created unqualified, so it must live in the
		// configured schema, not in public.
		var schemaName string
		require.NoError(t, pg.QueryOne(ctx, &schemaName,
			"SELECT table_schema FROM information_schema.tables WHERE table_name = ?", "invoices"))
		assert.Equal(t, "billing", schemaName)
	})

	t.Run("health check", func(t *testing.T) {
		assert.True(t, pg.HealthCheck(ctx))
	})

	t.Run("pool stats", func(t *testing.T) {
		stats := pg.Stat()
		assert.Equal(t, DefaultMaxOpenConns, stats.MaxOpenConnections)
		assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	})
}

func TestGetClientLeasedConnection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	cfg, containerInstance := setupPostgresContainer(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	pg := connectWithRetry(t, cfg)
	defer func() { _ = pg.GracefulShutdown() }()

	seedSchema(ctx, t, pg)

	conn, err := pg.GetClient(ctx)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	// Caller-managed transaction: begin, insert, roll back.
	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "INSERT INTO invoices (payer, total) VALUES ($1, $2)", "rollback-co", 1.00)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var count int64
	require.NoError(t, pg.QueryOne(ctx, &count, "SELECT COUNT(*) FROM invoices WHERE payer = ?", "rollback-co"))
	assert.Zero(t, count)
}

func TestManagedTransaction(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	cfg, containerInstance := setupPostgresContainer(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	pg := connectWithRetry(t, cfg)
	defer func() { _ = pg.GracefulShutdown() }()

	seedSchema(ctx, t, pg)

	t.Run("commit on success", func(t *testing.T) {
		err := pg.Transaction(ctx, func(tx Client) error {
			_, err := tx.Exec(ctx, "INSERT INTO invoices (payer, total) VALUES (?, ?)", "committed", 10.00)
			return err
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, pg.QueryOne(ctx, &count, "SELECT COUNT(*) FROM invoices WHERE payer = ?", "committed"))
		assert.Equal(t, int64(1), count)
	})

	t.Run("rollback on error", func(t *testing.T) {
		wantErr := fmt.Errorf("abort")
		err := pg.Transaction(ctx, func(tx Client) error {
			if _, err := tx.Exec(ctx, "INSERT INTO invoices (payer, total) VALUES (?, ?)", "aborted", 10.00); err != nil {
				return err
			}
			return wantErr
		})
		require.Error(t, err)

		var count int64
		require.NoError(t, pg.QueryOne(ctx, &count, "SELECT COUNT(*) FROM invoices WHERE payer = ?", "aborted"))
		assert.Zero(t, count)
	})
}

func TestPostgresFXLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	cfg, containerInstance := setupPostgresContainer(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	// The fx constructor connects eagerly, so wait for readiness first.
	pg := connectWithRetry(t, cfg)
	require.NoError(t, pg.GracefulShutdown())

	var client Client

	app := fxtest.New(t,
		FXModule,
		fx.Provide(func() Config { return cfg }),
		fx.Populate(&client),
	)

	app.RequireStart()
	require.NotNil(t, client)
	assert.True(t, client.HealthCheck(ctx))
	app.RequireStop()
}
