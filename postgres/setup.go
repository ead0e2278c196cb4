package postgres

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aalemi-dev/servicekit/observability"
)

// Postgres is a wrapper around gorm.DB that provides schema-scoped queries,
// connection monitoring, automatic reconnection, and standardized database
// operations.
//
// Postgres implements the Client interface.
//
// Concurrency: the active *gorm.DB pointer is stored in an atomic pointer and
// can be swapped during reconnection without blocking readers.
type Postgres struct {
	cfg             Config
	client          atomic.Pointer[gorm.DB]
	observer        observability.Observer
	logger          Logger
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewPostgres creates a new Postgres instance with the provided configuration.
// Required fields are validated before any connection attempt, so a
// misconfigured client fails fast. The initial connection is then established
// and the internal state for connection monitoring and recovery is set up.
//
// Returns *Postgres concrete type (following Go best practice: "accept interfaces, return structs").
//
// Example:
//
//	pg, err := postgres.NewPostgres(postgres.Config{
//	    ServiceName: "billing-service",
//	    Schema:      "billing",
//	    Connection:  postgres.Connection{Host: "db", User: "app", Password: "secret", DbName: "core"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer pg.GracefulShutdown()
func NewPostgres(cfg Config) (*Postgres, error) {
	if cfg.ServiceName == "" {
		return nil, ErrServiceNameRequired
	}
	if cfg.Schema == "" {
		return nil, ErrSchemaRequired
	}
	applyDefaults(&cfg)

	conn, err := connectToPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to postgres: %w", err)
	}

	pg := &Postgres{
		cfg:             cfg,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	pg.client.Store(conn)
	return pg, nil
}

// applyDefaults fills in package defaults for unset optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Connection.Host == "" {
		cfg.Connection.Host = DefaultHost
	}
	if cfg.Connection.Port == "" {
		cfg.Connection.Port = DefaultPort
	}
	if cfg.Connection.SSLMode == "" {
		cfg.Connection.SSLMode = DefaultSSLMode
	}
	if cfg.Pool.MaxOpenConns == 0 {
		cfg.Pool.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.Pool.MaxIdleConns == 0 {
		cfg.Pool.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Pool.ConnMaxLifetime == 0 {
		cfg.Pool.ConnMaxLifetime = DefaultConnMaxLifetime
	}
}

// connectToPostgres establishes a connection to the PostgreSQL database using
// the provided configuration. The configured schema is injected into the
// connection's search_path so every query is implicitly schema-scoped without
// callers qualifying table names.
func connectToPostgres(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.DbName,
		cfg.Connection.SSLMode,
		cfg.Schema)

	database, err := gorm.Open(
		postgres.Open(dsn),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgreSQL database instance: %w", err)
	}

	databaseInstance.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	databaseInstance.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	databaseInstance.SetConnMaxLifetime(cfg.Pool.ConnMaxLifetime)

	return database, nil
}

// DB returns the underlying GORM DB instance.
// This method provides direct access to the database connection while
// maintaining thread safety through an atomic load.
//
// Use this method when you need to perform operations not covered by
// the wrapper methods or when you need to access specific GORM functionality.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}

// RetryConnection continuously attempts to reconnect to the PostgreSQL database when notified
// of a connection failure. It operates as a goroutine that waits for signals on retryChanSignal
// before attempting reconnection. The function respects context cancellation and shutdown signals,
// ensuring graceful termination when requested.
//
// It implements two nested loops:
// - The outer loop waits for retry signals
// - The inner loop attempts reconnection until successful
func (p *Postgres) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-p.shutdownSignal:
			p.logInfo(ctx, "Stopping RetryConnection loop due to shutdown signal", nil)
			return
		case <-ctx.Done():
			return
		case <-p.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToPostgres(p.cfg)
					if err != nil {
						p.logError(ctx, "PostgreSQL reconnection failed", map[string]interface{}{
							"error":   err.Error(),
							"service": p.cfg.ServiceName,
						})
						time.Sleep(time.Second)
						continue innerLoop
					}
					p.client.Store(newConn)
					p.logInfo(ctx, "Successfully reconnected to PostgreSQL database", nil)
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks the health of the database connection
// and triggers reconnection attempts when necessary. It runs as a goroutine that
// performs health checks at regular intervals (10 seconds) and signals the
// RetryConnection goroutine when a failure is detected.
//
// The function respects context cancellation and shutdown signals, ensuring
// proper resource cleanup and graceful termination when requested.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	defer p.closeRetryChanOnce.Do(func() {
		close(p.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			p.logInfo(ctx, "Stopping MonitorConnection loop due to shutdown signal", nil)
			return
		case <-ticker.C:
			if err := p.ping(); err != nil {
				select {
				case p.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// ping verifies connectivity on the current connection with a 5 second
// timeout. Unlike HealthCheck it returns the underlying error, which the
// monitoring loop forwards as a retry signal.
func (p *Postgres) ping() error {
	dbConn := p.DB()
	if dbConn == nil {
		return fmt.Errorf("database client is not initialized")
	}

	db, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}

// GracefulShutdown stops the background monitoring loops and closes the
// connection pool. It is safe to call more than once.
func (p *Postgres) GracefulShutdown() error {
	if p.shutdownSignal != nil {
		p.closeShutdownOnce.Do(func() {
			close(p.shutdownSignal)
		})
	}

	if p.retryChanSignal != nil {
		p.closeRetryChanOnce.Do(func() {
			close(p.retryChanSignal)
		})
	}

	// Snapshot the connection; do not hold any package-level lock while closing.
	dbConn := p.DB()
	if dbConn == nil {
		return nil
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithObserver attaches an observer to the Postgres client for observability hooks.
// This method uses the builder pattern and returns the client for method chaining.
//
// The observer will be notified of all database operations, allowing
// external systems to track metrics, traces, or other observability data.
func (p *Postgres) WithObserver(observer observability.Observer) *Postgres {
	p.observer = observer
	return p
}

// WithLogger attaches a logger to the Postgres client for internal logging.
// This method uses the builder pattern and returns the client for method chaining.
//
// The logger will be used for lifecycle events, connection monitoring, query
// duration reporting, and background operations.
func (p *Postgres) WithLogger(logger Logger) *Postgres {
	p.logger = logger
	return p
}

// logInfo logs an informational message using the configured logger if available.
// This is used for lifecycle and background operation logging.
func (p *Postgres) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.InfoWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logWarn logs a warning message using the configured logger if available.
func (p *Postgres) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.WarnWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logError logs an error message using the configured logger if available.
// This is only used for errors in background goroutines that can't be returned to the caller.
func (p *Postgres) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.ErrorWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}
