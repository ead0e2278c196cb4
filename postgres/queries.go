package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Query executes a parameterized SQL query and scans all result rows into
// dest. Queries run against the configured schema via the connection's
// search_path, so table names need not be qualified.
//
// The query duration is logged and reported to the observer.
//
// Parameters:
//   - ctx: Context for the database operation
//   - dest: Pointer to a slice where the results will be stored
//   - query: The SQL query to execute
//   - args: Parameters for the SQL query
//
// Returns a translated error if the query fails or nil on success.
//
// Example:
//
//	var users []User
//	err := pg.Query(ctx, &users, "SELECT * FROM users WHERE age > ?", 18)
func (p *Postgres) Query(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	result := p.DB().WithContext(ctx).Raw(query, args...).Scan(dest)
	duration := time.Since(start)

	p.observeOperation("query", p.cfg.Schema, "", duration, result.Error, result.RowsAffected, map[string]interface{}{
		"sql": query,
	})
	p.logQuery(ctx, query, duration, result.RowsAffected)

	if result.Error != nil {
		return p.TranslateError(result.Error)
	}
	return nil
}

// QueryOne executes a parameterized SQL query and scans the first result row
// into dest. A zero-row result returns ErrRecordNotFound; it never panics on
// an empty result.
//
// Parameters:
//   - ctx: Context for the database operation
//   - dest: Pointer to a struct where the result will be stored
//   - query: The SQL query to execute
//   - args: Parameters for the SQL query
//
// Example:
//
//	var user User
//	err := pg.QueryOne(ctx, &user, "SELECT * FROM users WHERE email = ?", email)
//	if errors.Is(err, postgres.ErrRecordNotFound) {
//	    // Handle not found
//	}
func (p *Postgres) QueryOne(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	result := p.DB().WithContext(ctx).Raw(query, args...).Scan(dest)
	duration := time.Since(start)

	err := result.Error
	if err == nil && result.RowsAffected == 0 {
		err = ErrRecordNotFound
	}

	p.observeOperation("query_one", p.cfg.Schema, "", duration, err, result.RowsAffected, map[string]interface{}{
		"sql": query,
	})
	p.logQuery(ctx, query, duration, result.RowsAffected)

	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return p.TranslateError(err)
	}
	return err
}

// Exec executes raw SQL directly against the database.
// This is useful for statements that return no rows, such as INSERT, UPDATE
// or DDL.
//
// Parameters:
//   - ctx: Context for the database operation
//   - query: The SQL statement to execute
//   - args: Parameters for the SQL statement
//
// Returns:
//   - int64: Number of rows affected by the SQL execution
//   - error: Translated error if the execution fails, nil on success
//
// Example:
//
//	rowsAffected, err := pg.Exec(ctx, "UPDATE users SET status = ? WHERE last_login < ?",
//	                             "inactive", cutoff)
func (p *Postgres) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	start := time.Now()
	result := p.DB().WithContext(ctx).Exec(query, args...)
	duration := time.Since(start)

	p.observeOperation("exec", p.cfg.Schema, "", duration, result.Error, result.RowsAffected, map[string]interface{}{
		"sql": query,
	})
	p.logQuery(ctx, query, duration, result.RowsAffected)

	if result.Error != nil {
		return result.RowsAffected, p.TranslateError(result.Error)
	}
	return result.RowsAffected, nil
}

// HealthCheck executes a trivial round-trip query against the database.
// It returns a boolean rather than an error so that health probing never
// throws; the underlying failure, if any, is logged.
func (p *Postgres) HealthCheck(ctx context.Context) bool {
	start := time.Now()
	var one int
	result := p.DB().WithContext(ctx).Raw("SELECT 1").Scan(&one)
	p.observeOperation("health_check", p.cfg.Schema, "", time.Since(start), result.Error, 0, nil)

	if result.Error != nil {
		p.logWarn(ctx, "Database health check failed", map[string]interface{}{
			"error":   result.Error.Error(),
			"service": p.cfg.ServiceName,
		})
		return false
	}
	return true
}

// GetClient leases a single dedicated connection from the pool for
// caller-managed multi-statement transactions. Begin, commit and rollback are
// entirely the caller's responsibility; this wrapper does not participate in
// transaction semantics. The caller must Close the connection to return it to
// the pool.
//
// Example:
//
//	conn, err := pg.GetClient(ctx)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	tx, err := conn.BeginTx(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	// ... tx.Commit() or tx.Rollback()
func (p *Postgres) GetClient(ctx context.Context) (*sql.Conn, error) {
	dbConn := p.DB()
	if dbConn == nil {
		return nil, ErrConnectionFailed
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		return nil, p.TranslateError(err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, p.TranslateError(err)
	}
	return conn, nil
}

// Stat returns a snapshot of the connection pool occupancy: open, in-use and
// idle connections, plus wait statistics.
func (p *Postgres) Stat() sql.DBStats {
	dbConn := p.DB()
	if dbConn == nil {
		return sql.DBStats{}
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

// cloneWithTx returns a shallow copy of Postgres with tx as the DB client.
// It enables transaction-scoped operations while keeping the observer and
// logger of the parent. The clone does not share lifecycle channels with the
// parent to avoid accidental shutdown if a consumer calls GracefulShutdown()
// on the tx client.
func (p *Postgres) cloneWithTx(tx *gorm.DB) *Postgres {
	pg := &Postgres{
		cfg:      p.cfg,
		observer: p.observer,
		logger:   p.logger,
	}
	pg.client.Store(tx)
	return pg
}

// Transaction executes the given function within a database transaction.
// It creates a transaction-scoped Postgres instance and passes it as the
// Client interface. If the function returns an error, the transaction is
// rolled back; otherwise, it's committed.
//
// Example:
//
//	err := pg.Transaction(ctx, func(tx postgres.Client) error {
//	    if _, err := tx.Exec(ctx, "INSERT INTO accounts (name) VALUES (?)", name); err != nil {
//	        return err
//	    }
//	    _, err := tx.Exec(ctx, "INSERT INTO audit_log (event) VALUES (?)", "account_created")
//	    return err
//	})
func (p *Postgres) Transaction(ctx context.Context, fn func(tx Client) error) error {
	start := time.Now()
	// Snapshot the current connection; do not hold any package-level locks for
	// the whole transaction, which can be long-running.
	db := p.DB().WithContext(ctx)
	err := db.Transaction(func(txDB *gorm.DB) error {
		return fn(p.cloneWithTx(txDB))
	})
	p.observeOperation("transaction", p.cfg.Schema, "", time.Since(start), err, 0, nil)
	if err != nil {
		return p.TranslateError(err)
	}
	return nil
}

// logQuery reports a completed query's duration through the configured logger.
func (p *Postgres) logQuery(ctx context.Context, query string, duration time.Duration, rows int64) {
	p.logInfo(ctx, "Query executed", map[string]interface{}{
		"sql":         query,
		"duration_ms": duration.Milliseconds(),
		"rows":        rows,
		"schema":      p.cfg.Schema,
	})
}
