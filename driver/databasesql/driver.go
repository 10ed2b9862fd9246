// Package databasesql provides a database/sql driver implementation for meetpg.
//
// It works with any database/sql driver that speaks PostgreSQL (lib/pq) or
// SQLite (modernc.org/sqlite). The SQL dialect defaults to PostgreSQL.
//
// Usage:
//
//	db, _ := sql.Open("postgres", databaseURL)
//	drv := databasesql.New(db)
//
//	db, _ := sql.Open("sqlite", "file:meetpg.db?_pragma=foreign_keys(1)")
//	drv := databasesql.New(db, databasesql.WithDialect(driver.DialectSQLite))
package databasesql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/driver/sqlstore"
	"github.com/youssefsiam38/meetpg/storage"
)

// ErrNestedTx is returned when Begin is called on a transaction.
var ErrNestedTx = errors.New("databasesql: nested transactions are not supported")

// Driver implements driver.Driver using database/sql.
type Driver struct {
	db      *sql.DB
	dialect driver.Dialect
	clock   func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithDialect sets the SQL dialect of db.
func WithDialect(d driver.Dialect) Option {
	return func(drv *Driver) {
		drv.dialect = d
	}
}

// WithClock sets the time source used by the store.
func WithClock(now func() time.Time) Option {
	return func(drv *Driver) {
		drv.clock = now
	}
}

// New creates a new database/sql driver for db.
// The caller keeps ownership of db and is responsible for closing it.
func New(db *sql.DB, opts ...Option) *Driver {
	d := &Driver{db: db, dialect: driver.DialectPostgres}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// GetExecutor returns an executor for non-transactional operations.
func (d *Driver) GetExecutor() driver.Executor {
	return newExecutor(d.db)
}

// UnwrapExecutor converts a *sql.Tx to an ExecutorTx.
func (d *Driver) UnwrapExecutor(tx *sql.Tx) driver.ExecutorTx {
	return newExecutorTx(tx)
}

// UnwrapTx extracts the *sql.Tx from an ExecutorTx.
func (d *Driver) UnwrapTx(execTx driver.ExecutorTx) *sql.Tx {
	return execTx.(*ExecutorTx).tx
}

// Begin starts a new transaction and returns an ExecutorTx.
func (d *Driver) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	return d.GetExecutor().Begin(ctx)
}

// PoolIsSet returns true if the driver has a database configured.
func (d *Driver) PoolIsSet() bool {
	return d.db != nil
}

// Dialect reports the SQL dialect of the database.
func (d *Driver) Dialect() driver.Dialect {
	return d.dialect
}

// GetStore returns a Store implementation using this driver.
func (d *Driver) GetStore() storage.Store {
	var opts []sqlstore.Option
	if d.clock != nil {
		opts = append(opts, sqlstore.WithClock(d.clock))
	}
	return sqlstore.New(d, d.dialect, opts...)
}

// Migrate applies pending schema migrations.
func (d *Driver) Migrate(ctx context.Context) error {
	return driver.Migrate(ctx, d.GetExecutor(), d.dialect)
}

// DB returns the underlying database connection.
func (d *Driver) DB() *sql.DB {
	return d.db
}

// Compile-time check
var _ driver.Driver[*sql.Tx] = (*Driver)(nil)

// sqlQuerier is the statement surface shared by *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// querier adapts a sqlQuerier to driver.Querier.
type querier struct {
	q sqlQuerier
}

func (q querier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q querier) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	rs, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{rs}, nil
}

func (q querier) QueryRow(ctx context.Context, query string, args ...any) driver.Row {
	return row{q.q.QueryRowContext(ctx, query, args...)}
}

type row struct {
	*sql.Row
}

func (r row) Scan(dest ...any) error {
	if err := r.Row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return driver.ErrNoRows
		}
		return err
	}
	return nil
}

// rows drops the error from (*sql.Rows).Close; Err reports iteration failures.
type rows struct {
	*sql.Rows
}

func (r rows) Close() {
	_ = r.Rows.Close()
}

// Executor runs statements on the *sql.DB.
type Executor struct {
	querier
	db *sql.DB
}

func newExecutor(db *sql.DB) *Executor {
	return &Executor{querier: querier{db}, db: db}
}

// Begin starts a transaction.
func (e *Executor) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newExecutorTx(tx), nil
}

// ExecutorTx runs statements inside a *sql.Tx.
type ExecutorTx struct {
	querier
	tx *sql.Tx
}

func newExecutorTx(tx *sql.Tx) *ExecutorTx {
	return &ExecutorTx{querier: querier{tx}, tx: tx}
}

// Begin returns ErrNestedTx; database/sql has no portable savepoint API.
func (e *ExecutorTx) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	return nil, ErrNestedTx
}

// Commit commits the transaction.
func (e *ExecutorTx) Commit(ctx context.Context) error {
	return e.tx.Commit()
}

// Rollback rolls back the transaction.
func (e *ExecutorTx) Rollback(ctx context.Context) error {
	return e.tx.Rollback()
}

// Tx returns the underlying *sql.Tx.
func (e *ExecutorTx) Tx() *sql.Tx {
	return e.tx
}
