// Package pgxv5 provides a pgx/v5 driver implementation for meetpg.
//
// This is the primary/recommended driver for meetpg, offering the best
// performance and nested transactions via savepoints.
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, databaseURL)
//	drv := pgxv5.New(pool)
//	if err := drv.Migrate(ctx); err != nil { ... }
//	store := drv.GetStore()
package pgxv5

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/driver/sqlstore"
	"github.com/youssefsiam38/meetpg/storage"
)

// Driver implements driver.Driver for pgx/v5.
type Driver struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock sets the time source used by the store.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.clock = now
	}
}

// New creates a new pgx/v5 driver with the given connection pool.
func New(pool *pgxpool.Pool, opts ...Option) *Driver {
	d := &Driver{pool: pool}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// GetExecutor returns an executor for non-transactional operations.
func (d *Driver) GetExecutor() driver.Executor {
	return newExecutor(d.pool)
}

// UnwrapExecutor converts a pgx.Tx to an ExecutorTx.
func (d *Driver) UnwrapExecutor(tx pgx.Tx) driver.ExecutorTx {
	return newExecutorTx(tx)
}

// UnwrapTx extracts the pgx.Tx from an ExecutorTx.
func (d *Driver) UnwrapTx(execTx driver.ExecutorTx) pgx.Tx {
	return execTx.(*ExecutorTx).tx
}

// Begin starts a new transaction and returns an ExecutorTx.
func (d *Driver) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	return newExecutor(d.pool).Begin(ctx)
}

// PoolIsSet returns true if the driver has a database pool configured.
func (d *Driver) PoolIsSet() bool {
	return d.pool != nil
}

// Dialect returns driver.DialectPostgres.
func (d *Driver) Dialect() driver.Dialect {
	return driver.DialectPostgres
}

// GetStore returns a Store implementation using this driver.
func (d *Driver) GetStore() storage.Store {
	var opts []sqlstore.Option
	if d.clock != nil {
		opts = append(opts, sqlstore.WithClock(d.clock))
	}
	return sqlstore.New(d, driver.DialectPostgres, opts...)
}

// Migrate applies pending schema migrations.
func (d *Driver) Migrate(ctx context.Context) error {
	return driver.Migrate(ctx, d.GetExecutor(), driver.DialectPostgres)
}

// Pool returns the underlying pgxpool.Pool for advanced usage.
func (d *Driver) Pool() *pgxpool.Pool {
	return d.pool
}

// Compile-time check
var _ driver.Driver[pgx.Tx] = (*Driver)(nil)

// pgxQuerier is the statement surface shared by *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querier adapts a pgxQuerier to driver.Querier. pgx.Rows already
// satisfies driver.Rows; single rows are wrapped to translate pgx.ErrNoRows.
type querier struct {
	q pgxQuerier
}

func (q querier) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := q.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q querier) Query(ctx context.Context, sql string, args ...any) (driver.Rows, error) {
	rows, err := q.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (q querier) QueryRow(ctx context.Context, sql string, args ...any) driver.Row {
	return row{q.q.QueryRow(ctx, sql, args...)}
}

type row struct {
	pgx.Row
}

func (r row) Scan(dest ...any) error {
	if err := r.Row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driver.ErrNoRows
		}
		return err
	}
	return nil
}

// Executor runs statements on the pool.
type Executor struct {
	querier
	pool *pgxpool.Pool
}

func newExecutor(pool *pgxpool.Pool) *Executor {
	return &Executor{querier: querier{pool}, pool: pool}
}

// Begin starts a transaction.
func (e *Executor) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return newExecutorTx(tx), nil
}

// ExecutorTx runs statements inside a pgx transaction.
type ExecutorTx struct {
	querier
	tx pgx.Tx
}

func newExecutorTx(tx pgx.Tx) *ExecutorTx {
	return &ExecutorTx{querier: querier{tx}, tx: tx}
}

// Begin starts a savepoint inside the transaction.
func (e *ExecutorTx) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	tx, err := e.tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return newExecutorTx(tx), nil
}

// Commit commits the transaction, or releases the savepoint.
func (e *ExecutorTx) Commit(ctx context.Context) error {
	return e.tx.Commit(ctx)
}

// Rollback rolls back the transaction, or to the savepoint.
func (e *ExecutorTx) Rollback(ctx context.Context) error {
	return e.tx.Rollback(ctx)
}

// Tx returns the underlying pgx.Tx.
func (e *ExecutorTx) Tx() pgx.Tx {
	return e.tx
}
