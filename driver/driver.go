// Package driver provides database driver abstractions for meetpg.
//
// This package defines the interfaces that database drivers must implement
// to work with meetpg. It enables support for multiple database backends
// (pgx/v5, database/sql with lib/pq or SQLite) through a generic driver
// pattern, and owns the schema migrations shared by all of them.
package driver

import (
	"context"
	"errors"

	"github.com/youssefsiam38/meetpg/storage"
)

// ErrNoRows is returned by Row.Scan when a query selected nothing.
// Drivers translate their native sentinel (pgx.ErrNoRows, sql.ErrNoRows)
// so stores can check a single value.
var ErrNoRows = errors.New("driver: no rows in result set")

// Driver provides database operations for meetpg.
// TTx is the native transaction type (e.g., pgx.Tx for pgx/v5, *sql.Tx for database/sql).
//
// Implementations should be created using the driver-specific New() functions:
//   - github.com/youssefsiam38/meetpg/driver/pgxv5.New(pool)
//   - github.com/youssefsiam38/meetpg/driver/databasesql.New(db)
type Driver[TTx any] interface {
	// GetExecutor returns an executor for non-transactional operations.
	// The returned Executor uses the underlying connection pool.
	GetExecutor() Executor

	// UnwrapExecutor converts a native transaction to an ExecutorTx.
	// This allows meetpg to work with user-provided transactions.
	UnwrapExecutor(tx TTx) ExecutorTx

	// UnwrapTx extracts the native transaction from an ExecutorTx.
	UnwrapTx(execTx ExecutorTx) TTx

	// Begin starts a new transaction and returns an ExecutorTx.
	Begin(ctx context.Context) (ExecutorTx, error)

	// PoolIsSet returns true if the driver has a database pool configured.
	PoolIsSet() bool

	// Dialect reports the SQL dialect spoken by the underlying database.
	Dialect() Dialect

	// GetStore returns a Store implementation using this driver.
	GetStore() storage.Store

	// Migrate applies pending schema migrations.
	Migrate(ctx context.Context) error
}

// Beginner is an interface for types that can begin transactions.
// This is used internally to handle driver abstraction in non-generic contexts.
type Beginner interface {
	Begin(ctx context.Context) (ExecutorTx, error)
}
