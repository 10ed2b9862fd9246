package driver

import "context"

// Row is one result row. pgx.Row and *sql.Row both satisfy it.
// Scan reports ErrNoRows when the statement matched nothing, which is how
// the store detects a conditional UPDATE or DELETE that hit no owned row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set read with Next and Scan. Callers must Close it and
// check Err after the last Next.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier runs statements written with $N placeholders. Dialect-specific
// rebinding happens before a statement reaches it.
type Querier interface {
	// Exec runs a statement and reports the rows it affected.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Executor is a Querier over a pool or an open transaction.
type Executor interface {
	Querier

	// Begin opens a transaction, or a savepoint when called on a
	// transaction and the driver supports nesting.
	Begin(ctx context.Context) (ExecutorTx, error)
}

// ExecutorTx is an open transaction.
type ExecutorTx interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
