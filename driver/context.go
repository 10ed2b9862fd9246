package driver

import "context"

type executorKey struct{}

// WithExecutor binds tx to ctx. Store calls made with the returned context
// run inside tx, so several agent and meeting writes can commit together:
//
//	tx, _ := drv.Begin(ctx)
//	txCtx := driver.WithExecutor(ctx, tx)
//	agent, _ := store.CreateAgent(txCtx, params)
//	_, _ = store.CreateMeeting(txCtx, &storage.CreateMeetingParams{AgentID: agent.ID, ...})
//	tx.Commit(ctx)
func WithExecutor(ctx context.Context, tx ExecutorTx) context.Context {
	return context.WithValue(ctx, executorKey{}, tx)
}

// ExecutorFromContext returns the transaction bound by WithExecutor, or nil.
func ExecutorFromContext(ctx context.Context) ExecutorTx {
	tx, _ := ctx.Value(executorKey{}).(ExecutorTx)
	return tx
}
