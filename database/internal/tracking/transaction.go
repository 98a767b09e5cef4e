package tracking

import (
	"context"
	"database/sql"
	"time"

	"github.com/gaborage/todo-bricks/database/types"
)

// Transaction wraps types.Tx to provide performance tracking for database transactions.
// Commit and Rollback are recorded against the context the transaction was started with.
type Transaction struct {
	tx  types.Tx
	ctx context.Context
	tc  *Context
}

// Compile-time check
var _ types.Tx = (*Transaction)(nil)

// NewTransaction wraps tx so every statement, commit and rollback is tracked.
func NewTransaction(ctx context.Context, tx types.Tx, tc *Context) *Transaction {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Transaction{tx: tx, ctx: ctx, tc: tc}
}

// Query executes a query within a transaction with performance tracking
func (tx *Transaction) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := tx.tx.Query(ctx, query, args...)

	TrackDBOperation(ctx, tx.tc, query, args, start, 0, err)
	return rows, err
}

// QueryRow executes a single row query within a transaction with performance tracking
func (tx *Transaction) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	start := time.Now()
	row := tx.tx.QueryRow(ctx, query, args...)

	return wrapRowWithTracker(row, func(err error) {
		TrackDBOperation(ctx, tx.tc, query, args, start, 0, err)
	})
}

// Exec executes a query within a transaction without returning rows with performance tracking
func (tx *Transaction) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := tx.tx.Exec(ctx, query, args...)

	TrackDBOperation(ctx, tx.tc, query, args, start, extractRowsAffected(result, err), err)
	return result, err
}

// Commit commits the transaction
func (tx *Transaction) Commit() error {
	start := time.Now()
	err := tx.tx.Commit()

	TrackDBOperation(tx.ctx, tx.tc, queryCommit, nil, start, 0, err)
	return err
}

// Rollback rolls back the transaction. Rolling back a committed transaction
// returns sql.ErrTxDone, which is not logged as a failure.
func (tx *Transaction) Rollback() error {
	start := time.Now()
	err := tx.tx.Rollback()

	TrackDBOperation(tx.ctx, tx.tc, queryRollback, nil, start, 0, err)
	return err
}
