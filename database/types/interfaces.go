// Package types contains the core database interface definitions.
// These interfaces are separate from the main database package to avoid import cycles
// and to make them easily accessible for mocking and testing.
//
//nolint:revive // Package name "types" is intentionally generic to avoid circular
package types

import (
	"context"
	"database/sql"
)

// Vendor identifies a database backend.
type Vendor = string

const (
	PostgreSQL Vendor = "postgresql"
)

// Row represents a single result set row with basic scanning behaviour.
type Row interface {
	Scan(dest ...any) error
	Err() error
}

type sqlRowAdapter struct {
	row *sql.Row
}

// NewRowFromSQL wraps the provided *sql.Row in a Row.
// If row is nil, NewRowFromSQL returns nil.
func NewRowFromSQL(row *sql.Row) Row {
	if row == nil {
		return nil
	}
	return &sqlRowAdapter{row: row}
}

func (r *sqlRowAdapter) Scan(dest ...any) error {
	if r == nil || r.row == nil {
		return ErrNilRow
	}
	return r.row.Scan(dest...)
}

func (r *sqlRowAdapter) Err() error {
	if r == nil || r.row == nil {
		return ErrNilRow
	}
	return r.row.Err()
}

// Querier executes statements. Both connections and transactions satisfy it,
// so repository code can run the same statement inside or outside a transaction.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tx defines the interface for database transactions.
type Tx interface {
	Querier

	Commit() error
	Rollback() error
}

// Transactor starts transactions.
//
//	tx, err := db.Begin(ctx)
//	if err != nil { return err }
//	defer tx.Rollback() // no-op once committed
//	// ... execute operations on tx ...
//	return tx.Commit()
type Transactor interface {
	Begin(ctx context.Context) (Tx, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

// Interface defines the database operations the application depends on.
// Repositories depend on it rather than on a concrete driver so they can be
// exercised with go-sqlmock or a testify mock.
type Interface interface {
	Querier
	Transactor

	// Health and diagnostics
	Health(ctx context.Context) error
	Stats() (map[string]any, error)

	// Connection management
	Close() error

	DatabaseType() string
}
