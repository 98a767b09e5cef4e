package database

import (
	"github.com/gaborage/todo-bricks/database/types"
)

// Interface defines the database operations the application depends on.
// The interfaces live in database/types to avoid import cycles; these aliases
// keep callers on the shorter package name.
type Interface = types.Interface

// Querier is satisfied by both connections and transactions.
type Querier = types.Querier

// Tx defines the interface for database transactions.
type Tx = types.Tx

// Row is a single scanned result row.
type Row = types.Row
