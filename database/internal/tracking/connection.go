package tracking

import (
	"context"
	"database/sql"
	"time"

	"github.com/gaborage/todo-bricks/config"
	"github.com/gaborage/todo-bricks/database/types"
	"github.com/gaborage/todo-bricks/logger"
)

// Connection wraps types.Interface to provide performance tracking.
// It delegates all operations to the wrapped connection while intercepting calls
// to log performance metrics, detect slow queries, and track errors.
type Connection struct {
	conn types.Interface
	tc   *Context
}

var _ types.Interface = (*Connection)(nil)

// NewConnection returns a Connection that wraps conn and records per-operation
// logs, spans and metrics. The vendor is taken from conn.DatabaseType() and
// tracking settings from cfg.
func NewConnection(conn types.Interface, log logger.Logger, cfg *config.DatabaseConfig) *Connection {
	tc := &Context{
		Logger:   log,
		Vendor:   conn.DatabaseType(),
		Settings: NewSettings(cfg),
	}
	if cfg != nil {
		tc.ServerAddress = cfg.Host
		tc.ServerPort = cfg.Port
		tc.Namespace = cfg.Database
	}
	return &Connection{conn: conn, tc: tc}
}

// Query executes a query with performance tracking
func (c *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := c.conn.Query(ctx, query, args...)

	TrackDBOperation(ctx, c.tc, query, args, start, 0, err)
	return rows, err
}

// QueryRow executes a single row query; tracking happens when the row is scanned.
func (c *Connection) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	start := time.Now()
	row := c.conn.QueryRow(ctx, query, args...)

	return wrapRowWithTracker(row, func(err error) {
		TrackDBOperation(ctx, c.tc, query, args, start, 0, err)
	})
}

// Exec executes a query without returning rows with performance tracking
func (c *Connection) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := c.conn.Exec(ctx, query, args...)

	TrackDBOperation(ctx, c.tc, query, args, start, extractRowsAffected(result, err), err)
	return result, err
}

// Begin starts a transaction with performance tracking
func (c *Connection) Begin(ctx context.Context) (types.Tx, error) {
	return c.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with options and performance tracking
func (c *Connection) BeginTx(ctx context.Context, opts *sql.TxOptions) (types.Tx, error) {
	start := time.Now()
	tx, err := c.conn.BeginTx(ctx, opts)
	TrackDBOperation(ctx, c.tc, queryBegin, nil, start, 0, err)
	if err != nil {
		return nil, err
	}

	return NewTransaction(ctx, tx, c.tc), nil
}

// Health checks database connection health (no tracking needed)
func (c *Connection) Health(ctx context.Context) error {
	return c.conn.Health(ctx)
}

// Stats returns database connection statistics (no tracking needed)
func (c *Connection) Stats() (map[string]any, error) {
	return c.conn.Stats()
}

// Close closes the database connection (no tracking needed)
func (c *Connection) Close() error {
	return c.conn.Close()
}

// DatabaseType returns the database type (no tracking needed)
func (c *Connection) DatabaseType() string {
	return c.conn.DatabaseType()
}
