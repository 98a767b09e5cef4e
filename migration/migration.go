// Package migration applies the embedded todo schema to PostgreSQL.
//
// The schema is written with IF NOT EXISTS clauses and its checksum is
// recorded after a successful run, so Apply is safe on every startup.
package migration

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/gaborage/todo-bricks/database"
	"github.com/gaborage/todo-bricks/database/statement"
	"github.com/gaborage/todo-bricks/logger"
)

//go:embed schema.sql
var schemaSQL string

const (
	historyTable = "public.todo_schema_history"

	createHistory = `CREATE TABLE IF NOT EXISTS ` + historyTable + ` (
	checksum text PRIMARY KEY,
	applied_on timestamptz NOT NULL DEFAULT now()
)`
)

// Schema returns the embedded schema SQL.
func Schema() string {
	return schemaSQL
}

// Checksum returns the hex SHA-256 of the embedded schema.
func Checksum() string {
	sum := sha256.Sum256([]byte(schemaSQL))
	return hex.EncodeToString(sum[:])
}

// Options controls a migration run.
type Options struct {
	// DryRun receives the schema SQL instead of the database.
	DryRun io.Writer

	// Force re-applies the schema even when its checksum is recorded.
	Force bool
}

// Migrator applies the schema through a database connection.
type Migrator struct {
	db     database.Interface
	logger logger.Logger
}

// NewMigrator creates a migrator for db.
func NewMigrator(db database.Interface, log logger.Logger) *Migrator {
	return &Migrator{db: db, logger: log}
}

// Apply runs the schema in one transaction and records its checksum. It
// reports whether the schema was executed; a recorded checksum skips the run
// unless Force is set.
func (m *Migrator) Apply(ctx context.Context, opts Options) (bool, error) {
	checksum := Checksum()

	if opts.DryRun != nil {
		if _, err := io.WriteString(opts.DryRun, schemaSQL); err != nil {
			return false, fmt.Errorf("write dry run: %w", err)
		}
		return false, nil
	}

	lookup, err := statement.New(historyTable).
		Returning("COUNT(*)").
		Where("checksum", statement.Equal, checksum).
		BuildSelect()
	if err != nil {
		return false, err
	}
	record, err := statement.New(historyTable).
		Column("checksum", checksum).
		BuildInsert()
	if err != nil {
		return false, err
	}

	applied := false
	err = database.WithTx(ctx, m.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, createHistory); err != nil {
			return fmt.Errorf("create history table: %w", err)
		}

		var seen int
		if err := tx.QueryRow(ctx, lookup.SQL, lookup.Args...).Scan(&seen); err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if seen > 0 && !opts.Force {
			return nil
		}

		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		if seen == 0 {
			if _, err := tx.Exec(ctx, record.SQL, record.Args...); err != nil {
				return fmt.Errorf("record checksum: %w", err)
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	event := m.logger.Info().Str("checksum", checksum[:12])
	if applied {
		event.Msg("Schema applied")
	} else {
		event.Msg("Schema up to date")
	}
	return applied, nil
}
