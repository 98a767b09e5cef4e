package todo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database"
	"github.com/gaborage/todo-bricks/database/statement"
	"github.com/gaborage/todo-bricks/todo/model"
)

// entity constrains a pointer to a scannable row struct.
type entity[E any] interface {
	*E
	model.Entity
}

// scanRows reads every row into E, matching result columns to the entity's
// scan targets by name. Columns the entity does not know are discarded.
func scanRows[E any, PE entity[E]](rows *sql.Rows) ([]E, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []E{}
	for rows.Next() {
		var e E
		targets := PE(&e).Targets()

		dest := make([]any, len(cols))
		for i, c := range cols {
			if t, ok := targets[c]; ok {
				dest[i] = t
			} else {
				dest[i] = new(any)
			}
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func scanIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// queryAll runs stmt and scans every returned row.
func queryAll[E any, PE entity[E]](ctx context.Context, q database.Querier, stmt statement.Statement) ([]E, error) {
	rows, err := q.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	return scanRows[E, PE](rows)
}

// exactlyOne enforces the single-row contract of primary key statements.
func exactlyOne[E any](rows []E) (*E, error) {
	switch len(rows) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrMultipleRows, len(rows))
	}
}

// writeOne runs a primary key UPDATE ... RETURNING * in a transaction. The
// transaction is rolled back unless exactly one row was written.
func writeOne[E any, PE entity[E]](ctx context.Context, db database.Interface, stmt statement.Statement) (*E, error) {
	var out *E
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		rows, err := queryAll[E, PE](ctx, tx, stmt)
		if err != nil {
			return err
		}
		out, err = exactlyOne(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// deleteOne runs a primary key DELETE ... RETURNING <id> in a transaction
// with the same single-row contract as writeOne.
func deleteOne(ctx context.Context, db database.Interface, stmt statement.Statement) error {
	return database.WithTx(ctx, db, func(tx database.Tx) error {
		rows, err := tx.Query(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		ids, err := scanIDs(rows)
		if err != nil {
			return err
		}
		_, err = exactlyOne(ids)
		return err
	})
}
