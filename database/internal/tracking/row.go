package tracking

import (
	"sync"

	"github.com/gaborage/todo-bricks/database/types"
)

// trackedRow reports a QueryRow once its outcome is known, which is on Scan
// or on a non-nil Err.
type trackedRow struct {
	types.Row
	report func(error)
}

func wrapRowWithTracker(row types.Row, finish func(error)) types.Row {
	if row == nil || finish == nil {
		return row
	}
	var once sync.Once
	return &trackedRow{
		Row:    row,
		report: func(err error) { once.Do(func() { finish(err) }) },
	}
}

func (r *trackedRow) Scan(dest ...any) error {
	err := r.Row.Scan(dest...)
	r.report(err)
	return err
}

func (r *trackedRow) Err() error {
	err := r.Row.Err()
	if err != nil {
		r.report(err)
	}
	return err
}
