package mocks

import (
	"fmt"
	"reflect"

	"github.com/gaborage/todo-bricks/database/types"
)

// StaticRow is a types.Row that scans fixed values, or returns err.
type StaticRow struct {
	Values []any
	Error  error
}

var _ types.Row = (*StaticRow)(nil)

// NewRow returns a row scanning values in order.
func NewRow(values ...any) *StaticRow {
	return &StaticRow{Values: values}
}

// NewErrorRow returns a row whose Scan fails with err.
func NewErrorRow(err error) *StaticRow {
	return &StaticRow{Error: err}
}

// Scan assigns the fixed values to dest, which must be pointers of matching types.
func (r *StaticRow) Scan(dest ...any) error {
	if r.Error != nil {
		return r.Error
	}
	if len(dest) != len(r.Values) {
		return fmt.Errorf("mock row: expected %d destinations, got %d", len(r.Values), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("mock row: destination %d is not a non-nil pointer", i)
		}
		if r.Values[i] == nil {
			target.Elem().Set(reflect.Zero(target.Elem().Type()))
			continue
		}
		v := reflect.ValueOf(r.Values[i])
		if !v.Type().AssignableTo(target.Elem().Type()) {
			return fmt.Errorf("mock row: cannot assign %s to %s", v.Type(), target.Elem().Type())
		}
		target.Elem().Set(v)
	}
	return nil
}

// Err returns the configured error
func (r *StaticRow) Err() error {
	return r.Error
}
