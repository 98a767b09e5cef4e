package statement

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
)

type patchState uint8

const (
	patchNoOp patchState = iota
	patchRemove
	patchSet
)

// Patch is the update tri-state of a single column: NoOp leaves it untouched,
// Remove sets it to NULL and Set writes a new value.
// The zero value is NoOp.
type Patch[T any] struct {
	state patchState
	value T
}

// NoOp returns a patch that leaves the column untouched.
func NoOp[T any]() Patch[T] {
	return Patch[T]{}
}

// Remove returns a patch that sets the column to NULL.
func Remove[T any]() Patch[T] {
	return Patch[T]{state: patchRemove}
}

// Set returns a patch that writes v.
func Set[T any](v T) Patch[T] {
	return Patch[T]{state: patchSet, value: v}
}

// IsNoOp reports whether the patch leaves the column untouched.
func (p Patch[T]) IsNoOp() bool {
	return p.state == patchNoOp
}

// IsZero lets encoding/json omit NoOp patches tagged with omitzero.
func (p Patch[T]) IsZero() bool {
	return p.IsNoOp()
}

// IsRemove reports whether the patch clears the column.
func (p Patch[T]) IsRemove() bool {
	return p.state == patchRemove
}

// Get returns the new value and whether the patch is a Set.
func (p Patch[T]) Get() (T, bool) {
	return p.value, p.state == patchSet
}

// Bindable returns the patch as a bindable value. NoOp patches are not
// bindable and return false.
func (p Patch[T]) Bindable() (Bindable, bool) {
	if p.IsNoOp() {
		return nil, false
	}
	return p, true
}

// Value implements driver.Valuer. Remove binds NULL, Set delegates to the
// wrapped value. Slices, arrays and maps are returned as they are for pgx to
// encode. NoOp never reaches the driver through the field adapters; if it
// does, ErrNoOpPatch is returned.
func (p Patch[T]) Value() (driver.Value, error) {
	switch p.state {
	case patchSet:
		v, err := driver.DefaultParameterConverter.ConvertValue(p.value)
		if err != nil && isCollection(p.value) {
			return p.value, nil
		}
		return v, err
	case patchRemove:
		return nil, nil
	default:
		return nil, ErrNoOpPatch
	}
}

func isCollection(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

func (p Patch[T]) String() string {
	switch p.state {
	case patchSet:
		return fmt.Sprintf("Set(%v)", p.value)
	case patchRemove:
		return "Remove"
	default:
		return "NoOp"
	}
}

// MarshalJSON renders Set as its value and both NoOp and Remove as null.
func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if p.state != patchSet {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON decodes null or true as Remove, false as NoOp and any value
// decodable as T as Set. An absent field keeps the NoOp zero value.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Remove[T]()
		return nil
	}

	var v T
	err := json.Unmarshal(data, &v)
	if err == nil {
		*p = Set(v)
		return nil
	}

	switch {
	case bytes.Equal(data, []byte("true")):
		*p = Remove[T]()
		return nil
	case bytes.Equal(data, []byte("false")):
		*p = NoOp[T]()
		return nil
	}
	return fmt.Errorf("decode patch: %w", err)
}
