package statement

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type filterKind uint8

const (
	filterUnset filterKind = iota
	filterNotNull
	filterMatch
	filterCompare
)

// Filter is the query tri-state of a single column: NotNull(b) tests for
// presence without binding a value, Match(v) uses the column's match policy
// and Compare(v, c) uses an explicit comparator.
type Filter[T any] struct {
	kind    filterKind
	present bool
	value   T
	cmp     Comparator
}

// FilterNotNull returns a filter selecting rows where the column is (b=true)
// or is not (b=false) set.
func FilterNotNull[T any](b bool) Filter[T] {
	return Filter[T]{kind: filterNotNull, present: b}
}

// FilterMatch returns a filter matching v with the column's match policy.
func FilterMatch[T any](v T) Filter[T] {
	return Filter[T]{kind: filterMatch, value: v}
}

// FilterCompare returns a filter comparing the column with v using cmp.
func FilterCompare[T any](v T, cmp Comparator) Filter[T] {
	return Filter[T]{kind: filterCompare, value: v, cmp: cmp}
}

// IsZero reports whether the filter was never set.
func (f Filter[T]) IsZero() bool {
	return f.kind == filterUnset
}

// Comparator returns the comparator this filter renders with. match is the
// policy used for Match filters (Equal, Like or ILike).
func (f Filter[T]) Comparator(match Comparator) Comparator {
	switch f.kind {
	case filterNotNull:
		if f.present {
			return NotNull
		}
		return IsNull
	case filterMatch:
		return match
	case filterCompare:
		return f.cmp
	default:
		return 0
	}
}

// BoundValue returns the value to bind; NotNull filters bind nothing.
func (f Filter[T]) BoundValue() (any, bool) {
	switch f.kind {
	case filterMatch, filterCompare:
		return f.value, true
	default:
		return nil, false
	}
}

func (f Filter[T]) String() string {
	switch f.kind {
	case filterNotNull:
		return fmt.Sprintf("NotNull(%t)", f.present)
	case filterMatch:
		return fmt.Sprintf("Match(%v)", f.value)
	case filterCompare:
		return fmt.Sprintf("Compare(%v, %s)", f.value, f.cmp)
	default:
		return "Unset"
	}
}

// MarshalJSON renders NotNull as a bool, Match as the value and Compare as a
// [value, "Comparator"] pair.
func (f Filter[T]) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case filterNotNull:
		return json.Marshal(f.present)
	case filterMatch:
		return json.Marshal(f.value)
	case filterCompare:
		return json.Marshal([]any{f.value, f.cmp})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the three shapes produced by MarshalJSON. A bool is
// always read as NotNull, so boolean columns are compared with
// [true, "Equal"].
func (f *Filter[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = Filter[T]{}
		return nil
	case bytes.Equal(data, []byte("true")):
		*f = FilterNotNull[T](true)
		return nil
	case bytes.Equal(data, []byte("false")):
		*f = FilterNotNull[T](false)
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		compared, ok, err := decodeCompare[T](data)
		if err != nil {
			return err
		}
		if ok {
			*f = compared
			return nil
		}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	*f = FilterMatch(v)
	return nil
}

// decodeCompare reads a [value, "Comparator"] pair. ok is false when data is
// an array of another shape, which is then decoded as a Match value.
func decodeCompare[T any](data []byte) (Filter[T], bool, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) != 2 {
		return Filter[T]{}, false, nil
	}

	var name string
	if err := json.Unmarshal(pair[1], &name); err != nil {
		return Filter[T]{}, false, nil
	}
	cmp, err := ParseComparator(name)
	if err != nil {
		return Filter[T]{}, false, nil
	}
	if !cmp.BindsValue() {
		return Filter[T]{}, false, fmt.Errorf("%w: %s does not take a value, use a bool instead", ErrInvalidFilter, cmp)
	}

	var v T
	if err := json.Unmarshal(pair[0], &v); err != nil {
		return Filter[T]{}, false, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return FilterCompare(v, cmp), true, nil
}
