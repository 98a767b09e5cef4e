package statement

import "errors"

// Sentinel errors returned by the builder and the tri-state wrappers.
// They can be matched with errors.Is().
var (
	// ErrEmptyTable is returned when a statement is built without a table name.
	ErrEmptyTable = errors.New("statement table cannot be empty")

	// ErrEmptyStatement is returned when an INSERT or UPDATE has no columns to write.
	ErrEmptyStatement = errors.New("statement has no columns to write")

	// ErrUnknownComparator is returned for comparator values outside the defined set.
	ErrUnknownComparator = errors.New("unknown comparator")

	// ErrUnknownJoin is returned for join kinds outside the defined set.
	ErrUnknownJoin = errors.New("unknown join kind")

	// ErrBuilderConsumed is returned when a builder is built more than once.
	ErrBuilderConsumed = errors.New("statement builder already consumed")

	// ErrNoOpPatch is returned when a NoOp patch is asked for a driver value.
	ErrNoOpPatch = errors.New("no-op patch cannot be bound")

	// ErrInvalidFilter is returned when a filter cannot be decoded.
	ErrInvalidFilter = errors.New("invalid filter")
)
