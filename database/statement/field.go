package statement

import "time"

// Field maps one request field onto a builder. Fields whose request value is
// absent (nil pointer, NoOp patch, unset filter) are Empty and add nothing.
type Field interface {
	Apply(b *Builder)
	Empty() bool
}

// Apply adds every non-empty field to the builder in order.
func (b *Builder) Apply(fields ...Field) *Builder {
	for _, f := range fields {
		if f != nil && !f.Empty() {
			f.Apply(b)
		}
	}
	return b
}

// AllEmpty reports whether none of the fields would change a builder.
func AllEmpty(fields ...Field) bool {
	for _, f := range fields {
		if f != nil && !f.Empty() {
			return false
		}
	}
	return true
}

type insertField[T any] struct {
	column string
	value  *T
}

// InsertField writes *value to column when value is non-nil.
func InsertField[T any](column string, value *T) Field {
	return insertField[T]{column: column, value: value}
}

func (f insertField[T]) Apply(b *Builder) {
	if f.value != nil {
		b.Column(f.column, *f.value)
	}
}

func (f insertField[T]) Empty() bool {
	return f.value == nil
}

type updateField[T any] struct {
	column string
	patch  Patch[T]
}

// UpdateField writes the patch to column unless it is NoOp.
func UpdateField[T any](column string, patch Patch[T]) Field {
	return updateField[T]{column: column, patch: patch}
}

func (f updateField[T]) Apply(b *Builder) {
	if v, ok := f.patch.Bindable(); ok {
		b.Column(f.column, v)
	}
}

func (f updateField[T]) Empty() bool {
	return f.patch.IsNoOp()
}

type stampField struct {
	column string
	flag   *bool
	ref    string
}

// StampField turns a boolean flag into a timestamp-or-NULL column: true binds
// the value already written to the ref column (e.g. updated_on) so both carry
// the same instant, false binds NULL.
func StampField(column string, flag *bool, ref string) Field {
	return stampField{column: column, flag: flag, ref: ref}
}

func (f stampField) Apply(b *Builder) {
	if f.flag == nil {
		return
	}
	if !*f.flag {
		b.Column(f.column, Null)
		return
	}
	at, ok := b.ColumnValue(f.ref)
	if !ok {
		at = time.Now().UTC()
	}
	b.Column(f.column, at)
}

func (f stampField) Empty() bool {
	return f.flag == nil
}

type whereField[T any] struct {
	column string
	filter *Filter[T]
	match  Comparator
}

// WhereField adds a condition for the filter. match is the comparator used
// for Match filters: ILike for free text, Equal for everything else.
func WhereField[T any](column string, filter *Filter[T], match Comparator) Field {
	return whereField[T]{column: column, filter: filter, match: match}
}

func (f whereField[T]) Apply(b *Builder) {
	if f.Empty() {
		return
	}
	v, ok := f.filter.BoundValue()
	if !ok {
		v = Null
	}
	b.Where(f.column, f.filter.Comparator(f.match), v)
}

func (f whereField[T]) Empty() bool {
	return f.filter == nil || f.filter.IsZero()
}

type flagField struct {
	column string
	flag   *bool
}

// FlagField filters on the presence of a timestamp column: true renders
// IS NOT NULL, false renders IS NULL.
func FlagField(column string, flag *bool) Field {
	return flagField{column: column, flag: flag}
}

func (f flagField) Apply(b *Builder) {
	if f.flag == nil {
		return
	}
	cmp := IsNull
	if *f.flag {
		cmp = NotNull
	}
	b.Where(f.column, cmp, Null)
}

func (f flagField) Empty() bool {
	return f.flag == nil
}
