package statement

import (
	"fmt"
	"strings"
)

// Comparator selects how a condition compares a column with its bound value.
type Comparator int

const (
	Equal Comparator = iota + 1
	NotEqual
	Less
	LessEq
	Greater
	GreaterEq
	IsNull
	NotNull
	Like
	ILike
	In
	NotIn
)

var comparatorNames = [...]string{
	Equal:     "Equal",
	NotEqual:  "NotEqual",
	Less:      "Less",
	LessEq:    "LessEq",
	Greater:   "Greater",
	GreaterEq: "GreaterEq",
	IsNull:    "IsNull",
	NotNull:   "NotNull",
	Like:      "Like",
	ILike:     "ILike",
	In:        "In",
	NotIn:     "NotIn",
}

// relational operators for the comparators rendered as "<expr> <op> ?"
var relationalOps = map[Comparator]string{
	Equal:     "=",
	NotEqual:  "<>",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
}

// Valid reports whether c is one of the defined comparators.
func (c Comparator) Valid() bool {
	return c >= Equal && c <= NotIn
}

// BindsValue reports whether a condition using c consumes a placeholder.
func (c Comparator) BindsValue() bool {
	return c.Valid() && c != IsNull && c != NotNull
}

func (c Comparator) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Comparator(%d)", int(c))
	}
	return comparatorNames[c]
}

// ParseComparator resolves a comparator by name, ignoring case.
func ParseComparator(name string) (Comparator, error) {
	name = strings.TrimSpace(name)
	for c := Equal; c <= NotIn; c++ {
		if strings.EqualFold(comparatorNames[c], name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownComparator)
}

// MarshalText implements encoding.TextMarshaler.
func (c Comparator) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%d: %w", int(c), ErrUnknownComparator)
	}
	return []byte(comparatorNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Comparator) UnmarshalText(text []byte) error {
	parsed, err := ParseComparator(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// render writes the condition for expr using "?" as the placeholder marker.
// Placeholders are numbered once the whole statement is rendered.
func (c Comparator) render(sb *strings.Builder, expr string) error {
	writeText(sb, expr)
	switch c {
	case IsNull:
		sb.WriteString(" IS NULL")
	case NotNull:
		sb.WriteString(" IS NOT NULL")
	case Like:
		sb.WriteString(" LIKE '%' || ? || '%'")
	case ILike:
		sb.WriteString(" ILIKE '%' || ? || '%'")
	case In:
		sb.WriteString(" = ANY(?)")
	case NotIn:
		sb.WriteString(" <> ALL(?)")
	default:
		op, ok := relationalOps[c]
		if !ok {
			return fmt.Errorf("%s on %s: %w", c, expr, ErrUnknownComparator)
		}
		sb.WriteString(" ")
		sb.WriteString(op)
		sb.WriteString(" ?")
	}
	return nil
}
