package statement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
)

// JoinKind selects the join rendered by Builder.Join.
type JoinKind int

const (
	InnerJoin JoinKind = iota + 1
	LeftJoin
	RightJoin
	FullJoin
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	default:
		return fmt.Sprintf("JoinKind(%d)", int(k))
	}
}

// Statement is rendered SQL text with its positional arguments, ready to be
// handed to the driver. It satisfies squirrel.Sqlizer.
type Statement struct {
	SQL  string
	Args []any
}

// ToSql implements squirrel.Sqlizer.
//
//nolint:revive // method name fixed by squirrel.Sqlizer
func (s Statement) ToSql() (sql string, args []any, err error) {
	return s.SQL, s.Args, nil
}

var _ squirrel.Sqlizer = Statement{}

type join struct {
	kind   JoinKind
	table  string
	column string
}

type column struct {
	name  string
	value any
}

type condition struct {
	expr  string
	cmp   Comparator
	value any
}

// Builder accumulates the parts of one statement. It is single-use: the first
// Build* call consumes it and later calls return ErrBuilderConsumed.
// A Builder is not safe for concurrent use.
type Builder struct {
	table      string
	joins      []join
	columns    []column
	conditions []condition
	groupBy    []string
	having     []condition
	orderBy    []string
	limit      uint64
	hasLimit   bool
	offset     uint64
	hasOffset  bool
	returning  []string
	consumed   bool
}

// New returns an empty builder for table.
func New(table string) *Builder {
	return &Builder{table: table}
}

// Table returns the target relation.
func (b *Builder) Table() string {
	return b.table
}

// Join adds a join rendered as "<KIND> JOIN <table> USING (<column>)".
// Joins are only rendered by BuildSelect.
func (b *Builder) Join(kind JoinKind, table, column string) *Builder {
	b.joins = append(b.joins, join{kind: kind, table: table, column: column})
	return b
}

// Column adds a write entry for INSERT and UPDATE. Insertion order becomes
// placeholder order.
func (b *Builder) Column(name string, value any) *Builder {
	b.columns = append(b.columns, column{name: name, value: value})
	return b
}

// ColumnCount returns the number of write entries.
func (b *Builder) ColumnCount() int {
	return len(b.columns)
}

// ColumnValue returns the value bound to the named write column.
func (b *Builder) ColumnValue(name string) (any, bool) {
	for _, c := range b.columns {
		if c.name == name {
			return c.value, true
		}
	}
	return nil, false
}

// Where adds a condition. Conditions are ANDed in insertion order. The value
// is ignored for IsNull and NotNull.
func (b *Builder) Where(expr string, cmp Comparator, value any) *Builder {
	b.conditions = append(b.conditions, condition{expr: expr, cmp: cmp, value: value})
	return b
}

// GroupBy replaces the GROUP BY list.
func (b *Builder) GroupBy(exprs ...string) *Builder {
	b.groupBy = append(b.groupBy[:0], exprs...)
	return b
}

// Having adds a HAVING clause member, e.g. Having("COUNT(tag_id)", Equal, 2).
func (b *Builder) Having(expr string, cmp Comparator, value any) *Builder {
	b.having = append(b.having, condition{expr: expr, cmp: cmp, value: value})
	return b
}

// OrderBy replaces the ORDER BY list.
func (b *Builder) OrderBy(exprs ...string) *Builder {
	b.orderBy = append(b.orderBy[:0], exprs...)
	return b
}

// Limit sets the LIMIT rendered as a literal.
func (b *Builder) Limit(n uint64) *Builder {
	b.limit, b.hasLimit = n, true
	return b
}

// Offset sets the OFFSET rendered as a literal.
func (b *Builder) Offset(n uint64) *Builder {
	b.offset, b.hasOffset = n, true
	return b
}

// Returning replaces the RETURNING columns. For SELECT these are the selected
// columns.
func (b *Builder) Returning(columns ...string) *Builder {
	b.returning = append(b.returning[:0], columns...)
	return b
}

// ReturningAll sets RETURNING * (SELECT * for selects).
func (b *Builder) ReturningAll() *Builder {
	return b.Returning("*")
}

// BuildSelect renders
// SELECT <cols|*> FROM <table> [joins] [WHERE] [GROUP BY] [HAVING] [ORDER BY] [LIMIT] [OFFSET].
func (b *Builder) BuildSelect() (Statement, error) {
	if err := b.consume(); err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.returnsAll() {
		sb.WriteString("*")
	} else {
		writeList(&sb, b.returning)
	}
	sb.WriteString(" FROM ")
	writeText(&sb, b.table)

	for _, j := range b.joins {
		if j.kind < InnerJoin || j.kind > FullJoin {
			return Statement{}, fmt.Errorf("%s %s: %w", j.kind, j.table, ErrUnknownJoin)
		}
		sb.WriteString(" ")
		sb.WriteString(j.kind.String())
		sb.WriteString(" JOIN ")
		writeText(&sb, j.table)
		sb.WriteString(" USING (")
		writeText(&sb, j.column)
		sb.WriteString(")")
	}

	args, err := writeConditions(&sb, " WHERE ", b.conditions, nil)
	if err != nil {
		return Statement{}, err
	}

	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		writeList(&sb, b.groupBy)
	}

	args, err = writeConditions(&sb, " HAVING ", b.having, args)
	if err != nil {
		return Statement{}, err
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		writeList(&sb, b.orderBy)
	}
	if b.hasLimit {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.FormatUint(b.limit, 10))
	}
	if b.hasOffset {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.FormatUint(b.offset, 10))
	}

	return finish(sb.String(), args)
}

// BuildInsert renders INSERT INTO <table> (<cols>) VALUES (<placeholders>) [RETURNING].
func (b *Builder) BuildInsert() (Statement, error) {
	if err := b.consume(); err != nil {
		return Statement{}, err
	}
	if len(b.columns) == 0 {
		return Statement{}, fmt.Errorf("insert into %s: %w", b.table, ErrEmptyStatement)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	writeText(&sb, b.table)

	names := make([]string, len(b.columns))
	args := make([]any, len(b.columns))
	for i, c := range b.columns {
		names[i] = c.name
		args[i] = c.value
	}
	sb.WriteString(" (")
	writeList(&sb, names)
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Repeat("?, ", len(b.columns)-1))
	sb.WriteString("?")
	sb.WriteString(")")

	b.writeReturning(&sb)
	return finish(sb.String(), args)
}

// BuildUpdate renders UPDATE <table> SET <col>=<placeholder>, ... [WHERE] [RETURNING].
func (b *Builder) BuildUpdate() (Statement, error) {
	if err := b.consume(); err != nil {
		return Statement{}, err
	}
	if len(b.columns) == 0 {
		return Statement{}, fmt.Errorf("update %s: %w", b.table, ErrEmptyStatement)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	writeText(&sb, b.table)
	sb.WriteString(" SET ")

	args := make([]any, 0, len(b.columns)+len(b.conditions))
	for i, c := range b.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeText(&sb, c.name)
		sb.WriteString("=?")
		args = append(args, c.value)
	}

	args, err := writeConditions(&sb, " WHERE ", b.conditions, args)
	if err != nil {
		return Statement{}, err
	}

	b.writeReturning(&sb)
	return finish(sb.String(), args)
}

// BuildDelete renders DELETE FROM <table> [WHERE] [RETURNING].
func (b *Builder) BuildDelete() (Statement, error) {
	if err := b.consume(); err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	writeText(&sb, b.table)

	args, err := writeConditions(&sb, " WHERE ", b.conditions, nil)
	if err != nil {
		return Statement{}, err
	}

	b.writeReturning(&sb)
	return finish(sb.String(), args)
}

func (b *Builder) consume() error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	b.consumed = true
	if strings.TrimSpace(b.table) == "" {
		return ErrEmptyTable
	}
	return nil
}

func (b *Builder) returnsAll() bool {
	return len(b.returning) == 0 || b.returning[0] == "*"
}

func (b *Builder) writeReturning(sb *strings.Builder) {
	if len(b.returning) == 0 {
		return
	}
	sb.WriteString(" RETURNING ")
	if b.returning[0] == "*" {
		sb.WriteString("*")
		return
	}
	writeList(sb, b.returning)
}

// writeConditions renders conds joined by AND after prefix and appends the
// values of comparators that bind one.
func writeConditions(sb *strings.Builder, prefix string, conds []condition, args []any) ([]any, error) {
	if len(conds) == 0 {
		return args, nil
	}

	sb.WriteString(prefix)
	for i, c := range conds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		if err := c.cmp.render(sb, c.expr); err != nil {
			return nil, err
		}
		if c.cmp.BindsValue() {
			args = append(args, c.value)
		}
	}
	return args, nil
}

// writeText writes caller supplied SQL text. A literal "?" is doubled so that
// finish keeps it, as in the jsonb "meta ? 'key'" operator.
func writeText(sb *strings.Builder, text string) {
	sb.WriteString(strings.ReplaceAll(text, "?", "??"))
}

func writeList(sb *strings.Builder, items []string) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeText(sb, item)
	}
}

// finish numbers the "?" markers as $1, $2, ... in one pass and turns "??"
// back into "?".
func finish(text string, args []any) (Statement, error) {
	sql, err := squirrel.Dollar.ReplacePlaceholders(text)
	if err != nil {
		return Statement{}, fmt.Errorf("number placeholders: %w", err)
	}
	if args == nil {
		args = []any{}
	}
	return Statement{SQL: sql, Args: args}, nil
}
