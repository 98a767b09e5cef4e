package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaborage/todo-bricks/database/statement"
)

// RenderOptions holds options for the render command
type RenderOptions struct {
	Table     string
	Joins     []string
	Where     []string
	Set       []string
	GroupBy   []string
	OrderBy   []string
	Returning []string
	Limit     uint64
	Offset    uint64
}

var joinKinds = map[string]statement.JoinKind{
	"inner": statement.InnerJoin,
	"left":  statement.LeftJoin,
	"right": statement.RightJoin,
	"full":  statement.FullJoin,
}

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:       "render <select|insert|update|delete>",
		Short:     "Render a parameterized statement without running it",
		ValidArgs: []string{"select", "insert", "update", "delete"},
		Long: `Builds a statement from flags and prints the SQL text followed by its
arguments as a JSON array.

Conditions are written as column:Comparator[:value]. Comparators are Equal,
NotEqual, Less, LessEq, Greater, GreaterEq, IsNull, NotNull, Like, ILike, In
and NotIn. In and NotIn take a comma separated list. Values that parse as
integers or booleans are bound as such and "null" binds NULL.`,
		Example: `  todoctl render select --table data.tasks --where user_id:Equal:42 --where title:ILike:milk --order-by created_on --limit 10
  todoctl render update --table data.tasks --set notes=null --set title=Buy --where task_id:Equal:7
  todoctl render delete --table data.task_tags --where tag_id:In:1,2,3 --returning task_id`,
		Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "Target table")
	cmd.Flags().StringArrayVarP(&opts.Joins, "join", "j", nil, "Join as kind:table:column (USING)")
	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "Condition as column:Comparator[:value]")
	cmd.Flags().StringArrayVarP(&opts.Set, "set", "s", nil, "Column assignment as column=value")
	cmd.Flags().StringSliceVar(&opts.GroupBy, "group-by", nil, "GROUP BY expressions")
	cmd.Flags().StringSliceVar(&opts.OrderBy, "order-by", nil, "ORDER BY expressions")
	cmd.Flags().StringSliceVarP(&opts.Returning, "returning", "r", nil, "Selected or returned columns, * for all")
	cmd.Flags().Uint64Var(&opts.Limit, "limit", 0, "LIMIT (select only)")
	cmd.Flags().Uint64Var(&opts.Offset, "offset", 0, "OFFSET (select only)")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runRender(cmd *cobra.Command, kind string, opts *RenderOptions) error {
	b, err := opts.builder(cmd)
	if err != nil {
		return err
	}

	var stmt statement.Statement
	switch kind {
	case "select":
		stmt, err = b.BuildSelect()
	case "insert":
		stmt, err = b.BuildInsert()
	case "update":
		stmt, err = b.BuildUpdate()
	case "delete":
		stmt, err = b.BuildDelete()
	default:
		return fmt.Errorf("unknown statement kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", kind, err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, stmt.SQL); err != nil {
		return err
	}
	return writeJSON(out, stmt.Args)
}

func (o *RenderOptions) builder(cmd *cobra.Command) (*statement.Builder, error) {
	b := statement.New(o.Table)

	for _, j := range o.Joins {
		parts := strings.SplitN(j, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --join %q: expected kind:table:column", j)
		}
		kind, ok := joinKinds[strings.ToLower(parts[0])]
		if !ok {
			return nil, fmt.Errorf("invalid --join %q: %w", j, statement.ErrUnknownJoin)
		}
		b.Join(kind, parts[1], parts[2])
	}

	for _, s := range o.Set {
		col, raw, ok := strings.Cut(s, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --set %q: expected column=value", s)
		}
		b.Column(col, parseScalar(raw))
	}

	for _, w := range o.Where {
		parts := strings.SplitN(w, ":", 3)
		if len(parts) < 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid --where %q: expected column:Comparator[:value]", w)
		}
		cmp, err := statement.ParseComparator(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid --where %q: %w", w, err)
		}

		var value any
		switch {
		case !cmp.BindsValue():
		case len(parts) < 3:
			return nil, fmt.Errorf("invalid --where %q: %s needs a value", w, cmp)
		case cmp == statement.In || cmp == statement.NotIn:
			value = parseList(parts[2])
		default:
			value = parseScalar(parts[2])
		}
		b.Where(parts[0], cmp, value)
	}

	if len(o.GroupBy) > 0 {
		b.GroupBy(o.GroupBy...)
	}
	if len(o.OrderBy) > 0 {
		b.OrderBy(o.OrderBy...)
	}
	if len(o.Returning) > 0 {
		b.Returning(o.Returning...)
	}
	if cmd.Flags().Changed("limit") {
		b.Limit(o.Limit)
	}
	if cmd.Flags().Changed("offset") {
		b.Offset(o.Offset)
	}

	return b, nil
}

// parseScalar binds integers and booleans with their type, "null" as NULL and
// everything else as text.
func parseScalar(raw string) any {
	if strings.EqualFold(raw, "null") {
		return statement.Null
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

// parseList returns []int64 when every element is an integer, []string
// otherwise.
func parseList(raw string) any {
	items := strings.Split(raw, ",")
	ints := make([]int64, 0, len(items))
	for _, item := range items {
		n, err := strconv.ParseInt(strings.TrimSpace(item), 10, 64)
		if err != nil {
			strs := make([]string, len(items))
			for i, s := range items {
				strs[i] = strings.TrimSpace(s)
			}
			return strs
		}
		ints = append(ints, n)
	}
	return ints
}
