package statement

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTable  = "table"
	col1       = "col_1"
	col2       = "col_2"
	col3       = "col_3"
	sampleData = "Sample Data"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name      string
		build     func(b *Builder)
		wantSQL   string
		wantCount int
	}{
		{
			name:    "empty",
			build:   func(*Builder) {},
			wantSQL: "SELECT * FROM table",
		},
		{
			name:    "one_column",
			build:   func(b *Builder) { b.Returning(col1) },
			wantSQL: "SELECT col_1 FROM table",
		},
		{
			name:    "many_columns",
			build:   func(b *Builder) { b.Returning(col1, col2, col3) },
			wantSQL: "SELECT col_1, col_2, col_3 FROM table",
		},
		{
			name:    "all_columns",
			build:   func(b *Builder) { b.ReturningAll() },
			wantSQL: "SELECT * FROM table",
		},
		{
			name:      "one_condition",
			build:     func(b *Builder) { b.Where(col1, Less, 10) },
			wantSQL:   "SELECT * FROM table WHERE col_1 < $1",
			wantCount: 1,
		},
		{
			name: "many_conditions",
			build: func(b *Builder) {
				b.Where(col1, Less, 10).
					Where(col2, Equal, 35).
					Where(col3, IsNull, Null)
			},
			wantSQL:   "SELECT * FROM table WHERE col_1 < $1 AND col_2 = $2 AND col_3 IS NULL",
			wantCount: 2,
		},
		{
			name: "columns_and_conditions",
			build: func(b *Builder) {
				b.Returning(col1).
					Where(col1, Less, 10).
					Where(col2, Equal, 35).
					Where(col3, Greater, 150)
			},
			wantSQL:   "SELECT col_1 FROM table WHERE col_1 < $1 AND col_2 = $2 AND col_3 > $3",
			wantCount: 3,
		},
		{
			name:    "inner_join",
			build:   func(b *Builder) { b.Join(InnerJoin, "table2", col1) },
			wantSQL: "SELECT * FROM table INNER JOIN table2 USING (col_1)",
		},
		{
			name:    "left_join",
			build:   func(b *Builder) { b.Join(LeftJoin, "table2", col1) },
			wantSQL: "SELECT * FROM table LEFT JOIN table2 USING (col_1)",
		},
		{
			name:    "right_join",
			build:   func(b *Builder) { b.Join(RightJoin, "table2", col1) },
			wantSQL: "SELECT * FROM table RIGHT JOIN table2 USING (col_1)",
		},
		{
			name:    "full_join",
			build:   func(b *Builder) { b.Join(FullJoin, "table2", col1) },
			wantSQL: "SELECT * FROM table FULL JOIN table2 USING (col_1)",
		},
		{
			name: "multi_join",
			build: func(b *Builder) {
				b.Join(InnerJoin, "table2", col1).Join(InnerJoin, "table3", col2)
			},
			wantSQL: "SELECT * FROM table INNER JOIN table2 USING (col_1) INNER JOIN table3 USING (col_2)",
		},
		{
			name:    "group_by",
			build:   func(b *Builder) { b.GroupBy(col1) },
			wantSQL: "SELECT * FROM table GROUP BY col_1",
		},
		{
			name:      "having",
			build:     func(b *Builder) { b.Having("COUNT(col_1)", Equal, 10) },
			wantSQL:   "SELECT * FROM table HAVING COUNT(col_1) = $1",
			wantCount: 1,
		},
		{
			name:    "order_by",
			build:   func(b *Builder) { b.OrderBy("created_on", "col_1 DESC") },
			wantSQL: "SELECT * FROM table ORDER BY created_on, col_1 DESC",
		},
		{
			name:    "limit_offset",
			build:   func(b *Builder) { b.Limit(25).Offset(50) },
			wantSQL: "SELECT * FROM table LIMIT 25 OFFSET 50",
		},
		{
			name:    "zero_limit_is_rendered",
			build:   func(b *Builder) { b.Limit(0) },
			wantSQL: "SELECT * FROM table LIMIT 0",
		},
		{
			name: "not_null_binds_nothing",
			build: func(b *Builder) {
				b.Where(col1, NotNull, Null).Where(col2, Equal, "x")
			},
			wantSQL:   "SELECT * FROM table WHERE col_1 IS NOT NULL AND col_2 = $1",
			wantCount: 1,
		},
		{
			name: "text_comparators",
			build: func(b *Builder) {
				b.Where(col1, Like, "a").Where(col2, ILike, "b")
			},
			wantSQL:   "SELECT * FROM table WHERE col_1 LIKE '%' || $1 || '%' AND col_2 ILIKE '%' || $2 || '%'",
			wantCount: 2,
		},
		{
			name: "array_comparators",
			build: func(b *Builder) {
				b.Where(col1, In, []int64{1, 2}).Where(col2, NotIn, []int64{3})
			},
			wantSQL:   "SELECT * FROM table WHERE col_1 = ANY($1) AND col_2 <> ALL($2)",
			wantCount: 2,
		},
		{
			name: "every_clause",
			build: func(b *Builder) {
				b.Returning("task_id").
					Join(InnerJoin, "data.task_tags", "task_id").
					Where("tag_id", In, []string{"a", "b"}).
					Where("trashed_on", IsNull, Null).
					GroupBy("task_id").
					Having("COUNT(DISTINCT tag_id)", Equal, 2).
					OrderBy("task_id").
					Limit(10).
					Offset(20)
			},
			wantSQL: "SELECT task_id FROM table INNER JOIN data.task_tags USING (task_id) " +
				"WHERE tag_id = ANY($1) AND trashed_on IS NULL GROUP BY task_id " +
				"HAVING COUNT(DISTINCT tag_id) = $2 ORDER BY task_id LIMIT 10 OFFSET 20",
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(testTable)
			tt.build(b)

			stmt, err := b.BuildSelect()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.Len(t, stmt.Args, tt.wantCount)
		})
	}
}

func TestBuildSelectCallOrderDoesNotChangeNumbering(t *testing.T) {
	first := New(testTable).
		Having("COUNT(col_1)", Greater, 1).
		Where(col2, Equal, "b").
		Where(col1, Equal, "a")
	second := New(testTable).
		Where(col2, Equal, "b").
		Where(col1, Equal, "a").
		Having("COUNT(col_1)", Greater, 1)

	a, err := first.BuildSelect()
	require.NoError(t, err)
	b, err := second.BuildSelect()
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM table WHERE col_2 = $1 AND col_1 = $2 HAVING COUNT(col_1) > $3", a.SQL)
	assert.Equal(t, a.SQL, b.SQL)
	assert.Equal(t, []any{"b", "a", 1}, a.Args)
	assert.Equal(t, a.Args, b.Args)
}

func TestBuildInsert(t *testing.T) {
	id := uuid.New()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		_, err := New(testTable).BuildInsert()
		assert.ErrorIs(t, err, ErrEmptyStatement)
	})

	t.Run("one_column", func(t *testing.T) {
		stmt, err := New(testTable).Column(col1, sampleData).BuildInsert()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO table (col_1) VALUES ($1)", stmt.SQL)
		assert.Equal(t, []any{sampleData}, stmt.Args)
	})

	t.Run("many_columns", func(t *testing.T) {
		stmt, err := New(testTable).
			Column(col1, id).
			Column(col2, sampleData).
			Column(col3, day).
			BuildInsert()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO table (col_1, col_2, col_3) VALUES ($1, $2, $3)", stmt.SQL)
		assert.Equal(t, []any{id, sampleData, day}, stmt.Args)
	})

	t.Run("return_one_column", func(t *testing.T) {
		stmt, err := New(testTable).Column(col1, sampleData).Returning(col1).BuildInsert()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO table (col_1) VALUES ($1) RETURNING col_1", stmt.SQL)
		assert.Len(t, stmt.Args, 1)
	})

	t.Run("return_many_columns", func(t *testing.T) {
		stmt, err := New(testTable).
			Column(col1, id).
			Column(col2, sampleData).
			Column(col3, day).
			Returning(col1, col2).
			BuildInsert()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO table (col_1, col_2, col_3) VALUES ($1, $2, $3) RETURNING col_1, col_2", stmt.SQL)
		assert.Len(t, stmt.Args, 3)
	})

	t.Run("return_all_columns", func(t *testing.T) {
		stmt, err := New(testTable).
			Column(col1, id).
			Column(col2, sampleData).
			Column(col3, day).
			ReturningAll().
			BuildInsert()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO table (col_1, col_2, col_3) VALUES ($1, $2, $3) RETURNING *", stmt.SQL)
		assert.Len(t, stmt.Args, 3)
	})

	t.Run("conditions_are_ignored", func(t *testing.T) {
		stmt, err := New(testTable).Column(col1, 1).Where(col2, Equal, 2).BuildInsert()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO table (col_1) VALUES ($1)", stmt.SQL)
		assert.Equal(t, []any{1}, stmt.Args)
	})
}

func TestBuildUpdate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := New(testTable).Where(col1, Equal, 1).BuildUpdate()
		assert.ErrorIs(t, err, ErrEmptyStatement)
	})

	t.Run("one_column", func(t *testing.T) {
		stmt, err := New(testTable).Column(col1, sampleData).BuildUpdate()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE table SET col_1=$1", stmt.SQL)
		assert.Len(t, stmt.Args, 1)
	})

	t.Run("columns_and_condition", func(t *testing.T) {
		stmt, err := New(testTable).
			Column(col1, sampleData).
			Column(col2, 10).
			Where(col2, Less, 20).
			BuildUpdate()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE table SET col_1=$1, col_2=$2 WHERE col_2 < $3", stmt.SQL)
		assert.Equal(t, []any{sampleData, 10, 20}, stmt.Args)
	})

	t.Run("patch_round_trip", func(t *testing.T) {
		now := time.Now()
		id := uuid.New()
		b := New("t").Column("updated_on", now).Returning("id")
		b.Apply(
			UpdateField("col", Set("x")),
			UpdateField("other", NoOp[string]()),
		)
		stmt, err := b.Where("id", Equal, id).BuildUpdate()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET updated_on=$1, col=$2 WHERE id = $3 RETURNING id", stmt.SQL)
		require.Len(t, stmt.Args, 3)
		assert.Equal(t, now, stmt.Args[0])
		assert.Equal(t, Set("x"), stmt.Args[1])
		assert.Equal(t, id, stmt.Args[2])
	})

	t.Run("remove_binds_null", func(t *testing.T) {
		stmt, err := New(testTable).
			Apply(UpdateField(col1, Remove[string]())).
			ReturningAll().
			BuildUpdate()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE table SET col_1=$1 RETURNING *", stmt.SQL)
		require.Len(t, stmt.Args, 1)
		v, err := stmt.Args[0].(Bindable).Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("null_condition_between_bound_ones", func(t *testing.T) {
		stmt, err := New(testTable).
			Column(col1, 1).
			Where(col2, IsNull, Null).
			Where(col3, Equal, 3).
			BuildUpdate()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE table SET col_1=$1 WHERE col_2 IS NULL AND col_3 = $2", stmt.SQL)
		assert.Equal(t, []any{1, 3}, stmt.Args)
	})
}

func TestBuildDelete(t *testing.T) {
	t.Run("whole_table", func(t *testing.T) {
		stmt, err := New(testTable).BuildDelete()
		require.NoError(t, err)
		assert.Equal(t, "DELETE FROM table", stmt.SQL)
		assert.Empty(t, stmt.Args)
	})

	t.Run("tag_by_id", func(t *testing.T) {
		id := uuid.New()
		stmt, err := New("data.tags").
			Where("tag_id", Equal, id).
			Returning("tag_id").
			BuildDelete()
		require.NoError(t, err)
		assert.Equal(t, "DELETE FROM data.tags WHERE tag_id = $1 RETURNING tag_id", stmt.SQL)
		assert.Equal(t, []any{id}, stmt.Args)
	})

	t.Run("return_all", func(t *testing.T) {
		stmt, err := New(testTable).Where(col1, NotIn, []int{1, 2}).ReturningAll().BuildDelete()
		require.NoError(t, err)
		assert.Equal(t, "DELETE FROM table WHERE col_1 <> ALL($1) RETURNING *", stmt.SQL)
	})
}

func TestBuildErrors(t *testing.T) {
	t.Run("empty_table", func(t *testing.T) {
		builds := map[string]func(*Builder) (Statement, error){
			"select": (*Builder).BuildSelect,
			"insert": (*Builder).BuildInsert,
			"update": (*Builder).BuildUpdate,
			"delete": (*Builder).BuildDelete,
		}
		for name, build := range builds {
			_, err := build(New("  ").Column(col1, 1))
			assert.ErrorIs(t, err, ErrEmptyTable, name)
		}
	})

	t.Run("consumed", func(t *testing.T) {
		b := New(testTable)
		_, err := b.BuildSelect()
		require.NoError(t, err)

		_, err = b.BuildDelete()
		assert.ErrorIs(t, err, ErrBuilderConsumed)
	})

	t.Run("consumed_after_failure", func(t *testing.T) {
		b := New(testTable)
		_, err := b.BuildInsert()
		require.ErrorIs(t, err, ErrEmptyStatement)

		_, err = b.Column(col1, 1).BuildInsert()
		assert.ErrorIs(t, err, ErrBuilderConsumed)
	})

	t.Run("unknown_comparator", func(t *testing.T) {
		_, err := New(testTable).Where(col1, Comparator(99), 1).BuildSelect()
		assert.ErrorIs(t, err, ErrUnknownComparator)

		_, err = New(testTable).Where(col1, 0, 1).BuildDelete()
		assert.ErrorIs(t, err, ErrUnknownComparator)
	})

	t.Run("unknown_join", func(t *testing.T) {
		_, err := New(testTable).Join(JoinKind(0), "t2", col1).BuildSelect()
		assert.ErrorIs(t, err, ErrUnknownJoin)
	})
}

func TestBuildKeepsLiteralQuestionMarks(t *testing.T) {
	t.Run("select", func(t *testing.T) {
		stmt, err := New("data.tasks").
			Returning("meta ? 'k' AS has_k").
			Where("meta ? 'k'", Equal, true).
			Where("task_id", Equal, 5).
			Having("COUNT(*) FILTER (WHERE meta ?| array['a'])", Greater, 1).
			OrderBy("meta ?& array['b']").
			BuildSelect()
		require.NoError(t, err)
		assert.Equal(t, "SELECT meta ? 'k' AS has_k FROM data.tasks WHERE meta ? 'k' = $1 AND task_id = $2 "+
			"HAVING COUNT(*) FILTER (WHERE meta ?| array['a']) > $3 ORDER BY meta ?& array['b']", stmt.SQL)
		assert.Equal(t, []any{true, 5, 1}, stmt.Args)
	})

	t.Run("already_doubled", func(t *testing.T) {
		stmt, err := New(testTable).Where("a??b", Equal, 1).BuildDelete()
		require.NoError(t, err)
		assert.Equal(t, "DELETE FROM table WHERE a??b = $1", stmt.SQL)
	})

	t.Run("update", func(t *testing.T) {
		stmt, err := New("t?").Column("c?", 1).Where(col1, Equal, 2).Returning("r?").BuildUpdate()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t? SET c?=$1 WHERE col_1 = $2 RETURNING r?", stmt.SQL)
		assert.Len(t, stmt.Args, 2)
	})
}

func TestStatementIsSqlizer(t *testing.T) {
	stmt, err := New(testTable).Where(col1, Equal, 1).BuildSelect()
	require.NoError(t, err)

	var s squirrel.Sqlizer = stmt
	sql, args, err := s.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM table WHERE col_1 = $1", sql)
	assert.Equal(t, []any{1}, args)
}

func TestColumnValue(t *testing.T) {
	b := New(testTable).Column(col1, 1).Column(col2, "two")

	v, ok := b.ColumnValue(col2)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
	assert.Equal(t, 2, b.ColumnCount())

	_, ok = b.ColumnValue(col3)
	assert.False(t, ok)
}
