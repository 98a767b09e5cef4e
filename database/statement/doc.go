// Package statement builds parameterized PostgreSQL statements from partially
// populated request structs.
//
// A Builder accumulates a table, write columns, conditions, grouping and a
// RETURNING set, then renders exactly one SELECT, INSERT, UPDATE or DELETE.
// Values are never interpolated into the SQL text: every bound value becomes a
// positional placeholder ($1, $2, ...) numbered in a single pass over columns,
// then conditions, then HAVING clauses.
//
// Patch and Filter are the tri-state wrappers used by update and query
// requests. Field adapters (InsertField, UpdateField, WhereField, ...) map
// request fields onto a Builder declaratively:
//
//	b := statement.New("data.areas").ReturningAll()
//	b.Apply(
//	    statement.UpdateField("area_name", req.Name),
//	    statement.UpdateField("icon_url", req.IconURL),
//	)
//	stmt, err := b.Where("area_id", statement.Equal, id).BuildUpdate()
package statement
