// Package model holds the todo entities, their column mapping and the
// create, update and query requests accepted by the service.
package model

import (
	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
)

// Columns shared by every user-owned table.
const (
	ColUserID    = "user_id"
	ColCreatedOn = "created_on"
	ColUpdatedOn = "updated_on"
)

// Table identifies an entity table and its primary key column.
type Table struct {
	Name string
	ID   string
}

// Relation is a many-to-many link table between an owner entity and tags.
type Relation struct {
	Name  string
	Owner string
}

var (
	Users    = Table{Name: "auth.users", ID: ColUserID}
	Areas    = Table{Name: "data.areas", ID: ColAreaID}
	Tags     = Table{Name: "data.tags", ID: ColTagID}
	Projects = Table{Name: "data.projects", ID: ColProjectID}
	Tasks    = Table{Name: "data.tasks", ID: ColTaskID}

	TaskTags    = Relation{Name: "data.task_tags", Owner: ColTaskID}
	ProjectTags = Relation{Name: "data.project_tags", Owner: ColProjectID}
)

// Entity is a row that can be scanned by column name.
type Entity interface {
	// Targets maps column names to scan destinations. Columns missing from
	// the map are discarded.
	Targets() map[string]any
	// Key returns the primary key.
	Key() uuid.UUID
}

// CreateRequest maps onto an INSERT.
type CreateRequest interface {
	Fields() []statement.Field
}

// UpdateRequest maps onto an UPDATE.
type UpdateRequest interface {
	Fields() []statement.Field
	IsNoOp() bool
}

// QueryRequest maps onto a paginated SELECT.
type QueryRequest interface {
	Fields() []statement.Field
	Options() FilterOptions
}

// Tagged is implemented by requests that carry tag IDs.
type Tagged interface {
	TagIDs() []uuid.UUID
}
