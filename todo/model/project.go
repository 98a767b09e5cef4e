package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
)

const (
	ColProjectID    = "project_id"
	ColProjectTitle = "project_title"
)

// Project is a row of data.projects.
type Project struct {
	ID    uuid.UUID `json:"id"`
	Title *string   `json:"title"`
	Schedule
	UserID    uuid.UUID `json:"userId"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

func (p *Project) Key() uuid.UUID { return p.ID }

func (p *Project) Targets() map[string]any {
	return p.targets(map[string]any{
		ColProjectID:    &p.ID,
		ColProjectTitle: &p.Title,
		ColUserID:       &p.UserID,
		ColCreatedOn:    &p.CreatedOn,
		ColUpdatedOn:    &p.UpdatedOn,
	})
}

type CreateProject struct {
	Title *string `json:"title,omitempty" validate:"omitempty,max=255"`
	CreateItem
}

func (r CreateProject) Fields() []statement.Field {
	return append([]statement.Field{
		statement.InsertField(ColProjectTitle, r.Title),
	}, r.fields()...)
}

type UpdateProject struct {
	Title statement.Patch[string] `json:"title,omitzero" validate:"omitempty,max=255"`
	UpdateItem
}

func (r UpdateProject) Fields() []statement.Field {
	return append([]statement.Field{
		statement.UpdateField(ColProjectTitle, r.Title),
	}, r.fields()...)
}

func (r UpdateProject) IsNoOp() bool {
	return statement.AllEmpty(r.Fields()...)
}

type QueryProject struct {
	Title *statement.Filter[string] `json:"title,omitempty"`
	QueryItem
}

func (r QueryProject) Fields() []statement.Field {
	return append([]statement.Field{
		statement.WhereField(ColProjectTitle, r.Title, statement.ILike),
	}, r.fields()...)
}
