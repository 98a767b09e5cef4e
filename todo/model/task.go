package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
)

const (
	ColTaskID    = "task_id"
	ColTaskTitle = "task_title"
)

// Task is a row of data.tasks. A task optionally belongs to a project.
type Task struct {
	ID    uuid.UUID `json:"id"`
	Title *string   `json:"title"`
	Schedule
	ProjectID *uuid.UUID `json:"projectId"`
	UserID    uuid.UUID  `json:"userId"`
	CreatedOn time.Time  `json:"createdOn"`
	UpdatedOn time.Time  `json:"updatedOn"`
}

func (t *Task) Key() uuid.UUID { return t.ID }

func (t *Task) Targets() map[string]any {
	return t.targets(map[string]any{
		ColTaskID:    &t.ID,
		ColTaskTitle: &t.Title,
		ColProjectID: &t.ProjectID,
		ColUserID:    &t.UserID,
		ColCreatedOn: &t.CreatedOn,
		ColUpdatedOn: &t.UpdatedOn,
	})
}

type CreateTask struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	ProjectID *uuid.UUID `json:"projectId,omitempty"`
	CreateItem
}

func (r CreateTask) Fields() []statement.Field {
	return append([]statement.Field{
		statement.InsertField(ColTaskTitle, r.Title),
		statement.InsertField(ColProjectID, r.ProjectID),
	}, r.fields()...)
}

type UpdateTask struct {
	Title     statement.Patch[string]    `json:"title,omitzero" validate:"omitempty,max=255"`
	ProjectID statement.Patch[uuid.UUID] `json:"projectId,omitzero"`
	UpdateItem
}

func (r UpdateTask) Fields() []statement.Field {
	return append([]statement.Field{
		statement.UpdateField(ColTaskTitle, r.Title),
		statement.UpdateField(ColProjectID, r.ProjectID),
	}, r.fields()...)
}

func (r UpdateTask) IsNoOp() bool {
	return statement.AllEmpty(r.Fields()...)
}

type QueryTask struct {
	Title     *statement.Filter[string]    `json:"title,omitempty"`
	ProjectID *statement.Filter[uuid.UUID] `json:"projectId,omitempty"`
	QueryItem
}

func (r QueryTask) Fields() []statement.Field {
	return append([]statement.Field{
		statement.WhereField(ColTaskTitle, r.Title, statement.ILike),
		statement.WhereField(ColProjectID, r.ProjectID, statement.Equal),
	}, r.fields()...)
}
