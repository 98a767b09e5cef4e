package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
)

const (
	ColTagID       = "tag_id"
	ColTagLabel    = "tag_label"
	ColTagCategory = "tag_category"
	ColTagColor    = "tag_color"
)

// Tag labels tasks and projects.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Label     *string   `json:"label"`
	Category  *string   `json:"category"`
	Color     *string   `json:"color"`
	UserID    uuid.UUID `json:"userId"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

func (t *Tag) Key() uuid.UUID { return t.ID }

func (t *Tag) Targets() map[string]any {
	return map[string]any{
		ColTagID:       &t.ID,
		ColTagLabel:    &t.Label,
		ColTagCategory: &t.Category,
		ColTagColor:    &t.Color,
		ColUserID:      &t.UserID,
		ColCreatedOn:   &t.CreatedOn,
		ColUpdatedOn:   &t.UpdatedOn,
	}
}

type CreateTag struct {
	Label    *string `json:"label,omitempty" validate:"omitempty,max=64"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=64"`
	Color    *string `json:"color,omitempty" validate:"omitempty,tagcolor"`
}

func (r CreateTag) Fields() []statement.Field {
	return []statement.Field{
		statement.InsertField(ColTagLabel, r.Label),
		statement.InsertField(ColTagCategory, r.Category),
		statement.InsertField(ColTagColor, r.Color),
	}
}

type UpdateTag struct {
	Label    statement.Patch[string] `json:"label,omitzero" validate:"omitempty,max=64"`
	Category statement.Patch[string] `json:"category,omitzero" validate:"omitempty,max=64"`
	Color    statement.Patch[string] `json:"color,omitzero" validate:"omitempty,tagcolor"`
}

func (r UpdateTag) Fields() []statement.Field {
	return []statement.Field{
		statement.UpdateField(ColTagLabel, r.Label),
		statement.UpdateField(ColTagCategory, r.Category),
		statement.UpdateField(ColTagColor, r.Color),
	}
}

func (r UpdateTag) IsNoOp() bool {
	return statement.AllEmpty(r.Fields()...)
}

type QueryTag struct {
	Label    *statement.Filter[string] `json:"label,omitempty"`
	Category *statement.Filter[string] `json:"category,omitempty"`
	Color    *statement.Filter[string] `json:"color,omitempty"`
	FilterOptions
}

func (r QueryTag) Fields() []statement.Field {
	return []statement.Field{
		statement.WhereField(ColTagLabel, r.Label, statement.ILike),
		statement.WhereField(ColTagCategory, r.Category, statement.ILike),
		statement.WhereField(ColTagColor, r.Color, statement.Equal),
	}
}
