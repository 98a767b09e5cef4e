package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
)

const (
	ColAreaID   = "area_id"
	ColAreaName = "area_name"
	ColIconURL  = "icon_url"
)

// Area groups projects and tasks.
type Area struct {
	ID        uuid.UUID `json:"id"`
	Name      *string   `json:"name"`
	IconURL   *string   `json:"iconUrl"`
	UserID    uuid.UUID `json:"userId"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

func (a *Area) Key() uuid.UUID { return a.ID }

func (a *Area) Targets() map[string]any {
	return map[string]any{
		ColAreaID:    &a.ID,
		ColAreaName:  &a.Name,
		ColIconURL:   &a.IconURL,
		ColUserID:    &a.UserID,
		ColCreatedOn: &a.CreatedOn,
		ColUpdatedOn: &a.UpdatedOn,
	}
}

type CreateArea struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=255"`
	IconURL *string `json:"iconUrl,omitempty" validate:"omitempty,url"`
}

func (r CreateArea) Fields() []statement.Field {
	return []statement.Field{
		statement.InsertField(ColAreaName, r.Name),
		statement.InsertField(ColIconURL, r.IconURL),
	}
}

type UpdateArea struct {
	Name    statement.Patch[string] `json:"name,omitzero" validate:"omitempty,max=255"`
	IconURL statement.Patch[string] `json:"iconUrl,omitzero" validate:"omitempty,url"`
}

func (r UpdateArea) Fields() []statement.Field {
	return []statement.Field{
		statement.UpdateField(ColAreaName, r.Name),
		statement.UpdateField(ColIconURL, r.IconURL),
	}
}

func (r UpdateArea) IsNoOp() bool {
	return statement.AllEmpty(r.Fields()...)
}

type QueryArea struct {
	Name    *statement.Filter[string] `json:"name,omitempty"`
	IconURL *statement.Filter[string] `json:"iconUrl,omitempty"`
	FilterOptions
}

func (r QueryArea) Fields() []statement.Field {
	return []statement.Field{
		statement.WhereField(ColAreaName, r.Name, statement.ILike),
		statement.WhereField(ColIconURL, r.IconURL, statement.Equal),
	}
}
