package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
)

const (
	ColUsername     = "username"
	ColEmail        = "email"
	ColPasswordHash = "password_hash"
)

// User is a row of auth.users.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"createdOn"`
	UpdatedOn    time.Time `json:"updatedOn"`
}

func (u *User) Key() uuid.UUID { return u.ID }

func (u *User) Targets() map[string]any {
	return map[string]any{
		ColUserID:       &u.ID,
		ColUsername:     &u.Username,
		ColEmail:        &u.Email,
		ColPasswordHash: &u.PasswordHash,
		ColCreatedOn:    &u.CreatedOn,
		ColUpdatedOn:    &u.UpdatedOn,
	}
}

// CreateUser registers a user. The password must already be hashed.
type CreateUser struct {
	Username     *string `json:"username" validate:"required,min=3,max=64"`
	Email        *string `json:"email" validate:"required,email"`
	PasswordHash *string `json:"passwordHash" validate:"required"`
}

func (r CreateUser) Fields() []statement.Field {
	return []statement.Field{
		statement.InsertField(ColUsername, r.Username),
		statement.InsertField(ColEmail, r.Email),
		statement.InsertField(ColPasswordHash, r.PasswordHash),
	}
}

// UpdateUser changes account details. Removing a column is rejected by the
// NOT NULL constraints of auth.users.
type UpdateUser struct {
	Username     statement.Patch[string] `json:"username,omitzero" validate:"omitempty,min=3,max=64"`
	Email        statement.Patch[string] `json:"email,omitzero" validate:"omitempty,email"`
	PasswordHash statement.Patch[string] `json:"passwordHash,omitzero"`
}

func (r UpdateUser) Fields() []statement.Field {
	return []statement.Field{
		statement.UpdateField(ColUsername, r.Username),
		statement.UpdateField(ColEmail, r.Email),
		statement.UpdateField(ColPasswordHash, r.PasswordHash),
	}
}

func (r UpdateUser) IsNoOp() bool {
	return statement.AllEmpty(r.Fields()...)
}
