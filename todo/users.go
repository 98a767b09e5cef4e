package todo

import (
	"context"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
	"github.com/gaborage/todo-bricks/todo/model"
)

// Users manages auth.users. Password hashing happens before requests reach it.
type Users struct {
	*base
}

func (u *Users) byID(id uuid.UUID) *statement.Builder {
	return statement.New(model.Users.Name).Where(model.Users.ID, statement.Equal, id)
}

// Create registers a user and returns the stored row.
func (u *Users) Create(ctx context.Context, req model.CreateUser) (*model.User, error) {
	if err := u.validate(req); err != nil {
		return nil, err
	}

	stmt, err := statement.New(model.Users.Name).
		Apply(req.Fields()...).
		ReturningAll().
		BuildInsert()
	if err != nil {
		return nil, err
	}

	rows, err := queryAll[model.User](ctx, u.db, stmt)
	if err != nil {
		return nil, err
	}
	user, err := exactlyOne(rows)
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("id", user.ID.String()).Msg("User created")
	return user, nil
}

// Retrieve returns the user with the given id.
func (u *Users) Retrieve(ctx context.Context, id uuid.UUID) (*model.User, error) {
	stmt, err := u.byID(id).BuildSelect()
	if err != nil {
		return nil, err
	}

	rows, err := queryAll[model.User](ctx, u.db, stmt)
	if err != nil {
		return nil, err
	}
	return exactlyOne(rows)
}

// FindByEmail returns the user registered with email.
func (u *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	stmt, err := statement.New(model.Users.Name).
		Where(model.ColEmail, statement.Equal, email).
		BuildSelect()
	if err != nil {
		return nil, err
	}

	rows, err := queryAll[model.User](ctx, u.db, stmt)
	if err != nil {
		return nil, err
	}
	return exactlyOne(rows)
}

// Update changes account details and refreshes updated_on.
func (u *Users) Update(ctx context.Context, id uuid.UUID, req model.UpdateUser) (*model.User, error) {
	if req.IsNoOp() {
		return nil, ErrNoChanges
	}
	if err := u.validate(req); err != nil {
		return nil, err
	}

	stmt, err := statement.New(model.Users.Name).
		Column(model.ColUpdatedOn, u.now()).
		Apply(req.Fields()...).
		Where(model.Users.ID, statement.Equal, id).
		ReturningAll().
		BuildUpdate()
	if err != nil {
		return nil, err
	}

	return writeOne[model.User](ctx, u.db, stmt)
}

// Delete removes the user. Owned rows are removed by the schema's cascades.
func (u *Users) Delete(ctx context.Context, id uuid.UUID) error {
	stmt, err := u.byID(id).Returning(model.Users.ID).BuildDelete()
	if err != nil {
		return err
	}

	if err := deleteOne(ctx, u.db, stmt); err != nil {
		return err
	}

	u.log.Info().Str("id", id.String()).Msg("User deleted")
	return nil
}
