package todo

import (
	"context"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database"
	"github.com/gaborage/todo-bricks/database/statement"
	"github.com/gaborage/todo-bricks/todo/model"
)

// Store implements the user-scoped operations of one entity table. Every
// statement it renders carries a user_id condition or column.
type Store[E any, PE entity[E], C model.CreateRequest, U model.UpdateRequest, Q model.QueryRequest] struct {
	*base
	table    model.Table
	resource string
	relation *model.Relation
}

func newStore[E any, PE entity[E], C model.CreateRequest, U model.UpdateRequest, Q model.QueryRequest](b *base, table model.Table, resource string) *Store[E, PE, C, U, Q] {
	return &Store[E, PE, C, U, Q]{base: b, table: table, resource: resource}
}

// Resource names the entity in errors and logs.
func (s *Store[E, PE, C, U, Q]) Resource() string {
	return s.resource
}

// Create inserts a row owned by owner and returns it. When the request
// carries tag IDs and the entity has a tag relation, the links are written in
// the same transaction.
func (s *Store[E, PE, C, U, Q]) Create(ctx context.Context, owner uuid.UUID, req C) (*E, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	stmt, err := statement.New(s.table.Name).
		Column(model.ColUserID, owner).
		Apply(req.Fields()...).
		ReturningAll().
		BuildInsert()
	if err != nil {
		return nil, err
	}

	var tags []uuid.UUID
	if tagged, ok := any(req).(model.Tagged); ok && s.relation != nil {
		tags = tagged.TagIDs()
	}

	var out *E
	if len(tags) == 0 {
		rows, err := queryAll[E, PE](ctx, s.db, stmt)
		if err != nil {
			return nil, err
		}
		if out, err = exactlyOne(rows); err != nil {
			return nil, err
		}
	} else {
		err = database.WithTx(ctx, s.db, func(tx database.Tx) error {
			rows, err := queryAll[E, PE](ctx, tx, stmt)
			if err != nil {
				return err
			}
			if out, err = exactlyOne(rows); err != nil {
				return err
			}
			return linkTags(ctx, tx, *s.relation, PE(out).Key(), tags)
		})
		if err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("resource", s.resource).
		Str("id", PE(out).Key().String()).
		Msg("Created")
	return out, nil
}

// Retrieve returns the row with the given id owned by owner.
func (s *Store[E, PE, C, U, Q]) Retrieve(ctx context.Context, owner, id uuid.UUID) (*E, error) {
	stmt, err := statement.New(s.table.Name).
		Where(model.ColUserID, statement.Equal, owner).
		Where(s.table.ID, statement.Equal, id).
		BuildSelect()
	if err != nil {
		return nil, err
	}

	rows, err := queryAll[E, PE](ctx, s.db, stmt)
	if err != nil {
		return nil, err
	}
	return exactlyOne(rows)
}

// Update applies the non-NoOp fields of req and refreshes updated_on. Flags
// that stamp a timestamp reuse the updated_on value.
func (s *Store[E, PE, C, U, Q]) Update(ctx context.Context, owner, id uuid.UUID, req U) (*E, error) {
	if req.IsNoOp() {
		return nil, ErrNoChanges
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	stmt, err := statement.New(s.table.Name).
		Column(model.ColUpdatedOn, s.now()).
		Apply(req.Fields()...).
		Where(model.ColUserID, statement.Equal, owner).
		Where(s.table.ID, statement.Equal, id).
		ReturningAll().
		BuildUpdate()
	if err != nil {
		return nil, err
	}

	return writeOne[E, PE](ctx, s.db, stmt)
}

// Delete removes the row with the given id owned by owner.
func (s *Store[E, PE, C, U, Q]) Delete(ctx context.Context, owner, id uuid.UUID) error {
	stmt, err := statement.New(s.table.Name).
		Where(model.ColUserID, statement.Equal, owner).
		Where(s.table.ID, statement.Equal, id).
		Returning(s.table.ID).
		BuildDelete()
	if err != nil {
		return err
	}

	if err := deleteOne(ctx, s.db, stmt); err != nil {
		return err
	}

	s.log.Info().
		Str("resource", s.resource).
		Str("id", id.String()).
		Msg("Deleted")
	return nil
}

// Query returns one page of rows owned by owner that match every filter of
// req, oldest first.
func (s *Store[E, PE, C, U, Q]) Query(ctx context.Context, owner uuid.UUID, req Q) ([]E, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	b := statement.New(s.table.Name).
		Apply(req.Fields()...).
		Where(model.ColUserID, statement.Equal, owner)

	if tagged, ok := any(req).(model.Tagged); ok && s.relation != nil && len(tagged.TagIDs()) > 0 {
		ids, err := s.matchTags(ctx, tagged.TagIDs())
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []E{}, nil
		}
		b.Where(s.table.ID, statement.In, ids)
	}

	limit, offset := req.Options().Window(s.pagination.Default, s.pagination.Max)
	stmt, err := b.OrderBy(model.ColCreatedOn).
		Limit(limit).
		Offset(offset).
		BuildSelect()
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("resource", s.resource).
		Uint64("limit", limit).
		Uint64("offset", offset).
		Msg("Query")
	return queryAll[E, PE](ctx, s.db, stmt)
}
