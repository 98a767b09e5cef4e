package todo

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/todo-bricks/database"
	"github.com/gaborage/todo-bricks/database/statement"
	"github.com/gaborage/todo-bricks/todo/model"
)

const countDistinctTags = "COUNT(DISTINCT " + model.ColTagID + ")"

// TaggedStore is a Store whose rows link to tags through a relation table.
type TaggedStore[E any, PE entity[E], C model.CreateRequest, U model.UpdateRequest, Q model.QueryRequest] struct {
	*Store[E, PE, C, U, Q]
}

func newTaggedStore[E any, PE entity[E], C model.CreateRequest, U model.UpdateRequest, Q model.QueryRequest](b *base, table model.Table, relation model.Relation, resource string) *TaggedStore[E, PE, C, U, Q] {
	s := newStore[E, PE, C, U, Q](b, table, resource)
	s.relation = &relation
	return &TaggedStore[E, PE, C, U, Q]{Store: s}
}

// Tags returns the tags linked to the row with the given id.
func (s *TaggedStore[E, PE, C, U, Q]) Tags(ctx context.Context, owner, id uuid.UUID) ([]model.Tag, error) {
	stmt, err := statement.New(model.Tags.Name).
		Join(statement.InnerJoin, s.relation.Name, model.ColTagID).
		Where(s.relation.Owner, statement.Equal, id).
		Where(model.ColUserID, statement.Equal, owner).
		BuildSelect()
	if err != nil {
		return nil, err
	}
	return queryAll[model.Tag, *model.Tag](ctx, s.db, stmt)
}

// SetTags replaces the tags linked to the row with the given id. The row
// must be owned by owner.
func (s *TaggedStore[E, PE, C, U, Q]) SetTags(ctx context.Context, owner, id uuid.UUID, tagIDs []uuid.UUID) error {
	check, err := statement.New(s.table.Name).
		Returning(s.table.ID).
		Where(model.ColUserID, statement.Equal, owner).
		Where(s.table.ID, statement.Equal, id).
		BuildSelect()
	if err != nil {
		return err
	}
	unlink, err := statement.New(s.relation.Name).
		Where(s.relation.Owner, statement.Equal, id).
		BuildDelete()
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.db, func(tx database.Tx) error {
		rows, err := tx.Query(ctx, check.SQL, check.Args...)
		if err != nil {
			return err
		}
		ids, err := scanIDs(rows)
		if err != nil {
			return err
		}
		if _, err := exactlyOne(ids); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, unlink.SQL, unlink.Args...); err != nil {
			return fmt.Errorf("unlink tags: %w", err)
		}
		return linkTags(ctx, tx, *s.relation, id, tagIDs)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("resource", s.resource).
		Str("id", id.String()).
		Int("tags", len(tagIDs)).
		Msg("Tags replaced")
	return nil
}

// RetrieveWithTags fetches the row and its tags concurrently.
func (s *TaggedStore[E, PE, C, U, Q]) RetrieveWithTags(ctx context.Context, owner, id uuid.UUID) (*E, []model.Tag, error) {
	var (
		row  *E
		tags []model.Tag
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		row, err = s.Retrieve(gctx, owner, id)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = s.Tags(gctx, owner, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return row, tags, nil
}

// matchTags returns the ids of rows linked to every tag in tagIDs.
func (s *Store[E, PE, C, U, Q]) matchTags(ctx context.Context, tagIDs []uuid.UUID) ([]uuid.UUID, error) {
	unique := dedupe(tagIDs)

	stmt, err := statement.New(s.relation.Name).
		Returning(s.relation.Owner).
		Where(model.ColTagID, statement.In, unique).
		GroupBy(s.relation.Owner).
		Having(countDistinctTags, statement.Equal, len(unique)).
		BuildSelect()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

// linkTags inserts one relation row per tag in a single statement.
func linkTags(ctx context.Context, q database.Querier, relation model.Relation, id uuid.UUID, tagIDs []uuid.UUID) error {
	unique := dedupe(tagIDs)
	if len(unique) == 0 {
		return nil
	}

	insert := squirrel.Insert(relation.Name).
		Columns(relation.Owner, model.ColTagID).
		PlaceholderFormat(squirrel.Dollar)
	for _, tag := range unique {
		insert = insert.Values(id, tag)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return slices.Compact(out)
}
