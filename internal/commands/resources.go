package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gaborage/todo-bricks/todo"
	"github.com/gaborage/todo-bricks/todo/model"
)

// resource is the operation set shared by every user owned store.
type resource[E, C, U, Q any] interface {
	Resource() string
	Create(ctx context.Context, owner uuid.UUID, req C) (*E, error)
	Retrieve(ctx context.Context, owner, id uuid.UUID) (*E, error)
	Update(ctx context.Context, owner, id uuid.UUID, req U) (*E, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	Query(ctx context.Context, owner uuid.UUID, req Q) ([]E, error)
}

// tagged is implemented by stores with a tag relation.
type tagged interface {
	Tags(ctx context.Context, owner, id uuid.UUID) ([]model.Tag, error)
	SetTags(ctx context.Context, owner, id uuid.UUID, tagIDs []uuid.UUID) error
}

// EntityOptions holds the flags of the entity subcommands.
type EntityOptions struct {
	User string
	ID   string
	Data string
}

type deleted struct {
	ID      uuid.UUID `json:"id"`
	Deleted bool      `json:"deleted"`
}

func newResourceCommand[E, C, U, Q any](root *RootOptions, name, short string, pick func(*todo.Service) resource[E, C, U, Q]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
	}

	// run resolves the store and the owner before calling fn.
	run := func(c *cobra.Command, opts *EntityOptions, fn func(context.Context, resource[E, C, U, Q], uuid.UUID) (any, error)) error {
		return runService(c, root, singular(name), func(ctx context.Context, svc *todo.Service) (any, error) {
			owner, err := parseUUIDFlag("user", opts.User)
			if err != nil {
				return nil, err
			}
			return fn(ctx, pick(svc), owner)
		})
	}

	create := &EntityOptions{}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + singular(name),
		Example: `  todoctl ` + name + ` create --user <uuid> --data @request.json
  cat request.json | todoctl ` + name + ` create --user <uuid> --data @-`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, create, func(ctx context.Context, r resource[E, C, U, Q], owner uuid.UUID) (any, error) {
				req, err := decodeData[C](create.Data, c.InOrStdin())
				if err != nil {
					return nil, err
				}
				return r.Create(ctx, owner, req)
			})
		},
	}
	bindEntityFlags(createCmd, create, false, true)

	get := &EntityOptions{}
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a " + singular(name),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, get, func(ctx context.Context, r resource[E, C, U, Q], owner uuid.UUID) (any, error) {
				id, err := parseUUIDFlag("id", get.ID)
				if err != nil {
					return nil, err
				}
				return r.Retrieve(ctx, owner, id)
			})
		},
	}
	bindEntityFlags(getCmd, get, true, false)

	update := &EntityOptions{}
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Patch a " + singular(name),
		Long: `Applies a partial update. Omitted fields are left untouched, null clears
a column and completed, logged or trashed set to true stamp the current time.`,
		Example: `  todoctl ` + name + ` update --user <uuid> --id <uuid> --data @patch.json`,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, update, func(ctx context.Context, r resource[E, C, U, Q], owner uuid.UUID) (any, error) {
				id, err := parseUUIDFlag("id", update.ID)
				if err != nil {
					return nil, err
				}
				req, err := decodeData[U](update.Data, c.InOrStdin())
				if err != nil {
					return nil, err
				}
				return r.Update(ctx, owner, id, req)
			})
		},
	}
	bindEntityFlags(updateCmd, update, true, true)

	del := &EntityOptions{}
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a " + singular(name),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, del, func(ctx context.Context, r resource[E, C, U, Q], owner uuid.UUID) (any, error) {
				id, err := parseUUIDFlag("id", del.ID)
				if err != nil {
					return nil, err
				}
				if err := r.Delete(ctx, owner, id); err != nil {
					return nil, err
				}
				return deleted{ID: id, Deleted: true}, nil
			})
		},
	}
	bindEntityFlags(deleteCmd, del, true, false)

	query := &EntityOptions{}
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Query " + name,
		Long: `Lists matching rows ordered by creation time. Filter fields take a value
to match, a [value, "Comparator"] pair or true/false for IS NOT NULL/IS NULL.`,
		Example: `  todoctl ` + name + ` query --user <uuid> --data '{"page":2,"limit":10}'`,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, query, func(ctx context.Context, r resource[E, C, U, Q], owner uuid.UUID) (any, error) {
				req, err := decodeData[Q](query.Data, c.InOrStdin())
				if err != nil {
					return nil, err
				}
				return r.Query(ctx, owner, req)
			})
		},
	}
	bindEntityFlags(queryCmd, query, false, true)

	cmd.AddCommand(createCmd, getCmd, updateCmd, deleteCmd, queryCmd)
	return cmd
}

// withTagCommand attaches the "tags" subcommand listing or replacing the tags
// of one row.
func withTagCommand(root *RootOptions, cmd *cobra.Command, pick func(*todo.Service) tagged) *cobra.Command {
	opts := &EntityOptions{}
	var set []string
	var clearTags bool

	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List or replace the tags of a " + singular(cmd.Name()),
		Example: `  todoctl ` + cmd.Name() + ` tags --user <uuid> --id <uuid>
  todoctl ` + cmd.Name() + ` tags --user <uuid> --id <uuid> --set <tag-uuid>,<tag-uuid>
  todoctl ` + cmd.Name() + ` tags --user <uuid> --id <uuid> --clear`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runService(c, root, singular(cmd.Name()), func(ctx context.Context, svc *todo.Service) (any, error) {
				owner, err := parseUUIDFlag("user", opts.User)
				if err != nil {
					return nil, err
				}
				id, err := parseUUIDFlag("id", opts.ID)
				if err != nil {
					return nil, err
				}

				store := pick(svc)
				if clearTags || len(set) > 0 {
					tagIDs, err := parseUUIDList(set)
					if err != nil {
						return nil, err
					}
					if err := store.SetTags(ctx, owner, id, tagIDs); err != nil {
						return nil, err
					}
				}
				return store.Tags(ctx, owner, id)
			})
		},
	}
	bindEntityFlags(tagsCmd, opts, true, false)
	tagsCmd.Flags().StringSliceVar(&set, "set", nil, "Replace the tags with these tag IDs")
	tagsCmd.Flags().BoolVar(&clearTags, "clear", false, "Remove all tags")
	tagsCmd.MarkFlagsMutuallyExclusive("set", "clear")

	cmd.AddCommand(tagsCmd)
	return cmd
}

func bindEntityFlags(cmd *cobra.Command, opts *EntityOptions, withID, withData bool) {
	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "Owning user ID")
	if withID {
		cmd.Flags().StringVarP(&opts.ID, "id", "i", "", "Row ID")
	}
	if withData {
		cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "JSON request body, @file or @- for stdin")
	}
}

func singular(name string) string {
	if len(name) > 1 && name[len(name)-1] == 's' {
		return name[:len(name)-1]
	}
	return name
}
