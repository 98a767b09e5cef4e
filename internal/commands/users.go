package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gaborage/todo-bricks/todo"
	"github.com/gaborage/todo-bricks/todo/model"
)

// UserOptions holds the flags of the users subcommands.
type UserOptions struct {
	ID    string
	Email string
	Data  string
}

// NewUsersCommand creates the users command. Password hashes are stored as
// given.
func NewUsersCommand(root *RootOptions) *cobra.Command {
	opts := &UserOptions{}

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	run := func(c *cobra.Command, fn func(context.Context, *todo.Users) (any, error)) error {
		return runService(c, root, "user", func(ctx context.Context, svc *todo.Service) (any, error) {
			return fn(ctx, svc.Users)
		})
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Register a user",
		Example: `  todoctl users create --data '{"username":"ada","email":"ada@example.com","passwordHash":"$2a$10$..."}'`,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(ctx context.Context, users *todo.Users) (any, error) {
				req, err := decodeData[model.CreateUser](opts.Data, c.InOrStdin())
				if err != nil {
					return nil, err
				}
				return users.Create(ctx, req)
			})
		},
	}
	createCmd.Flags().StringVarP(&opts.Data, "data", "d", "", "JSON request body, @file or @- for stdin")

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a user by ID or email",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(ctx context.Context, users *todo.Users) (any, error) {
				if opts.Email != "" {
					return users.FindByEmail(ctx, opts.Email)
				}
				id, err := parseUUIDFlag("id", opts.ID)
				if err != nil {
					return nil, err
				}
				return users.Retrieve(ctx, id)
			})
		},
	}
	getCmd.Flags().StringVarP(&opts.ID, "id", "i", "", "User ID")
	getCmd.Flags().StringVarP(&opts.Email, "email", "e", "", "Email address")
	getCmd.MarkFlagsMutuallyExclusive("id", "email")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Patch a user",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(ctx context.Context, users *todo.Users) (any, error) {
				id, err := parseUUIDFlag("id", opts.ID)
				if err != nil {
					return nil, err
				}
				req, err := decodeData[model.UpdateUser](opts.Data, c.InOrStdin())
				if err != nil {
					return nil, err
				}
				return users.Update(ctx, id, req)
			})
		},
	}
	updateCmd.Flags().StringVarP(&opts.ID, "id", "i", "", "User ID")
	updateCmd.Flags().StringVarP(&opts.Data, "data", "d", "", "JSON request body, @file or @- for stdin")

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user and everything it owns",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(ctx context.Context, users *todo.Users) (any, error) {
				id, err := parseUUIDFlag("id", opts.ID)
				if err != nil {
					return nil, err
				}
				if err := users.Delete(ctx, id); err != nil {
					return nil, err
				}
				return deleted{ID: id, Deleted: true}, nil
			})
		},
	}
	deleteCmd.Flags().StringVarP(&opts.ID, "id", "i", "", "User ID")

	cmd.AddCommand(createCmd, getCmd, updateCmd, deleteCmd)
	return cmd
}
