package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaborage/todo-bricks/migration"
)

// MigrateOptions holds options for the migrate command
type MigrateOptions struct {
	DryRun bool
	Force  bool
}

// NewMigrateCommand creates the migrate command
func NewMigrateCommand(root *RootOptions) *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the todo schema",
		Long: `Creates the auth and data schemas with their tables in one transaction.
The schema checksum is recorded in public.todo_schema_history and an already
applied schema is skipped unless --force is given.`,
		Example: `  # Print the schema without connecting
  todoctl migrate --dry-run

  # Apply against the configured database
  TODO_DATABASE_HOST=localhost todoctl migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the schema instead of applying it")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Re-apply an already recorded schema")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "force")

	return cmd
}

func runMigrate(cmd *cobra.Command, root *RootOptions, opts *MigrateOptions) error {
	if opts.DryRun {
		_, err := migration.NewMigrator(nil, nil).Apply(cmd.Context(), migration.Options{DryRun: cmd.OutOrStdout()})
		return err
	}

	s, err := openSession(cmd, root)
	if err != nil {
		return err
	}
	defer s.close()

	applied, err := migration.NewMigrator(s.db, s.log).Apply(cmd.Context(), migration.Options{Force: opts.Force})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	status := "up to date"
	if applied {
		status = "applied"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Schema %s (checksum %s)\n", status, migration.Checksum()[:12])
	return err
}
