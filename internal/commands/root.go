// Package commands implements the todoctl command tree.
package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaborage/todo-bricks/config"
	"github.com/gaborage/todo-bricks/database"
	"github.com/gaborage/todo-bricks/logger"
	"github.com/gaborage/todo-bricks/observability"
	"github.com/gaborage/todo-bricks/todo"
	"github.com/gaborage/todo-bricks/todo/model"
)

// RootOptions holds the flags shared by every command.
type RootOptions struct {
	ConfigPath string
}

// connectDatabase opens the tracked connection used by database backed
// commands. Tests swap it for a go-sqlmock handle.
var connectDatabase = database.NewConnection

// NewRootCommand creates the todoctl command with all subcommands attached.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{}

	root := &cobra.Command{
		Use:   "todoctl",
		Short: "Render statements and manage todo data in PostgreSQL",
		Long: `todoctl renders parameterized PostgreSQL statements, applies the todo schema
and runs the user scoped create, get, update, delete and query operations.

Settings are read from config.yaml, config.<env>.yaml and TODO_* environment
variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "Configuration file")

	root.AddCommand(
		NewRenderCommand(),
		NewMigrateCommand(opts),
		NewUsersCommand(opts),
		newResourceCommand(opts, "areas", "Manage areas", func(s *todo.Service) resource[model.Area, model.CreateArea, model.UpdateArea, model.QueryArea] {
			return s.Areas
		}),
		newResourceCommand(opts, "tags", "Manage tags", func(s *todo.Service) resource[model.Tag, model.CreateTag, model.UpdateTag, model.QueryTag] {
			return s.Tags
		}),
		withTagCommand(opts, newResourceCommand(opts, "projects", "Manage projects", func(s *todo.Service) resource[model.Project, model.CreateProject, model.UpdateProject, model.QueryProject] {
			return s.Projects
		}), func(s *todo.Service) tagged { return s.Projects }),
		withTagCommand(opts, newResourceCommand(opts, "tasks", "Manage tasks", func(s *todo.Service) resource[model.Task, model.CreateTask, model.UpdateTask, model.QueryTask] {
			return s.Tasks
		}), func(s *todo.Service) tagged { return s.Tasks }),
		NewVersionCommand(version),
	)

	return root
}

// session is the runtime of a database backed command.
type session struct {
	log     logger.Logger
	db      database.Interface
	obs     observability.Provider
	service *todo.Service
}

func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := config.LoadFiles(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if !config.IsDatabaseConfigured(&cfg.Database) {
		return nil, config.NewNotConfiguredError("database", config.EnvPrefix+"DATABASE_HOST", "database.host")
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Pretty, nil)

	obsCfg, err := observability.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	obs, err := observability.NewProvider(obsCfg, log, observability.WithStdoutWriter(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	db, err := connectDatabase(&cfg.Database, log)
	if err != nil {
		_ = observability.Shutdown(obs, 0)
		return nil, err
	}

	return &session{
		log:     log,
		db:      db,
		obs:     obs,
		service: todo.NewService(db, log, todo.WithPagination(cfg.Todo.Pagination)),
	}, nil
}

func (s *session) close() {
	if err := s.db.Close(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to close database connection")
	}
	if err := observability.Shutdown(s.obs, 0); err != nil {
		s.log.Warn().Err(err).Msg("Failed to flush telemetry")
	}
}

// runService opens a session, runs fn and prints its result as JSON. Errors
// are mapped to API errors, printed to stderr and returned.
func runService(cmd *cobra.Command, opts *RootOptions, resource string, fn func(context.Context, *todo.Service) (any, error)) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := logger.WithDBCounter(cmd.Context())
	start := time.Now()

	result, err := fn(ctx, s.service)
	if err != nil {
		apiErr := todo.AsAPIError(err, resource)
		s.logAction(ctx, cmd, start, apiErr.ErrorCode(), err)
		if writeErr := writeJSON(cmd.ErrOrStderr(), newErrorResponse(apiErr)); writeErr != nil {
			s.log.Warn().Err(writeErr).Msg("Failed to write error response")
		}
		return apiErr
	}

	s.logAction(ctx, cmd, start, "OK", nil)
	return writeJSON(cmd.OutOrStdout(), result)
}

// logAction writes one summary line per command with the database work
// counted on ctx.
func (s *session) logAction(ctx context.Context, cmd *cobra.Command, start time.Time, resultCode string, err error) {
	elapsed := time.Since(start)

	event := s.log.Info()
	if err != nil {
		event = s.log.Warn().Err(err)
	}

	event.
		Str("log.type", "action").
		Str("command", cmd.CommandPath()).
		Str("result_code", resultCode).
		Int64("duration", elapsed.Nanoseconds()).
		Int64("db_queries", logger.GetDBCounter(ctx)).
		Int64("db_elapsed", logger.GetDBElapsed(ctx)).
		Msgf("%s %s in %s", cmd.CommandPath(), resultCode, elapsed.Round(time.Microsecond))
}
