package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/todo-bricks/config"
	"github.com/gaborage/todo-bricks/database"
	"github.com/gaborage/todo-bricks/database/postgresql"
	"github.com/gaborage/todo-bricks/logger"
)

const (
	testUser = "11111111-1111-1111-1111-111111111111"
	testID   = "22222222-2222-2222-2222-222222222222"
)

const testConfig = `log:
  level: disabled
database:
  host: localhost
  port: 5432
  database: todo
  username: todo
  password: todo
`

// writeConfig writes a config.yaml into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// useMockDatabase routes connectDatabase to a go-sqlmock handle. Commands
// close their connection, so callers register ExpectClose last.
func useMockDatabase(t *testing.T, matcher sqlmock.QueryMatcher) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)

	orig := connectDatabase
	connectDatabase = func(cfg *config.DatabaseConfig, log logger.Logger) (database.Interface, error) {
		return database.NewTrackedConnection(postgresql.Wrap(db, log), log, cfg), nil
	}
	t.Cleanup(func() {
		connectDatabase = orig
		require.NoError(t, mock.ExpectationsWereMet())
	})
	return mock
}

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), errOut.String(), err
}
