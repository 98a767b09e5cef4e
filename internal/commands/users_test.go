package commands

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/todo-bricks/todo"
)

var userColumns = []string{"user_id", "username", "email", "password_hash", "created_on", "updated_on"}

func userRow() *sqlmock.Rows {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	return sqlmock.NewRows(userColumns).AddRow(testUser, "ada", "ada@example.com", "$2a$10$hash", now, now)
}

func TestUsersCreateHidesPasswordHash(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("INSERT INTO auth.users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING *").
		WithArgs("ada", "ada@example.com", "$2a$10$hash").
		WillReturnRows(userRow())
	mock.ExpectClose()

	out, _, err := execute(t, "users", "create", "--config", path,
		"--data", `{"username":"ada","email":"ada@example.com","passwordHash":"$2a$10$hash"}`)
	require.NoError(t, err)

	user := decodeObject(t, out)
	assert.Equal(t, testUser, user["id"])
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, out, "hash")
}

func TestUsersGetByEmail(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("SELECT * FROM auth.users WHERE email = $1").
		WithArgs("ada@example.com").
		WillReturnRows(userRow())
	mock.ExpectClose()

	out, _, err := execute(t, "users", "get", "--config", path, "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada", decodeObject(t, out)["username"])
}

func TestUsersGetByID(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("SELECT * FROM auth.users WHERE user_id = $1").
		WithArgs(testUser).
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectClose()

	_, stderr, err := execute(t, "users", "get", "--config", path, "--id", testUser)
	require.ErrorIs(t, err, todo.ErrNotFound)
	assert.Equal(t, "user not found", decodeObject(t, stderr)["message"])
}

func TestUsersUpdate(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE auth.users SET updated_on=$1, username=$2 WHERE user_id = $3 RETURNING *").
		WithArgs(sqlmock.AnyArg(), "ada", testUser).
		WillReturnRows(userRow())
	mock.ExpectCommit()
	mock.ExpectClose()

	_, _, err := execute(t, "users", "update", "--config", path, "--id", testUser, "--data", `{"username":"ada"}`)
	require.NoError(t, err)
}

func TestUsersDelete(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM auth.users WHERE user_id = $1 RETURNING user_id").
		WithArgs(testUser).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(testUser))
	mock.ExpectCommit()
	mock.ExpectClose()

	out, _, err := execute(t, "users", "delete", "--config", path, "--id", testUser)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+testUser+`","deleted":true}`, out)
}
