package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/todo-bricks/todo"
)

var (
	areaColumns = []string{"area_id", "area_name", "icon_url", "user_id", "created_on", "updated_on"}
	tagColumns  = []string{"tag_id", "tag_label", "tag_category", "tag_color", "user_id", "created_on", "updated_on", "task_id"}

	created = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	tagA    = "00000000-0000-0000-0000-00000000000a"
	tagB    = "00000000-0000-0000-0000-00000000000b"
)

func areaRow(name string) *sqlmock.Rows {
	return sqlmock.NewRows(areaColumns).AddRow(testID, name, nil, testUser, created, created)
}

func decodeObject(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

func TestAreasCreate(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("INSERT INTO data.areas (user_id, area_name) VALUES ($1, $2) RETURNING *").
		WithArgs(testUser, "Home").
		WillReturnRows(areaRow("Home"))
	mock.ExpectClose()

	out, _, err := execute(t, "areas", "create", "--config", path, "--user", testUser, "--data", `{"name":"Home"}`)
	require.NoError(t, err)

	area := decodeObject(t, out)
	assert.Equal(t, testID, area["id"])
	assert.Equal(t, "Home", area["name"])
	assert.Nil(t, area["iconUrl"])
	assert.Equal(t, "2024-05-01T09:30:00Z", area["createdOn"])
}

func TestAreasGetNotFound(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("SELECT * FROM data.areas WHERE user_id = $1 AND area_id = $2").
		WithArgs(testUser, testID).
		WillReturnRows(sqlmock.NewRows(areaColumns))
	mock.ExpectClose()

	out, stderr, err := execute(t, "areas", "get", "--config", path, "-u", testUser, "-i", testID)
	require.ErrorIs(t, err, todo.ErrNotFound)
	assert.Empty(t, out)

	body := decodeObject(t, stderr)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "area not found", body["message"])
	assert.EqualValues(t, http.StatusNotFound, body["status"])
}

func TestAreasUpdate(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE data.areas SET updated_on=$1, area_name=$2, icon_url=$3 WHERE user_id = $4 AND area_id = $5 RETURNING *").
		WithArgs(sqlmock.AnyArg(), "Office", nil, testUser, testID).
		WillReturnRows(areaRow("Office"))
	mock.ExpectCommit()
	mock.ExpectClose()

	out, _, err := execute(t, "areas", "update", "--config", path, "--user", testUser, "--id", testID,
		"--data", `{"name":"Office","iconUrl":null}`)
	require.NoError(t, err)
	assert.Equal(t, "Office", decodeObject(t, out)["name"])
}

func TestAreasUpdateWithoutChanges(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)
	mock.ExpectClose()

	_, stderr, err := execute(t, "areas", "update", "--config", path, "--user", testUser, "--id", testID, "--data", `{}`)
	require.ErrorIs(t, err, todo.ErrNoChanges)
	assert.Equal(t, "no changes requested", decodeObject(t, stderr)["message"])
}

func TestAreasDelete(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM data.areas WHERE user_id = $1 AND area_id = $2 RETURNING area_id").
		WithArgs(testUser, testID).
		WillReturnRows(sqlmock.NewRows([]string{"area_id"}).AddRow(testID))
	mock.ExpectCommit()
	mock.ExpectClose()

	out, _, err := execute(t, "areas", "delete", "--config", path, "--user", testUser, "--id", testID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+testID+`","deleted":true}`, out)
}

func TestAreasQuery(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("SELECT * FROM data.areas WHERE area_name ILIKE '%' || $1 || '%' AND user_id = $2 ORDER BY created_on LIMIT 10 OFFSET 10").
		WithArgs("ho", testUser).
		WillReturnRows(areaRow("Home"))
	mock.ExpectClose()

	out, _, err := execute(t, "areas", "query", "--config", path, "--user", testUser,
		"--data", `{"name":"ho","page":2,"limit":10}`)
	require.NoError(t, err)

	var areas []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &areas))
	require.Len(t, areas, 1)
	assert.Equal(t, "Home", areas[0]["name"])
}

func TestQueryWithoutMatchesPrintsEmptyList(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("SELECT * FROM data.tags WHERE user_id = $1 ORDER BY created_on LIMIT 25 OFFSET 0").
		WithArgs(testUser).
		WillReturnRows(sqlmock.NewRows(tagColumns))
	mock.ExpectClose()

	out, _, err := execute(t, "tags", "query", "--config", path, "--user", testUser)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestTasksTags(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("SELECT * FROM data.tags INNER JOIN data.task_tags USING (tag_id) WHERE task_id = $1 AND user_id = $2").
		WithArgs(testID, testUser).
		WillReturnRows(sqlmock.NewRows(tagColumns).
			AddRow(tagA, "home", nil, "#a1b2c3", testUser, created, created, testID))
	mock.ExpectClose()

	out, _, err := execute(t, "tasks", "tags", "--config", path, "--user", testUser, "--id", testID)
	require.NoError(t, err)

	var tags []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, tagA, tags[0]["id"])
	assert.Equal(t, "#a1b2c3", tags[0]["color"])
}

func TestProjectsSetTags(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT project_id FROM data.projects WHERE user_id = $1 AND project_id = $2").
		WithArgs(testUser, testID).
		WillReturnRows(sqlmock.NewRows([]string{"project_id"}).AddRow(testID))
	mock.ExpectExec("DELETE FROM data.project_tags WHERE project_id = $1").
		WithArgs(testID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO data.project_tags (project_id,tag_id) VALUES ($1,$2),($3,$4)").
		WithArgs(testID, tagA, testID, tagB).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT * FROM data.tags INNER JOIN data.project_tags USING (tag_id) WHERE project_id = $1 AND user_id = $2").
		WithArgs(testID, testUser).
		WillReturnRows(sqlmock.NewRows(tagColumns[:7]).
			AddRow(tagA, "home", nil, nil, testUser, created, created).
			AddRow(tagB, "work", nil, nil, testUser, created, created))
	mock.ExpectClose()

	out, _, err := execute(t, "projects", "tags", "--config", path, "--user", testUser, "--id", testID,
		"--set", tagB+","+tagA)
	require.NoError(t, err)

	var tags []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tags))
	assert.Len(t, tags, 2)
}

func TestEntityCommandRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing_user", []string{"areas", "get", "--id", testID}, "--user is required"},
		{"bad_user", []string{"areas", "get", "--user", "nope", "--id", testID}, "invalid --user"},
		{"missing_id", []string{"tasks", "delete", "--user", testUser}, "--id is required"},
		{"unknown_field", []string{"tags", "create", "--user", testUser, "--data", `{"lable":"x"}`}, `unknown field "lable"`},
		{"bad_tag_id", []string{"tasks", "tags", "--user", testUser, "--id", testID, "--set", "x"}, `invalid tag id "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, testConfig)
			mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)
			mock.ExpectClose()

			_, stderr, err := execute(t, append(tt.args, "--config", path)...)
			require.Error(t, err)

			var apiErr todo.IAPIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus())
			assert.Contains(t, apiErr.Message(), tt.message)
			assert.Equal(t, "BAD_REQUEST", decodeObject(t, stderr)["code"])
		})
	}
}

func TestEntityCommandValidationDetails(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)
	mock.ExpectClose()

	_, stderr, err := execute(t, "tags", "create", "--config", path, "--user", testUser, "--data", `{"color":"blue"}`)
	require.Error(t, err)

	body := decodeObject(t, stderr)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok, stderr)
	assert.Contains(t, details, "fields")
}

func TestDataFromStdin(t *testing.T) {
	path := writeConfig(t, testConfig)
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("INSERT INTO data.areas (user_id, area_name) VALUES ($1, $2) RETURNING *").
		WithArgs(testUser, "Garden").
		WillReturnRows(areaRow("Garden"))
	mock.ExpectClose()

	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(`{"name":"Garden"}`))
	root.SetArgs([]string{"areas", "create", "--config", path, "--user", testUser, "--data", "@-"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "Garden", decodeObject(t, out.String())["name"])
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "task", singular("tasks"))
	assert.Equal(t, "s", singular("s"))
	assert.Equal(t, "user", singular("user"))
}

func TestCommandLogsDatabaseWork(t *testing.T) {
	path := writeConfig(t, strings.Replace(testConfig, "level: disabled", "level: info", 1))
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("SELECT * FROM data.areas WHERE user_id = $1 AND area_id = $2").
		WithArgs(testUser, testID).
		WillReturnRows(areaRow("Home"))
	mock.ExpectClose()

	out, stderr, err := execute(t, "areas", "get", "--config", path, "--user", testUser, "--id", testID)
	require.NoError(t, err)
	assert.Equal(t, "Home", decodeObject(t, out)["name"])

	var action map[string]any
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		var entry map[string]any
		if json.Unmarshal([]byte(line), &entry) == nil && entry["log.type"] == "action" {
			action = entry
		}
	}
	require.NotNil(t, action, stderr)
	assert.Equal(t, "todoctl areas get", action["command"])
	assert.Equal(t, "OK", action["result_code"])
	assert.EqualValues(t, 1, action["db_queries"])
	assert.Greater(t, action["db_elapsed"], float64(0))
}

func TestFailedCommandLogsResultCode(t *testing.T) {
	path := writeConfig(t, strings.Replace(testConfig, "level: disabled", "level: info", 1))
	mock := useMockDatabase(t, sqlmock.QueryMatcherEqual)

	mock.ExpectQuery("SELECT * FROM data.areas WHERE user_id = $1 AND area_id = $2").
		WithArgs(testUser, testID).
		WillReturnRows(sqlmock.NewRows(areaColumns))
	mock.ExpectClose()

	_, stderr, err := execute(t, "areas", "get", "--config", path, "--user", testUser, "--id", testID)
	require.ErrorIs(t, err, todo.ErrNotFound)
	assert.Contains(t, stderr, `"result_code":"NOT_FOUND"`)
	assert.Contains(t, stderr, `"db_queries":1`)
}
