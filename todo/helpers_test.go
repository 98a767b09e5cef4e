package todo

import (
	"database/sql/driver"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/todo-bricks/config"
	"github.com/gaborage/todo-bricks/database"
	"github.com/gaborage/todo-bricks/database/postgresql"
	"github.com/gaborage/todo-bricks/logger"
)

var (
	testNow   = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	testOwner = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testID    = uuid.MustParse("22222222-2222-2222-2222-222222222222")

	tagA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	tagB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

var (
	areaColumns = []string{"area_id", "area_name", "icon_url", "user_id", "created_on", "updated_on"}
	tagColumns  = []string{"tag_id", "tag_label", "tag_category", "tag_color", "user_id", "created_on", "updated_on"}
	taskColumns = []string{
		"task_id", "task_title", "notes", "start_date", "start_time", "deadline",
		"completed_on", "logged_on", "trashed_on", "area_id", "project_id",
		"user_id", "created_on", "updated_on",
	}
	userColumns = []string{"user_id", "username", "email", "password_hash", "created_on", "updated_on"}
)

// driverValues lets go-sqlmock accept the array arguments pgx binds natively.
type driverValues struct{}

func (driverValues) ConvertValue(v any) (driver.Value, error) {
	if valuer, ok := v.(driver.Valuer); ok {
		return valuer.Value()
	}
	return v, nil
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.ValueConverterOption(driverValues{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	log := logger.New("disabled", false)
	conn := database.NewTrackedConnection(postgresql.Wrap(db, log), log, nil)

	svc := NewService(conn, log,
		WithClock(func() time.Time { return testNow }),
		WithPagination(config.PaginationConfig{Default: 10, Max: 50}),
	)
	return svc, mock
}

func areaRows(id uuid.UUID, name string) *sqlmock.Rows {
	return sqlmock.NewRows(areaColumns).
		AddRow(id.String(), name, nil, testOwner.String(), testNow, testNow)
}

func taskRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows(taskColumns)
	for _, id := range ids {
		rows.AddRow(id.String(), "Task "+id.String()[:4], nil, nil, nil, nil,
			nil, nil, nil, nil, nil,
			testOwner.String(), testNow, testNow)
	}
	return rows
}

func ptr[T any](v T) *T { return &v }
