package todo

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/todo-bricks/database/statement"
	"github.com/gaborage/todo-bricks/todo/model"
)

const matchTaskTags = "SELECT task_id FROM data.task_tags WHERE tag_id = ANY($1) GROUP BY task_id HAVING COUNT(DISTINCT tag_id) = $2"

func TestTaggedStoreQueryByTags(t *testing.T) {
	svc, mock := newTestService(t)
	other := uuid.New()

	var req model.QueryTask
	req.Title = ptr(statement.FilterMatch("report"))
	req.Tags = []uuid.UUID{tagB, tagA, tagB}
	req.Page = 2

	mock.ExpectQuery(matchTaskTags).
		WithArgs([]uuid.UUID{tagA, tagB}, 2).
		WillReturnRows(sqlmock.NewRows([]string{"task_id"}).AddRow(testID.String()).AddRow(other.String()))
	mock.ExpectQuery("SELECT * FROM data.tasks WHERE task_title ILIKE '%' || $1 || '%' AND user_id = $2 AND task_id = ANY($3) ORDER BY created_on LIMIT 10 OFFSET 10").
		WithArgs("report", testOwner, []uuid.UUID{testID, other}).
		WillReturnRows(taskRows(testID, other))

	tasks, err := svc.Tasks.Query(context.Background(), testOwner, req)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, other, tasks[1].ID)
}

func TestTaggedStoreQueryNoTagMatch(t *testing.T) {
	svc, mock := newTestService(t)

	var req model.QueryTask
	req.Tags = []uuid.UUID{tagA}

	mock.ExpectQuery(matchTaskTags).
		WithArgs([]uuid.UUID{tagA}, 1).
		WillReturnRows(sqlmock.NewRows([]string{"task_id"}))

	tasks, err := svc.Tasks.Query(context.Background(), testOwner, req)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaggedStoreTags(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT * FROM data.tags INNER JOIN data.project_tags USING (tag_id) WHERE project_id = $1 AND user_id = $2").
		WithArgs(testID, testOwner).
		WillReturnRows(sqlmock.NewRows(append(tagColumns, "project_id")).
			AddRow(tagA.String(), "home", nil, nil, testOwner.String(), testNow, testNow, testID.String()))

	tags, err := svc.Projects.Tags(context.Background(), testOwner, testID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, tagA, tags[0].ID)
}

func TestTaggedStoreSetTags(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT project_id FROM data.projects WHERE user_id = $1 AND project_id = $2").
		WithArgs(testOwner, testID).
		WillReturnRows(sqlmock.NewRows([]string{"project_id"}).AddRow(testID.String()))
	mock.ExpectExec("DELETE FROM data.project_tags WHERE project_id = $1").
		WithArgs(testID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO data.project_tags (project_id,tag_id) VALUES ($1,$2),($3,$4)").
		WithArgs(testID, tagA, testID, tagB).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, svc.Projects.SetTags(context.Background(), testOwner, testID, []uuid.UUID{tagB, tagA}))
}

func TestTaggedStoreSetTagsClears(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT task_id FROM data.tasks WHERE user_id = $1 AND task_id = $2").
		WillReturnRows(sqlmock.NewRows([]string{"task_id"}).AddRow(testID.String()))
	mock.ExpectExec("DELETE FROM data.task_tags WHERE task_id = $1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Tasks.SetTags(context.Background(), testOwner, testID, nil))
}

func TestTaggedStoreSetTagsRequiresOwner(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT task_id FROM data.tasks WHERE user_id = $1 AND task_id = $2").
		WithArgs(testOwner, testID).
		WillReturnRows(sqlmock.NewRows([]string{"task_id"}))
	mock.ExpectRollback()

	err := svc.Tasks.SetTags(context.Background(), testOwner, testID, []uuid.UUID{tagA})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTaggedStoreCreateLinksTags(t *testing.T) {
	svc, mock := newTestService(t)

	var req model.CreateTask
	req.Title = ptr("Plan trip")
	req.Tags = []uuid.UUID{tagA}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO data.tasks (user_id, task_title) VALUES ($1, $2) RETURNING *").
		WithArgs(testOwner, "Plan trip").
		WillReturnRows(taskRows(testID))
	mock.ExpectExec("INSERT INTO data.task_tags (task_id,tag_id) VALUES ($1,$2)").
		WithArgs(testID, tagA).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	task, err := svc.Tasks.Create(context.Background(), testOwner, req)
	require.NoError(t, err)
	assert.Equal(t, testID, task.ID)
}

func TestTaggedStoreRetrieveWithTags(t *testing.T) {
	svc, mock := newTestService(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("SELECT * FROM data.tasks WHERE user_id = $1 AND task_id = $2").
		WithArgs(testOwner, testID).
		WillReturnRows(taskRows(testID))
	mock.ExpectQuery("SELECT * FROM data.tags INNER JOIN data.task_tags USING (tag_id) WHERE task_id = $1 AND user_id = $2").
		WithArgs(testID, testOwner).
		WillReturnRows(sqlmock.NewRows(append(tagColumns, "task_id")).
			AddRow(tagA.String(), "a", nil, nil, testOwner.String(), testNow, testNow, testID.String()).
			AddRow(tagB.String(), "b", nil, nil, testOwner.String(), testNow, testNow, testID.String()))

	task, tags, err := svc.Tasks.RetrieveWithTags(context.Background(), testOwner, testID)
	require.NoError(t, err)
	assert.Equal(t, testID, task.ID)
	assert.Len(t, tags, 2)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []uuid.UUID{tagA, tagB}, dedupe([]uuid.UUID{tagB, tagA, tagB, tagA}))
	assert.Empty(t, dedupe(nil))
}
