package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/todo-bricks/database/types"
)

// MockTx provides a testify-based mock implementation of types.Tx.
//
//	mockTx := &mocks.MockTx{}
//	mockTx.ExpectExec("DELETE FROM data.task_tags WHERE task_id = $1", []any{id}, sqlmock.NewResult(0, 2), nil)
//	mockTx.ExpectCommit(nil)
type MockTx struct {
	mock.Mock
}

var _ types.Tx = (*MockTx)(nil)

// Query implements types.Tx
func (m *MockTx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	callArgs := append([]any{ctx, query}, args...)
	arguments := m.Called(callArgs...)
	rows, _ := arguments.Get(0).(*sql.Rows)
	return rows, arguments.Error(1)
}

// QueryRow implements types.Tx
func (m *MockTx) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	callArgs := append([]any{ctx, query}, args...)
	arguments := m.Called(callArgs...)
	row, _ := arguments.Get(0).(types.Row)
	return row
}

// Exec implements types.Tx
func (m *MockTx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	callArgs := append([]any{ctx, query}, args...)
	arguments := m.Called(callArgs...)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(sql.Result), arguments.Error(1)
}

// Commit implements types.Tx
func (m *MockTx) Commit() error {
	arguments := m.Called()
	return arguments.Error(0)
}

// Rollback implements types.Tx
func (m *MockTx) Rollback() error {
	arguments := m.Called()
	return arguments.Error(0)
}

// Helper methods for common testing scenarios

// ExpectExec sets up an exec expectation for a statement with the given arguments
func (m *MockTx) ExpectExec(query string, args []any, result sql.Result, err error) *mock.Call {
	return m.On("Exec", append([]any{mock.Anything, query}, args...)...).Return(result, err)
}

// ExpectCommit sets up a commit expectation
func (m *MockTx) ExpectCommit(err error) *mock.Call {
	return m.On("Commit").Return(err)
}

// ExpectRollback sets up a rollback expectation
func (m *MockTx) ExpectRollback(err error) *mock.Call {
	return m.On("Rollback").Return(err)
}
