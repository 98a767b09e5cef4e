package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/todo-bricks/database/types"
)

// MockDatabase provides a testify-based mock implementation of types.Interface.
// Variadic query arguments are flattened into the call, so expectations list
// them individually:
//
//	mockDB := &mocks.MockDatabase{}
//	mockDB.On("Exec", mock.Anything, "DELETE FROM data.tags WHERE tag_id = $1", tagID).
//	    Return(sqlmock.NewResult(0, 1), nil)
//	mockDB.ExpectHealthCheck(true)
type MockDatabase struct {
	mock.Mock
}

var _ types.Interface = (*MockDatabase)(nil)

// Query implements types.Interface
func (m *MockDatabase) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	callArgs := append([]any{ctx, query}, args...)
	arguments := m.Called(callArgs...)
	rows, _ := arguments.Get(0).(*sql.Rows)
	return rows, arguments.Error(1)
}

// QueryRow implements types.Interface
func (m *MockDatabase) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	callArgs := append([]any{ctx, query}, args...)
	arguments := m.Called(callArgs...)
	row, _ := arguments.Get(0).(types.Row)
	return row
}

// Exec implements types.Interface
func (m *MockDatabase) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	callArgs := append([]any{ctx, query}, args...)
	arguments := m.Called(callArgs...)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(sql.Result), arguments.Error(1)
}

// Begin implements types.Interface
func (m *MockDatabase) Begin(ctx context.Context) (types.Tx, error) {
	arguments := m.Called(ctx)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(types.Tx), arguments.Error(1)
}

// BeginTx implements types.Interface
func (m *MockDatabase) BeginTx(ctx context.Context, opts *sql.TxOptions) (types.Tx, error) {
	arguments := m.Called(ctx, opts)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(types.Tx), arguments.Error(1)
}

// Health implements types.Interface
func (m *MockDatabase) Health(ctx context.Context) error {
	arguments := m.Called(ctx)
	return arguments.Error(0)
}

// Stats implements types.Interface
func (m *MockDatabase) Stats() (map[string]any, error) {
	arguments := m.Called()
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(map[string]any), arguments.Error(1)
}

// Close implements types.Interface
func (m *MockDatabase) Close() error {
	arguments := m.Called()
	return arguments.Error(0)
}

// DatabaseType implements types.Interface
func (m *MockDatabase) DatabaseType() string {
	arguments := m.Called()
	return arguments.String(0)
}

// Helper methods for common testing scenarios

// ExpectHealthCheck sets up a health check expectation
func (m *MockDatabase) ExpectHealthCheck(healthy bool) *mock.Call {
	if healthy {
		return m.On("Health", mock.Anything).Return(nil)
	}
	return m.On("Health", mock.Anything).Return(sql.ErrConnDone)
}

// ExpectExec sets up an exec expectation for a statement with the given arguments
func (m *MockDatabase) ExpectExec(query string, args []any, result sql.Result, err error) *mock.Call {
	return m.On("Exec", append([]any{mock.Anything, query}, args...)...).Return(result, err)
}

// ExpectQueryRow sets up a single-row query expectation returning row
func (m *MockDatabase) ExpectQueryRow(query string, args []any, row types.Row) *mock.Call {
	return m.On("QueryRow", append([]any{mock.Anything, query}, args...)...).Return(row)
}

// ExpectTransaction sets up a transaction expectation with the provided mock transaction
func (m *MockDatabase) ExpectTransaction(tx types.Tx, err error) *mock.Call {
	return m.On("Begin", mock.Anything).Return(tx, err)
}

// ExpectDatabaseType sets up a database type expectation
func (m *MockDatabase) ExpectDatabaseType(dbType string) *mock.Call {
	return m.On("DatabaseType").Return(dbType)
}

// ExpectStats sets up a stats expectation with the provided stats and error
func (m *MockDatabase) ExpectStats(stats map[string]any, err error) *mock.Call {
	return m.On("Stats").Return(stats, err)
}

// ExpectClose sets up a close expectation
func (m *MockDatabase) ExpectClose(err error) *mock.Call {
	return m.On("Close").Return(err)
}
