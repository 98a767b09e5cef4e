package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/gaborage/todo-bricks/database/types"
	"github.com/gaborage/todo-bricks/logger"
)

const (
	levelDebug = "debug"
	levelError = "error"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelFatal = "fatal"

	testQuerySelectTasks = "SELECT * FROM data.tasks WHERE user_id = $1"
	testQueryInsertTag   = "INSERT INTO data.tags (tag_label) VALUES ($1) RETURNING *"
	testQueryUpdateArea  = "UPDATE data.areas SET area_name=$1 WHERE area_id = $2"
	testQueryDeleteLinks = "DELETE FROM data.task_tags WHERE task_id = $1"
)

type eventRecord struct {
	Level  string
	Msg    string
	Err    error
	Fields map[string]any
}

// recordingLogger captures log events so tests can assert on levels and fields.
type recordingLogger struct {
	mu     *sync.Mutex
	sink   *[]*eventRecord
	fields map[string]any
}

type recordingEvent struct {
	record *eventRecord
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, sink: &[]*eventRecord{}, fields: map[string]any{}}
}

func (l *recordingLogger) clone() *recordingLogger {
	cloned := &recordingLogger{mu: l.mu, sink: l.sink, fields: make(map[string]any, len(l.fields))}
	for k, v := range l.fields {
		cloned.fields[k] = v
	}
	return cloned
}

func (l *recordingLogger) newEvent(level string) logger.LogEvent {
	record := &eventRecord{Level: level, Fields: make(map[string]any, len(l.fields))}
	for k, v := range l.fields {
		record.Fields[k] = v
	}
	l.mu.Lock()
	*l.sink = append(*l.sink, record)
	l.mu.Unlock()
	return &recordingEvent{record: record}
}

func (l *recordingLogger) Info() logger.LogEvent  { return l.newEvent(levelInfo) }
func (l *recordingLogger) Error() logger.LogEvent { return l.newEvent(levelError) }
func (l *recordingLogger) Debug() logger.LogEvent { return l.newEvent(levelDebug) }
func (l *recordingLogger) Warn() logger.LogEvent  { return l.newEvent(levelWarn) }
func (l *recordingLogger) Fatal() logger.LogEvent { return l.newEvent(levelFatal) }

func (l *recordingLogger) WithContext(_ any) logger.Logger { return l.clone() }

func (l *recordingLogger) WithFields(fields map[string]any) logger.Logger {
	cloned := l.clone()
	for k, v := range fields {
		cloned.fields[k] = v
	}
	return cloned
}

func (l *recordingLogger) events() []*eventRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*eventRecord(nil), *l.sink...)
}

func (l *recordingLogger) last() *eventRecord {
	events := l.events()
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

func (e *recordingEvent) Msg(msg string) { e.record.Msg = msg }

func (e *recordingEvent) Msgf(format string, args ...any) {
	e.record.Msg = fmt.Sprintf(format, args...)
}

func (e *recordingEvent) Err(err error) logger.LogEvent {
	e.record.Err = err
	return e
}

func (e *recordingEvent) Str(key, value string) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

func (e *recordingEvent) Int(key string, value int) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

func (e *recordingEvent) Int64(key string, value int64) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

func (e *recordingEvent) Uint64(key string, value uint64) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

func (e *recordingEvent) Bool(key string, value bool) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

func (e *recordingEvent) Dur(key string, d time.Duration) logger.LogEvent {
	e.record.Fields[key] = d
	return e
}

func (e *recordingEvent) Interface(key string, value any) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

// sqlConn is a minimal types.Interface over a *sql.DB, typically a go-sqlmock handle.
type sqlConn struct {
	db *sql.DB
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

func (c *sqlConn) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	return types.NewRowFromSQL(c.db.QueryRowContext(ctx, query, args...))
}

func (c *sqlConn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

func (c *sqlConn) Begin(ctx context.Context) (types.Tx, error) {
	return c.BeginTx(ctx, nil)
}

func (c *sqlConn) BeginTx(ctx context.Context, opts *sql.TxOptions) (types.Tx, error) {
	tx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (c *sqlConn) Health(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *sqlConn) Stats() (map[string]any, error) {
	s := c.db.Stats()
	return map[string]any{
		"max_open_connections": s.MaxOpenConnections,
		"in_use":               s.InUse,
		"idle":                 s.Idle,
	}, nil
}

func (c *sqlConn) Close() error         { return c.db.Close() }
func (c *sqlConn) DatabaseType() string { return types.PostgreSQL }

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

func (t *sqlTx) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	return types.NewRowFromSQL(t.tx.QueryRowContext(ctx, query, args...))
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }

// setupTestTracerProvider installs an in-memory tracer provider for the test.
func setupTestTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	original := otel.GetTracerProvider()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(original)
	})
	return exporter
}

// setupTestMeterProvider installs a manual-reader meter provider and resets
// the lazily created instruments so they bind to it.
func setupTestMeterProvider(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	original := otel.GetMeterProvider()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	resetInstruments()

	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
		otel.SetMeterProvider(original)
		resetInstruments()
	})
	return reader
}

func resetInstruments() {
	instrumentsOnce = sync.Once{}
	instruments = nil
}

func newTestContext(log logger.Logger) *Context {
	return &Context{Logger: log, Vendor: types.PostgreSQL, Settings: NewSettings(nil)}
}
