package logger

import (
	"context"
	"sync/atomic"
)

type dbStatsKey struct{}

// dbStats accumulates the database work of one command run.
type dbStats struct {
	queries atomic.Int64
	elapsed atomic.Int64 // nanoseconds
}

// WithDBCounter returns a context that counts database operations and their
// elapsed time. Without it the counting helpers below do nothing.
func WithDBCounter(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbStatsKey{}, &dbStats{})
}

func statsFrom(ctx context.Context) *dbStats {
	s, _ := ctx.Value(dbStatsKey{}).(*dbStats)
	return s
}

// IncrementDBCounter counts one database operation.
func IncrementDBCounter(ctx context.Context) {
	if s := statsFrom(ctx); s != nil {
		s.queries.Add(1)
	}
}

// GetDBCounter returns the number of operations counted on ctx.
func GetDBCounter(ctx context.Context) int64 {
	if s := statsFrom(ctx); s != nil {
		return s.queries.Load()
	}
	return 0
}

// AddDBElapsed adds nanos to the database time counted on ctx.
func AddDBElapsed(ctx context.Context, nanos int64) {
	if s := statsFrom(ctx); s != nil {
		s.elapsed.Add(nanos)
	}
}

// GetDBElapsed returns the database time counted on ctx in nanoseconds.
func GetDBElapsed(ctx context.Context) int64 {
	if s := statsFrom(ctx); s != nil {
		return s.elapsed.Load()
	}
	return 0
}
