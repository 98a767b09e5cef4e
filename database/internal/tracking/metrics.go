package tracking

import (
	"context"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	dbMeterName = "todo-bricks/database"

	// Metric names following OpenTelemetry semantic conventions
	metricDBCalls      = "db.client.calls"
	metricDBDuration   = "db.client.operation.duration"
	metricRowsAffected = "db.rows.affected"

	// Connection pool metrics
	metricPoolActive = "db.connection.pool.active"
	metricPoolIdle   = "db.connection.pool.idle"
	metricPoolTotal  = "db.connection.pool.total"

	attrDBSystem    = "db.system"
	attrDBOperation = "db.operation.name"
	attrDBTable     = "db.sql.table"

	unknownTable = "unknown"
)

type dbInstruments struct {
	meter        metric.Meter
	calls        metric.Int64Counter
	duration     metric.Float64Histogram
	rowsAffected metric.Int64Counter
}

var (
	instrumentsOnce sync.Once
	instruments     *dbInstruments
)

// logMetricError logs a metric initialization or registration error to stderr.
// Metrics failures never break database operations.
func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize metric %s: %v\n", metricName, err)
	}
}

// getInstruments lazily creates the instruments from the global meter provider.
func getInstruments() *dbInstruments {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(dbMeterName)
		in := &dbInstruments{meter: meter}

		var err error
		in.calls, err = meter.Int64Counter(metricDBCalls,
			metric.WithDescription("Total number of database client calls"))
		logMetricError(metricDBCalls, err)

		in.duration, err = meter.Float64Histogram(metricDBDuration,
			metric.WithDescription("Duration of database operations in milliseconds"),
			metric.WithUnit("ms"))
		logMetricError(metricDBDuration, err)

		in.rowsAffected, err = meter.Int64Counter(metricRowsAffected,
			metric.WithDescription("Number of rows affected by database operations"))
		logMetricError(metricRowsAffected, err)

		instruments = in
	})
	return instruments
}

// recordDBMetrics records the call counter, the duration histogram and, for
// successful writes, the rows affected counter.
func recordDBMetrics(ctx context.Context, tc *Context, query string, duration time.Duration, rowsAffected int64, err error) {
	in := getInstruments()
	failed := isFailure(err)

	common := []attribute.KeyValue{
		attribute.String(attrDBSystem, normalizeDBVendor(tc.Vendor)),
		attribute.String(attrDBOperation, extractDBOperation(query)),
		attribute.String(attrDBTable, extractTableName(query)),
	}

	if in.calls != nil {
		attrs := append(common[:len(common):len(common)], attribute.Bool("error", failed))
		in.calls.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if in.duration != nil {
		in.duration.Record(ctx, float64(duration.Nanoseconds())/1e6, metric.WithAttributes(common...))
	}

	if in.rowsAffected != nil && rowsAffected > 0 && !failed {
		in.rowsAffected.Add(ctx, rowsAffected, metric.WithAttributes(common...))
	}
}

// Table patterns accept an optional schema prefix and double quoted identifiers
// and capture the bare table name.
var (
	selectTableRegex = regexp.MustCompile(`(?i)FROM\s+(?:"?\w+"?\.)?"?(\w+)"?`)
	insertTableRegex = regexp.MustCompile(`(?i)INSERT\s+INTO\s+(?:"?\w+"?\.)?"?(\w+)"?`)
	updateTableRegex = regexp.MustCompile(`(?i)UPDATE\s+(?:"?\w+"?\.)?"?(\w+)"?`)
	deleteTableRegex = regexp.MustCompile(`(?i)DELETE\s+FROM\s+(?:"?\w+"?\.)?"?(\w+)"?`)
)

// extractTableName returns the lowercase primary table of a DML statement, or
// "unknown". For joins the first table wins.
func extractTableName(query string) string {
	var pattern *regexp.Regexp
	switch extractDBOperation(query) {
	case "select":
		pattern = selectTableRegex
	case "insert":
		pattern = insertTableRegex
	case "update":
		pattern = updateTableRegex
	case "delete":
		pattern = deleteTableRegex
	default:
		return unknownTable
	}

	if matches := pattern.FindStringSubmatch(query); len(matches) > 1 {
		return strings.ToLower(matches[1])
	}
	return unknownTable
}

// asInt64 converts the numeric kinds found in Stats() maps to int64.
func asInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint64:
		if val <= math.MaxInt64 {
			return int64(val), true
		}
		return 0, false
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

// RegisterConnectionPoolMetrics registers observable gauges reporting the
// active, idle and maximum connections of conn. The returned function
// unregisters the callback.
func RegisterConnectionPoolMetrics(conn interface {
	Stats() (map[string]any, error)
}, vendor string) func() {
	meter := getInstruments().meter
	attrs := metric.WithAttributes(attribute.String(attrDBSystem, normalizeDBVendor(vendor)))

	active, err := meter.Int64ObservableGauge(metricPoolActive, metric.WithDescription("Number of active database connections"))
	logMetricError(metricPoolActive, err)
	idle, err := meter.Int64ObservableGauge(metricPoolIdle, metric.WithDescription("Number of idle database connections"))
	logMetricError(metricPoolIdle, err)
	total, err := meter.Int64ObservableGauge(metricPoolTotal, metric.WithDescription("Maximum number of database connections configured"))
	logMetricError(metricPoolTotal, err)

	if active == nil || idle == nil || total == nil {
		return func() {}
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats, statsErr := conn.Stats()
		if statsErr != nil {
			return nil
		}
		if v, ok := asInt64(stats["in_use"]); ok {
			o.ObserveInt64(active, v, attrs)
		}
		if v, ok := asInt64(stats["idle"]); ok {
			o.ObserveInt64(idle, v, attrs)
		}
		if v, ok := asInt64(stats["max_open_connections"]); ok {
			o.ObserveInt64(total, v, attrs)
		}
		return nil
	}, active, idle, total)
	if err != nil {
		logMetricError("pool_metrics_callback", err)
		return func() {}
	}

	return func() {
		logMetricError("pool_metrics_unregister", registration.Unregister())
	}
}
