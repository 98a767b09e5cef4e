package statement

import "database/sql/driver"

// Bindable is a value able to encode itself for the driver. Plain scalars
// (string, int64, bool, time.Time, uuid.UUID, slices) are bound as they are and
// converted by the pgx driver; wrappers such as Patch implement Bindable so the
// driver sees the wrapped value or NULL.
type Bindable = driver.Valuer

type nullValue struct{}

func (nullValue) Value() (driver.Value, error) {
	return nil, nil
}

func (nullValue) String() string {
	return "NULL"
}

// MarshalJSON renders NULL as JSON null.
func (nullValue) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Null binds SQL NULL.
var Null Bindable = nullValue{}
