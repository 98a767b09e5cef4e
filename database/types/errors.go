//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import "errors"

// Sentinel errors for the database layer.
// These can be used with errors.Is() for programmatic error checking.
var (
	// ErrNilRow is returned when scanning a row adapter that wraps no *sql.Row.
	ErrNilRow = errors.New("row adapter: underlying sql.Row is nil")

	// ErrUnsupportedVendor is returned when the configured database type has no driver.
	ErrUnsupportedVendor = errors.New("unsupported database vendor")

	// ErrNilConfig is returned when a connection is requested without configuration.
	ErrNilConfig = errors.New("database config is nil")
)
