// Package testing holds shared test helpers for todo-bricks.
//
// The mocks subpackage provides testify mocks of the database interfaces for
// code that should not depend on SQL text. The containers subpackage starts
// PostgreSQL with testcontainers and is only built with the integration tag:
//
//	go test -tags=integration ./...
package testing
