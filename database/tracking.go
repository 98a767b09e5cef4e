package database

import (
	"github.com/gaborage/todo-bricks/database/internal/tracking"
)

// NewTrackedConnection wraps an open connection with query logging, spans and
// metrics. NewConnection applies it already; callers that open their own
// handle, such as tests over go-sqlmock, use it directly.
var NewTrackedConnection = tracking.NewConnection
