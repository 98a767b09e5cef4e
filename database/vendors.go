package database

import "github.com/gaborage/todo-bricks/database/types"

// PostgreSQL is the only vendor whose dialect the statement builder renders.
const PostgreSQL = types.PostgreSQL
