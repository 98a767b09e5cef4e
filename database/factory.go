package database

import (
	"fmt"
	"slices"

	"github.com/gaborage/todo-bricks/config"
	"github.com/gaborage/todo-bricks/database/internal/tracking"
	"github.com/gaborage/todo-bricks/database/postgresql"
	"github.com/gaborage/todo-bricks/database/types"
	"github.com/gaborage/todo-bricks/logger"
)

// Connector opens a raw, untracked connection for a configuration.
type Connector func(*config.DatabaseConfig, logger.Logger) (Interface, error)

var connectors = map[string]Connector{
	PostgreSQL: func(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error) {
		conn, err := postgresql.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}
		return conn, nil
	},
}

// NewConnection creates a database connection according to cfg and returns it
// wrapped with performance tracking and connection pool metrics. An empty
// cfg.Type selects PostgreSQL.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error) {
	if cfg == nil {
		return nil, types.ErrNilConfig
	}

	dbType := cfg.Type
	if dbType == "" {
		dbType = PostgreSQL
	}
	connect, ok := connectors[dbType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %v)", types.ErrUnsupportedVendor, cfg.Type, GetSupportedDatabaseTypes())
	}

	conn, err := connect(cfg, log)
	if err != nil {
		return nil, err
	}

	tracked := tracking.NewConnection(conn, log, cfg)
	return &meteredConnection{
		Connection:        tracked,
		unregisterMetrics: tracking.RegisterConnectionPoolMetrics(conn, dbType),
	}, nil
}

// meteredConnection unregisters the pool gauges when the connection closes.
type meteredConnection struct {
	*tracking.Connection
	unregisterMetrics func()
}

func (c *meteredConnection) Close() error {
	c.unregisterMetrics()
	return c.Connection.Close()
}

// ValidateDatabaseType returns nil if dbType is one of the supported database types.
func ValidateDatabaseType(dbType string) error {
	if !slices.Contains(GetSupportedDatabaseTypes(), dbType) {
		return fmt.Errorf("%w: %s (supported: %v)", types.ErrUnsupportedVendor, dbType, GetSupportedDatabaseTypes())
	}
	return nil
}

// GetSupportedDatabaseTypes returns a list of supported database types
func GetSupportedDatabaseTypes() []string {
	return []string{PostgreSQL}
}
