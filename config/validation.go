package config

import (
	"fmt"
	"slices"
	"time"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	defaultMaxQueryLength     = 1000
	defaultMaxConns           = 25
	defaultIdleConns          = 2
	defaultIdleTime           = 5 * time.Minute
	defaultConnLifetime       = 30 * time.Minute
	defaultPostgresPort       = 5432

	defaultPageSize    = 25
	defaultMaxPageSize = 100
)

// Database type constants
const (
	PostgreSQL = "postgresql"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var (
	validEnvs      = []string{EnvDevelopment, EnvStaging, EnvProduction}
	validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
)

// Validate checks cfg and fills pool and query defaults for a configured database.
func Validate(cfg *Config) error {
	if err := validateApp(&cfg.App); err != nil {
		return fmt.Errorf("app config: %w", err)
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	if err := validateTodo(&cfg.Todo); err != nil {
		return fmt.Errorf("todo config: %w", err)
	}

	return nil
}

func validateApp(cfg *AppConfig) error {
	if cfg.Name == "" {
		return NewMissingFieldError("app.name", "TODO_APP_NAME", "app.name")
	}

	if cfg.Version == "" {
		return NewMissingFieldError("app.version", "TODO_APP_VERSION", "app.version")
	}

	if !slices.Contains(validEnvs, cfg.Env) {
		return NewInvalidFieldError("app.env", fmt.Sprintf("invalid environment: %s", cfg.Env), validEnvs)
	}

	return nil
}

// IsDatabaseConfigured determines if database is intentionally configured.
func IsDatabaseConfigured(cfg *DatabaseConfig) bool {
	if cfg.ConnectionString != "" {
		return true
	}
	return cfg.Host != "" || cfg.Type != ""
}

func validateDatabase(cfg *DatabaseConfig) error {
	if !IsDatabaseConfigured(cfg) {
		return nil
	}

	if cfg.Type == "" {
		cfg.Type = PostgreSQL
	}
	if cfg.Type != PostgreSQL {
		return NewInvalidFieldError("database.type", fmt.Sprintf("invalid database type: %s", cfg.Type), []string{PostgreSQL})
	}

	if cfg.ConnectionString == "" {
		if err := validateDatabaseCoreFields(cfg); err != nil {
			return err
		}
	} else if cfg.Port < 0 || cfg.Port > 65535 {
		return NewValidationError("database.port", fmt.Sprintf("invalid database port: %d", cfg.Port))
	}

	return applyDatabasePoolDefaults(cfg)
}

func validateDatabaseCoreFields(cfg *DatabaseConfig) error {
	if cfg.Host == "" {
		return NewMissingFieldError("database.host", "TODO_DATABASE_HOST", "database.host")
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPostgresPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return NewValidationError("database.port", fmt.Sprintf("invalid database port: %d", cfg.Port))
	}

	if cfg.Database == "" {
		return NewMissingFieldError("database.database", "TODO_DATABASE_DATABASE", "database.database")
	}

	if cfg.Username == "" {
		return NewMissingFieldError("database.username", "TODO_DATABASE_USERNAME", "database.username")
	}

	return nil
}

// applyDatabasePoolDefaults sets defaults for zero pool and query settings and
// rejects negative ones. It modifies cfg in-place.
func applyDatabasePoolDefaults(cfg *DatabaseConfig) error {
	pool := &cfg.Pool
	switch {
	case pool.Max.Connections < 0:
		return NewValidationError("database.pool.max.connections", "must be positive")
	case pool.Max.Connections == 0:
		pool.Max.Connections = defaultMaxConns
	}

	switch {
	case pool.Idle.Connections < 0:
		return NewValidationError("database.pool.idle.connections", "must be zero or positive")
	case pool.Idle.Connections == 0:
		pool.Idle.Connections = min(defaultIdleConns, pool.Max.Connections)
	}

	if pool.Idle.Time == 0 {
		pool.Idle.Time = defaultIdleTime
	}
	if pool.Lifetime.Max == 0 {
		pool.Lifetime.Max = defaultConnLifetime
	}

	query := &cfg.Query
	if query.Log.MaxLength < 0 {
		return NewValidationError("database.query.log.max", "must be zero or positive")
	}
	if query.Log.MaxLength == 0 {
		query.Log.MaxLength = defaultMaxQueryLength
	}

	if query.Slow.Threshold < 0 {
		return NewValidationError("database.query.slow.threshold", "must be zero or positive")
	}
	if query.Slow.Threshold == 0 {
		query.Slow.Threshold = defaultSlowQueryThreshold
	}

	return nil
}

func validateLog(cfg *LogConfig) error {
	if !slices.Contains(validLogLevels, cfg.Level) {
		return NewInvalidFieldError("log.level", fmt.Sprintf("invalid log level: %s", cfg.Level), validLogLevels)
	}
	return nil
}

func validateTodo(cfg *TodoConfig) error {
	p := &cfg.Pagination
	if p.Default <= 0 {
		return NewValidationError("todo.pagination.default", "must be positive")
	}
	if p.Max < p.Default {
		return NewValidationError("todo.pagination.max", fmt.Sprintf("must be at least the default page size %d", p.Default))
	}
	return nil
}
