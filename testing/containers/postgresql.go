//go:build integration

package containers

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gaborage/todo-bricks/config"
)

// PostgreSQLContainerConfig holds configuration for the PostgreSQL test container.
type PostgreSQLContainerConfig struct {
	// ImageTag specifies the PostgreSQL version (default: "17-alpine")
	ImageTag string
	Username string
	Password string
	Database string
	// StartupTimeout for container initialization (default: 60 seconds)
	StartupTimeout time.Duration
}

// DefaultPostgreSQLConfig returns the configuration used when none is given.
func DefaultPostgreSQLConfig() *PostgreSQLContainerConfig {
	return &PostgreSQLContainerConfig{
		ImageTag:       "17-alpine",
		Username:       "todo",
		Password:       "todo",
		Database:       "todo_test",
		StartupTimeout: 60 * time.Second,
	}
}

// PostgreSQLContainer wraps a running PostgreSQL testcontainer.
type PostgreSQLContainer struct {
	container *postgres.PostgresContainer
	connStr   string
}

// StartPostgreSQLContainer starts a PostgreSQL testcontainer. If cfg is nil,
// DefaultPostgreSQLConfig is used. The test is skipped when Docker is not
// available.
func StartPostgreSQLContainer(ctx context.Context, t *testing.T, cfg *PostgreSQLContainerConfig) (*PostgreSQLContainer, error) {
	t.Helper()

	if cfg == nil {
		cfg = DefaultPostgreSQLConfig()
	}

	skipWithoutDocker(ctx, t)

	pgContainer, err := postgres.Run(ctx,
		"postgres:"+cfg.ImageTag,
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2). // Postgres restarts after initial setup
				WithStartupTimeout(cfg.StartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get PostgreSQL connection string: %w", err)
	}

	t.Logf("PostgreSQL container started at %s", redact(connStr))

	return &PostgreSQLContainer{
		container: pgContainer,
		connStr:   connStr,
	}, nil
}

// MustStartPostgreSQLContainer is StartPostgreSQLContainer that fails the test on error.
func MustStartPostgreSQLContainer(ctx context.Context, t *testing.T, cfg *PostgreSQLContainerConfig) *PostgreSQLContainer {
	t.Helper()

	container, err := StartPostgreSQLContainer(ctx, t, cfg)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	return container
}

// ConnectionString returns the URL form connection string.
func (p *PostgreSQLContainer) ConnectionString() string {
	return p.connStr
}

// DatabaseConfig returns a database configuration pointing at the container
// with a small pool.
func (p *PostgreSQLContainer) DatabaseConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Type:             "postgresql",
		ConnectionString: p.connStr,
		Pool: config.PoolConfig{
			Max:      config.PoolMaxConfig{Connections: 5},
			Idle:     config.PoolIdleConfig{Connections: 2, Time: time.Minute},
			Lifetime: config.LifetimeConfig{Max: time.Hour},
		},
	}
}

// Terminate stops and removes the container.
func (p *PostgreSQLContainer) Terminate(ctx context.Context) error {
	if p.container == nil {
		return nil
	}
	return p.container.Terminate(ctx)
}

// WithCleanup terminates the container when the test finishes.
func (p *PostgreSQLContainer) WithCleanup(t *testing.T) *PostgreSQLContainer {
	t.Helper()
	t.Cleanup(func() {
		if err := p.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate PostgreSQL container: %v", err)
		}
	})
	return p
}

// skipWithoutDocker skips t when the Docker daemon does not answer a health
// check.
func skipWithoutDocker(ctx context.Context, t *testing.T) {
	t.Helper()

	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		t.Skipf("Docker is not available: %v", err)
	}
	defer provider.Close()

	if err := provider.Health(ctx); err != nil {
		t.Skipf("Docker is not available: %v", err)
	}
}

func redact(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "postgres://****@<host>/<database>"
	}
	return u.Redacted()
}
