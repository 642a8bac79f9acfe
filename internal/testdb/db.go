package testdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/taskstore/internal/config"
	"github.com/phrazzld/taskstore/internal/platform/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// containerStartTimeout bounds pulling and starting the fallback container.
const containerStartTimeout = 2 * time.Minute

const (
	containerImage    = "postgres:16-alpine"
	containerDatabase = "taskstore_test"
	containerUser     = "taskstore"
	containerPassword = "taskstore"
)

// GetTestDatabaseURL returns the database URL for tests.
// It checks DATABASE_URL and TASKSTORE_DATABASE_URL environment variables
// in that order, returning the first non-empty value.
func GetTestDatabaseURL() string {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return dbURL
	}
	return os.Getenv(config.EnvPrefix + "_DATABASE_URL")
}

// DatabaseURL returns a URL for a migrated test database. When no URL is
// configured it starts a PostgreSQL container that is terminated when the
// test finishes, skipping the test if no container runtime is available.
func DatabaseURL(t *testing.T) string {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		dbURL = startContainer(t)
	}

	ctx, cancel := context.WithTimeout(context.Background(), containerStartTimeout)
	defer cancel()

	err := postgres.RunMigrations(ctx, dbURL, "up", nil)
	require.NoError(t, err, "Failed to run migrations")

	return dbURL
}

// GetTestConn returns a connection to a migrated test database. The
// connection is closed when the test finishes.
func GetTestConn(t *testing.T) *pgx.Conn {
	t.Helper()

	cfg := config.DatabaseConfig{
		URL:            DatabaseURL(t),
		ConnectTimeout: TestTimeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	conn, err := postgres.Connect(ctx, cfg, nil)
	require.NoError(t, err, "Failed to connect to test database")

	t.Cleanup(func() {
		if err := conn.Close(context.Background()); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	return conn
}

func startContainer(t *testing.T) string {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), containerStartTimeout)
	defer cancel()

	ctr, err := tcpostgres.Run(ctx, containerImage,
		tcpostgres.WithDatabase(containerDatabase),
		tcpostgres.WithUsername(containerUser),
		tcpostgres.WithPassword(containerPassword),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "Failed to start postgres container")

	dbURL, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get container connection string")

	return dbURL
}
