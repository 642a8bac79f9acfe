package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/taskstore/internal/store"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// gooseMu guards goose's package-level state (base FS, table name, logger).
var gooseMu sync.Mutex

// MigrationsTable is the table goose records applied versions in.
const MigrationsTable = "schema_migrations"

// migrationsDir is the directory inside migrationsFS holding the SQL files.
const migrationsDir = "migrations"

// MigrationCommands lists the goose commands RunMigrations accepts.
var MigrationCommands = []string{"up", "up-by-one", "down", "redo", "reset", "status", "version"}

// RunMigrations executes a goose command against the database at dsn using
// the migrations embedded in this package. It opens its own database/sql
// handle through the pgx stdlib driver and closes it before returning.
func RunMigrations(ctx context.Context, dsn string, command string, logger *slog.Logger, args ...string) error {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("%w: invalid connection string: %w", store.ErrConnection, err)
	}

	db := stdlib.OpenDB(*connCfg)
	defer func() {
		if closeErr := db.Close(); closeErr != nil && logger != nil {
			logger.Error("error closing migration database handle", "error", closeErr)
		}
	}()

	return RunMigrationsForDB(ctx, db, command, logger, args...)
}

// RunMigrationsForDB executes a goose command on an existing *sql.DB.
func RunMigrationsForDB(ctx context.Context, db *sql.DB, command string, logger *slog.Logger, args ...string) error {
	if !slices.Contains(MigrationCommands, command) {
		return fmt.Errorf("unsupported migration command %q (expected one of %s)",
			command, strings.Join(MigrationCommands, ", "))
	}

	if logger == nil {
		logger = slog.Default()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	goose.SetTableName(MigrationsTable)
	goose.SetLogger(&slogGooseLogger{logger: logger.With(slog.String("component", "migrations"))})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	logger.Info("running migrations", slog.String("command", command))

	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		return fmt.Errorf("migration command %s failed: %w", command, MapError(err))
	}

	return nil
}

// slogGooseLogger routes goose output through slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Fatalf logs at error level instead of exiting.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
