package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/taskstore/internal/config"
	"github.com/phrazzld/taskstore/internal/store"
)

// Connect opens a single connection to the database described by cfg and
// verifies it with a ping. The connection string is handed to pgx as is.
//
// A *pgx.Conn is not safe for concurrent use; callers sharing it between
// goroutines must serialize access themselves.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgx.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}

	connCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid connection string: %w", store.ErrConnection, err)
	}

	if cfg.ConnectTimeout > 0 {
		connCfg.ConnectTimeout = cfg.ConnectTimeout
	}

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect: %w", store.ErrConnection, err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := conn.Ping(pingCtx); err != nil {
		if closeErr := conn.Close(context.WithoutCancel(ctx)); closeErr != nil {
			logger.Error("error closing connection", "error", closeErr)
		}
		return nil, fmt.Errorf("%w: failed to ping database: %w", store.ErrConnection, err)
	}

	logger.Info("database connection established",
		"host", connCfg.Host,
		"database", connCfg.Database)

	return conn, nil
}
