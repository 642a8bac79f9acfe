package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phrazzld/taskstore/internal/config"
	"github.com/phrazzld/taskstore/internal/platform/logger"
	"github.com/phrazzld/taskstore/internal/platform/postgres"
	"github.com/phrazzld/taskstore/internal/service"
)

// application holds the dependencies shared by every subcommand.
type application struct {
	config *config.Config
	logger *slog.Logger
	out    io.Writer

	// openService connects to the database and returns a task service
	// along with a function releasing the connection.
	openService func(ctx context.Context) (service.TaskService, func(), error)
}

func newApplication(out io.Writer) *application {
	app := &application{out: out}
	app.openService = app.connectService
	return app
}

// initialize loads configuration and sets up structured logging.
func (app *application) initialize() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	app.config = cfg
	app.logger = log
	return nil
}

// connectService opens a single database connection and builds the task
// service on top of it.
func (app *application) connectService(ctx context.Context) (service.TaskService, func(), error) {
	conn, err := postgres.Connect(ctx, app.config.Database, app.logger)
	if err != nil {
		return nil, nil, err
	}

	release := func() {
		if err := conn.Close(context.WithoutCancel(ctx)); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	taskStore := postgres.NewPostgresTaskStore(conn, app.logger)
	svc, err := service.NewTaskService(taskStore, app.logger)
	if err != nil {
		release()
		return nil, nil, err
	}

	return svc, release, nil
}

// withService runs fn against a freshly connected task service.
func (app *application) withService(ctx context.Context, fn func(svc service.TaskService) error) error {
	svc, release, err := app.openService(ctx)
	if err != nil {
		return err
	}
	defer release()

	return fn(svc)
}
