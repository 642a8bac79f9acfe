package main

import (
	"fmt"
	"strings"

	"github.com/phrazzld/taskstore/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func (app *application) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <command> [args]",
		Short: "Run database migrations",
		Long: "Run goose migrations embedded in the binary against the configured database.\n" +
			"Commands: " + strings.Join(postgres.MigrationCommands, ", "),
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := postgres.RunMigrations(cmd.Context(), app.config.Database.URL, args[0], app.logger, args[1:]...); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
			return nil
		},
	}
}
