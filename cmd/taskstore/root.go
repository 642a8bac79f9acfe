package main

import (
	"fmt"
	"io"

	"github.com/phrazzld/taskstore/internal/redact"
	"github.com/spf13/cobra"
)

func newRootCmd(out io.Writer) *cobra.Command {
	app := newApplication(out)
	return app.rootCmd()
}

func (app *application) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "taskstore",
		Short:        "Task store backed by PostgreSQL",
		Long:         "Manage tasks stored in PostgreSQL from the command line or over HTTP.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.config != nil {
				return nil
			}
			return app.initialize()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(app.out, "Running database from URL: %s\n",
				redact.ConnectionString(app.config.Database.URL))
			return err
		},
	}

	root.SetOut(app.out)
	root.AddCommand(
		app.schemaCmd(),
		app.migrateCmd(),
		app.addCmd(),
		app.listCmd(),
		app.showCmd(),
		app.doneCmd(),
		app.rmCmd(),
		app.serveCmd(),
	)

	return root
}
