package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/phrazzld/taskstore/internal/domain"
	"github.com/phrazzld/taskstore/internal/service"
	"github.com/spf13/cobra"
)

func (app *application) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the tasks table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withService(cmd.Context(), func(svc service.TaskService) error {
				if err := svc.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(app.out, "tasks table ready")
				return err
			})
		},
	}
}

func (app *application) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>...",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return app.withService(cmd.Context(), func(svc service.TaskService) error {
				task, err := svc.CreateTask(cmd.Context(), title)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(app.out, task.ID)
				return err
			})
		},
	}
}

func (app *application) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withService(cmd.Context(), func(svc service.TaskService) error {
				tasks, err := svc.ListTasks(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
				for i := range tasks {
					if _, err := fmt.Fprintln(w, formatTask(&tasks[i])); err != nil {
						return err
					}
				}
				return w.Flush()
			})
		},
	}
}

func (app *application) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return app.withService(cmd.Context(), func(svc service.TaskService) error {
				task, err := svc.GetTask(cmd.Context(), id)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(app.out, formatTask(task))
				return err
			})
		},
	}
}

func (app *application) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return app.withService(cmd.Context(), func(svc service.TaskService) error {
				return svc.CompleteTask(cmd.Context(), id)
			})
		},
	}
}

func (app *application) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return app.withService(cmd.Context(), func(svc service.TaskService) error {
				return svc.DeleteTask(cmd.Context(), id)
			})
		},
	}
}

func parseTaskID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a task ID", domain.ErrInvalidID, s)
	}
	return id, nil
}

// formatTask renders a task as a tab-separated line: id, checkbox, title.
func formatTask(task *domain.Task) string {
	mark := "[ ]"
	if task.IsComplete() {
		mark = "[x]"
	}
	return fmt.Sprintf("%s\t%s\t%s", task.ID, mark, task.Title)
}
