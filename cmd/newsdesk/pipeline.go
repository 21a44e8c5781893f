package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newFetchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [task-id]",
		Short: "Fetch headlines for one task or every active task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var taskID uuid.UUID
			if len(args) == 1 {
				id, err := parseTaskID(args[0])
				if err != nil {
					return err
				}
				taskID = id
			}

			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				if taskID != uuid.Nil {
					result, err := app.Orchestrator.FetchTask(cmd.Context(), taskID)
					if err != nil {
						return err
					}
					return c.printJSON(result)
				}
				results, err := app.Orchestrator.FetchAllActive(cmd.Context())
				if err != nil {
					return err
				}
				return c.printJSON(results)
			})
		},
	}
}

func newProcessCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Rewrite fresh headlines into articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			rawTask, _ := cmd.Flags().GetString("task")
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			var taskID *uuid.UUID
			if rawTask != "" {
				id, err := parseTaskID(rawTask)
				if err != nil {
					return err
				}
				taskID = &id
			}

			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				result, err := app.Orchestrator.ProcessFresh(cmd.Context(), limit, taskID)
				if result != nil {
					if perr := c.printJSON(result); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().Int("limit", 0, "maximum headlines to rewrite (default from pipeline.process_limit)")
	cmd.Flags().String("task", "", "only rewrite headlines of this task")
	return cmd
}

func newRunCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <task-id>",
		Short: "Fetch headlines for a task, then rewrite its fresh headlines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				result, err := app.Orchestrator.ManualRun(cmd.Context(), taskID, limit)
				if err != nil {
					return err
				}
				return c.printJSON(result)
			})
		},
	}
	cmd.Flags().Int("limit", 0, "maximum headlines to rewrite (default from pipeline.manual_run_limit)")
	return cmd
}

func parseTaskID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid task id %q: %w", raw, err)
	}
	return id, nil
}
