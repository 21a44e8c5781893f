package main

import (
	"github.com/phrazzld/newsdesk/internal/bootstrap"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(c *cli) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage search tasks",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a search task",
		Long: `Create an active search task.

Examples:
  newsdesk task create --name solar --query "solar energy Malaysia"
  newsdesk task create --name grid --query "TNB grid" --schedule 06:30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			query, _ := cmd.Flags().GetString("query")
			profile, _ := cmd.Flags().GetString("profile")
			schedule, _ := cmd.Flags().GetString("schedule")

			task, err := domain.NewSearchTask(name, query, profile, schedule)
			if err != nil {
				return err
			}

			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				if err := app.Tasks.Create(cmd.Context(), task); err != nil {
					return err
				}
				return c.printJSON(task)
			})
		},
	}
	create.Flags().String("name", "", "task name")
	create.Flags().String("query", "", "search query sent to the headline finder")
	create.Flags().String("profile", "", "profile reference overriding pipeline.default_profile_ref")
	create.Flags().String("schedule", "", "daily run time as HH:MM (UTC)")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("query")

	taskCmd.AddCommand(create)
	return taskCmd
}
