package main

import (
	"github.com/phrazzld/newsdesk/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the generation backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				health, err := app.Client.Health(cmd.Context())
				if err != nil {
					return err
				}
				return c.printJSON(health)
			})
		},
	}
}

func newProfilesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List generation profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				profiles, err := app.Client.ListProfiles(cmd.Context())
				if err != nil {
					return err
				}
				return c.printJSON(profiles)
			})
		},
	}
}
