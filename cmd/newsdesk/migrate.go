package main

import (
	"github.com/phrazzld/newsdesk/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|reset|status|version]",
		Short: "Run database migrations",
		Long: `Run the embedded goose migrations against the configured database.

Examples:
  newsdesk migrate            # Same as "migrate up"
  newsdesk migrate status     # Show applied migrations`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateReset, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			db, err := c.openDB(cmd.Context(), c.cfg.Database, c.log)
			if err != nil {
				return err
			}
			defer db.Close()

			return postgres.Migrate(cmd.Context(), db, command, c.log)
		},
	}
}
