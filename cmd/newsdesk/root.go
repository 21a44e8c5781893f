package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phrazzld/newsdesk/internal/bootstrap"
	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/spf13/cobra"
)

// cli carries the collaborators every command needs. Tests replace the
// constructors to avoid a real database.
type cli struct {
	out    io.Writer
	logOut io.Writer

	loadConfig func() (*config.Config, error)
	openApp    func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*bootstrap.App, error)
	openDB     func(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, error)

	cfg *config.Config
	log *slog.Logger
}

func defaultCLI() *cli {
	return &cli{
		out:        os.Stdout,
		logOut:     os.Stderr,
		loadConfig: config.Load,
		openApp:    bootstrap.New,
		openDB:     bootstrap.OpenDatabase,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "newsdesk",
		Short: "Operate the newsdesk headline pipeline",
		Long: `newsdesk fetches headlines for search tasks from the generation backend and
rewrites them into trilingual articles.

Example usage:
  newsdesk migrate up                 # Apply database migrations
  newsdesk task create --name solar --query "solar energy Malaysia"
  newsdesk fetch                      # Fetch headlines for every active task
  newsdesk process --limit 3          # Rewrite up to 3 fresh headlines
  newsdesk run <task-id>              # Fetch and process one task`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}
	root.SetOut(c.out)

	root.AddCommand(
		newMigrateCmd(c),
		newFetchCmd(c),
		newProcessCmd(c),
		newRunCmd(c),
		newHealthCmd(c),
		newProfilesCmd(c),
		newTaskCmd(c),
	)
	return root
}

func (c *cli) init() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.SetupWithWriter(cfg.Server, c.logOut)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	c.cfg = cfg
	c.log = log
	return nil
}

// withApp opens the application for the duration of fn.
func (c *cli) withApp(ctx context.Context, fn func(app *bootstrap.App) error) error {
	app, err := c.openApp(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			c.log.Warn("failed to release resources", slog.String("error", cerr.Error()))
		}
	}()
	return fn(app)
}

// printJSON writes v as indented JSON.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
