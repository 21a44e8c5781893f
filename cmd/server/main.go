// Package main runs the newsdesk HTTP server: the cron and headline
// endpoints plus the background sweeper and scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/newsdesk/internal/bootstrap"
	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/phrazzld/newsdesk/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "",
		"run a migration command (up|down|reset|status|version) and exit")
	flag.Parse()

	if err := run(*migrate); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(migrateCommand string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("llm_backend", cfg.LLM.Backend))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrateCommand != "" {
		db, err := bootstrap.OpenDatabase(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		return postgres.Migrate(ctx, db, migrateCommand, log)
	}

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("failed to release resources", slog.String("error", err.Error()))
		}
	}()

	return serve(ctx, app, newRouter(app))
}
