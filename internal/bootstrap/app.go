// Package bootstrap wires configuration, storage, the generation backend and
// the pipeline services into one App shared by the server and the CLI.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	// pgx registers itself as the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/newsdesk/internal/callqueue"
	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/events"
	"github.com/phrazzld/newsdesk/internal/generation"
	"github.com/phrazzld/newsdesk/internal/platform/gemini"
	"github.com/phrazzld/newsdesk/internal/platform/kafka"
	"github.com/phrazzld/newsdesk/internal/platform/postgres"
	"github.com/phrazzld/newsdesk/internal/service"
	"github.com/phrazzld/newsdesk/internal/store"
	"github.com/phrazzld/newsdesk/internal/task"
)

// App holds the shared dependencies. Close releases them.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB

	Tasks     store.TaskStore
	Headlines store.HeadlineStore
	Articles  store.ArticleStore

	Queue        *callqueue.Queue
	Client       generation.Client
	Emitter      *events.InMemoryEventEmitter
	Orchestrator *service.Orchestrator
	Runner       *task.Runner

	closers []func() error
}

// OpenDatabase opens a pgx-backed pool and verifies it with a ping.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}

// NewGenerationClient builds the configured backend without the call queue.
func NewGenerationClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (generation.Client, error) {
	switch cfg.LLM.Backend {
	case config.BackendGemini:
		profiles := gemini.BuiltinProfiles(
			cfg.Pipeline.DefaultProfileRef,
			cfg.Pipeline.RewriteProfileRef,
			cfg.LLM.Profiles,
		)
		client, err := gemini.NewDirectClient(ctx, cfg.LLM, profiles, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendProxy, "":
		client, err := gemini.NewProxyClient(cfg.LLM, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: unknown llm backend %q", generation.ErrInvalidConfig, cfg.LLM.Backend)
	}
}

// New connects to the database and assembles the pipeline.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := OpenDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app, err := Assemble(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.closers = append(app.closers, db.Close)
	return app, nil
}

// Assemble builds the pipeline on an open database. The caller keeps
// ownership of db.
func Assemble(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*App, error) {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Tasks:     postgres.NewPostgresTaskStore(db, logger),
		Headlines: postgres.NewPostgresHeadlineStore(db, logger),
		Articles:  postgres.NewPostgresArticleStore(db, logger),
	}

	backend, err := NewGenerationClient(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation client: %w", err)
	}

	app.Queue = callqueue.New(callqueue.Config{
		Delay: time.Duration(cfg.Queue.DelayMS) * time.Millisecond,
	}, logger)
	app.closers = append(app.closers, func() error {
		app.Queue.Close()
		return nil
	})
	app.Client = generation.NewQueuedClient(backend, app.Queue)
	logger.Info("generation client initialized",
		slog.String("backend", cfg.LLM.Backend),
		slog.Int("queue_delay_ms", cfg.Queue.DelayMS))

	app.Emitter = events.NewInMemoryEventEmitter(logger)
	if len(cfg.Events.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.Events, logger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		app.Emitter.RegisterHandler(publisher)
		app.closers = append(app.closers, publisher.Close)
		logger.Info("kafka event publisher registered", slog.String("topic", cfg.Events.KafkaTopic))
	}

	if err := app.assemblePipeline(); err != nil {
		app.Close()
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

func (a *App) assemblePipeline() error {
	cfg := a.Config.Pipeline

	prompts, err := service.NewPromptBuilder(cfg.PromptTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to load prompt template: %w", err)
	}

	ingestor, err := service.NewIngestor(a.Tasks, a.Headlines, a.Client, cfg.DefaultProfileRef, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create ingestor: %w", err)
	}

	rewriter, err := service.NewRewriter(service.RewriterDeps{
		Headlines: a.Headlines,
		Articles:  a.Articles,
		TxManager: store.NewTxManager(a.DB),
		Client:    a.Client,
		Prompts:   prompts,
		Tagger:    service.NewTagger(cfg.TagRules, cfg.DefaultTag),
		Emitter:   a.Emitter,
	}, cfg.RewriteProfileRef, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create rewriter: %w", err)
	}

	a.Orchestrator, err = service.NewOrchestrator(
		a.Tasks, a.Headlines, ingestor, rewriter,
		cfg.ProcessLimit, cfg.ManualRunLimit, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	a.Runner = task.NewRunner(a.Tasks, a.Headlines, a.Orchestrator, a.Emitter,
		task.ConfigFromPipeline(cfg), a.Logger)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
