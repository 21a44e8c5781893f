package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/generation"
	"github.com/phrazzld/newsdesk/internal/platform/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "info"},
		Database: config.DatabaseConfig{URL: "postgres://localhost:5432/newsdesk"},
		LLM: config.LLMConfig{
			Backend:        config.BackendProxy,
			BaseURL:        "http://localhost:3000",
			TimeoutSeconds: 5,
		},
		Queue: config.QueueConfig{DelayMS: 0},
		Pipeline: config.PipelineConfig{
			DefaultProfileRef:    "finder",
			RewriteProfileRef:    "writer",
			ProcessLimit:         5,
			ManualRunLimit:       10,
			TagRules:             config.DefaultTagRules,
			DefaultTag:           "news",
			StuckAfterMinutes:    30,
			SweepIntervalMinutes: 5,
		},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewGenerationClient(t *testing.T) {
	t.Parallel()

	t.Run("proxy backend", func(t *testing.T) {
		client, err := NewGenerationClient(context.Background(), testConfig(), discard())
		require.NoError(t, err)
		assert.IsType(t, &gemini.ProxyClient{}, client)
	})

	t.Run("proxy without base url", func(t *testing.T) {
		cfg := testConfig()
		cfg.LLM.BaseURL = ""
		_, err := NewGenerationClient(context.Background(), cfg, discard())
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("gemini backend without key", func(t *testing.T) {
		cfg := testConfig()
		cfg.LLM.Backend = config.BackendGemini
		cfg.LLM.ModelName = "gemini-2.0-flash"
		_, err := NewGenerationClient(context.Background(), cfg, discard())
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := testConfig()
		cfg.LLM.Backend = "carrier-pigeon"
		_, err := NewGenerationClient(context.Background(), cfg, discard())
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app, err := Assemble(context.Background(), testConfig(), discard(), db)
	require.NoError(t, err)

	assert.NotNil(t, app.Tasks)
	assert.NotNil(t, app.Headlines)
	assert.NotNil(t, app.Articles)
	assert.IsType(t, &generation.QueuedClient{}, app.Client)
	assert.NotNil(t, app.Orchestrator)
	assert.NotNil(t, app.Runner)
	assert.Equal(t, 0, app.Queue.Len())

	require.NoError(t, app.Close())
	assert.NoError(t, app.Close(), "second close is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet(), "assembly runs no queries")
}

func TestAssemble_BadTemplatePath(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.Pipeline.PromptTemplatePath = "/nonexistent/prompt.tmpl"
	_, err = Assemble(context.Background(), cfg, discard(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt template")
}
