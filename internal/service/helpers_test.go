package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/mocks"
	"github.com/stretchr/testify/require"
)

// headlinesResponse renders a headline-finder reply wrapped in prose.
func headlinesResponse(items ...map[string]any) string {
	body, err := json.Marshal(map[string]any{"data": items})
	if err != nil {
		panic(err)
	}
	return "Here is what I found:\n```json\n" + string(body) + "\n```"
}

// rewriteResponse renders a complete three-language article reply for
// headline.
func rewriteResponse(headline string) string {
	section := func(lang string) map[string]any {
		return map[string]any{
			"context_warming": fmt.Sprintf("[%s] Context for %s.", lang, headline),
			"main_points":     []string{lang + " point one", lang + " point two"},
			"analysis": map[string]any{
				"impact_summary":        lang + " impact",
				"affected_stakeholders": []string{"investors"},
			},
			"background_context": lang + " background",
		}
	}

	body, err := json.Marshal(map[string]any{
		"data": map[string]any{
			"en":    section("en"),
			"zh_cn": section("zh"),
			"ms_my": section("ms"),
		},
	})
	if err != nil {
		panic(err)
	}
	return strings.Join([]string{"Article ready.", "```json", string(body), "```"}, "\n")
}

const (
	testFinderProfile  = "finder"
	testRewriteProfile = "writer"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testPipeline wires the pipeline onto in-memory stores.
type testPipeline struct {
	tasks        *mocks.TaskStore
	headlines    *mocks.HeadlineStore
	articles     *mocks.ArticleStore
	txManager    *mocks.MockTxManager
	client       *mocks.MockGenerationClient
	emitter      *mocks.RecordingEmitter
	ingestor     *Ingestor
	rewriter     *Rewriter
	orchestrator *Orchestrator
}

func newTestPipeline(t *testing.T, client *mocks.MockGenerationClient, tasks ...*domain.SearchTask) *testPipeline {
	t.Helper()

	p := &testPipeline{
		tasks:     mocks.NewTaskStore(tasks...),
		headlines: mocks.NewHeadlineStore(),
		articles:  mocks.NewArticleStore(),
		txManager: &mocks.MockTxManager{},
		client:    client,
		emitter:   &mocks.RecordingEmitter{},
	}

	prompts, err := NewPromptBuilder("")
	require.NoError(t, err)

	p.ingestor, err = NewIngestor(p.tasks, p.headlines, client, testFinderProfile, discardLogger())
	require.NoError(t, err)

	p.rewriter, err = NewRewriter(RewriterDeps{
		Headlines: p.headlines,
		Articles:  p.articles,
		TxManager: p.txManager,
		Client:    client,
		Prompts:   prompts,
		Tagger:    NewTagger(config.DefaultTagRules, "news"),
		Emitter:   p.emitter,
	}, testRewriteProfile, discardLogger())
	require.NoError(t, err)

	p.orchestrator, err = NewOrchestrator(p.tasks, p.headlines, p.ingestor, p.rewriter, 5, 10, discardLogger())
	require.NoError(t, err)
	return p
}

// seedHeadline stores a fresh headline for taskID.
func (p *testPipeline) seedHeadline(t *testing.T, taskID uuid.UUID, text string) *domain.Headline {
	t.Helper()
	h, err := domain.NewHeadline(taskID, text, "2026-10-01", "Example Wire", "solar energy Malaysia")
	require.NoError(t, err)
	inserted, err := p.headlines.InsertIfAbsent(context.Background(), h)
	require.NoError(t, err)
	require.True(t, inserted)
	return h
}

func newTestTask(t *testing.T, query string) *domain.SearchTask {
	t.Helper()
	task, err := domain.NewSearchTask("test task", query, "", "")
	require.NoError(t, err)
	return task
}

// headlineInPrompt reports whether prompt was rendered for headline.
func headlineInPrompt(prompt, headline string) bool {
	return strings.Contains(prompt, "**Headline:** "+headline+"\n")
}
