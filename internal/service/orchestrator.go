package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/phrazzld/newsdesk/internal/store"
)

// DefaultProcessLimit is used when ProcessFresh is called without a limit.
const DefaultProcessLimit = 5

// TaskOutcome is the result of ingesting one task during a fan-out.
type TaskOutcome struct {
	TaskID  uuid.UUID `json:"task_id"`
	Success bool      `json:"success"`
	Count   int       `json:"count,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// HeadlineOutcome is the result of rewriting one headline during a batch.
type HeadlineOutcome struct {
	HeadlineID uuid.UUID  `json:"headline_id"`
	Headline   string     `json:"headline"`
	Success    bool       `json:"success"`
	ArticleID  *uuid.UUID `json:"article_id,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// ProcessResult tallies a batch of rewrites.
type ProcessResult struct {
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
	Results   []HeadlineOutcome `json:"results"`
}

// ManualRunResult combines the fetch and process halves of a manual run.
type ManualRunResult struct {
	Fetch   *FetchResult   `json:"fetch"`
	Process *ProcessResult `json:"process"`
}

// Orchestrator runs ingestion and rewriting over batches. Items are handled
// one at a time since every generation call shares one queue; a failed item
// is recorded in the results and the batch moves on.
type Orchestrator struct {
	tasks          store.TaskStore
	headlines      store.HeadlineStore
	ingestor       *Ingestor
	rewriter       *Rewriter
	processLimit   int
	manualRunLimit int
	logger         *slog.Logger
}

// NewOrchestrator creates an Orchestrator. Non-positive limits fall back to
// DefaultProcessLimit and the manual-run default of 10.
func NewOrchestrator(
	tasks store.TaskStore,
	headlines store.HeadlineStore,
	ingestor *Ingestor,
	rewriter *Rewriter,
	processLimit, manualRunLimit int,
	logger *slog.Logger,
) (*Orchestrator, error) {
	if tasks == nil || headlines == nil || ingestor == nil || rewriter == nil {
		return nil, fmt.Errorf("%w: orchestrator dependencies are incomplete", domain.ErrValidation)
	}
	if processLimit <= 0 {
		processLimit = DefaultProcessLimit
	}
	if manualRunLimit <= 0 {
		manualRunLimit = 10
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		tasks:          tasks,
		headlines:      headlines,
		ingestor:       ingestor,
		rewriter:       rewriter,
		processLimit:   processLimit,
		manualRunLimit: manualRunLimit,
		logger:         logger.With(slog.String("component", "orchestrator")),
	}, nil
}

// FetchTask ingests headlines for one task.
func (o *Orchestrator) FetchTask(ctx context.Context, taskID uuid.UUID) (*FetchResult, error) {
	return o.ingestor.FetchByID(ctx, taskID)
}

// RewriteHeadline rewrites one fresh headline into an article.
func (o *Orchestrator) RewriteHeadline(ctx context.Context, headlineID uuid.UUID) (*domain.Article, error) {
	return o.rewriter.Rewrite(ctx, headlineID)
}

// RequeueHeadline returns a failed headline to fresh.
func (o *Orchestrator) RequeueHeadline(ctx context.Context, headlineID uuid.UUID) (*domain.Headline, error) {
	return o.rewriter.Requeue(ctx, headlineID)
}

// FetchAllActive ingests every active task in creation order. Only a failure
// to list the tasks is returned as an error.
func (o *Orchestrator) FetchAllActive(ctx context.Context) ([]TaskOutcome, error) {
	log := logger.FromContextOrDefault(ctx, o.logger)

	tasks, err := o.tasks.ListActive(ctx)
	if err != nil {
		return nil, NewStorageError("fetch_all", "failed to list active tasks", err)
	}

	results := make([]TaskOutcome, 0, len(tasks))
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		outcome := TaskOutcome{TaskID: task.ID}
		fetched, err := o.ingestor.Fetch(ctx, task)
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Success = true
			outcome.Count = fetched.Count
		}
		results = append(results, outcome)
	}

	log.Info("fetched headlines for active tasks", slog.Int("tasks", len(tasks)))
	return results, nil
}

// ProcessFresh rewrites up to limit fresh headlines, oldest first,
// optionally restricted to one task.
func (o *Orchestrator) ProcessFresh(ctx context.Context, limit int, taskID *uuid.UUID) (*ProcessResult, error) {
	log := logger.FromContextOrDefault(ctx, o.logger)
	if limit <= 0 {
		limit = o.processLimit
	}

	fresh, err := o.headlines.ListByStatus(ctx, store.HeadlineFilter{
		Status: domain.HeadlineStatusFresh,
		TaskID: taskID,
		Limit:  limit,
	})
	if err != nil {
		return nil, NewStorageError("process_fresh", "failed to list fresh headlines", err)
	}

	result := &ProcessResult{Total: len(fresh), Results: make([]HeadlineOutcome, 0, len(fresh))}
	for _, h := range fresh {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome := HeadlineOutcome{HeadlineID: h.ID, Headline: h.Text}
		article, err := o.rewriter.Rewrite(ctx, h.ID)
		if err != nil {
			outcome.Error = err.Error()
			result.Failed++
		} else {
			outcome.Success = true
			outcome.ArticleID = &article.ID
			result.Processed++
		}
		result.Results = append(result.Results, outcome)
	}

	log.Info("processed fresh headlines",
		slog.Int("total", result.Total),
		slog.Int("processed", result.Processed),
		slog.Int("failed", result.Failed))
	return result, nil
}

// ManualRun fetches headlines for one task and rewrites up to the manual-run
// limit of that task's fresh headlines. A failed fetch aborts the run.
func (o *Orchestrator) ManualRun(ctx context.Context, taskID uuid.UUID, limit int) (*ManualRunResult, error) {
	fetched, err := o.ingestor.FetchByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = o.manualRunLimit
	}
	processed, err := o.ProcessFresh(ctx, limit, &taskID)
	if err != nil {
		return nil, err
	}

	return &ManualRunResult{Fetch: fetched, Process: processed}, nil
}
