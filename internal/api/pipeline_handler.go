package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/api/shared"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/phrazzld/newsdesk/internal/service"
)

// Pipeline is the set of pipeline operations exposed over HTTP.
// *service.Orchestrator implements it.
type Pipeline interface {
	FetchAllActive(ctx context.Context) ([]service.TaskOutcome, error)
	FetchTask(ctx context.Context, taskID uuid.UUID) (*service.FetchResult, error)
	ProcessFresh(ctx context.Context, limit int, taskID *uuid.UUID) (*service.ProcessResult, error)
	ManualRun(ctx context.Context, taskID uuid.UUID, limit int) (*service.ManualRunResult, error)
	RewriteHeadline(ctx context.Context, headlineID uuid.UUID) (*domain.Article, error)
	RequeueHeadline(ctx context.Context, headlineID uuid.UUID) (*domain.Headline, error)
}

// PipelineHandler serves the cron and headline endpoints.
type PipelineHandler struct {
	pipeline Pipeline
	logger   *slog.Logger
}

// NewPipelineHandler creates a PipelineHandler.
func NewPipelineHandler(pipeline Pipeline, logger *slog.Logger) *PipelineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineHandler{
		pipeline: pipeline,
		logger:   logger.With(slog.String("handler", "pipeline")),
	}
}

// FetchAll handles POST /api/cron/fetch-headlines.
func (h *PipelineHandler) FetchAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.pipeline.FetchAllActive(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch headlines")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FetchAllResponse{Success: true, Results: results})
}

// FetchTask handles POST /api/cron/fetch-headlines/{taskID}.
func (h *PipelineHandler) FetchTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	fetched, err := h.pipeline.FetchTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FetchResponse{
		Success:   true,
		TaskID:    fetched.TaskID,
		Count:     fetched.Count,
		Headlines: fetched.Headlines,
	})
}

// ProcessHeadlines handles POST /api/cron/process-headlines?limit=N&task_id=ID.
// A zero limit lets the pipeline apply its configured default.
func (h *PipelineHandler) ProcessHeadlines(w http.ResponseWriter, r *http.Request) {
	limit, err := getLimit(r, 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	taskID, err := getOptionalQueryUUID(r, "task_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.pipeline.ProcessFresh(r.Context(), limit, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process headlines")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProcessResponse{Success: true, ProcessResult: result})
}

// ManualRun handles POST /api/cron/manual-run.
func (h *PipelineHandler) ManualRun(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ManualRunRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid manual run body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}
	taskID := uuid.MustParse(req.TaskID)

	result, err := h.pipeline.ManualRun(r.Context(), taskID, req.Limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("manual run finished",
		slog.String("task_id", taskID.String()),
		slog.Int("fetched", result.Fetch.Count),
		slog.Int("processed", result.Process.Processed),
		slog.Int("failed", result.Process.Failed))
	shared.RespondWithJSON(w, r, http.StatusOK, ManualRunResponse{
		Success: true,
		Fetch:   result.Fetch,
		Process: result.Process,
	})
}

// Rewrite handles POST /api/headlines/{id}/rewrite.
func (h *PipelineHandler) Rewrite(w http.ResponseWriter, r *http.Request) {
	headlineID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	article, err := h.pipeline.RewriteHeadline(r.Context(), headlineID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, ArticleResponse{Success: true, Article: article})
}

// Requeue handles POST /api/headlines/{id}/requeue.
func (h *PipelineHandler) Requeue(w http.ResponseWriter, r *http.Request) {
	headlineID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	headline, err := h.pipeline.RequeueHeadline(r.Context(), headlineID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HeadlineResponse{Success: true, Headline: headline})
}
