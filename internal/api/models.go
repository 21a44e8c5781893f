package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/generation"
	"github.com/phrazzld/newsdesk/internal/service"
)

// ManualRunRequest is the body of POST /api/cron/manual-run.
type ManualRunRequest struct {
	TaskID string `json:"task_id" validate:"required,uuid"`
	Limit  int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// FetchAllResponse reports a fan-out ingestion.
type FetchAllResponse struct {
	Success bool                  `json:"success"`
	Results []service.TaskOutcome `json:"results"`
}

// FetchResponse reports the ingestion of one task.
type FetchResponse struct {
	Success   bool               `json:"success"`
	TaskID    uuid.UUID          `json:"task_id"`
	Count     int                `json:"count"`
	Headlines []*domain.Headline `json:"headlines"`
}

// ProcessResponse reports a batch of rewrites.
type ProcessResponse struct {
	Success bool `json:"success"`
	*service.ProcessResult
}

// ManualRunResponse reports a fetch followed by processing for one task.
type ManualRunResponse struct {
	Success bool                   `json:"success"`
	Fetch   *service.FetchResult   `json:"fetch"`
	Process *service.ProcessResult `json:"process"`
}

// ArticleResponse carries a newly written article.
type ArticleResponse struct {
	Success bool            `json:"success"`
	Article *domain.Article `json:"article"`
}

// HeadlineResponse carries a headline after a state change.
type HeadlineResponse struct {
	Success  bool             `json:"success"`
	Headline *domain.Headline `json:"headline"`
}

// GenerationHealthResponse reports the generation backend's readiness.
type GenerationHealthResponse struct {
	Success bool `json:"success"`
	*generation.Health
}

// ProfilesResponse lists generation profiles.
type ProfilesResponse struct {
	Success  bool                 `json:"success"`
	Profiles []generation.Profile `json:"profiles"`
}

// HealthResponse is the service health report.
type HealthResponse struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	QueueDepth   int    `json:"queue_depth"`
	QueueDelayMS int64  `json:"queue_delay_ms"`
}
