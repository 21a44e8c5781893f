package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/generation"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/phrazzld/newsdesk/internal/sanitize"
	"github.com/phrazzld/newsdesk/internal/store"
)

// headlineCandidate is one item of the "data" array the headline finder returns.
type headlineCandidate struct {
	Headline  looseString `json:"headline"`
	Date      looseString `json:"date"`
	Source    looseString `json:"source"`
	NextQuery looseString `json:"next_agent_search_query"`
}

type headlineEnvelope struct {
	Data []headlineCandidate `json:"data"`
}

// FetchResult is the outcome of one ingestion run.
type FetchResult struct {
	TaskID    uuid.UUID          `json:"task_id"`
	Count     int                `json:"count"`
	Headlines []*domain.Headline `json:"headlines"`
}

// Ingestor asks the generation service for headlines matching a search task
// and stores the new ones as fresh.
type Ingestor struct {
	tasks             store.TaskStore
	headlines         store.HeadlineStore
	client            generation.Client
	clean             *sanitize.Sanitizer
	defaultProfileRef string
	now               func() time.Time
	logger            *slog.Logger
}

// NewIngestor creates an Ingestor. defaultProfileRef is used for tasks that
// do not name their own profile.
func NewIngestor(
	tasks store.TaskStore,
	headlines store.HeadlineStore,
	client generation.Client,
	defaultProfileRef string,
	logger *slog.Logger,
) (*Ingestor, error) {
	if tasks == nil || headlines == nil || client == nil {
		return nil, fmt.Errorf("%w: ingestor requires task store, headline store and client", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Ingestor{
		tasks:             tasks,
		headlines:         headlines,
		client:            client,
		clean:             sanitize.New(),
		defaultProfileRef: defaultProfileRef,
		now:               time.Now,
		logger:            logger.With(slog.String("component", "ingestor")),
	}, nil
}

// FetchByID loads the task and runs Fetch on it.
func (s *Ingestor) FetchByID(ctx context.Context, taskID uuid.UUID) (*FetchResult, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewStorageError("fetch_headlines", "failed to load task", err)
	}
	return s.Fetch(ctx, task)
}

// Fetch runs one ingestion for task. Only an inactive task, a failed chat
// call or unparseable output abort the run; a candidate that cannot be
// stored is logged and skipped. The task's last-run time is updated on every
// completed run, even when nothing new was found.
func (s *Ingestor) Fetch(ctx context.Context, task *domain.SearchTask) (*FetchResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("task_id", task.ID.String()))

	if !task.IsActive {
		log.Debug("skipping inactive task")
		return nil, ErrTaskInactive
	}

	profileRef := task.EffectiveProfileRef(s.defaultProfileRef)
	log.Info("fetching headlines",
		slog.String("query", task.Query),
		slog.String("profile_ref", profileRef))

	text, err := s.client.Chat(ctx, generation.ChatRequest{
		Message:    task.Query,
		ProfileRef: profileRef,
	})
	if err != nil {
		log.Error("headline chat failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("headline search for task %s: %w", task.ID, err)
	}

	candidates, err := parseCandidates(text)
	if err != nil {
		log.Warn("headline response could not be parsed", slog.String("error", err.Error()))
		return nil, err
	}

	result := &FetchResult{TaskID: task.ID, Headlines: []*domain.Headline{}}
	for i, c := range candidates {
		h, err := s.store(ctx, task, c)
		if err != nil {
			log.Warn("skipping headline candidate",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			continue
		}
		if h != nil {
			result.Headlines = append(result.Headlines, h)
		}
	}
	result.Count = len(result.Headlines)

	if err := s.tasks.MarkRun(ctx, task.ID, s.now().UTC()); err != nil {
		log.Error("failed to record task run", slog.String("error", err.Error()))
	}

	log.Info("headline fetch completed",
		slog.Int("candidates", len(candidates)),
		slog.Int("stored", result.Count))
	return result, nil
}

// store inserts one candidate. It returns nil without error when the
// headline already exists.
func (s *Ingestor) store(ctx context.Context, task *domain.SearchTask, c headlineCandidate) (*domain.Headline, error) {
	query := c.NextQuery.String()
	if query == "" {
		query = task.Query
	}

	h, err := domain.NewHeadline(
		task.ID,
		s.clean.Line(c.Headline.String()),
		c.Date.String(),
		s.clean.Line(c.Source.String()),
		query,
	)
	if err != nil {
		return nil, err
	}

	inserted, err := s.headlines.InsertIfAbsent(ctx, h)
	if err != nil {
		return nil, NewStorageError("store_headline", "failed to insert headline", err)
	}
	if !inserted {
		return nil, nil
	}
	return h, nil
}

func parseCandidates(text string) ([]headlineCandidate, error) {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var envelope headlineEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &ParseError{Reason: "invalid headline payload", Err: err}
	}
	return envelope.Data, nil
}
