package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/events"
	"github.com/phrazzld/newsdesk/internal/generation"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/phrazzld/newsdesk/internal/sanitize"
	"github.com/phrazzld/newsdesk/internal/store"
)

// RewriterDeps groups the collaborators of a Rewriter.
type RewriterDeps struct {
	Headlines store.HeadlineStore
	Articles  store.ArticleStore
	TxManager store.TxManager
	Client    generation.Client
	Prompts   *PromptBuilder
	Tagger    *Tagger
	Emitter   events.EventEmitter
}

// Rewriter turns a fresh headline into a stored Article.
type Rewriter struct {
	headlines  store.HeadlineStore
	articles   store.ArticleStore
	txManager  store.TxManager
	client     generation.Client
	prompts    *PromptBuilder
	tagger     *Tagger
	emitter    events.EventEmitter
	clean      *sanitize.Sanitizer
	profileRef string
	logger     *slog.Logger
}

// NewRewriter creates a Rewriter that sends prompts to profileRef.
func NewRewriter(deps RewriterDeps, profileRef string, logger *slog.Logger) (*Rewriter, error) {
	if deps.Headlines == nil || deps.Articles == nil || deps.TxManager == nil ||
		deps.Client == nil || deps.Prompts == nil || deps.Tagger == nil {
		return nil, fmt.Errorf("%w: rewriter dependencies are incomplete", domain.ErrValidation)
	}
	if deps.Emitter == nil {
		deps.Emitter = events.NoopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Rewriter{
		headlines:  deps.Headlines,
		articles:   deps.Articles,
		txManager:  deps.TxManager,
		client:     deps.Client,
		prompts:    deps.Prompts,
		tagger:     deps.Tagger,
		emitter:    deps.Emitter,
		clean:      sanitize.New(),
		profileRef: profileRef,
		logger:     logger.With(slog.String("component", "rewriter")),
	}, nil
}

// Rewrite claims the headline, asks the model for the article, and stores
// it. The claim is a conditional fresh -> processing update: a headline that
// is not fresh yields ErrHeadlineNotFresh and nothing else happens. Once
// claimed, the headline ends either completed (article stored in the same
// transaction) or failed with the error message recorded.
func (r *Rewriter) Rewrite(ctx context.Context, headlineID uuid.UUID) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, r.logger).With(
		slog.String("headline_id", headlineID.String()))

	h, err := r.headlines.GetByID(ctx, headlineID)
	if err != nil {
		return nil, NewStorageError("rewrite", "failed to load headline", err)
	}

	err = r.headlines.Transition(ctx, h.ID, domain.HeadlineStatusFresh, domain.HeadlineStatusProcessing)
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) || errors.Is(err, domain.ErrInvalidTransition) {
			log.Info("headline already claimed", slog.String("status", string(h.Status)))
			return nil, fmt.Errorf("%w: status is %s", ErrHeadlineNotFresh, h.Status)
		}
		return nil, NewStorageError("rewrite", "failed to claim headline", err)
	}
	h.Status = domain.HeadlineStatusProcessing

	log.Info("rewriting headline", slog.String("headline", h.Text))

	article, err := r.generate(ctx, h)
	if err == nil {
		err = r.persist(ctx, h, article)
	}
	if err != nil {
		r.fail(ctx, log, h, err)
		return nil, err
	}

	log.Info("headline rewritten",
		slog.String("article_id", article.ID.String()),
		slog.Any("tags", article.Tags))
	r.emit(ctx, log, events.TypeArticleCreated, h.ID, events.ArticleCreatedPayload{
		ArticleID:  article.ID,
		HeadlineID: h.ID,
		TaskID:     h.TaskID,
		Tags:       article.Tags,
	})
	return article, nil
}

// Requeue moves a failed headline back to fresh so the next batch picks it
// up again. The retry counter is kept.
func (r *Rewriter) Requeue(ctx context.Context, headlineID uuid.UUID) (*domain.Headline, error) {
	err := r.headlines.Transition(ctx, headlineID, domain.HeadlineStatusFailed, domain.HeadlineStatusFresh)
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, ErrHeadlineNotFailed
		}
		return nil, NewStorageError("requeue", "failed to requeue headline", err)
	}

	h, err := r.headlines.GetByID(ctx, headlineID)
	if err != nil {
		return nil, NewStorageError("requeue", "failed to reload headline", err)
	}

	logger.FromContextOrDefault(ctx, r.logger).Info("headline requeued",
		slog.String("headline_id", headlineID.String()),
		slog.Int("retry_count", h.RetryCount))
	return h, nil
}

// generate builds the prompt, calls the model and assembles the article.
func (r *Rewriter) generate(ctx context.Context, h *domain.Headline) (*domain.Article, error) {
	prompt, err := r.prompts.Build(h)
	if err != nil {
		return nil, err
	}

	text, err := r.client.Chat(ctx, generation.ChatRequest{
		Message:    prompt,
		ProfileRef: r.profileRef,
	})
	if err != nil {
		return nil, fmt.Errorf("rewrite chat: %w", err)
	}

	raw, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}
	payload, err := decodeRewritePayload(raw)
	if err != nil {
		return nil, err
	}

	bundles, err := buildBundles(payload, h.Text, r.clean)
	if err != nil {
		return nil, err
	}

	english := payload.section(languageLayouts[0])
	tags := r.tagger.Tags(h.Text, english.Analysis.hasStakeholders())

	article, err := domain.NewArticle(h.ID, bundles, tags)
	if err != nil {
		return nil, fmt.Errorf("failed to build article: %w", err)
	}
	return article, nil
}

// persist stores the article and completes the headline atomically.
func (r *Rewriter) persist(ctx context.Context, h *domain.Headline, article *domain.Article) error {
	err := r.txManager.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := r.articles.WithTx(tx).Create(ctx, article); err != nil {
			return err
		}
		return r.headlines.WithTx(tx).Transition(ctx, h.ID,
			domain.HeadlineStatusProcessing, domain.HeadlineStatusCompleted)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			return NewStorageError("rewrite", "headline already has an article", err)
		}
		return NewStorageError("rewrite", "failed to store article", err)
	}
	h.Status = domain.HeadlineStatusCompleted
	return nil
}

// fail records cause on the headline and emits headline.failed. Failures
// while recording are logged; the caller still receives cause.
func (r *Rewriter) fail(ctx context.Context, log *slog.Logger, h *domain.Headline, cause error) {
	attrs := []any{slog.String("error", cause.Error())}
	var upstream *generation.UpstreamError
	if errors.As(cause, &upstream) {
		// Transient failures are worth a requeue once the upstream recovers.
		attrs = append(attrs,
			slog.Int("upstream_status", upstream.StatusCode),
			slog.Bool("transient", upstream.Transient()))
	}
	log.Error("rewrite failed", attrs...)

	if err := r.headlines.MarkFailed(context.WithoutCancel(ctx), h.ID, cause.Error()); err != nil {
		log.Error("failed to mark headline failed", slog.String("error", err.Error()))
	} else {
		h.Status = domain.HeadlineStatusFailed
	}

	r.emit(ctx, log, events.TypeHeadlineFailed, h.ID, events.HeadlineFailedPayload{
		HeadlineID: h.ID,
		TaskID:     h.TaskID,
		Error:      cause.Error(),
	})
}

func (r *Rewriter) emit(ctx context.Context, log *slog.Logger, eventType string, key uuid.UUID, payload any) {
	event, err := events.NewEvent(eventType, key.String(), payload)
	if err == nil {
		err = r.emitter.EmitEvent(context.WithoutCancel(ctx), event)
	}
	if err != nil {
		log.Warn("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}
