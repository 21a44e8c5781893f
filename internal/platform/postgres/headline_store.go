package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/phrazzld/newsdesk/internal/store"
)

const headlineColumns = `id, task_id, headline, news_date, source, search_query, status, ` +
	`error_message, retry_count, created_at, updated_at`

// defaultHeadlineLimit caps ListByStatus when the filter has no limit.
const defaultHeadlineLimit = 100

// PostgresHeadlineStore implements store.HeadlineStore on news_headlines.
type PostgresHeadlineStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHeadlineStore creates a headline store over db. If logger is nil
// the default logger is used.
func NewPostgresHeadlineStore(db store.DBTX, logger *slog.Logger) *PostgresHeadlineStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresHeadlineStore{
		db:     db,
		logger: logger.With(slog.String("component", "headline_store")),
	}
}

var _ store.HeadlineStore = (*PostgresHeadlineStore)(nil)

// InsertIfAbsent implements store.HeadlineStore.InsertIfAbsent.
func (s *PostgresHeadlineStore) InsertIfAbsent(ctx context.Context, h *domain.Headline) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := h.Validate(); err != nil {
		log.Warn("headline validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("headline_id", h.ID.String()))
		return false, err
	}

	query := `
		INSERT INTO news_headlines (` + headlineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (headline, news_date) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.TaskID,
		h.Text,
		h.NewsDate,
		h.Source,
		h.SearchQuery,
		string(h.Status),
		nullString(h.ErrorMessage),
		h.RetryCount,
		h.CreatedAt,
		h.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert headline",
			slog.String("error", err.Error()),
			slog.String("headline_id", h.ID.String()),
			slog.String("task_id", h.TaskID.String()))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		log.Debug("headline already stored, skipping",
			slog.String("headline", h.Text),
			slog.String("news_date", h.NewsDate))
		return false, nil
	}

	log.Debug("headline stored",
		slog.String("headline_id", h.ID.String()),
		slog.String("task_id", h.TaskID.String()))
	return true, nil
}

// GetByID implements store.HeadlineStore.GetByID.
func (s *PostgresHeadlineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Headline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + headlineColumns + ` FROM news_headlines WHERE id = $1`
	h, err := scanHeadline(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("headline not found", slog.String("headline_id", id.String()))
			return nil, store.ErrHeadlineNotFound
		}
		log.Error("failed to get headline by ID",
			slog.String("error", err.Error()),
			slog.String("headline_id", id.String()))
		return nil, MapError(err)
	}
	return h, nil
}

// ListByStatus implements store.HeadlineStore.ListByStatus.
func (s *PostgresHeadlineStore) ListByStatus(
	ctx context.Context,
	filter store.HeadlineFilter,
) ([]*domain.Headline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHeadlineLimit
	}

	args := []any{string(filter.Status)}
	query := `SELECT ` + headlineColumns + ` FROM news_headlines WHERE status = $1`
	if filter.TaskID != nil {
		args = append(args, *filter.TaskID)
		query += fmt.Sprintf(" AND task_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query headlines by status",
			slog.String("error", err.Error()),
			slog.String("status", string(filter.Status)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	headlines := []*domain.Headline{}
	for rows.Next() {
		h, err := scanHeadline(rows)
		if err != nil {
			log.Error("failed to scan headline row", slog.String("error", err.Error()))
			return nil, err
		}
		headlines = append(headlines, h)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning headline rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed headlines by status",
		slog.String("status", string(filter.Status)),
		slog.Int("count", len(headlines)))
	return headlines, nil
}

// Transition implements store.HeadlineStore.Transition. The WHERE clause on
// the current status makes the move a compare-and-set, so two workers can
// never both claim the same fresh headline.
func (s *PostgresHeadlineStore) Transition(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.HeadlineStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	query := `
		UPDATE news_headlines
		SET status = $1,
			error_message = CASE WHEN $1 = 'completed' THEN NULL ELSE error_message END,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := s.db.ExecContext(ctx, query, string(to), time.Now().UTC(), id, string(from))
	if err != nil {
		log.Error("failed to transition headline",
			slog.String("error", err.Error()),
			slog.String("headline_id", id.String()),
			slog.String("from", string(from)),
			slog.String("to", string(to)))
		return MapError(err)
	}

	if err := s.checkTransition(ctx, result, id, from); err != nil {
		return err
	}

	log.Debug("headline transitioned",
		slog.String("headline_id", id.String()),
		slog.String("from", string(from)),
		slog.String("to", string(to)))
	return nil
}

// MarkFailed implements store.HeadlineStore.MarkFailed.
func (s *PostgresHeadlineStore) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE news_headlines
		SET status = 'failed',
			error_message = $1,
			retry_count = retry_count + 1,
			updated_at = $2
		WHERE id = $3 AND status = 'processing'
	`
	result, err := s.db.ExecContext(ctx, query, errMsg, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to mark headline failed",
			slog.String("error", err.Error()),
			slog.String("headline_id", id.String()))
		return MapError(err)
	}

	if err := s.checkTransition(ctx, result, id, domain.HeadlineStatusProcessing); err != nil {
		return err
	}

	log.Info("headline marked failed",
		slog.String("headline_id", id.String()),
		slog.String("reason", errMsg))
	return nil
}

// FailStale implements store.HeadlineStore.FailStale.
func (s *PostgresHeadlineStore) FailStale(
	ctx context.Context,
	cutoff time.Time,
	errMsg string,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE news_headlines
		SET status = 'failed',
			error_message = $1,
			retry_count = retry_count + 1,
			updated_at = $2
		WHERE status = 'processing' AND updated_at < $3
		RETURNING id
	`
	rows, err := s.db.QueryContext(ctx, query, errMsg, time.Now().UTC(), cutoff.UTC())
	if err != nil {
		log.Error("failed to fail stale headlines", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		log.Warn("failed stale processing headlines",
			slog.Int("count", len(ids)),
			slog.Time("cutoff", cutoff))
	}
	return ids, nil
}

// WithTx implements store.HeadlineStore.WithTx.
func (s *PostgresHeadlineStore) WithTx(tx *sql.Tx) store.HeadlineStore {
	return &PostgresHeadlineStore{db: tx, logger: s.logger}
}

// checkTransition turns a zero-row conditional update into either
// ErrHeadlineNotFound or ErrStatusConflict.
func (s *PostgresHeadlineStore) checkTransition(
	ctx context.Context,
	result sql.Result,
	id uuid.UUID,
	from domain.HeadlineStatus,
) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var current string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM news_headlines WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrHeadlineNotFound
		}
		return MapError(err)
	}

	return store.NewStoreError("headline", "transition",
		fmt.Sprintf("expected status %s, found %s", from, current),
		store.ErrStatusConflict)
}

func scanHeadline(row rowScanner) (*domain.Headline, error) {
	var h domain.Headline
	var status string
	var errMsg sql.NullString
	err := row.Scan(
		&h.ID,
		&h.TaskID,
		&h.Text,
		&h.NewsDate,
		&h.Source,
		&h.SearchQuery,
		&status,
		&errMsg,
		&h.RetryCount,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.Status = domain.HeadlineStatus(status)
	h.ErrorMessage = errMsg.String
	return &h, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
