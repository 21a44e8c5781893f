package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/phrazzld/newsdesk/internal/store"
)

const articleColumns = `id, headline_id, ` +
	`title_en, content_en, summary_en, ` +
	`title_zh, content_zh, summary_zh, ` +
	`title_ms, content_ms, summary_ms, ` +
	`tags, created_at`

// PostgresArticleStore implements store.ArticleStore on news_articles. Each
// language bundle maps onto its own title/content/summary column triple.
type PostgresArticleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresArticleStore creates an article store over db. If logger is nil
// the default logger is used.
func NewPostgresArticleStore(db store.DBTX, logger *slog.Logger) *PostgresArticleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresArticleStore{
		db:     db,
		logger: logger.With(slog.String("component", "article_store")),
	}
}

var _ store.ArticleStore = (*PostgresArticleStore)(nil)

// Create implements store.ArticleStore.Create.
func (s *PostgresArticleStore) Create(ctx context.Context, article *domain.Article) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := article.Validate(); err != nil {
		log.Warn("article validation failed during create",
			slog.String("error", err.Error()),
			slog.String("headline_id", article.HeadlineID.String()))
		return err
	}

	en := article.Bundle(domain.LanguageEnglish)
	zh := article.Bundle(domain.LanguageChinese)
	ms := article.Bundle(domain.LanguageMalay)

	query := `
		INSERT INTO news_articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		article.ID,
		article.HeadlineID,
		en.Title, en.Content, en.Summary,
		zh.Title, zh.Content, zh.Summary,
		ms.Title, ms.Content, ms.Summary,
		article.Tags,
		article.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("article already exists for headline",
				slog.String("headline_id", article.HeadlineID.String()))
			return store.ErrArticleExists
		}
		log.Error("failed to create article",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()),
			slog.String("headline_id", article.HeadlineID.String()))
		return MapError(err)
	}

	log.Info("article created",
		slog.String("article_id", article.ID.String()),
		slog.String("headline_id", article.HeadlineID.String()),
		slog.Any("tags", article.Tags))
	return nil
}

// GetByHeadlineID implements store.ArticleStore.GetByHeadlineID.
func (s *PostgresArticleStore) GetByHeadlineID(ctx context.Context, headlineID uuid.UUID) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + articleColumns + ` FROM news_articles WHERE headline_id = $1`

	var article domain.Article
	var en, zh, ms domain.LanguageBundle
	var tags []string
	err := s.db.QueryRowContext(ctx, query, headlineID).Scan(
		&article.ID,
		&article.HeadlineID,
		&en.Title, &en.Content, &en.Summary,
		&zh.Title, &zh.Content, &zh.Summary,
		&ms.Title, &ms.Content, &ms.Summary,
		// pgtype.Map caches plans and is not safe for concurrent use.
		pgtype.NewMap().SQLScanner(&tags),
		&article.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("article not found", slog.String("headline_id", headlineID.String()))
			return nil, store.ErrArticleNotFound
		}
		log.Error("failed to get article",
			slog.String("error", err.Error()),
			slog.String("headline_id", headlineID.String()))
		return nil, MapError(err)
	}

	article.Bundles = map[domain.Language]domain.LanguageBundle{
		domain.LanguageEnglish: en,
		domain.LanguageChinese: zh,
		domain.LanguageMalay:   ms,
	}
	article.Tags = tags
	return &article, nil
}

// WithTx implements store.ArticleStore.WithTx.
func (s *PostgresArticleStore) WithTx(tx *sql.Tx) store.ArticleStore {
	return &PostgresArticleStore{db: tx, logger: s.logger}
}
