package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
)

// ArticleStore defines the interface for article persistence.
type ArticleStore interface {
	// Create saves a new article. Returns ErrArticleExists if the headline
	// already has one and ErrInvalidReference if the headline is missing.
	Create(ctx context.Context, article *domain.Article) error

	// GetByHeadlineID retrieves the article written for a headline.
	// Returns ErrArticleNotFound if there is none.
	GetByHeadlineID(ctx context.Context, headlineID uuid.UUID) (*domain.Article, error)

	// WithTx returns an ArticleStore bound to tx.
	WithTx(tx *sql.Tx) ArticleStore
}
