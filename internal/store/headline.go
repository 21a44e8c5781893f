package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
)

// HeadlineFilter narrows ListByStatus.
type HeadlineFilter struct {
	Status domain.HeadlineStatus
	// TaskID restricts results to one task when non-nil.
	TaskID *uuid.UUID
	Limit  int
}

// HeadlineStore defines the interface for headline persistence.
type HeadlineStore interface {
	// InsertIfAbsent stores h unless a headline with the same text and date
	// already exists. It reports whether a row was inserted; a duplicate is
	// not an error.
	InsertIfAbsent(ctx context.Context, h *domain.Headline) (bool, error)

	// GetByID retrieves a headline by ID.
	// Returns ErrHeadlineNotFound if the headline does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Headline, error)

	// ListByStatus returns headlines matching filter, oldest first.
	ListByStatus(ctx context.Context, filter HeadlineFilter) ([]*domain.Headline, error)

	// Transition atomically moves a headline from one status to another.
	// Returns ErrHeadlineNotFound if the headline does not exist and
	// ErrStatusConflict if it is not currently in from.
	Transition(ctx context.Context, id uuid.UUID, from, to domain.HeadlineStatus) error

	// MarkFailed moves a processing headline to failed, storing errMsg and
	// incrementing its retry counter. Same errors as Transition.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// FailStale marks every headline that has been processing since before
	// cutoff as failed with errMsg. It returns the affected headline IDs.
	FailStale(ctx context.Context, cutoff time.Time, errMsg string) ([]uuid.UUID, error)

	// WithTx returns a HeadlineStore bound to tx.
	WithTx(tx *sql.Tx) HeadlineStore
}
