package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
)

// TaskStore defines the interface for search task persistence.
type TaskStore interface {
	// Create saves a new task. Returns validation errors from the domain
	// task if the data is invalid.
	Create(ctx context.Context, task *domain.SearchTask) error

	// GetByID retrieves a task regardless of its active flag.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SearchTask, error)

	// ListActive returns every active task ordered by creation time.
	ListActive(ctx context.Context) ([]*domain.SearchTask, error)

	// MarkRun sets last_run_at. Returns ErrTaskNotFound if the task does not exist.
	MarkRun(ctx context.Context, id uuid.UUID, at time.Time) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
