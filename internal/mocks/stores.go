package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/store"
)

// TaskStore is an in-memory store.TaskStore. Tasks are listed in insertion
// order. Set Err to make every method fail.
type TaskStore struct {
	Err error

	mu    sync.Mutex
	tasks []*domain.SearchTask
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore holding copies of tasks.
func NewTaskStore(tasks ...*domain.SearchTask) *TaskStore {
	s := &TaskStore{}
	for _, t := range tasks {
		cp := *t
		s.tasks = append(s.tasks, &cp)
	}
	return s
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(_ context.Context, task *domain.SearchTask) error {
	if s.Err != nil {
		return s.Err
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == task.ID {
			return store.ErrDuplicate
		}
	}
	cp := *task
	s.tasks = append(s.tasks, &cp)
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.SearchTask, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// ListActive implements store.TaskStore.
func (s *TaskStore) ListActive(_ context.Context) ([]*domain.SearchTask, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.SearchTask{}
	for _, t := range s.tasks {
		if t.IsActive {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MarkRun implements store.TaskStore.
func (s *TaskStore) MarkRun(_ context.Context, id uuid.UUID, at time.Time) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			ts := at
			t.LastRunAt = &ts
			t.UpdatedAt = at
			return nil
		}
	}
	return store.ErrTaskNotFound
}

// WithTx implements store.TaskStore; the in-memory store has no transactions.
func (s *TaskStore) WithTx(*sql.Tx) store.TaskStore {
	return s
}

// HeadlineStore is an in-memory store.HeadlineStore. Transitions are
// conditional on the current status and (text, date) pairs are unique.
type HeadlineStore struct {
	// InsertErr fails InsertIfAbsent when set.
	InsertErr error
	// TransitionFn, when set, runs before every Transition and can inject
	// an error for specific headlines.
	TransitionFn func(id uuid.UUID, from, to domain.HeadlineStatus) error

	mu        sync.Mutex
	seq       int
	headlines map[uuid.UUID]*headlineRow
}

type headlineRow struct {
	seq      int
	headline domain.Headline
}

var _ store.HeadlineStore = (*HeadlineStore)(nil)

// NewHeadlineStore creates an empty HeadlineStore.
func NewHeadlineStore() *HeadlineStore {
	return &HeadlineStore{headlines: make(map[uuid.UUID]*headlineRow)}
}

// InsertIfAbsent implements store.HeadlineStore.
func (s *HeadlineStore) InsertIfAbsent(_ context.Context, h *domain.Headline) (bool, error) {
	if s.InsertErr != nil {
		return false, s.InsertErr
	}
	if err := h.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.headlines {
		if row.headline.Text == h.Text && row.headline.NewsDate == h.NewsDate {
			return false, nil
		}
	}
	s.seq++
	s.headlines[h.ID] = &headlineRow{seq: s.seq, headline: *h}
	return true, nil
}

// GetByID implements store.HeadlineStore.
func (s *HeadlineStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Headline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.headlines[id]
	if !ok {
		return nil, store.ErrHeadlineNotFound
	}
	cp := row.headline
	return &cp, nil
}

// ListByStatus implements store.HeadlineStore.
func (s *HeadlineStore) ListByStatus(_ context.Context, filter store.HeadlineFilter) ([]*domain.Headline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]*headlineRow, 0, len(s.headlines))
	for _, row := range s.headlines {
		if row.headline.Status != filter.Status {
			continue
		}
		if filter.TaskID != nil && row.headline.TaskID != *filter.TaskID {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	out := make([]*domain.Headline, 0, len(rows))
	for _, row := range rows {
		cp := row.headline
		out = append(out, &cp)
	}
	return out, nil
}

// Transition implements store.HeadlineStore.
func (s *HeadlineStore) Transition(_ context.Context, id uuid.UUID, from, to domain.HeadlineStatus) error {
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	if s.TransitionFn != nil {
		if err := s.TransitionFn(id, from, to); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	row, err := s.claim(id, from)
	if err != nil {
		return err
	}
	return row.headline.TransitionTo(to, "")
}

// MarkFailed implements store.HeadlineStore.
func (s *HeadlineStore) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, err := s.claim(id, domain.HeadlineStatusProcessing)
	if err != nil {
		return err
	}
	return row.headline.TransitionTo(domain.HeadlineStatusFailed, errMsg)
}

// FailStale implements store.HeadlineStore.
func (s *HeadlineStore) FailStale(_ context.Context, cutoff time.Time, errMsg string) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uuid.UUID
	for id, row := range s.headlines {
		if row.headline.Status != domain.HeadlineStatusProcessing || !row.headline.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := row.headline.TransitionTo(domain.HeadlineStatusFailed, errMsg); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// WithTx implements store.HeadlineStore; the in-memory store has no transactions.
func (s *HeadlineStore) WithTx(*sql.Tx) store.HeadlineStore {
	return s
}

// SetUpdatedAt backdates a headline so sweeper tests can age it.
func (s *HeadlineStore) SetUpdatedAt(id uuid.UUID, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.headlines[id]; ok {
		row.headline.UpdatedAt = at
	}
}

// claim returns the row if it is in status from. Callers hold s.mu.
func (s *HeadlineStore) claim(id uuid.UUID, from domain.HeadlineStatus) (*headlineRow, error) {
	row, ok := s.headlines[id]
	if !ok {
		return nil, store.ErrHeadlineNotFound
	}
	if row.headline.Status != from {
		return nil, store.NewStoreError("headline", "transition",
			fmt.Sprintf("expected status %s, found %s", from, row.headline.Status),
			store.ErrStatusConflict)
	}
	return row, nil
}

// ArticleStore is an in-memory store.ArticleStore with one article per headline.
type ArticleStore struct {
	// CreateErr fails Create when set.
	CreateErr error

	mu       sync.Mutex
	articles map[uuid.UUID]domain.Article
}

var _ store.ArticleStore = (*ArticleStore)(nil)

// NewArticleStore creates an empty ArticleStore.
func NewArticleStore() *ArticleStore {
	return &ArticleStore{articles: make(map[uuid.UUID]domain.Article)}
}

// Create implements store.ArticleStore.
func (s *ArticleStore) Create(_ context.Context, article *domain.Article) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if err := article.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.articles[article.HeadlineID]; exists {
		return store.ErrArticleExists
	}
	s.articles[article.HeadlineID] = *article
	return nil
}

// GetByHeadlineID implements store.ArticleStore.
func (s *ArticleStore) GetByHeadlineID(_ context.Context, headlineID uuid.UUID) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[headlineID]
	if !ok {
		return nil, store.ErrArticleNotFound
	}
	return &a, nil
}

// WithTx implements store.ArticleStore; the in-memory store has no transactions.
func (s *ArticleStore) WithTx(*sql.Tx) store.ArticleStore {
	return s
}

// Count returns the number of stored articles.
func (s *ArticleStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}
