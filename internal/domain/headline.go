package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HeadlineStatus represents the processing state of a headline.
type HeadlineStatus string

// Possible headline status values
const (
	HeadlineStatusFresh      HeadlineStatus = "fresh"
	HeadlineStatusProcessing HeadlineStatus = "processing"
	HeadlineStatusCompleted  HeadlineStatus = "completed"
	HeadlineStatusFailed     HeadlineStatus = "failed"
)

// Headline is a candidate news item discovered by a search task and waiting
// to be rewritten into an Article.
//
// NewsDate is kept as the text the model returned (usually YYYY-MM-DD) and is
// empty when unknown. Together with Text it identifies a headline.
type Headline struct {
	ID           uuid.UUID      `json:"id"`
	TaskID       uuid.UUID      `json:"task_id"`
	Text         string         `json:"headline"`
	NewsDate     string         `json:"news_date,omitempty"`
	Source       string         `json:"source,omitempty"`
	SearchQuery  string         `json:"search_query"`
	Status       HeadlineStatus `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	RetryCount   int            `json:"retry_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewHeadline creates a fresh headline owned by taskID.
func NewHeadline(taskID uuid.UUID, text, newsDate, source, searchQuery string) (*Headline, error) {
	now := time.Now().UTC()
	h := &Headline{
		ID:          uuid.New(),
		TaskID:      taskID,
		Text:        strings.TrimSpace(text),
		NewsDate:    strings.TrimSpace(newsDate),
		Source:      strings.TrimSpace(source),
		SearchQuery: strings.TrimSpace(searchQuery),
		Status:      HeadlineStatusFresh,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks if the Headline has valid data.
func (h *Headline) Validate() error {
	if h.ID == uuid.Nil {
		return fmt.Errorf("%w: headline ID cannot be empty", ErrInvalidID)
	}
	if h.TaskID == uuid.Nil {
		return fmt.Errorf("%w: headline task ID cannot be empty", ErrInvalidID)
	}
	if h.Text == "" {
		return fmt.Errorf("%w: headline text", ErrEmptyContent)
	}
	if !IsValidHeadlineStatus(h.Status) {
		return ErrInvalidHeadlineStatus
	}
	return nil
}

// DateOr returns the headline's date, or fallback when it has none.
func (h *Headline) DateOr(fallback string) string {
	if h.NewsDate == "" {
		return fallback
	}
	return h.NewsDate
}

// TransitionTo moves the headline to status if the lifecycle allows it.
// Entering failed requires a message and increments RetryCount; leaving
// failed keeps the counter.
func (h *Headline) TransitionTo(status HeadlineStatus, errMsg string) error {
	if !IsValidHeadlineStatus(status) {
		return ErrInvalidHeadlineStatus
	}
	if !CanTransition(h.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, h.Status, status)
	}

	switch status {
	case HeadlineStatusFailed:
		if strings.TrimSpace(errMsg) == "" {
			return fmt.Errorf("%w: failure requires an error message", ErrValidation)
		}
		h.ErrorMessage = errMsg
		h.RetryCount++
	case HeadlineStatusCompleted:
		h.ErrorMessage = ""
	}

	h.Status = status
	h.UpdatedAt = time.Now().UTC()
	return nil
}

// CanTransition reports whether a headline may move from one status to another.
//
//	fresh -> processing -> completed
//	processing -> failed -> fresh (explicit re-queue)
func CanTransition(from, to HeadlineStatus) bool {
	switch from {
	case HeadlineStatusFresh:
		return to == HeadlineStatusProcessing
	case HeadlineStatusProcessing:
		return to == HeadlineStatusCompleted || to == HeadlineStatusFailed
	case HeadlineStatusFailed:
		return to == HeadlineStatusFresh
	default:
		return false
	}
}

// IsValidHeadlineStatus checks if the given status is a valid HeadlineStatus.
func IsValidHeadlineStatus(status HeadlineStatus) bool {
	switch status {
	case HeadlineStatusFresh, HeadlineStatusProcessing, HeadlineStatusCompleted, HeadlineStatusFailed:
		return true
	default:
		return false
	}
}
