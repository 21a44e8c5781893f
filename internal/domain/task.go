package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSchedule is the daily run time assigned to tasks created without one.
const DefaultSchedule = "08:00"

// SearchTask is an operator-defined query that the ingestion stage sends to
// the generation endpoint to discover headlines.
type SearchTask struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Query      string     `json:"query"`
	ProfileRef string     `json:"profile_ref,omitempty"`
	Schedule   string     `json:"schedule"`
	IsActive   bool       `json:"is_active"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewSearchTask creates an active task. An empty schedule becomes DefaultSchedule.
func NewSearchTask(name, query, profileRef, schedule string) (*SearchTask, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	now := time.Now().UTC()
	task := &SearchTask{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(name),
		Query:      strings.TrimSpace(query),
		ProfileRef: strings.TrimSpace(profileRef),
		Schedule:   schedule,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the SearchTask has valid data.
func (t *SearchTask) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: task ID cannot be empty", ErrInvalidID)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: task name cannot be empty", ErrValidation)
	}
	if t.Query == "" {
		return fmt.Errorf("%w: task query cannot be empty", ErrValidation)
	}
	if _, err := ParseSchedule(t.Schedule); err != nil {
		return err
	}
	return nil
}

// EffectiveProfileRef returns the task's profile reference, or fallback when
// the task has none.
func (t *SearchTask) EffectiveProfileRef(fallback string) string {
	if t.ProfileRef != "" {
		return t.ProfileRef
	}
	return fallback
}

// DueAt reports whether the task's daily schedule matches the minute of now
// and the task has not already run in that minute.
func (t *SearchTask) DueAt(now time.Time) bool {
	if !t.IsActive {
		return false
	}
	offset, err := ParseSchedule(t.Schedule)
	if err != nil {
		return false
	}
	now = now.UTC()
	minute := now.Truncate(time.Minute)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !midnight.Add(offset).Equal(minute) {
		return false
	}
	return t.LastRunAt == nil || t.LastRunAt.UTC().Before(minute)
}

// ParseSchedule converts an HH:MM schedule into an offset from midnight.
func ParseSchedule(schedule string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", schedule)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, schedule)
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}
