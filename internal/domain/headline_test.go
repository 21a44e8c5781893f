package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewHeadline(t *testing.T) {
	t.Parallel()
	taskID := uuid.New()

	h, err := NewHeadline(taskID, "  Solar farm opens in Kedah ", "2024-11-20", "The Star", "solar Malaysia")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if h.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if h.Text != "Solar farm opens in Kedah" {
		t.Errorf("Expected trimmed text, got %q", h.Text)
	}
	if h.Status != HeadlineStatusFresh {
		t.Errorf("Expected status %s, got %s", HeadlineStatusFresh, h.Status)
	}
	if h.RetryCount != 0 {
		t.Errorf("Expected retry count 0, got %d", h.RetryCount)
	}

	if _, err := NewHeadline(uuid.Nil, "text", "", "", "q"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected ErrInvalidID, got %v", err)
	}
	if _, err := NewHeadline(taskID, "   ", "", "", "q"); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Expected ErrEmptyContent, got %v", err)
	}
}

func TestHeadlineDateOr(t *testing.T) {
	t.Parallel()

	h := Headline{NewsDate: "2024-11-20"}
	if got := h.DateOr("Recent"); got != "2024-11-20" {
		t.Errorf("Expected stored date, got %q", got)
	}
	h.NewsDate = ""
	if got := h.DateOr("Recent"); got != "Recent" {
		t.Errorf("Expected fallback, got %q", got)
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to HeadlineStatus
		want     bool
	}{
		{HeadlineStatusFresh, HeadlineStatusProcessing, true},
		{HeadlineStatusFresh, HeadlineStatusCompleted, false},
		{HeadlineStatusFresh, HeadlineStatusFailed, false},
		{HeadlineStatusProcessing, HeadlineStatusCompleted, true},
		{HeadlineStatusProcessing, HeadlineStatusFailed, true},
		{HeadlineStatusProcessing, HeadlineStatusFresh, false},
		{HeadlineStatusCompleted, HeadlineStatusProcessing, false},
		{HeadlineStatusCompleted, HeadlineStatusFresh, false},
		{HeadlineStatusFailed, HeadlineStatusFresh, true},
		{HeadlineStatusFailed, HeadlineStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestHeadlineTransitionTo(t *testing.T) {
	t.Parallel()

	h, err := NewHeadline(uuid.New(), "Grid upgrade announced", "", "", "energy")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := h.TransitionTo(HeadlineStatusCompleted, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition, got %v", err)
	}
	if err := h.TransitionTo(HeadlineStatusProcessing, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := h.TransitionTo(HeadlineStatusFailed, " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation for empty message, got %v", err)
	}
	if err := h.TransitionTo(HeadlineStatusFailed, "upstream returned 503"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if h.RetryCount != 1 || h.ErrorMessage != "upstream returned 503" {
		t.Errorf("Expected retry 1 with message, got %d %q", h.RetryCount, h.ErrorMessage)
	}

	if err := h.TransitionTo(HeadlineStatusFresh, ""); err != nil {
		t.Fatalf("Expected requeue to succeed, got %v", err)
	}
	if h.RetryCount != 1 {
		t.Errorf("Expected retry count to survive requeue, got %d", h.RetryCount)
	}

	if err := h.TransitionTo(HeadlineStatus("archived"), ""); !errors.Is(err, ErrInvalidHeadlineStatus) {
		t.Errorf("Expected ErrInvalidHeadlineStatus, got %v", err)
	}
}
