package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewSearchTask(t *testing.T) {
	t.Parallel()

	task, err := NewSearchTask("Solar", "solar energy Malaysia", "", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !task.IsActive {
		t.Error("Expected new task to be active")
	}
	if task.Schedule != DefaultSchedule {
		t.Errorf("Expected default schedule, got %q", task.Schedule)
	}
	if got := task.EffectiveProfileRef("default-ref"); got != "default-ref" {
		t.Errorf("Expected fallback profile ref, got %q", got)
	}

	if _, err := NewSearchTask("Solar", " ", "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for empty query, got %v", err)
	}
	if _, err := NewSearchTask("Solar", "q", "", "25:99"); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("Expected ErrInvalidSchedule, got %v", err)
	}
}

func TestSearchTaskDueAt(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 4, 8, 0, 30, 0, time.UTC)
	earlier := time.Date(2025, 3, 3, 8, 0, 10, 0, time.UTC)
	sameMinute := time.Date(2025, 3, 4, 8, 0, 5, 0, time.UTC)

	tests := []struct {
		name string
		task SearchTask
		want bool
	}{
		{"never run", SearchTask{IsActive: true, Schedule: "08:00"}, true},
		{"ran yesterday", SearchTask{IsActive: true, Schedule: "08:00", LastRunAt: &earlier}, true},
		{"already ran this minute", SearchTask{IsActive: true, Schedule: "08:00", LastRunAt: &sameMinute}, false},
		{"different minute", SearchTask{IsActive: true, Schedule: "08:01"}, false},
		{"inactive", SearchTask{IsActive: false, Schedule: "08:00"}, false},
		{"bad schedule", SearchTask{IsActive: true, Schedule: "eight"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.DueAt(at); got != tt.want {
				t.Errorf("DueAt() = %v, want %v", got, tt.want)
			}
		})
	}
}
