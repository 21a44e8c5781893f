package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/service"
)

// ManualRunner fetches and processes headlines for one search task.
type ManualRunner interface {
	ManualRun(ctx context.Context, taskID uuid.UUID, limit int) (*service.ManualRunResult, error)
}

// ScheduledRunJob performs the manual run of a task whose schedule came due.
type ScheduledRunJob struct {
	id     uuid.UUID
	taskID uuid.UUID
	limit  int
	runner ManualRunner
	logger *slog.Logger
}

var _ Job = (*ScheduledRunJob)(nil)

// NewScheduledRunJob creates a job running taskID through runner. A
// non-positive limit uses the runner's manual-run default.
func NewScheduledRunJob(taskID uuid.UUID, limit int, runner ManualRunner, logger *slog.Logger) *ScheduledRunJob {
	return &ScheduledRunJob{
		id:     uuid.New(),
		taskID: taskID,
		limit:  limit,
		runner: runner,
		logger: logger,
	}
}

// ID implements Job.
func (j *ScheduledRunJob) ID() uuid.UUID { return j.id }

// Type implements Job.
func (j *ScheduledRunJob) Type() string { return JobTypeScheduledRun }

// TaskID returns the search task the job runs.
func (j *ScheduledRunJob) TaskID() uuid.UUID { return j.taskID }

// Execute implements Job.
func (j *ScheduledRunJob) Execute(ctx context.Context) error {
	result, err := j.runner.ManualRun(ctx, j.taskID, j.limit)
	if err != nil {
		return fmt.Errorf("scheduled run of task %s: %w", j.taskID, err)
	}

	j.logger.Info("scheduled run completed",
		slog.String("task_id", j.taskID.String()),
		slog.Int("fetched", result.Fetch.Count),
		slog.Int("processed", result.Process.Processed),
		slog.Int("failed", result.Process.Failed))
	return nil
}
