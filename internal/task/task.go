package task

import (
	"context"

	"github.com/google/uuid"
)

// Job type constants
const (
	// JobTypeScheduledRun fetches and processes headlines for one search task.
	JobTypeScheduledRun = "scheduled_run"
)

// Job is a unit of background work.
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// JobQueueReader provides read-only access to the job channel
// allowing workers to consume jobs without the ability to enqueue.
type JobQueueReader interface {
	// GetChannel returns a read-only channel for consuming jobs
	GetChannel() <-chan Job
}

// JobQueueWriter provides write access to the job queue.
type JobQueueWriter interface {
	// Enqueue adds a job to the queue for processing.
	// Returns an error if the queue is full or closed.
	Enqueue(job Job) error

	// Close closes the job queue, preventing further submission
	Close()
}
