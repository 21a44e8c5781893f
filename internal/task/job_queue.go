package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the JobQueue
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// JobQueue is a buffered job queue that satisfies both JobQueueReader and
// JobQueueWriter.
type JobQueue struct {
	mu     sync.Mutex
	jobs   chan Job
	logger *slog.Logger
	closed bool
}

var (
	_ JobQueueReader = (*JobQueue)(nil)
	_ JobQueueWriter = (*JobQueue)(nil)
)

// NewJobQueue creates a new job queue with the specified buffer size.
func NewJobQueue(size int, logger *slog.Logger) *JobQueue {
	if size <= 0 {
		size = 1
	}
	return &JobQueue{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Enqueue adds a job without blocking. It fails with ErrQueueFull when the
// buffer is full and ErrQueueClosed after Close.
func (q *JobQueue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("job enqueued",
			slog.String("job_id", job.ID().String()),
			slog.String("job_type", job.Type()),
			slog.Int("queue_len", len(q.jobs)),
			slog.Int("queue_cap", cap(q.jobs)))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close closes the job queue. Jobs already buffered can still be consumed.
func (q *JobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("job queue closed")
	}
}

// GetChannel returns a read-only channel for consuming jobs.
func (q *JobQueue) GetChannel() <-chan Job {
	return q.jobs
}

// Len returns the number of buffered jobs.
func (q *JobQueue) Len() int {
	return len(q.jobs)
}
