package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/events"
	"github.com/phrazzld/newsdesk/internal/store"
)

// StuckErrorMessage is recorded on headlines failed by the sweeper.
const StuckErrorMessage = "processing timed out"

// RunnerConfig holds configuration for the background runner.
type RunnerConfig struct {
	// StuckAfter is how long a headline may stay in processing before the
	// sweeper fails it.
	StuckAfter time.Duration

	// SweepInterval defines how often to check for stuck headlines.
	SweepInterval time.Duration

	// SchedulerEnabled turns on the daily schedule dispatcher.
	SchedulerEnabled bool

	// ScheduleInterval defines how often schedules are checked. Schedules
	// have minute resolution, so this should not exceed a minute.
	ScheduleInterval time.Duration

	// QueueSize bounds the scheduled runs waiting for a worker.
	QueueSize int

	// RunLimit caps the headlines processed per scheduled run.
	RunLimit int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		StuckAfter:       30 * time.Minute,
		SweepInterval:    5 * time.Minute,
		ScheduleInterval: time.Minute,
		QueueSize:        100,
		RunLimit:         10,
	}
}

// ConfigFromPipeline derives the runner settings from pipeline config.
func ConfigFromPipeline(cfg config.PipelineConfig) RunnerConfig {
	rc := DefaultRunnerConfig()
	if cfg.StuckAfterMinutes > 0 {
		rc.StuckAfter = time.Duration(cfg.StuckAfterMinutes) * time.Minute
	}
	if cfg.SweepIntervalMinutes > 0 {
		rc.SweepInterval = time.Duration(cfg.SweepIntervalMinutes) * time.Minute
	}
	if cfg.ManualRunLimit > 0 {
		rc.RunLimit = cfg.ManualRunLimit
	}
	rc.SchedulerEnabled = cfg.SchedulerEnabled
	return rc
}

// Runner owns the pipeline's background loops.
type Runner struct {
	tasks     store.TaskStore
	headlines store.HeadlineStore
	runs      ManualRunner
	emitter   events.EventEmitter
	queue     *JobQueue
	pool      *WorkerPool
	config    RunnerConfig
	now       func() time.Time
	logger    *slog.Logger

	mu         sync.Mutex
	dispatched map[uuid.UUID]time.Time
}

// NewRunner creates a Runner. A nil emitter discards events.
func NewRunner(
	tasks store.TaskStore,
	headlines store.HeadlineStore,
	runs ManualRunner,
	emitter events.EventEmitter,
	cfg RunnerConfig,
	logger *slog.Logger,
) *Runner {
	defaults := DefaultRunnerConfig()
	if cfg.StuckAfter <= 0 {
		cfg.StuckAfter = defaults.StuckAfter
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaults.SweepInterval
	}
	if cfg.ScheduleInterval <= 0 {
		cfg.ScheduleInterval = defaults.ScheduleInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "task_runner"))

	queue := NewJobQueue(cfg.QueueSize, logger)
	pool := NewWorkerPool(queue, DefaultWorkerPoolConfig(), logger)

	return &Runner{
		tasks:      tasks,
		headlines:  headlines,
		runs:       runs,
		emitter:    emitter,
		queue:      queue,
		pool:       pool,
		config:     cfg,
		now:        time.Now,
		logger:     logger,
		dispatched: make(map[uuid.UUID]time.Time),
	}
}

// Run sweeps once, then runs the sweeper and (when enabled) the scheduler
// until ctx is cancelled. It always returns nil after a clean shutdown.
func (r *Runner) Run(ctx context.Context) error {
	if _, err := r.SweepStuck(ctx); err != nil {
		r.logger.Error("initial stuck headline sweep failed", slog.String("error", err.Error()))
	}

	sweep := time.NewTicker(r.config.SweepInterval)
	defer sweep.Stop()

	var schedule <-chan time.Time
	if r.config.SchedulerEnabled {
		r.pool.Start()
		ticker := time.NewTicker(r.config.ScheduleInterval)
		defer ticker.Stop()
		schedule = ticker.C
	}

	r.logger.Info("task runner started",
		slog.Duration("stuck_after", r.config.StuckAfter),
		slog.Duration("sweep_interval", r.config.SweepInterval),
		slog.Bool("scheduler_enabled", r.config.SchedulerEnabled))

	for {
		select {
		case <-ctx.Done():
			r.stop()
			return nil

		case <-sweep.C:
			if _, err := r.SweepStuck(ctx); err != nil {
				r.logger.Error("stuck headline sweep failed", slog.String("error", err.Error()))
			}

		case <-schedule:
			if _, err := r.DispatchDue(ctx, r.now()); err != nil {
				r.logger.Error("schedule dispatch failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (r *Runner) stop() {
	r.queue.Close()
	if r.config.SchedulerEnabled {
		r.pool.Stop()
	}
	r.logger.Info("task runner stopped")
}

// SweepStuck fails every headline that has been processing for longer than
// StuckAfter and emits headline.failed for each. It returns their IDs.
func (r *Runner) SweepStuck(ctx context.Context) ([]uuid.UUID, error) {
	cutoff := r.now().Add(-r.config.StuckAfter)
	ids, err := r.headlines.FailStale(ctx, cutoff, StuckErrorMessage)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		payload := events.HeadlineFailedPayload{HeadlineID: id, Error: StuckErrorMessage}
		if h, err := r.headlines.GetByID(ctx, id); err == nil {
			payload.TaskID = h.TaskID
		}

		event, err := events.NewEvent(events.TypeHeadlineFailed, id.String(), payload)
		if err == nil {
			err = r.emitter.EmitEvent(ctx, event)
		}
		if err != nil {
			r.logger.Warn("failed to emit event",
				slog.String("headline_id", id.String()),
				slog.String("error", err.Error()))
		}
	}

	if len(ids) > 0 {
		r.logger.Warn("failed stuck headlines", slog.Int("count", len(ids)))
	}
	return ids, nil
}

// DispatchDue enqueues a scheduled run for every active task due at now. A
// task is dispatched at most once per scheduled minute. It returns the
// number of runs enqueued.
func (r *Runner) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	tasks, err := r.tasks.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	minute := now.UTC().Truncate(time.Minute)
	r.mu.Lock()
	defer r.mu.Unlock()

	enqueued := 0
	for _, t := range tasks {
		if !t.DueAt(now) {
			continue
		}
		if last, ok := r.dispatched[t.ID]; ok && last.Equal(minute) {
			continue
		}

		job := NewScheduledRunJob(t.ID, r.config.RunLimit, r.runs, r.logger)
		if err := r.queue.Enqueue(job); err != nil {
			if errors.Is(err, ErrQueueClosed) {
				return enqueued, err
			}
			r.logger.Error("failed to enqueue scheduled run",
				slog.String("task_id", t.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		r.dispatched[t.ID] = minute
		enqueued++
	}

	if enqueued > 0 {
		r.logger.Info("dispatched scheduled runs", slog.Int("count", enqueued))
	}
	return enqueued, nil
}

// QueueLen returns the number of scheduled runs waiting for a worker.
func (r *Runner) QueueLen() int {
	return r.queue.Len()
}
