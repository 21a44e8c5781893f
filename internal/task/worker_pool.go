package task

import (
	"context"
	"log/slog"
	"sync"
)

// WorkerPool manages a pool of worker goroutines that process jobs
// from a job queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	// queue provides read access to the jobs to be processed
	queue JobQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is used for cancellation and shutdown signaling
	ctx    context.Context
	cancel context.CancelFunc

	logger *slog.Logger

	// errorHandler is called when a job fails. If nil, errors are only logged.
	errorHandler func(job Job, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start.
	// If zero or negative, defaults to 1.
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with one worker. Every
// job ends in generation calls that share one queue, so more workers only
// add contention.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 1,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration.
func NewWorkerPool(queue JobQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", config.WorkerCount),
			slog.Int("default_count", 1))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:       queue,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// SetErrorHandler sets a handler for job execution failures. Call it before Start.
func (p *WorkerPool) SetErrorHandler(handler func(job Job, err error)) {
	p.errorHandler = handler
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", slog.Int("workers", p.workerCount))
}

// Stop cancels running jobs and waits for every worker to exit.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", slog.Int("worker_id", id))
	jobs := p.queue.GetChannel()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case job, ok := <-jobs:
			if !ok {
				p.logger.Debug("job channel closed, stopping worker", slog.Int("worker_id", id))
				return
			}
			p.process(job, id)
		}
	}
}

func (p *WorkerPool) process(job Job, workerID int) {
	log := p.logger.With(
		slog.String("job_id", job.ID().String()),
		slog.String("job_type", job.Type()),
		slog.Int("worker_id", workerID),
	)

	log.Info("processing job")
	if err := job.Execute(p.ctx); err != nil {
		log.Error("job execution failed", slog.String("error", err.Error()))
		if p.errorHandler != nil {
			p.errorHandler(job, err)
		}
		return
	}
	log.Info("job completed")
}
