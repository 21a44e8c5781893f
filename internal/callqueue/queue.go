package callqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDelay is the minimum start-to-start spacing used when none is configured.
const DefaultDelay = 3 * time.Second

const (
	backlogWarnDepth    = 10
	backlogWarnInterval = 30 * time.Second
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("call queue is closed")

	// ErrReentrantSubmit is returned when a running job calls Submit on its own
	// queue. Waiting for that result would deadlock the single worker; jobs
	// schedule follow-up work with Enqueue instead.
	ErrReentrantSubmit = errors.New("synchronous submit from inside a queued job")
)

// Job is a unit of work executed by the queue.
type Job func(ctx context.Context) (any, error)

// Result is the outcome of a job.
type Result struct {
	Value any
	Err   error
}

// Submitter runs a job through a queue and waits for its result.
type Submitter interface {
	Submit(ctx context.Context, job Job) (any, error)
}

// Config holds queue options.
type Config struct {
	// Delay is the minimum spacing between the starts of two consecutive
	// jobs. Zero disables spacing.
	Delay time.Duration
}

// Option customizes a Queue.
type Option func(*Queue)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(q *Queue) { q.clock = c }
}

type workerKey struct{}

type request struct {
	ctx  context.Context
	job  Job
	done chan Result
}

// Queue is a FIFO of jobs drained by a single worker goroutine.
type Queue struct {
	mu      sync.Mutex
	pending []*request
	closed  bool

	wake   chan struct{}
	clock  Clock
	delay  time.Duration
	logger *slog.Logger

	// lastStart is the clock reading taken right before the previous job
	// ran. Only the worker goroutine touches it.
	lastStart time.Time

	backlogLog rate.Sometimes

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a queue and starts its worker. Call Close to stop it.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Queue {
	if cfg.Delay < 0 {
		logger.Warn("negative queue delay specified, disabling spacing",
			"specified_delay", cfg.Delay)
		cfg.Delay = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		wake:       make(chan struct{}, 1),
		clock:      SystemClock{},
		delay:      cfg.Delay,
		logger:     logger.With("component", "call_queue"),
		backlogLog: rate.Sometimes{Interval: backlogWarnInterval},
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.wg.Add(1)
	go q.run()

	return q
}

// Submit appends job to the queue and blocks until it has run or ctx is
// done. A job whose submitter gave up before its turn is never started.
func (q *Queue) Submit(ctx context.Context, job Job) (any, error) {
	if owner, _ := ctx.Value(workerKey{}).(*Queue); owner == q {
		return nil, ErrReentrantSubmit
	}

	req, err := q.push(ctx, job)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-req.done:
		return res.Value, res.Err
	case <-ctx.Done():
		q.remove(req)
		return nil, ctx.Err()
	}
}

// Enqueue appends job to the queue without waiting. The returned channel
// receives exactly one Result. Jobs may call Enqueue to schedule follow-up
// work on the same queue.
func (q *Queue) Enqueue(ctx context.Context, job Job) <-chan Result {
	req, err := q.push(ctx, job)
	if err != nil {
		done := make(chan Result, 1)
		done <- Result{Err: err}
		return done
	}
	return req.done
}

// Len returns the number of jobs waiting to start. The running job is not counted.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Delay returns the configured start-to-start spacing.
func (q *Queue) Delay() time.Duration {
	return q.delay
}

// Close stops the worker after the running job finishes. Jobs still waiting
// fail with ErrQueueClosed.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	remaining := q.pending
	q.pending = nil
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()

	for _, req := range remaining {
		req.done <- Result{Err: ErrQueueClosed}
	}
	q.logger.Info("call queue closed", "abandoned_jobs", len(remaining))
}

func (q *Queue) push(ctx context.Context, job Job) (*request, error) {
	if job == nil {
		return nil, fmt.Errorf("callqueue: nil job")
	}
	req := &request{ctx: ctx, job: job, done: make(chan Result, 1)}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}
	q.pending = append(q.pending, req)
	depth := len(q.pending)
	q.mu.Unlock()

	q.logger.Debug("call enqueued", "queue_depth", depth)
	if depth >= backlogWarnDepth {
		q.backlogLog.Do(func() {
			q.logger.Warn("call queue backlog",
				"queue_depth", depth,
				"estimated_drain", time.Duration(depth)*q.delay)
		})
	}

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return req, nil
}

func (q *Queue) remove(target *request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, req := range q.pending {
		if req == target {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

func (q *Queue) pop() *request {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	req := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return req
}

// run is the single worker loop.
func (q *Queue) run() {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-q.wake:
		}

		for {
			req := q.pop()
			if req == nil {
				break
			}
			if !q.dispatch(req) {
				return
			}
		}
	}
}

// dispatch waits until at least delay has passed since the previous job
// started, then runs req. It returns false when the queue was closed while
// waiting.
func (q *Queue) dispatch(req *request) bool {
	if err := req.ctx.Err(); err != nil {
		req.done <- Result{Err: err}
		return true
	}

	for wait := q.untilNextStart(); wait > 0; wait = q.untilNextStart() {
		q.logger.Debug("waiting for call slot", "wait_ms", wait.Milliseconds(), "queue_depth", q.Len())
		if err := q.clock.Sleep(q.ctx, wait); err != nil {
			req.done <- Result{Err: ErrQueueClosed}
			return false
		}
		// A caller that gave up during the wait does not use the slot.
		if err := req.ctx.Err(); err != nil {
			req.done <- Result{Err: err}
			return true
		}
	}

	req.done <- q.execute(req)
	return true
}

// untilNextStart is measured from the previous job's actual start, so a
// late start pushes the next one back by the same amount.
func (q *Queue) untilNextStart() time.Duration {
	if q.delay <= 0 || q.lastStart.IsZero() {
		return 0
	}
	return q.lastStart.Add(q.delay).Sub(q.clock.Now())
}

func (q *Queue) execute(req *request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("queued call panicked", "panic", r)
			res = Result{Err: fmt.Errorf("callqueue: job panicked: %v", r)}
		}
	}()

	ctx := context.WithValue(req.ctx, workerKey{}, q)
	q.lastStart = q.clock.Now()
	value, err := req.job(ctx)
	return Result{Value: value, Err: err}
}

// Do runs fn through s and returns its typed result.
func Do[T any](ctx context.Context, s Submitter, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := s.Submit(ctx, func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		return v, err
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok && value != nil {
		return zero, fmt.Errorf("callqueue: unexpected result type %T", value)
	}
	return typed, nil
}
