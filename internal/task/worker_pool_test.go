package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool(t *testing.T) {
	t.Parallel()

	t.Run("executes queued jobs", func(t *testing.T) {
		t.Parallel()
		q := NewJobQueue(10, testLogger())
		pool := NewWorkerPool(q, DefaultWorkerPoolConfig(), testLogger())
		pool.Start()
		defer pool.Stop()

		var executed atomic.Int32
		for i := 0; i < 5; i++ {
			require.NoError(t, q.Enqueue(newMockJob(func(context.Context) error {
				executed.Add(1)
				return nil
			})))
		}

		assert.Eventually(t, func() bool { return executed.Load() == 5 }, time.Second, 5*time.Millisecond)
	})

	t.Run("error handler receives failures", func(t *testing.T) {
		t.Parallel()
		q := NewJobQueue(10, testLogger())
		pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 0}, testLogger())

		var mu sync.Mutex
		var failed []Job
		pool.SetErrorHandler(func(job Job, err error) {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, job)
		})
		pool.Start()
		defer pool.Stop()

		job := newMockJob(func(context.Context) error { return errors.New("boom") })
		require.NoError(t, q.Enqueue(job))

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(failed) == 1 && failed[0].ID() == job.ID()
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("stop cancels running jobs", func(t *testing.T) {
		t.Parallel()
		q := NewJobQueue(1, testLogger())
		pool := NewWorkerPool(q, DefaultWorkerPoolConfig(), testLogger())
		pool.Start()

		started := make(chan struct{})
		require.NoError(t, q.Enqueue(newMockJob(func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})))

		<-started
		done := make(chan struct{})
		go func() {
			pool.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker pool did not stop")
		}
	})
}
