package generation

import (
	"context"

	"github.com/phrazzld/newsdesk/internal/callqueue"
)

// QueuedClient runs every call of an inner Client through a shared queue.
// Health and profile calls share the budget with chat calls.
type QueuedClient struct {
	inner Client
	queue callqueue.Submitter
}

var _ Client = (*QueuedClient)(nil)

// NewQueuedClient wraps inner so that all of its calls go through queue.
func NewQueuedClient(inner Client, queue callqueue.Submitter) *QueuedClient {
	return &QueuedClient{inner: inner, queue: queue}
}

// Health implements Client.
func (c *QueuedClient) Health(ctx context.Context) (*Health, error) {
	return callqueue.Do(ctx, c.queue, c.inner.Health)
}

// ListProfiles implements Client.
func (c *QueuedClient) ListProfiles(ctx context.Context) ([]Profile, error) {
	return callqueue.Do(ctx, c.queue, c.inner.ListProfiles)
}

// Chat implements Client.
func (c *QueuedClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if req.Message == "" {
		return "", ErrEmptyMessage
	}
	return callqueue.Do(ctx, c.queue, func(ctx context.Context) (string, error) {
		return c.inner.Chat(ctx, req)
	})
}
