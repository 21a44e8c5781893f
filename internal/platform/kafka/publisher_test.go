package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/events"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
	block    bool
	deadline time.Time
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	w.deadline, _ = ctx.Deadline()
	if w.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisherHandleEvent(t *testing.T) {
	t.Parallel()

	headlineID := uuid.New()
	event, err := events.NewEvent(events.TypeHeadlineFailed, headlineID.String(), events.HeadlineFailedPayload{
		HeadlineID: headlineID,
		Error:      "upstream unavailable",
	})
	require.NoError(t, err)

	t.Run("writes keyed message with headers", func(t *testing.T) {
		w := &fakeWriter{}
		p := newPublisher(w, nil)

		require.NoError(t, p.HandleEvent(context.Background(), event))
		require.Len(t, w.messages, 1)

		msg := w.messages[0]
		assert.Equal(t, headlineID.String(), string(msg.Key))
		assert.Equal(t, []kafkago.Header{
			{Key: "event_type", Value: []byte(events.TypeHeadlineFailed)},
			{Key: "event_id", Value: []byte(event.ID.String())},
		}, msg.Headers)

		var decoded events.Event
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, event.ID, decoded.ID)

		var payload events.HeadlineFailedPayload
		require.NoError(t, decoded.UnmarshalPayload(&payload))
		assert.Equal(t, "upstream unavailable", payload.Error)
	})

	t.Run("write failure is returned", func(t *testing.T) {
		w := &fakeWriter{err: errors.New("broker down")}
		p := newPublisher(w, nil)

		err := p.HandleEvent(context.Background(), event)
		assert.ErrorContains(t, err, "broker down")
	})

	t.Run("write is bounded without a caller deadline", func(t *testing.T) {
		w := &fakeWriter{}
		require.NoError(t, newPublisher(w, nil).HandleEvent(context.Background(), event))
		assert.WithinDuration(t, time.Now().Add(publishTimeout), w.deadline, time.Second)
	})

	t.Run("stalled broker times out", func(t *testing.T) {
		w := &fakeWriter{block: true}
		p := newPublisher(w, nil)
		p.timeout = 20 * time.Millisecond

		start := time.Now()
		err := p.HandleEvent(context.Background(), event)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("close closes writer", func(t *testing.T) {
		w := &fakeWriter{}
		require.NoError(t, newPublisher(w, nil).Close())
		assert.True(t, w.closed)
	})
}

func TestNewWriterFlushesSingleEvents(t *testing.T) {
	t.Parallel()

	w := newWriter(config.EventsConfig{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "newsdesk.pipeline"})
	defer func() { _ = w.Close() }()

	assert.Equal(t, batchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, 100*time.Millisecond)
	assert.Equal(t, 1, w.BatchSize)
	assert.Equal(t, "newsdesk.pipeline", w.Topic)
}

func TestNewPublisherValidation(t *testing.T) {
	t.Parallel()

	_, err := NewPublisher(config.EventsConfig{KafkaTopic: "t"}, nil)
	assert.Error(t, err)

	_, err = NewPublisher(config.EventsConfig{KafkaBrokers: []string{"localhost:9092"}}, nil)
	assert.Error(t, err)

	p, err := NewPublisher(config.EventsConfig{
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "newsdesk.pipeline",
	}, nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
