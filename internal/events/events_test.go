package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	t.Parallel()

	payload := ArticleCreatedPayload{
		ArticleID:  uuid.New(),
		HeadlineID: uuid.New(),
		TaskID:     uuid.New(),
		Tags:       []string{"solar"},
	}

	event, err := NewEvent(TypeArticleCreated, payload.HeadlineID.String(), payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeArticleCreated, event.Type)
	assert.Equal(t, payload.HeadlineID.String(), event.Key)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded ArticleCreatedPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEventRejectsUnencodablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewEvent(TypeHeadlineFailed, "k", make(chan int))
	assert.Error(t, err)
}

func TestNoopEmitter(t *testing.T) {
	t.Parallel()

	event, err := NewEvent(TypeHeadlineFailed, "k", HeadlineFailedPayload{Error: "boom"})
	require.NoError(t, err)
	assert.NoError(t, NoopEmitter{}.EmitEvent(context.Background(), event))
}

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	mu           sync.Mutex
	LastEvent    *Event
	HandlerError error
	HandledCount int
}

// HandleEvent implements EventHandler.
func (m *MockEventHandler) HandleEvent(_ context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastEvent = event
	m.HandledCount++
	return m.HandlerError
}
