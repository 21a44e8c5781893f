package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Pipeline event types.
const (
	// TypeArticleCreated is emitted after a headline was rewritten and stored.
	TypeArticleCreated = "article.created"

	// TypeHeadlineFailed is emitted after a rewrite attempt failed.
	TypeHeadlineFailed = "headline.failed"
)

// Event is a notification about a pipeline state change.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Key groups related events, e.g. the headline ID. Publishers use it as
	// the partition key.
	Key string `json:"key"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// ArticleCreatedPayload is the payload of TypeArticleCreated.
type ArticleCreatedPayload struct {
	ArticleID  uuid.UUID `json:"article_id"`
	HeadlineID uuid.UUID `json:"headline_id"`
	TaskID     uuid.UUID `json:"task_id"`
	Tags       []string  `json:"tags"`
}

// HeadlineFailedPayload is the payload of TypeHeadlineFailed.
type HeadlineFailedPayload struct {
	HeadlineID uuid.UUID `json:"headline_id"`
	TaskID     uuid.UUID `json:"task_id"`
	Error      string    `json:"error"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event of eventType keyed by key with payload encoded as JSON.
func NewEvent(eventType, key string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Key:       key,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NoopEmitter) EmitEvent(context.Context, *Event) error { return nil }
