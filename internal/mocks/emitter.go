package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/newsdesk/internal/events"
)

// RecordingEmitter implements events.EventEmitter and keeps every event.
type RecordingEmitter struct {
	// Err is returned from EmitEvent after recording when set.
	Err error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.EventEmitter = (*RecordingEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (r *RecordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.Err
}

// Events returns the recorded events of eventType, or all of them when
// eventType is empty.
func (r *RecordingEmitter) Events(eventType string) []*events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*events.Event
	for _, e := range r.events {
		if eventType == "" || e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
