package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/newsdesk/internal/platform/logger"
)

type subscription struct {
	handler EventHandler
	types   map[string]bool // nil means every type
}

func (s subscription) wants(eventType string) bool {
	return s.types == nil || s.types[eventType]
}

// InMemoryEventEmitter dispatches events synchronously to the handlers
// registered for their type, in registration order.
type InMemoryEventEmitter struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(log *slog.Logger) *InMemoryEventEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: log.With(slog.String("component", "event_emitter")),
	}
}

// RegisterHandler subscribes handler to the given event types, or to every
// type when none are given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...string) {
	sub := subscription{handler: handler}
	if len(types) > 0 {
		sub.types = make(map[string]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}

	e.mu.Lock()
	e.subscriptions = append(e.subscriptions, sub)
	count := len(e.subscriptions)
	e.mu.Unlock()

	e.logger.Debug("registered event handler",
		slog.Int("handler_count", count),
		slog.Any("types", types))
}

// EmitEvent hands event to every subscribed handler. A failing handler does
// not stop delivery to the rest; all failures are joined into the result.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("cannot emit a nil event")
	}
	log := logger.FromContextOrDefault(ctx, e.logger)

	e.mu.RLock()
	subs := make([]subscription, len(e.subscriptions))
	copy(subs, e.subscriptions)
	e.mu.RUnlock()

	var errs []error
	delivered := 0
	for i, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		delivered++
		if err := sub.handler.HandleEvent(ctx, event); err != nil {
			log.Error("event handler failed",
				slog.String("error", err.Error()),
				slog.Int("handler_index", i),
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.Type))
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}

	log.Debug("emitted event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Int("delivered", delivered))
	return errors.Join(errs...)
}
