// Package kafka publishes pipeline events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/events"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	// batchTimeout bounds how long a single event waits for batch-mates.
	// Events are written one at a time from the rewrite path.
	batchTimeout = 10 * time.Millisecond

	// publishTimeout caps one HandleEvent call, including writer retries.
	publishTimeout = 5 * time.Second
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher is an events.EventHandler that writes every event to Kafka,
// keyed by the event key so all events of one headline share a partition.
type Publisher struct {
	writer  messageWriter
	timeout time.Duration
	logger  *slog.Logger
}

var _ events.EventHandler = (*Publisher)(nil)

// NewPublisher creates a publisher for cfg.KafkaBrokers / cfg.KafkaTopic.
func NewPublisher(cfg config.EventsConfig, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if cfg.KafkaTopic == "" {
		return nil, fmt.Errorf("kafka publisher requires a topic")
	}

	return newPublisher(newWriter(cfg), logger), nil
}

func newWriter(cfg config.EventsConfig) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		MaxAttempts:  3,
		BatchSize:    1,
		BatchTimeout: batchTimeout,
		WriteTimeout: 2 * time.Second,
	}
}

func newPublisher(writer messageWriter, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		writer:  writer,
		timeout: publishTimeout,
		logger:  logger.With(slog.String("component", "kafka_publisher")),
	}
}

// HandleEvent implements events.EventHandler. The write is bounded by the
// publisher timeout even when ctx has no deadline.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.Key),
		Value: value,
		Time:  event.CreatedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID.String())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type))
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}

	p.logger.Debug("published event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type))
	return nil
}

// Close flushes pending writes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
