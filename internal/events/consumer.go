package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Sink receives decoded session events from a consumer.
type Sink interface {
	HandleSessionEvent(ctx context.Context, event *SessionEvent) error
}

// messageReader is the slice of kafka.Reader the consumer needs.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads session events from Kafka and forwards them to a sink.
// Malformed payloads and sink failures are logged and skipped; the loop only
// stops when the context is cancelled.
type Consumer struct {
	reader messageReader
	sink   Sink
}

// NewKafkaConsumer builds a consumer over a Kafka reader in the given group.
func NewKafkaConsumer(brokers []string, topic, groupID string, sink Sink) (*Consumer, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, fmt.Errorf("events: brokers and topic are required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	return &Consumer{reader: reader, sink: sink}, nil
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("events: kafka read failed", slog.String("error", err.Error()))
			continue
		}

		var event SessionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			slog.Warn("events: skipping malformed event",
				slog.String("error", err.Error()),
				slog.Int64("offset", msg.Offset),
			)
			continue
		}

		handleCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := c.sink.HandleSessionEvent(handleCtx, &event); err != nil {
			slog.Error("events: sink failed",
				slog.String("type", event.Type),
				slog.String("session_id", event.SessionID),
				slog.String("error", err.Error()),
			)
		}
		cancel()
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
