// Package events publishes session and cart activity to Kafka. Publishing is
// best-effort everywhere: a broker outage never fails the user-facing
// operation that produced the event.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUserEvents = "user_events"
	TopicCartEvents = "cart_events"
)

type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewProducer connects a writer to brokers. With no brokers configured it
// returns a disabled producer whose Publish is a no-op, so callers never
// need to nil-check.
func NewProducer(brokers []string, log *slog.Logger) *Producer {
	if len(brokers) == 0 {
		return &Producer{log: log}
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}
	return &Producer{writer: w, log: log}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, event map[string]any) {
	if p == nil || p.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("event marshal failed", "topic", topic, "error", err)
		return
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("event publish failed", "topic", topic, "error", err)
	}
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
