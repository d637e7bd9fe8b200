package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is one event to publish together with its partition key.
type Message struct {
	Key   string
	Event any
}

type Publisher struct {
	writer messageWriter
}

// NewPublisher writes JSON events to topic. Messages are partitioned by key
// so every event of one client lands on the same partition in order.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// PublishAll encodes every message first and then hands them to the writer
// in a single batch, so nothing is sent if any event fails to encode.
func (p *Publisher) PublishAll(ctx context.Context, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}

	batch := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m.Event)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", m.Key, err)
		}
		batch = append(batch, kafka.Message{Key: []byte(m.Key), Value: data})
	}

	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(batch), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
