package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/core"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	_ core.EventProducer = (*Producer)(nil)
	_ core.EventProducer = NoOpProducer{}
)

// messageWriter is the subset of *kafka.Writer the producer relies on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON value of every catalog change message.
type Envelope struct {
	Type      string      `json:"type"`
	Key       string      `json:"key"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type Producer struct {
	writer messageWriter
	log    *zap.Logger
	now    func() time.Time
}

func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // events for one entity stay ordered on one partition
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}, log)
}

func newProducer(w messageWriter, log *zap.Logger) *Producer {
	return &Producer{
		writer: w,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Publish writes one event keyed by the entity's hierarchical key.
func (p *Producer) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	value, err := json.Marshal(Envelope{
		Type:      eventType,
		Key:       key,
		Payload:   payload,
		Timestamp: p.now(),
	})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}); err != nil {
		return fmt.Errorf("write %s event: %w", eventType, err)
	}

	p.log.Debug("published catalog event", zap.String("event_type", eventType), zap.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoOpProducer discards every event. It is used when Kafka is disabled.
type NoOpProducer struct{}

func NewNoOpProducer() NoOpProducer { return NoOpProducer{} }

func (NoOpProducer) Publish(context.Context, string, string, interface{}) error { return nil }

func (NoOpProducer) Close() error { return nil }
