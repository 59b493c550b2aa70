// Package kafka publishes integration events to the message broker. Events
// are keyed by order id so all transitions of one order land on the same
// partition in order.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"agrimarket/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// OrderEventProducer implements ports.EventPublisher over a kafka topic.
type OrderEventProducer struct {
	writer *kafka.Writer
}

// NewOrderEventProducer creates a producer for the given brokers and topic.
func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &OrderEventProducer{writer: writer}
}

// PublishOrderChanged writes the event keyed by order id.
func (p *OrderEventProducer) PublishOrderChanged(ctx context.Context, event ports.OrderChangedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
	})
}

// Close flushes and closes the underlying writer.
func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}
