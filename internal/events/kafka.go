package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

// KafkaPublisher writes JSON-encoded events to one Kafka topic, keyed so
// that events for the same anchor list land on the same partition.
type KafkaPublisher struct {
	w *kgo.Writer
}

// NewKafkaPublisher creates a publisher for a comma-separated broker list.
func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("no kafka topic configured")
	}

	return &KafkaPublisher{
		w: &kgo.Writer{
			Addr:         kgo.TCP(addrs...),
			Topic:        topic,
			Balancer:     &kgo.Hash{},
			RequiredAcks: kgo.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}, nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	msg := kgo.Message{Key: []byte(key), Value: b, Time: time.Now()}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the connection.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
