// Package kafka publishes persisted audit events to a pre-provisioned topic
// so downstream compliance/analytics consumers can react without querying the
// outbox table.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "praxis/pkg/platform/audit"
)

// Sink implements audit.Sink on top of a franz-go producer.
type Sink struct {
	client *kgo.Client
	topic  string
}

// New connects a producer to the seed brokers. Returns nil when no seeds are
// configured (kafka publishing disabled).
func New(seeds []string, topic string) (*Sink, error) {
	if len(seeds) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Sink{client: client, topic: topic}, nil
}

// Publish produces one event record keyed by principal so per-user events
// stay ordered within a partition.
func (s *Sink) Publish(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.PrincipalID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and releases the producer.
func (s *Sink) Close() {
	s.client.Close()
}
