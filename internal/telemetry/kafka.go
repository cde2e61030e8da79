package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes samples to a Kafka topic, keyed by sensor ID so a
// sensor's readings stay in one partition.
type Kafka struct {
	writer *kafka.Writer
}

// NewKafka builds a writer against the given bootstrap brokers. The
// connection is lazy; broker availability surfaces on first publish.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, s Sample) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(s.SensorID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("kafka write %s: %w", k.writer.Topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
