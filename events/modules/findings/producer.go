// Package findings handles Kafka event production for completed
// prioritization runs.
package findings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ortelius/rpi-backend/model"
	"github.com/segmentio/kafka-go"
)

// RunProducer handles sending run-completed events to Kafka
type RunProducer struct {
	Writer *kafka.Writer
}

// NewRunProducer initializes a new Kafka writer for run events
func NewRunProducer(brokers []string, topic string) *RunProducer {
	return &RunProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishRunCompleted sends the event to the Kafka topic
func (p *RunProducer) PublishRunCompleted(ctx context.Context, run model.RunSummary) error {
	event := RunCompletedEvent{
		EventType:     "rpi.run.completed",
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		Run:           run,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(run.RunID),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *RunProducer) Close() error {
	return p.Writer.Close()
}
