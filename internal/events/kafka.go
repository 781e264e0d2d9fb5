package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/hazardmap/internal/models"
	kafkago "github.com/segmentio/kafka-go"
)

// HazardUpdate is the payload of a hazard update message.
type HazardUpdate struct {
	Cell   string        `json:"cell"`
	Hazard models.Hazard `json:"hazard"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher produces hazard updates to a Kafka topic.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates a producer for topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

// PublishHazard writes one message keyed by kind and cell, so updates to the same record
// land on the same partition in order.
func (p *KafkaPublisher) PublishHazard(ctx context.Context, cell string, hazard models.Hazard) error {
	msg, err := serializeToMessage(cell, hazard)
	if err != nil {
		return err
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish hazard update: %w", err)
	}
	p.logger.DebugContext(ctx, "Hazard update published", "kind", hazard.Kind, "cell", cell)

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(cell string, hazard models.Hazard) (kafkago.Message, error) {
	data, err := json.Marshal(HazardUpdate{Cell: cell, Hazard: hazard})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize hazard update: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(hazard.Kind + "|" + cell),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(hazard.Kind)},
			{Key: "latest_update", Value: []byte(hazard.LastUpdate.Format(time.RFC3339))},
		},
	}, nil
}
