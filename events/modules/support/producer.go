// Package support handles Kafka event production for expiration message updates.
package support

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/relaychat/supportgate/model"
	"github.com/segmentio/kafka-go"
)

// EventTypeExpirationMessageUpdated is the event contract identifier.
const EventTypeExpirationMessageUpdated = "support.expiration_message.updated"

// Producer handles sending expiration message update events to Kafka
type Producer struct {
	Writer *kafka.Writer
}

// NewProducer initializes a new Kafka writer for support events
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishExpirationMessageUpdated sends the event to the Kafka topic
func (p *Producer) PublishExpirationMessageUpdated(ctx context.Context, serverURL string, supported bool, message *model.TranslatedMessage) error {

	// Construct the Event Contract
	event := ExpirationMessageUpdatedEvent{
		EventType:     EventTypeExpirationMessageUpdated,
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		URL:           serverURL,
		Supported:     supported,
		Message:       message,
	}

	// Marshal to JSON
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Write to Kafka, keyed by server url so per-server ordering holds
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(serverURL),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *Producer) Close() error {
	return p.Writer.Close()
}
