// Package support defines types for Kafka event processing of expiration message updates.
package support

import (
	"time"

	"github.com/relaychat/supportgate/model"
)

// ExpirationMessageUpdatedEvent represents an expiration message state change
// published to Kafka after a server evaluation.
type ExpirationMessageUpdatedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	// URL identifies the evaluated workspace server
	URL string `json:"url"`

	// Supported is the evaluation outcome
	Supported bool `json:"supported"`

	// Message is nil when the evaluation cleared the banner
	Message *model.TranslatedMessage `json:"message,omitempty"`
}
