// Package support handles Kafka event processing for expiration message updates.
package support

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/relaychat/supportgate/model"
)

// ServerStore defines the persistence operations the event handler needs.
type ServerStore interface {
	FindServerByURL(ctx context.Context, url string) (*model.Server, error)
	UpsertServer(ctx context.Context, server *model.Server) error
	SaveDispatchRecord(ctx context.Context, record *model.DispatchRecord) error
}

// HandleExpirationMessageUpdated processes expiration message update events
// from Kafka: it stamps the stored server record with the latest evaluation
// outcome and appends a dispatch-history entry.
func HandleExpirationMessageUpdated(ctx context.Context, msg []byte, store ServerStore) error {
	var event ExpirationMessageUpdatedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal ExpirationMessageUpdatedEvent: %w", err)
	}

	if event.URL == "" {
		return fmt.Errorf("invalid event: missing server url")
	}

	log.Printf("Processing expiration message update for %s (supported=%t)", event.URL, event.Supported)

	server, err := store.FindServerByURL(ctx, event.URL)
	if err != nil {
		return fmt.Errorf("failed to load server %s: %w", event.URL, err)
	}
	if server == nil {
		server = model.NewServer(event.URL, "")
	}

	supported := event.Supported
	server.Supported = &supported
	server.ExpirationMessage = event.Message
	server.LastCheckedAt = event.EventTime

	if err := store.UpsertServer(ctx, server); err != nil {
		return fmt.Errorf("failed to store server %s: %w", event.URL, err)
	}

	record := &model.DispatchRecord{
		ObjType:           "DispatchRecord",
		URL:               event.URL,
		Supported:         event.Supported,
		ExpirationMessage: event.Message,
		DispatchedAt:      event.EventTime,
	}
	if record.DispatchedAt.IsZero() {
		record.DispatchedAt = time.Now().UTC()
	}

	if err := store.SaveDispatchRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to store dispatch record for %s: %w", event.URL, err)
	}

	log.Printf("Successfully processed expiration message update for %s", event.URL)
	return nil
}
