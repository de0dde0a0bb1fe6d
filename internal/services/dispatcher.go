// Package services provides internal service implementations for the supportgate backend.
package services

import (
	"context"
	"log"
	"time"

	supportevents "github.com/relaychat/supportgate/events/modules/support"
	"github.com/relaychat/supportgate/internal/support"
	"github.com/relaychat/supportgate/model"
)

// MessageDispatcher implements support.Dispatcher. When a Kafka producer is
// configured the update is published and the consumer applies it; otherwise
// the update is applied to the store directly.
type MessageDispatcher struct {
	Store    supportevents.ServerStore
	Producer *supportevents.Producer
}

// DispatchExpirationMessage records the outcome of a support evaluation. A
// dispatch only happens for supported servers; a nil message clears the
// banner.
func (d *MessageDispatcher) DispatchExpirationMessage(ctx context.Context, serverURL string, message *model.TranslatedMessage) error {
	if d.Producer != nil {
		return d.Producer.PublishExpirationMessageUpdated(ctx, serverURL, true, message)
	}

	server, err := d.Store.FindServerByURL(ctx, serverURL)
	if err != nil {
		return err
	}
	if server == nil {
		server = model.NewServer(serverURL, "")
	}

	now := time.Now().UTC()
	supported := true
	server.Supported = &supported
	server.ExpirationMessage = message
	server.LastCheckedAt = now

	if err := d.Store.UpsertServer(ctx, server); err != nil {
		return err
	}

	record := &model.DispatchRecord{
		ObjType:           "DispatchRecord",
		URL:               serverURL,
		Supported:         true,
		ExpirationMessage: message,
		DispatchedAt:      now,
	}
	if err := d.Store.SaveDispatchRecord(ctx, record); err != nil {
		log.Printf("Failed to store dispatch record for %s: %v", serverURL, err)
	}

	return nil
}

// Ensure compile-time interface check
var _ support.Dispatcher = (*MessageDispatcher)(nil)
