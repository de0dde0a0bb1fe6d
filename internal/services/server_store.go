package services

import (
	"context"

	"github.com/relaychat/supportgate/database"
	support "github.com/relaychat/supportgate/events/modules/support"
	"github.com/relaychat/supportgate/model"
)

// ServerStoreWrapper implements support.ServerStore over the shared database
// connection, so Kafka-driven updates go through the same persistence path as
// the REST API.
type ServerStoreWrapper struct {
	DB database.DBConnection
}

// FindServerByURL loads the stored server record for a url.
func (w *ServerStoreWrapper) FindServerByURL(ctx context.Context, url string) (*model.Server, error) {
	return database.FindServerByURL(ctx, w.DB.Database, url)
}

// UpsertServer inserts or updates a server record.
func (w *ServerStoreWrapper) UpsertServer(ctx context.Context, server *model.Server) error {
	return database.UpsertServer(ctx, w.DB.Database, server)
}

// SaveDispatchRecord appends a dispatch-history entry.
func (w *ServerStoreWrapper) SaveDispatchRecord(ctx context.Context, record *model.DispatchRecord) error {
	return database.SaveDispatchRecord(ctx, w.DB.Database, record)
}

// Ensure compile-time interface check
var _ support.ServerStore = (*ServerStoreWrapper)(nil)
