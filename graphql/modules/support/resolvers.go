// Package support implements the resolvers for the server support registry.
package support

import (
	"context"

	"github.com/relaychat/supportgate/database"
	"github.com/relaychat/supportgate/internal/policy"
	"github.com/relaychat/supportgate/model"
)

// ResolveServers fetches all registered servers.
func ResolveServers(db database.DBConnection) ([]model.Server, error) {
	return database.ListServers(context.Background(), db.Database)
}

// ResolveServerSupport fetches one server's stored support state by url.
func ResolveServerSupport(db database.DBConnection, url string) (interface{}, error) {
	server, err := database.FindServerByURL(context.Background(), db.Database, url)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, nil
	}
	return *server, nil
}

// ResolveDispatchHistory fetches a server's dispatch timeline, newest first.
func ResolveDispatchHistory(db database.DBConnection, url string, limit int) ([]model.DispatchRecord, error) {
	return database.ListDispatchHistory(context.Background(), db.Database, url, limit)
}

// ResolvePolicySummary summarizes the current baseline policy snapshot.
func ResolvePolicySummary(resolver *policy.Resolver) (model.PolicySummary, error) {
	snapshot, source := resolver.Builtin()

	summary := model.PolicySummary{
		Source:        source,
		Timestamp:     snapshot.Timestamp,
		VersionCount:  len(snapshot.Versions),
		HasExceptions: snapshot.Exceptions != nil,
		MessageCount:  len(snapshot.Messages),
	}
	for _, v := range snapshot.Versions {
		summary.Versions = append(summary.Versions, v.Version)
	}
	return summary, nil
}
