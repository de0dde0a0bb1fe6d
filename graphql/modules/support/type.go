// Package support defines the GraphQL types for the server support registry.
package support

import (
	"github.com/graphql-go/graphql"
	"github.com/relaychat/supportgate/model"
)

// TranslatedMessageType represents a resolved expiration banner.
var TranslatedMessageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "TranslatedMessage",
	Fields: graphql.Fields{
		"title":       &graphql.Field{Type: graphql.String},
		"subtitle":    &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"type":        &graphql.Field{Type: graphql.String},
		"link":        &graphql.Field{Type: graphql.String},
	},
})

// ServerType represents a registered workspace server and its latest
// evaluation outcome.
var ServerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Server",
	Fields: graphql.Fields{
		"key":           &graphql.Field{Type: graphql.String},
		"url":           &graphql.Field{Type: graphql.String},
		"title":         &graphql.Field{Type: graphql.String},
		"version":       &graphql.Field{Type: graphql.String},
		"workspace_uid": &graphql.Field{Type: graphql.String},
		"supported": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if server, ok := p.Source.(model.Server); ok && server.Supported != nil {
					return *server.Supported, nil
				}
				return nil, nil
			},
		},
		"expiration_message": &graphql.Field{
			Type: TranslatedMessageType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if server, ok := p.Source.(model.Server); ok && server.ExpirationMessage != nil {
					return *server.ExpirationMessage, nil
				}
				return nil, nil
			},
		},
		"last_checked_at":        &graphql.Field{Type: graphql.String},
		"minimum_client_version": &graphql.Field{Type: graphql.String},
	},
})

// DispatchRecordType represents one entry of a server's dispatch timeline.
var DispatchRecordType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DispatchRecord",
	Fields: graphql.Fields{
		"url":       &graphql.Field{Type: graphql.String},
		"supported": &graphql.Field{Type: graphql.Boolean},
		"expiration_message": &graphql.Field{
			Type: TranslatedMessageType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if record, ok := p.Source.(model.DispatchRecord); ok && record.ExpirationMessage != nil {
					return *record.ExpirationMessage, nil
				}
				return nil, nil
			},
		},
		"dispatched_at": &graphql.Field{Type: graphql.String},
	},
})

// PolicySummaryType represents the admin view of the baseline policy.
var PolicySummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PolicySummary",
	Fields: graphql.Fields{
		"source":         &graphql.Field{Type: graphql.String},
		"timestamp":      &graphql.Field{Type: graphql.String},
		"version_count":  &graphql.Field{Type: graphql.Int},
		"versions":       &graphql.Field{Type: graphql.NewList(graphql.String)},
		"has_exceptions": &graphql.Field{Type: graphql.Boolean},
		"message_count":  &graphql.Field{Type: graphql.Int},
	},
})
