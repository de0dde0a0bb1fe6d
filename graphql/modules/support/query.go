// Package support defines the GraphQL queries for the server support registry.
package support

import (
	"github.com/graphql-go/graphql"
	"github.com/relaychat/supportgate/database"
	"github.com/relaychat/supportgate/internal/policy"
)

// GetQueryFields returns the support queries to be mounted in the root schema.
func GetQueryFields(db database.DBConnection, resolver *policy.Resolver) graphql.Fields {
	return graphql.Fields{
		"servers": &graphql.Field{
			Type: graphql.NewList(ServerType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveServers(db)
			},
		},
		"serverSupport": &graphql.Field{
			Type: ServerType,
			Args: graphql.FieldConfigArgument{
				"url": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				url := p.Args["url"].(string)
				return ResolveServerSupport(db, url)
			},
		},
		"dispatchHistory": &graphql.Field{
			Type: graphql.NewList(DispatchRecordType),
			Args: graphql.FieldConfigArgument{
				"url":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				url := p.Args["url"].(string)
				limit, _ := p.Args["limit"].(int)
				return ResolveDispatchHistory(db, url, limit)
			},
		},
		"policySummary": &graphql.Field{
			Type: PolicySummaryType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolvePolicySummary(resolver)
			},
		},
	}
}
