// Package graphql assembles the root schema from the module query fields.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/relaychat/supportgate/database"
	"github.com/relaychat/supportgate/graphql/modules/support"
	"github.com/relaychat/supportgate/internal/policy"
)

// CreateSchema builds the root query schema over the shared database
// connection and policy resolver.
func CreateSchema(db database.DBConnection, resolver *policy.Resolver) (graphql.Schema, error) {
	fields := graphql.Fields{}

	for name, field := range support.GetQueryFields(db, resolver) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: rootQuery,
	})
}
