// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/relaychat/supportgate/database"
	"github.com/relaychat/supportgate/internal/policy"
	"github.com/relaychat/supportgate/internal/serverinfo"
	"github.com/relaychat/supportgate/internal/support"
	"github.com/relaychat/supportgate/restapi/modules/admin"
	"github.com/relaychat/supportgate/restapi/modules/servers"
)

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, db database.DBConnection, schema graphql.Schema, resolver *policy.Resolver, evaluator *support.Evaluator) {
	info := serverinfo.NewClient()

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Server registry and support checks
	api.Post("/servers", servers.PostServer(db, info, evaluator))
	api.Get("/servers", servers.GetServers(db))
	api.Post("/servers/check", servers.PostCheckServer(db, info, evaluator))
	api.Get("/servers/history", servers.GetDispatchHistory(db))

	// Admin policy inspection
	adminGroup := api.Group("/admin")
	adminGroup.Get("/policy", admin.GetPolicy(resolver))
	adminGroup.Post("/policy/reload", admin.PostPolicyReload(resolver))

	log.Println("API routes initialized successfully")
}
