// Package servers implements the REST API handlers for workspace server
// registration and support checks.
package servers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/relaychat/supportgate/database"
	"github.com/relaychat/supportgate/internal/serverinfo"
	"github.com/relaychat/supportgate/internal/support"
	"github.com/relaychat/supportgate/model"
	"github.com/relaychat/supportgate/util"
)

// ProcessServerCheck encapsulates the core logic for refreshing a server's
// info and evaluating its support state. It is shared by the registration and
// check handlers so both perform the same refresh, evaluation, and
// persistence steps.
func ProcessServerCheck(ctx context.Context, db database.DBConnection, info *serverinfo.Client, evaluator *support.Evaluator, server *model.Server, now time.Time) (bool, error) {
	// 1. Refresh self-reported metadata; a fetch failure keeps the cached copy
	if info != nil {
		doc, err := info.Fetch(ctx, server.URL)
		if err != nil {
			log.Printf("Server info fetch failed for %s: %v", server.URL, err)
		} else {
			serverinfo.Apply(server, doc)
		}
	}

	// 2. Persist the refreshed record before evaluation
	if err := database.UpsertServer(ctx, db.Database, server); err != nil {
		return false, err
	}

	// 3. Evaluate; a supported outcome dispatches the expiration message
	supported, err := evaluator.IsServerVersionSupported(ctx, server, now)
	if err != nil {
		return false, err
	}

	// 4. An unsupported outcome does not dispatch, so record it here
	if !supported {
		server.Supported = &supported
		server.ExpirationMessage = nil
		server.LastCheckedAt = now
		if err := database.UpsertServer(ctx, db.Database, server); err != nil {
			return false, err
		}
	}

	return supported, nil
}

// PostServer handles POST requests for registering a workspace server.
func PostServer(db database.DBConnection, info *serverinfo.Client, evaluator *support.Evaluator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.RegisterServerRequest

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if util.IsEmpty(req.URL) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Server url is required",
			})
		}

		ctx := c.Context()
		server, err := database.FindServerByURL(ctx, db.Database, req.URL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to look up server: " + err.Error(),
			})
		}
		if server == nil {
			server = model.NewServer(req.URL, req.Title)
		} else if req.Title != "" {
			server.Title = req.Title
		}

		supported, err := ProcessServerCheck(ctx, db, info, evaluator, server, time.Now().UTC())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to evaluate server: " + err.Error(),
			})
		}

		return c.JSON(checkResponse(ctx, db, server, supported))
	}
}

// GetServers handles GET requests listing all registered servers.
func GetServers(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		servers, err := database.ListServers(c.Context(), db.Database)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to list servers: " + err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"servers": servers,
		})
	}
}

// PostCheckServer handles POST requests for re-evaluating a server's support
// state on demand.
func PostCheckServer(db database.DBConnection, info *serverinfo.Client, evaluator *support.Evaluator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.CheckServerRequest

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if util.IsEmpty(req.URL) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Server url is required",
			})
		}

		ctx := c.Context()
		server, err := database.FindServerByURL(ctx, db.Database, req.URL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to look up server: " + err.Error(),
			})
		}
		if server == nil {
			server = model.NewServer(req.URL, "")
		}

		supported, err := ProcessServerCheck(ctx, db, info, evaluator, server, time.Now().UTC())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to evaluate server: " + err.Error(),
			})
		}

		return c.JSON(checkResponse(ctx, db, server, supported))
	}
}

// GetDispatchHistory handles GET requests for a server's dispatch timeline.
func GetDispatchHistory(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url := c.Query("url")
		if url == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Query parameter url is required",
			})
		}

		records, err := database.ListDispatchHistory(c.Context(), db.Database, url, c.QueryInt("limit"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to list dispatch history: " + err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"url":     url,
			"history": records,
		})
	}
}

// checkResponse builds the evaluation response, reloading the stored record
// so a directly applied dispatch shows up in the same reply.
func checkResponse(ctx context.Context, db database.DBConnection, server *model.Server, supported bool) model.CheckServerResponse {
	resp := model.CheckServerResponse{
		Success:   true,
		URL:       server.URL,
		Version:   server.Version,
		Supported: supported,
	}

	if stored, err := database.FindServerByURL(ctx, db.Database, server.URL); err == nil && stored != nil {
		resp.Version = stored.Version
		resp.ExpirationMessage = stored.ExpirationMessage
	}

	return resp
}
