// Package admin implements the REST API handlers for admin operations.
// It provides endpoints for inspecting and reloading the baseline policy.
package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/relaychat/supportgate/internal/policy"
	"github.com/relaychat/supportgate/model"
)

// GetPolicy returns a summary of the current baseline policy snapshot.
func GetPolicy(resolver *policy.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, source := resolver.Builtin()
		return c.JSON(summarize(snapshot, source))
	}
}

// PostPolicyReload re-reads the built-in policy token file and returns the
// resulting summary.
func PostPolicyReload(resolver *policy.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resolver.ReloadBuiltin()
		snapshot, source := resolver.Builtin()
		return c.JSON(fiber.Map{
			"success": true,
			"policy":  summarize(snapshot, source),
		})
	}
}

func summarize(snapshot *model.SupportedVersions, source string) model.PolicySummary {
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
	return summary
}
