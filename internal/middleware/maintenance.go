package middleware

import (
	"strings"

	"chronoflow-backend/internal/pkg/httpx"

	"github.com/gofiber/fiber/v2"
)

// Maintenance returns 503 for all non-admin routes while maintenance mode is
// on, so admins can still operate the moderation surface.
func Maintenance(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled {
			return c.Next()
		}
		if strings.HasPrefix(c.Path(), "/api/v1/admin") || c.Path() == "/health" {
			return c.Next()
		}
		return httpx.Err(c, fiber.StatusServiceUnavailable, "Service under maintenance", nil)
	}
}
