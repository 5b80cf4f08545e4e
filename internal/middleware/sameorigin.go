package middleware

import (
	"net/url"

	"chronoflow-backend/internal/pkg/httpx"

	"github.com/gofiber/fiber/v2"
)

// SameOrigin rejects state-changing cross-site requests. It checks Origin
// first, then Referer; same-origin requests that omit both are accepted via
// Sec-Fetch-Site.
func SameOrigin(publicOrigin string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hasSameOrigin(c, publicOrigin) {
			return c.Next()
		}
		return httpx.Err(c, fiber.StatusForbidden, "Forbidden", nil)
	}
}

func hasSameOrigin(c *fiber.Ctx, publicOrigin string) bool {
	if origin := c.Get(fiber.HeaderOrigin); origin != "" {
		return origin == publicOrigin
	}
	referer := c.Get(fiber.HeaderReferer)
	if referer == "" {
		site := c.Get("Sec-Fetch-Site")
		return site == "same-origin" || site == "same-site"
	}
	u, err := url.Parse(referer)
	if err != nil {
		return false
	}
	return u.Scheme+"://"+u.Host == publicOrigin
}
