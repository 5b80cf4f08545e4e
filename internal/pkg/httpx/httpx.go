package httpx

import (
	"errors"

	"chronoflow-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// OK sends a 200 response with the given payload. API responses are never
// cacheable (status lookups and portal pages carry per-user data).
func OK(c *fiber.Ctx, data interface{}) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).JSON(data)
}

// Err sends an error response in the uniform {"error": message} shape.
// Extra fields (e.g. retryAfter) are merged into the top-level object.
func Err(c *fiber.Ctx, status int, message string, extra fiber.Map) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	body := fiber.Map{"error": message}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// Fail translates a service error into the uniform error shape. Server-side
// failures carry a wrapped cause the client must never see, so it is logged
// here before the translation drops it.
func Fail(c *fiber.Ctx, err error) error {
	status := apperr.StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		cause := errors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		log.Error().
			Err(cause).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg(apperr.MessageOf(err))
	}
	return Err(c, status, apperr.MessageOf(err), nil)
}
