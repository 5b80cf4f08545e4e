package middleware

import (
	"context"
	"strings"

	"chronoflow-backend/internal/adminauth"
	"chronoflow-backend/internal/pkg/httpx"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIDLocal = "user_id"
const userEmailLocal = "user_email"

// UserResolver turns a bearer token into an authenticated user identity.
type UserResolver interface {
	ResolveToken(ctx context.Context, token string) (userID uuid.UUID, email string, err error)
}

// RequireUser ensures a valid Authorization: Bearer token. Returns 401 with
// the standard error shape if not.
func RequireUser(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := ""
		if strings.HasPrefix(header, "Bearer ") {
			token = header[len("Bearer "):]
		}
		if token == "" {
			return httpx.Err(c, fiber.StatusUnauthorized, "Authentication required", nil)
		}
		userID, email, err := resolver.ResolveToken(c.Context(), token)
		if err != nil {
			return httpx.Err(c, fiber.StatusUnauthorized, "Invalid session, please sign in again", nil)
		}
		c.Locals(userIDLocal, userID)
		c.Locals(userEmailLocal, email)
		return c.Next()
	}
}

// OptionalUser resolves a bearer token when one is present but never
// rejects. Handlers see an anonymous request if the token is absent or bad.
func OptionalUser(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(header, "Bearer ") {
			token := header[len("Bearer "):]
			if userID, email, err := resolver.ResolveToken(c.Context(), token); err == nil {
				c.Locals(userIDLocal, userID)
				c.Locals(userEmailLocal, email)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id set by RequireUser.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDLocal).(uuid.UUID)
	return id, ok
}

// UserEmail returns the authenticated user's email set by RequireUser.
func UserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(userEmailLocal).(string)
	return email
}

// RequireAdmin gates /admin routes on a valid admin session cookie.
func RequireAdmin(secret string, isProduction bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := adminauth.TokenFromRequest(c, isProduction)
		if token == "" || !adminauth.VerifySessionToken(secret, token) {
			return httpx.Err(c, fiber.StatusUnauthorized, "Unauthorized", nil)
		}
		return c.Next()
	}
}
