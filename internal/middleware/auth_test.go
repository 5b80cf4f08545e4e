package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"chronoflow-backend/internal/adminauth"
	"chronoflow-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	userID uuid.UUID
	email  string
	fail   bool
}

func (r stubResolver) ResolveToken(_ context.Context, token string) (uuid.UUID, string, error) {
	if r.fail || token != "good-token" {
		return uuid.Nil, "", apperr.Auth("Invalid token")
	}
	return r.userID, r.email, nil
}

func TestRequireUser(t *testing.T) {
	resolver := stubResolver{userID: uuid.New(), email: "a@example.com"}
	app := fiber.New()
	app.Get("/x", RequireUser(resolver), func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		require.True(t, ok)
		assert.Equal(t, resolver.userID, id)
		assert.Equal(t, "a@example.com", UserEmail(c))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	bad := httptest.NewRequest("GET", "/x", nil)
	bad.Header.Set("Authorization", "Bearer forged")
	resp, err = app.Test(bad)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalUser_AnonymousPassesThrough(t *testing.T) {
	resolver := stubResolver{userID: uuid.New(), email: "a@example.com"}
	app := fiber.New()
	app.Get("/x", OptionalUser(resolver), func(c *fiber.Ctx) error {
		_, ok := UserID(c)
		return c.JSON(fiber.Map{"authed": ok})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A bad token degrades to anonymous instead of failing.
	bad := httptest.NewRequest("GET", "/x", nil)
	bad.Header.Set("Authorization", "Bearer forged")
	resp, err = app.Test(bad)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	const secret = "0123456789abcdef0123456789abcdef"
	app := fiber.New()
	app.Get("/x", RequireAdmin(secret, false), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Cookie", "cf_admin_session="+adminauth.CreateSessionToken(secret))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	forged := httptest.NewRequest("GET", "/x", nil)
	forged.Header.Set("Cookie", "cf_admin_session="+adminauth.CreateSessionToken("wrong-secret-wrong-secret-wrong!"))
	resp, err = app.Test(forged)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
