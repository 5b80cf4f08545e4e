package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaintenanceApp(enabled bool) *fiber.App {
	app := fiber.New()
	app.Use(Maintenance(enabled))
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/health", ok)
	app.Get("/api/v1/members", ok)
	app.Get("/api/v1/admin/users", ok)
	return app
}

func TestMaintenance_BlocksPublicRoutes(t *testing.T) {
	app := newMaintenanceApp(true)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/members", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	// Admin surface and health stay reachable.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/admin/users", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMaintenance_OffIsTransparent(t *testing.T) {
	app := newMaintenanceApp(false)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/members", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
