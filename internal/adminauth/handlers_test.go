package adminauth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chronoflow-backend/internal/config"
	"chronoflow-backend/internal/security"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoginTest(enabled bool) *fiber.App {
	cfg := &config.Config{
		Env:                      "development",
		AdminSessionSecret:       testSecret,
		AdminEmail:               "admin@example.com",
		AdminPassword:            "correct-horse-battery",
		EnableAdminPasswordLogin: enabled,
	}
	h := &Handlers{Config: cfg, Security: &security.Logger{}}
	app := fiber.New()
	app.Post("/api/v1/admin/login", h.Login)
	app.Post("/api/v1/admin/logout", h.Logout)
	return app
}

func postLogin(t *testing.T, app *fiber.App, payload map[string]string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/v1/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// TestAdminLogin_DisabledPretends404 hides the endpoint when the flag is off.
func TestAdminLogin_DisabledPretends404(t *testing.T) {
	app := setupLoginTest(false)
	resp := postLogin(t, app, map[string]string{
		"email": "admin@example.com", "password": "correct-horse-battery",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	app := setupLoginTest(true)
	resp := postLogin(t, app, map[string]string{
		"email": "admin@example.com", "password": "nope",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminLogin_WrongEmail(t *testing.T) {
	app := setupLoginTest(true)
	resp := postLogin(t, app, map[string]string{
		"email": "intruder@example.com", "password": "correct-horse-battery",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminLogin_Success(t *testing.T) {
	app := setupLoginTest(true)
	resp := postLogin(t, app, map[string]string{
		// Email comparison is case-insensitive.
		"email": "ADMIN@example.com", "password": "correct-horse-battery",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	setCookie := resp.Header.Get("Set-Cookie")
	require.Contains(t, setCookie, "cf_admin_session=")
	token := strings.TrimPrefix(strings.SplitN(setCookie, ";", 2)[0], "cf_admin_session=")
	assert.True(t, VerifySessionToken(testSecret, token))
}

func TestAdminLogout_ExpiresCookie(t *testing.T) {
	app := setupLoginTest(true)
	req := httptest.NewRequest("POST", "/api/v1/admin/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "cf_admin_session=;")
}
