package adminauth

import (
	"strings"

	"chronoflow-backend/internal/config"
	"chronoflow-backend/internal/pkg/httpx"
	"chronoflow-backend/internal/security"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Config   *config.Config
	Security *security.Logger
}

// POST /api/v1/admin/login
// Password login is flag-gated; when disabled the endpoint pretends not to
// exist.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if !h.Config.EnableAdminPasswordLogin {
		return httpx.Err(c, fiber.StatusNotFound, "Not Found", nil)
	}

	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		AccessKey string `json:"accessKey"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Password == "" {
		return httpx.Err(c, fiber.StatusBadRequest, "Email and password are required", nil)
	}

	if h.Config.AdminLoginKey != "" && body.AccessKey != h.Config.AdminLoginKey {
		return h.rejectLogin(c, body.Email)
	}
	if !strings.EqualFold(body.Email, h.Config.AdminEmail) {
		return h.rejectLogin(c, body.Email)
	}
	if body.Password != h.Config.AdminPassword {
		return h.rejectLogin(c, body.Email)
	}

	token := CreateSessionToken(h.Config.AdminSessionSecret)
	cookie := SessionCookie(h.Config.Env == "production", token)
	c.Cookie(&cookie)

	h.Security.Log(c.Context(), security.Event{
		EventType: "admin_login",
		Severity:  "info",
		Target:    body.Email,
	})
	return httpx.OK(c, fiber.Map{"ok": true})
}

func (h *Handlers) rejectLogin(c *fiber.Ctx, email string) error {
	h.Security.Log(c.Context(), security.Event{
		EventType: "admin_login_failed",
		Severity:  "warn",
		Target:    email,
	})
	return httpx.Err(c, fiber.StatusUnauthorized, "Authentication failed", nil)
}

// POST /api/v1/admin/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	cookie := SessionCookie(h.Config.Env == "production", "")
	c.Cookie(&cookie)
	return httpx.OK(c, fiber.Map{"ok": true})
}
