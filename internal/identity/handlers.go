package identity

import (
	"chronoflow-backend/internal/middleware"
	"chronoflow-backend/internal/pkg/httpx"
	"chronoflow-backend/internal/security"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service  *Service
	Security *security.Logger
}

// POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	user, err := h.Service.Register(c.Context(), RegisterInput{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"userId": user.ID, "email": user.Email})
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	token, user, err := h.Service.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"token": token, "userId": user.ID, "email": user.Email})
}

// GET /api/v1/me/status (auth required)
func (h *Handlers) MeStatus(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return httpx.Err(c, fiber.StatusUnauthorized, "Authentication required", nil)
	}

	access, err := h.Service.GetAccessState(c.Context(), userID)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{
		"userId":    userID,
		"email":     middleware.UserEmail(c),
		"suspended": access.Suspended,
		"reason":    access.Reason,
		"isMember":  access.IsMember,
	})
}

// DELETE /api/v1/account (auth required)
func (h *Handlers) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return httpx.Err(c, fiber.StatusUnauthorized, "Authentication required", nil)
	}

	if err := h.Service.DeleteAccount(c.Context(), userID); err != nil {
		return httpx.Fail(c, err)
	}
	h.Security.Log(c.Context(), security.Event{
		EventType:   "account_deleted",
		ActorUserID: &userID,
		Target:      middleware.UserEmail(c),
	})
	return httpx.OK(c, fiber.Map{"ok": true})
}

// GET /api/v1/admin/users (admin)
func (h *Handlers) AdminListUsers(c *fiber.Ctx) error {
	users, total, err := h.Service.ListUsers(c.Context(), c.QueryInt("page", 1), c.QueryInt("pageSize", 7))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{
		"users":    users,
		"total":    total,
		"page":     c.QueryInt("page", 1),
		"pageSize": c.QueryInt("pageSize", 7),
	})
}

// PATCH /api/v1/admin/users/:id (admin) — suspend or reinstate.
func (h *Handlers) AdminUpdateUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}

	var body struct {
		Suspended *bool  `json:"suspended"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil || body.Suspended == nil {
		return httpx.Err(c, fiber.StatusBadRequest, "suspended flag is required", nil)
	}

	if err := h.Service.SetSuspension(c.Context(), userID, *body.Suspended, body.Reason); err != nil {
		return httpx.Fail(c, err)
	}

	eventType := "user_reinstated"
	severity := "info"
	if *body.Suspended {
		eventType = "user_suspended"
		severity = "warn"
	}
	h.Security.Log(c.Context(), security.Event{
		EventType: eventType,
		Severity:  severity,
		Target:    userID.String(),
		Detail:    map[string]interface{}{"reason": body.Reason},
	})
	return httpx.OK(c, fiber.Map{"ok": true})
}
