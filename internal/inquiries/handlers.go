package inquiries

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

// POST /api/v1/contact — works with or without a bearer token.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body struct {
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	var userID *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	row, err := h.Service.Create(c.Context(), CreateInput{
		UserID:  userID,
		Email:   body.Email,
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	h.Security.Log(c.Context(), security.Event{
		EventType:   "contact_inquiry",
		ActorUserID: userID,
		Target:      row.Email,
	})
	return httpx.OK(c, fiber.Map{"ok": true, "inquiryId": row.ID})
}

// GET /api/v1/admin/inquiries (admin)
func (h *Handlers) AdminList(c *fiber.Ctx) error {
	page, err := h.Service.List(c.Context(),
		c.QueryInt("page", 1),
		c.QueryInt("pageSize", 20),
		c.Query("status"),
	)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, page)
}

// PATCH /api/v1/admin/inquiries/:id (admin)
func (h *Handlers) AdminSetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}
	if err := h.Service.SetStatus(c.Context(), id, body.Status); err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"ok": true})
}
