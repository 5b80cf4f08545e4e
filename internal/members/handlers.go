package members

import (
	"time"

	"chronoflow-backend/internal/pkg/httpx"
	"chronoflow-backend/internal/security"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service  *Service
	Security *security.Logger
}

// GET /api/v1/members
func (h *Handlers) List(c *fiber.Ctx) error {
	rows, err := h.Service.List(c.Context(), c.Query("q"), c.QueryInt("limit", defaultListLimit))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"members": rows})
}

// GET /api/v1/members/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	detail, err := h.Service.Get(c.Context(), memberID)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, detail)
}

// GET /api/v1/portal/:token
func (h *Handlers) Portal(c *fiber.Ctx) error {
	portal, err := h.Service.GetPortal(c.Context(), c.Params("token"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, portal)
}

// GET /api/v1/admin/members (admin)
func (h *Handlers) AdminList(c *fiber.Ctx) error {
	page, err := h.Service.AdminList(c.Context(), c.QueryInt("page", 1), c.QueryInt("pageSize", 20))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, page)
}

// PATCH /api/v1/admin/members/:id (admin)
func (h *Handlers) AdminUpdate(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}

	var body struct {
		DisplayName *string    `json:"displayName"`
		IsActive    *bool      `json:"isActive"`
		IconURL     *string    `json:"iconUrl"`
		IconFocusX  *int       `json:"iconFocusX"`
		IconFocusY  *int       `json:"iconFocusY"`
		JoinedAt    *time.Time `json:"joinedAt"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	member, err := h.Service.AdminUpdate(c.Context(), memberID, AdminUpdateInput{
		DisplayName: body.DisplayName,
		IsActive:    body.IsActive,
		IconURL:     body.IconURL,
		IconFocusX:  body.IconFocusX,
		IconFocusY:  body.IconFocusY,
		JoinedAt:    body.JoinedAt,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"member": member})
}

// DELETE /api/v1/admin/members/:id (admin)
func (h *Handlers) AdminDelete(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	if err := h.Service.AdminDelete(c.Context(), memberID); err != nil {
		return httpx.Fail(c, err)
	}
	h.Security.Log(c.Context(), security.Event{
		EventType: "member_deleted",
		Severity:  "warn",
		Target:    memberID.String(),
	})
	return httpx.OK(c, fiber.Map{"ok": true})
}

// POST /api/v1/admin/members/:id/links (admin)
func (h *Handlers) AdminAddLink(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	link, err := h.Service.AddLink(c.Context(), memberID, body.URL)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"link": link})
}

// DELETE /api/v1/admin/members/:id/links/:linkId (admin)
func (h *Handlers) AdminRemoveLink(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	linkID, err := uuid.Parse(c.Params("linkId"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	if err := h.Service.RemoveLink(c.Context(), memberID, linkID); err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"ok": true})
}
