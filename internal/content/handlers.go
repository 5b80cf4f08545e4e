package content

import (
	"chronoflow-backend/internal/pkg/httpx"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/announcements
func (h *Handlers) ListAnnouncements(c *fiber.Ctx) error {
	rows, err := h.Service.ListAnnouncements(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"announcements": rows})
}

// GET /api/v1/admin/announcements (admin)
func (h *Handlers) AdminListAnnouncements(c *fiber.Ctx) error {
	rows, err := h.Service.AdminListAnnouncements(c.Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"announcements": rows})
}

// POST /api/v1/admin/announcements (admin)
func (h *Handlers) AdminCreateAnnouncement(c *fiber.Ctx) error {
	var body struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Scope string `json:"scope"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}
	row, err := h.Service.CreateAnnouncement(c.Context(), AnnouncementInput{
		Title: body.Title, Body: body.Body, Scope: body.Scope,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"announcement": row})
}

// PATCH /api/v1/admin/announcements/:id (admin)
func (h *Handlers) AdminUpdateAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	var body struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Scope string `json:"scope"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}
	row, err := h.Service.UpdateAnnouncement(c.Context(), id, AnnouncementInput{
		Title: body.Title, Body: body.Body, Scope: body.Scope,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"announcement": row})
}

// DELETE /api/v1/admin/announcements/:id (admin)
func (h *Handlers) AdminDeleteAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	if err := h.Service.DeleteAnnouncement(c.Context(), id); err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"ok": true})
}

// GET /api/v1/assets
func (h *Handlers) ListAssets(c *fiber.Ctx) error {
	rows, err := h.Service.ListAssets(c.Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"assets": rows})
}

// GET /api/v1/admin/assets (admin)
func (h *Handlers) AdminListAssets(c *fiber.Ctx) error {
	rows, err := h.Service.AdminListAssets(c.Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"assets": rows})
}

// POST /api/v1/admin/assets (admin)
func (h *Handlers) AdminCreateAsset(c *fiber.Ctx) error {
	var body struct {
		Name        string  `json:"name"`
		ExternalURL *string `json:"externalUrl"`
		Description string  `json:"description"`
		Scope       string  `json:"scope"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}
	row, err := h.Service.CreateAsset(c.Context(), AssetInput{
		Name:        body.Name,
		ExternalURL: body.ExternalURL,
		Description: body.Description,
		Scope:       body.Scope,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"asset": row})
}

// DELETE /api/v1/admin/assets/:id (admin)
func (h *Handlers) AdminDeleteAsset(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	if err := h.Service.DeleteAsset(c.Context(), id); err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"ok": true})
}

// GET /api/v1/learn
func (h *Handlers) ListLessons(c *fiber.Ctx) error {
	rows, err := h.Service.ListLessons(c.Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"lessons": rows})
}

// POST /api/v1/admin/lessons (admin)
func (h *Handlers) AdminCreateLesson(c *fiber.Ctx) error {
	var body struct {
		Title      string `json:"title"`
		YoutubeURL string `json:"youtubeUrl"`
		SortOrder  int    `json:"sortOrder"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}
	row, err := h.Service.CreateLesson(c.Context(), LessonInput{
		Title:      body.Title,
		YoutubeURL: body.YoutubeURL,
		SortOrder:  body.SortOrder,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"lesson": row})
}

// DELETE /api/v1/admin/lessons/:id (admin)
func (h *Handlers) AdminDeleteLesson(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	if err := h.Service.DeleteLesson(c.Context(), id); err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"ok": true})
}
