package reactions

import (
	"chronoflow-backend/internal/pkg/httpx"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// POST /api/v1/reactions
func (h *Handlers) React(c *fiber.Ctx) error {
	var body struct {
		MemberID     string `json:"memberId"`
		MemberLinkID string `json:"memberLinkId"`
		DeviceID     string `json:"deviceId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	in := ReactInput{DeviceID: body.DeviceID}
	if body.MemberID != "" {
		id, err := uuid.Parse(body.MemberID)
		if err != nil {
			return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
		}
		in.MemberID = &id
	}
	if body.MemberLinkID != "" {
		id, err := uuid.Parse(body.MemberLinkID)
		if err != nil {
			return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
		}
		in.MemberLinkID = &id
	}

	if err := h.Service.React(c.Context(), in); err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"ok": true})
}

// GET /api/v1/rankings?range=all|30d
func (h *Handlers) Rankings(c *fiber.Ctx) error {
	page, err := h.Service.Rankings(c.Context(),
		c.Query("range", "all"),
		c.QueryInt("page", 1),
		c.QueryInt("pageSize", 20),
	)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, page)
}
