package security

import (
	"chronoflow-backend/internal/pkg/apperr"
	"chronoflow-backend/internal/pkg/httpx"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Logger *Logger
}

// GET /api/v1/admin/security-events (admin)
func (h *Handlers) AdminList(c *fiber.Ctx) error {
	events, total, err := h.Logger.List(c.Context(), ListInput{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 30),
	})
	if err != nil {
		return httpx.Fail(c, apperr.Persistence("Event listing failed", err))
	}
	return httpx.OK(c, fiber.Map{
		"events":   events,
		"total":    total,
		"page":     c.QueryInt("page", 1),
		"pageSize": c.QueryInt("pageSize", 30),
	})
}
