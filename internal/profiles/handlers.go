package profiles

import (
	"chronoflow-backend/internal/middleware"
	"chronoflow-backend/internal/pkg/httpx"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/profile (auth required)
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return httpx.Err(c, fiber.StatusUnauthorized, "Authentication required", nil)
	}
	profile, err := h.Service.Ensure(c.Context(), userID)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"profile": profile})
}

// PATCH /api/v1/profile (auth required)
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return httpx.Err(c, fiber.StatusUnauthorized, "Authentication required", nil)
	}

	var body struct {
		DisplayName string  `json:"displayName"`
		Bio         string  `json:"bio"`
		IconURL     *string `json:"iconUrl"`
		IconFocusX  *int    `json:"iconFocusX"`
		IconFocusY  *int    `json:"iconFocusY"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	profile, err := h.Service.Update(c.Context(), UpdateInput{
		UserID:      userID,
		DisplayName: body.DisplayName,
		Bio:         body.Bio,
		IconURL:     body.IconURL,
		IconFocusX:  body.IconFocusX,
		IconFocusY:  body.IconFocusY,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"profile": profile})
}
