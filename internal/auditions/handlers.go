package auditions

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

// GET /api/v1/auditions/apply — window metadata for the apply form.
func (h *Handlers) ApplyMeta(c *fiber.Ctx) error {
	batch, err := h.Service.CurrentBatch(c.Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{
		"batch": fiber.Map{
			"id":           batch.ID,
			"title":        batch.Title,
			"applyOpenAt":  batch.ApplyOpenAt,
			"applyCloseAt": batch.ApplyCloseAt,
		},
		"isOpen": h.Service.IsOpen(batch),
	})
}

// POST /api/v1/auditions/apply (auth required)
func (h *Handlers) Apply(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return httpx.Err(c, fiber.StatusUnauthorized, "Authentication required", nil)
	}

	var body struct {
		VideoURL             string   `json:"videoUrl"`
		SNSURLs              []string `json:"snsUrls"`
		ConsentPublicProfile bool     `json:"consentPublicProfile"`
		ConsentAdvice        bool     `json:"consentAdvice"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	result, err := h.Service.Submit(c.Context(), SubmitInput{
		UserID:               userID,
		VideoURL:             body.VideoURL,
		SNSURLs:              body.SNSURLs,
		ConsentPublicProfile: body.ConsentPublicProfile,
		ConsentAdvice:        body.ConsentAdvice,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}

	if result.Resubmitted {
		h.Security.Log(c.Context(), security.Event{
			EventType:   "audition_resubmitted",
			ActorUserID: &userID,
			Detail:      map[string]interface{}{"previousApplicationId": result.PreviousApplicationID},
		})
	}

	payload := fiber.Map{
		"ok":          true,
		"warnings":    result.Warnings,
		"resubmitted": result.Resubmitted,
	}
	if result.ApplicationCode != nil {
		payload["applicationCode"] = *result.ApplicationCode
	}
	return httpx.OK(c, payload)
}

// GET /api/v1/auditions/check?code=...
func (h *Handlers) Check(c *fiber.Ctx) error {
	result, err := h.Service.CheckCode(c.Context(), c.Query("code"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, result)
}

// GET /api/v1/auditions/results
func (h *Handlers) Results(c *fiber.Ctx) error {
	results, err := h.Service.Results(c.Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, results)
}

// GET /api/v1/admin/auditions (admin) — current batch with its applications.
func (h *Handlers) AdminListApplications(c *fiber.Ctx) error {
	batch, applications, err := h.Service.ListApplications(c.Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"batch": batch, "applications": applications})
}

// GET /api/v1/admin/auditions/batches (admin)
func (h *Handlers) AdminListBatches(c *fiber.Ctx) error {
	page, err := h.Service.ListBatches(c.Context(),
		c.QueryInt("page", 1),
		c.QueryInt("pageSize", 7),
		c.QueryBool("publishedOnly", false),
	)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, page)
}

// PATCH /api/v1/admin/auditions/:id/review (admin)
func (h *Handlers) AdminReview(c *fiber.Ctx) error {
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}

	var body struct {
		Status     string `json:"status"`
		AdviceText string `json:"adviceText"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid request", nil)
	}

	if err := h.Service.Review(c.Context(), applicationID, body.Status, body.AdviceText); err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"ok": true})
}

// POST /api/v1/admin/auditions/publish (admin)
func (h *Handlers) AdminPublish(c *fiber.Ctx) error {
	count, err := h.Service.Publish(c.Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	h.Security.Log(c.Context(), security.Event{
		EventType: "audition_published",
		Severity:  "warn",
		Detail:    map[string]interface{}{"approvedCount": count},
	})
	return httpx.OK(c, fiber.Map{"ok": true, "publishedCount": count, "nextBatchCreated": true})
}

// POST /api/v1/admin/auditions/:id/allow-resubmit (admin)
func (h *Handlers) AdminAllowResubmit(c *fiber.Ctx) error {
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	if err := h.Service.AllowResubmit(c.Context(), applicationID); err != nil {
		return httpx.Fail(c, err)
	}
	return httpx.OK(c, fiber.Map{"ok": true})
}

// DELETE /api/v1/admin/auditions/batches/:id (admin)
func (h *Handlers) AdminDeleteBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Err(c, fiber.StatusBadRequest, "Invalid ID", nil)
	}
	if err := h.Service.DeleteBatch(c.Context(), batchID); err != nil {
		return httpx.Fail(c, err)
	}
	h.Security.Log(c.Context(), security.Event{
		EventType: "audition_batch_deleted",
		Severity:  "warn",
		Target:    batchID.String(),
	})
	return httpx.OK(c, fiber.Map{"ok": true})
}
