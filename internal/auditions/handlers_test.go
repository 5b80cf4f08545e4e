package auditions

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/security"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuditionApp(t *testing.T) (*fiber.App, *Service, *gorm.DB, uuid.UUID) {
	service, db := setupAuditionTest(t)
	userID := seedUser(t, db, "HTTP Dancer")

	h := &Handlers{Service: service, Security: &security.Logger{DB: db}}
	app := fiber.New()
	app.Get("/api/v1/auditions/apply", h.ApplyMeta)
	app.Post("/api/v1/auditions/apply", func(c *fiber.Ctx) error {
		if c.Get("X-Test-User") != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}, h.Apply)
	app.Get("/api/v1/auditions/check", h.Check)
	app.Get("/api/v1/auditions/results", h.Results)
	app.Patch("/api/v1/admin/auditions/:id/review", h.AdminReview)
	app.Post("/api/v1/admin/auditions/publish", h.AdminPublish)
	return app, service, db, userID
}

func TestApplyMeta(t *testing.T) {
	app, _, _, _ := setupAuditionApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/auditions/apply", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["isOpen"])
	batch, ok := body["batch"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, batch["id"])
	assert.NotEmpty(t, batch["title"])
	assert.NotEmpty(t, batch["applyOpenAt"])
	assert.NotEmpty(t, batch["applyCloseAt"])
}

func TestApply_Unauthenticated(t *testing.T) {
	app, _, _, _ := setupAuditionApp(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"videoUrl": "https://youtu.be/x", "consentPublicProfile": true,
	})
	req := httptest.NewRequest("POST", "/api/v1/auditions/apply", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestApply_EndToEnd(t *testing.T) {
	app, _, db, _ := setupAuditionApp(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"videoUrl":             "https://www.youtube.com/watch?v=abc",
		"snsUrls":              []string{"https://youtube.com/@a"},
		"consentPublicProfile": true,
		"consentAdvice":        true,
	})
	req := httptest.NewRequest("POST", "/api/v1/auditions/apply", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	code, _ := body["applicationCode"].(string)
	assert.Len(t, code, 12)

	// Check endpoint reads it back.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/auditions/check?code="+code, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.AuditionApplication{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdminReview_BadID(t *testing.T) {
	app, _, _, _ := setupAuditionApp(t)

	payload, _ := json.Marshal(map[string]string{"status": "approved"})
	req := httptest.NewRequest("PATCH", "/api/v1/admin/auditions/not-a-uuid/review", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminPublish_ReportsCount(t *testing.T) {
	app, service, db, userID := setupAuditionApp(t)

	_, err := service.Submit(context.Background(), validSubmit(userID))
	require.NoError(t, err)
	var application models.AuditionApplication
	require.NoError(t, db.First(&application).Error)
	require.NoError(t, service.Review(context.Background(), application.ID, models.StatusApproved, ""))

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/auditions/publish", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, 1, body["publishedCount"])
	assert.Equal(t, true, body["nextBatchCreated"])

	// Second publish of the same batch conflicts.
	require.NoError(t, db.Unscoped().Where("published_at IS NULL").Delete(&models.AuditionBatch{}).Error)
	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/admin/auditions/publish", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
