package profiles

import (
	"context"
	"testing"
	"time"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProfileTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.Member{},
		&models.AuditionBatch{},
		&models.AuditionApplication{},
	))
	return &Service{DB: db}, db
}

func TestEnsure_CreatesDefaultOnce(t *testing.T) {
	s, db := setupProfileTest(t)
	userID := uuid.New()

	profile, err := s.Ensure(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Member", profile.DisplayName)
	assert.Equal(t, 50, profile.IconFocusX)

	_, err = s.Ensure(context.Background(), userID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.UserProfile{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdate_PropagatesToMemberAndApplications(t *testing.T) {
	s, db := setupProfileTest(t)
	userID := uuid.New()

	require.NoError(t, db.Create(&models.Member{
		UserID:      &userID,
		DisplayName: "Old Name",
		JoinedAt:    time.Now(),
		IsActive:    true,
		PortalToken: uuid.New().String(),
	}).Error)
	batch := &models.AuditionBatch{Title: "B", ApplyOpenAt: time.Now(), ApplyCloseAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(batch).Error)
	require.NoError(t, db.Create(&models.AuditionApplication{
		BatchID:         batch.ID,
		AppliedByUserID: &userID,
		DisplayName:     "Old Name",
		VideoURL:        "https://youtu.be/x",
		Status:          models.StatusPending,
		ApplicationCode: "CODE2345CODE",
	}).Error)

	_, err := s.Update(context.Background(), UpdateInput{
		UserID:      userID,
		DisplayName: "New Name",
		Bio:         "hello",
	})
	require.NoError(t, err)

	var member models.Member
	require.NoError(t, db.First(&member).Error)
	assert.Equal(t, "New Name", member.DisplayName)

	var application models.AuditionApplication
	require.NoError(t, db.First(&application).Error)
	assert.Equal(t, "New Name", application.DisplayName)
}

func TestUpdate_Validation(t *testing.T) {
	s, _ := setupProfileTest(t)
	userID := uuid.New()

	_, err := s.Update(context.Background(), UpdateInput{UserID: userID, DisplayName: "  "})
	assert.Equal(t, 400, apperr.StatusOf(err))

	badURL := "not-a-url"
	_, err = s.Update(context.Background(), UpdateInput{UserID: userID, DisplayName: "A", IconURL: &badURL})
	assert.Equal(t, 400, apperr.StatusOf(err))
}

func TestUpdate_ClampsFocus(t *testing.T) {
	s, db := setupProfileTest(t)
	userID := uuid.New()

	over := 400
	_, err := s.Update(context.Background(), UpdateInput{
		UserID:      userID,
		DisplayName: "A",
		IconFocusX:  &over,
	})
	require.NoError(t, err)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", userID).First(&profile).Error)
	assert.Equal(t, 100, profile.IconFocusX)
	assert.Equal(t, 50, profile.IconFocusY)
}
