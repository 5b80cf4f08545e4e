package profiles

import (
	"context"
	"errors"
	"time"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/pkg/apperr"
	"chronoflow-backend/internal/pkg/platform"
	"chronoflow-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB *gorm.DB
}

// Ensure returns the user's profile, creating a default one on first access.
func (s *Service) Ensure(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence("Profile lookup failed", err)
	}

	now := time.Now()
	profile = models.UserProfile{
		UserID:      userID,
		DisplayName: "Member",
		IconFocusX:  50,
		IconFocusY:  50,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&profile).Error; err != nil {
		return nil, apperr.Persistence("Profile creation failed", err)
	}
	return &profile, nil
}

type UpdateInput struct {
	UserID      uuid.UUID
	DisplayName string
	Bio         string
	IconURL     *string
	IconFocusX  *int
	IconFocusY  *int
}

// Update writes the profile and propagates display name and icon to the
// user's member row and applications, so published pages stay in sync.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*models.UserProfile, error) {
	displayName := validation.SafeText(in.DisplayName, 1, 120)
	if displayName == "" {
		return nil, apperr.Validation("Invalid display name")
	}
	bio := validation.SafeText(in.Bio, 0, 500)

	var iconURL *string
	if in.IconURL != nil && *in.IconURL != "" {
		if !platform.IsValidURL(*in.IconURL) {
			return nil, apperr.Validation("Invalid icon URL")
		}
		iconURL = in.IconURL
	}
	focusX := validation.ClampFocus(in.IconFocusX)
	focusY := validation.ClampFocus(in.IconFocusY)

	now := time.Now()
	profile := models.UserProfile{
		UserID:      in.UserID,
		DisplayName: displayName,
		IconURL:     iconURL,
		IconFocusX:  focusX,
		IconFocusY:  focusY,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if bio != "" {
		profile.Bio = &bio
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "bio", "icon_url", "icon_focus_x", "icon_focus_y", "updated_at",
			}),
		}).Create(&profile).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Member{}).Where("user_id = ?", in.UserID).Updates(map[string]interface{}{
			"display_name": displayName,
			"icon_url":     iconURL,
			"icon_focus_x": focusX,
			"icon_focus_y": focusY,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.AuditionApplication{}).
			Where("applied_by_user_id = ?", in.UserID).
			Update("display_name", displayName).Error
	})
	if err != nil {
		return nil, apperr.Persistence("Profile update failed", err)
	}
	return &profile, nil
}
