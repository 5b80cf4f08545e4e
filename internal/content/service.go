package content

import (
	"context"
	"errors"
	"strings"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/pkg/apperr"
	"chronoflow-backend/internal/pkg/platform"
	"chronoflow-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service covers the editorial surfaces: announcements, downloadable assets
// and the learning playlist. Public reads only ever see public-scoped rows;
// members-scoped rows are served through the portal.
type Service struct {
	DB *gorm.DB
}

func normalizeScope(scope string) (string, error) {
	switch strings.TrimSpace(scope) {
	case "", models.ScopePublic:
		return models.ScopePublic, nil
	case models.ScopeMembers:
		return models.ScopeMembers, nil
	default:
		return "", apperr.Validation("Invalid scope")
	}
}

func (s *Service) ListAnnouncements(ctx context.Context, limit int) ([]models.Announcement, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	var rows []models.Announcement
	if err := s.DB.WithContext(ctx).
		Where("scope = ?", models.ScopePublic).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("Announcement listing failed", err)
	}
	return rows, nil
}

// AdminListAnnouncements includes members-scoped rows.
func (s *Service) AdminListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var rows []models.Announcement
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("Announcement listing failed", err)
	}
	return rows, nil
}

type AnnouncementInput struct {
	Title string
	Body  string
	Scope string
}

func (s *Service) CreateAnnouncement(ctx context.Context, in AnnouncementInput) (*models.Announcement, error) {
	title := validation.SafeText(in.Title, 1, 200)
	if title == "" {
		return nil, apperr.Validation("Title is required")
	}
	body := validation.SafeText(in.Body, 1, 5000)
	if body == "" {
		return nil, apperr.Validation("Body is required")
	}
	scope, err := normalizeScope(in.Scope)
	if err != nil {
		return nil, err
	}

	row := &models.Announcement{Title: title, Body: body, Scope: scope}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.Persistence("Announcement creation failed", err)
	}
	return row, nil
}

func (s *Service) UpdateAnnouncement(ctx context.Context, id uuid.UUID, in AnnouncementInput) (*models.Announcement, error) {
	var row models.Announcement
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Announcement not found")
		}
		return nil, apperr.Persistence("Announcement lookup failed", err)
	}

	title := validation.SafeText(in.Title, 1, 200)
	body := validation.SafeText(in.Body, 1, 5000)
	if title == "" || body == "" {
		return nil, apperr.Validation("Title and body are required")
	}
	scope, err := normalizeScope(in.Scope)
	if err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Model(&row).Updates(map[string]interface{}{
		"title": title, "body": body, "scope": scope,
	}).Error; err != nil {
		return nil, apperr.Persistence("Announcement update failed", err)
	}
	return &row, nil
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Announcement{})
	if res.Error != nil {
		return apperr.Persistence("Announcement deletion failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Announcement not found")
	}
	return nil
}

func (s *Service) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var rows []models.Asset
	if err := s.DB.WithContext(ctx).
		Where("scope = ?", models.ScopePublic).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("Asset listing failed", err)
	}
	return rows, nil
}

func (s *Service) AdminListAssets(ctx context.Context) ([]models.Asset, error) {
	var rows []models.Asset
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("Asset listing failed", err)
	}
	return rows, nil
}

type AssetInput struct {
	Name        string
	ExternalURL *string
	Description string
	Scope       string
}

func (s *Service) CreateAsset(ctx context.Context, in AssetInput) (*models.Asset, error) {
	name := validation.SafeText(in.Name, 1, 200)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}
	scope, err := normalizeScope(in.Scope)
	if err != nil {
		return nil, err
	}
	var externalURL *string
	if in.ExternalURL != nil && *in.ExternalURL != "" {
		if !platform.IsValidURL(*in.ExternalURL) {
			return nil, apperr.Validation("Invalid asset URL")
		}
		externalURL = in.ExternalURL
	}

	row := &models.Asset{
		Name:        name,
		ExternalURL: externalURL,
		Scope:       scope,
	}
	if description := validation.SafeText(in.Description, 0, 2000); description != "" {
		row.Description = &description
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.Persistence("Asset creation failed", err)
	}
	return row, nil
}

func (s *Service) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Asset{})
	if res.Error != nil {
		return apperr.Persistence("Asset deletion failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Asset not found")
	}
	return nil
}

func (s *Service) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	var rows []models.Lesson
	if err := s.DB.WithContext(ctx).
		Order("sort_order ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("Lesson listing failed", err)
	}
	return rows, nil
}

type LessonInput struct {
	Title      string
	YoutubeURL string
	SortOrder  int
}

func (s *Service) CreateLesson(ctx context.Context, in LessonInput) (*models.Lesson, error) {
	title := validation.SafeText(in.Title, 1, 200)
	if title == "" {
		return nil, apperr.Validation("Title is required")
	}
	url := strings.TrimSpace(in.YoutubeURL)
	if url == "" || platform.FromURL(url) != platform.YouTube {
		return nil, apperr.Validation("Lesson URL must be on YouTube")
	}

	row := &models.Lesson{Title: title, YoutubeURL: url, SortOrder: in.SortOrder}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.Persistence("Lesson creation failed", err)
	}
	return row, nil
}

func (s *Service) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Lesson{})
	if res.Error != nil {
		return apperr.Persistence("Lesson deletion failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Lesson not found")
	}
	return nil
}
