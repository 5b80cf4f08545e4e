package inquiries

import (
	"context"
	"errors"
	"strings"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/pkg/apperr"
	"chronoflow-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	UserID  *uuid.UUID
	Email   string
	Subject string
	Message string
}

// Create records a contact inquiry. Signed-in callers may omit the email;
// anonymous ones must provide a valid one.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.ContactInquiry, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" && !validation.IsValidEmail(email) {
		return nil, apperr.Validation("Invalid email address")
	}
	if email == "" && in.UserID == nil {
		return nil, apperr.Validation("Email is required")
	}
	subject := validation.SafeText(in.Subject, 1, 200)
	if subject == "" {
		return nil, apperr.Validation("Subject is required")
	}
	message := validation.SafeText(in.Message, 1, 5000)
	if message == "" {
		return nil, apperr.Validation("Message is required")
	}

	row := &models.ContactInquiry{
		UserID:  in.UserID,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  "open",
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.Persistence("Inquiry save failed", err)
	}
	return row, nil
}

type Page struct {
	Inquiries []models.ContactInquiry `json:"inquiries"`
	Total     int64                   `json:"total"`
	Page      int                     `json:"page"`
	PageSize  int                     `json:"pageSize"`
}

func (s *Service) List(ctx context.Context, page, pageSize int, status string) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	listQuery := s.DB.WithContext(ctx).Model(&models.ContactInquiry{})
	countQuery := s.DB.WithContext(ctx).Model(&models.ContactInquiry{})
	if status == "open" || status == "closed" {
		listQuery = listQuery.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, apperr.Persistence("Inquiry listing failed", err)
	}
	var rows []models.ContactInquiry
	if err := listQuery.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("Inquiry listing failed", err)
	}
	return &Page{Inquiries: rows, Total: total, Page: page, PageSize: pageSize}, nil
}

// SetStatus toggles an inquiry between open and closed.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status != "open" && status != "closed" {
		return apperr.Validation("Invalid status")
	}

	var row models.ContactInquiry
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Inquiry not found")
		}
		return apperr.Persistence("Inquiry lookup failed", err)
	}
	if err := s.DB.WithContext(ctx).Model(&row).Update("status", status).Error; err != nil {
		return apperr.Persistence("Inquiry update failed", err)
	}
	return nil
}
