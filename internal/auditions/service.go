package auditions

import (
	"context"
	"errors"
	"strings"
	"time"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/pkg/apperr"
	"chronoflow-backend/internal/pkg/platform"
	"chronoflow-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const applyWindow = 30 * 24 * time.Hour
const maxSNSURLs = 8
const maxAdviceLen = 2000

// AccessChecker reports whether an account is suspended.
type AccessChecker interface {
	IsSuspended(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ProfileProvider resolves a user's profile, creating it when missing.
type ProfileProvider interface {
	Ensure(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

type Service struct {
	DB       *gorm.DB
	Access   AccessChecker
	Profiles ProfileProvider
	now      func() time.Time
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// CurrentBatch returns the most recently created non-deleted batch, lazily
// creating the first one with a 30-day window.
func (s *Service) CurrentBatch(ctx context.Context) (*models.AuditionBatch, error) {
	var batch models.AuditionBatch
	err := s.DB.WithContext(ctx).Order("created_at DESC").First(&batch).Error
	if err == nil {
		return &batch, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence("Batch lookup failed", err)
	}
	return s.createBatch(ctx, s.DB)
}

func (s *Service) createBatch(ctx context.Context, tx *gorm.DB) (*models.AuditionBatch, error) {
	now := s.clock()
	batch := &models.AuditionBatch{
		Title:        now.Format("2006 Jan") + " Audition",
		ApplyOpenAt:  now,
		ApplyCloseAt: now.Add(applyWindow),
	}
	if err := tx.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, apperr.Persistence("Batch creation failed", err)
	}
	return batch, nil
}

// IsOpen reports whether the batch's application window contains now.
func (s *Service) IsOpen(batch *models.AuditionBatch) bool {
	now := s.clock()
	return !now.Before(batch.ApplyOpenAt) && !now.After(batch.ApplyCloseAt)
}

type SubmitInput struct {
	UserID               uuid.UUID
	VideoURL             string
	SNSURLs              []string
	ConsentPublicProfile bool
	ConsentAdvice        bool
}

// SubmitResult reports the outcome of a submission. ApplicationCode is set
// only when the applicant consented to advice (its sole later use).
// Resubmitted marks a grant-consuming second submission; the previous row is
// kept.
type SubmitResult struct {
	ApplicationCode       *string
	Warnings              []string
	Resubmitted           bool
	PreviousApplicationID *uuid.UUID
}

const samePlatformWarning = "Adding an SNS link on the same platform as your audition video makes identity checks smoother (recommended)."

// Submit validates and persists one application for the current batch.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	suspended, err := s.Access.IsSuspended(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if suspended {
		return nil, apperr.Forbidden("Suspended accounts cannot apply")
	}

	batch, err := s.CurrentBatch(ctx)
	if err != nil {
		return nil, err
	}
	if !s.IsOpen(batch) {
		return nil, apperr.Forbidden("Applications are closed for the current batch")
	}

	if !in.ConsentPublicProfile {
		return nil, apperr.Validation("Public profile consent is required")
	}
	videoURL := strings.TrimSpace(in.VideoURL)
	if videoURL == "" || !platform.IsAllowedAuditionURL(videoURL) {
		return nil, apperr.Validation("Video URL must be on YouTube, TikTok or Instagram")
	}
	snsURLs := validation.SafeStringArray(in.SNSURLs, maxSNSURLs)
	for _, u := range snsURLs {
		if !platform.IsAllowedAuditionURL(u) {
			return nil, apperr.Validation("SNS URLs must be on YouTube, TikTok or Instagram")
		}
	}

	profile, err := s.Profiles.Ensure(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	displayName := validation.SafeText(profile.DisplayName, 1, 120)
	if displayName == "" {
		return nil, apperr.Validation("Set a display name on your profile before applying")
	}

	result := &SubmitResult{}
	code := platform.MakeApplicationCode()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AuditionApplication
		lookupErr := tx.Where("batch_id = ? AND applied_by_user_id = ?", batch.ID, in.UserID).
			Order("created_at DESC").
			First(&existing).Error
		if lookupErr != nil && !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return apperr.Persistence("Application lookup failed", lookupErr)
		}

		if lookupErr == nil {
			var grant models.ResubmitPermission
			grantErr := tx.Where("batch_id = ? AND user_id = ?", batch.ID, in.UserID).First(&grant).Error
			if errors.Is(grantErr, gorm.ErrRecordNotFound) {
				return apperr.Conflict("You have already applied in this batch; resubmission requires admin approval")
			}
			if grantErr != nil {
				return apperr.Persistence("Application lookup failed", grantErr)
			}
			// One-shot grant: consumed here, in the same transaction as
			// the insert it permits.
			if err := tx.Where("batch_id = ? AND user_id = ?", batch.ID, in.UserID).
				Delete(&models.ResubmitPermission{}).Error; err != nil {
				return apperr.Persistence("Application save failed", err)
			}
			prevID := existing.ID
			result.Resubmitted = true
			result.PreviousApplicationID = &prevID
		}

		userID := in.UserID
		application := &models.AuditionApplication{
			BatchID:              batch.ID,
			AppliedByUserID:      &userID,
			DisplayName:          displayName,
			VideoURL:             videoURL,
			SNSURLs:              datatypes.JSONSlice[string](snsURLs),
			ConsentPublicProfile: in.ConsentPublicProfile,
			ConsentAdvice:        in.ConsentAdvice,
			Status:               models.StatusPending,
			ApplicationCode:      code,
		}
		if err := tx.Create(application).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Generic message: do not confirm what collided.
				return apperr.Conflict("Please wait a moment and try again")
			}
			return apperr.Persistence("Application save failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p := platform.FromURL(videoURL); p != platform.Other && !platform.HasSamePlatformSNS(videoURL, snsURLs) {
		result.Warnings = append(result.Warnings, samePlatformWarning)
	}
	if in.ConsentAdvice {
		result.ApplicationCode = &code
	}
	return result, nil
}

// Review sets an application's status before publish. advice_text is stored
// only for rejections; re-review simply overwrites.
func (s *Service) Review(ctx context.Context, applicationID uuid.UUID, status, adviceText string) error {
	if status != models.StatusApproved && status != models.StatusRejected {
		return apperr.Validation("Invalid status")
	}

	var application models.AuditionApplication
	if err := s.DB.WithContext(ctx).Where("id = ?", applicationID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Application not found")
		}
		return apperr.Persistence("Application lookup failed", err)
	}

	var batch models.AuditionBatch
	if err := s.DB.WithContext(ctx).Unscoped().Where("id = ?", application.BatchID).First(&batch).Error; err != nil {
		return apperr.Persistence("Batch lookup failed", err)
	}
	if batch.PublishedAt != nil {
		return apperr.Conflict("Results are published; applications can no longer be changed")
	}

	var advice *string
	if status == models.StatusRejected {
		if trimmed := validation.SafeText(adviceText, 0, maxAdviceLen); trimmed != "" {
			advice = &trimmed
		}
	}
	now := s.clock()
	if err := s.DB.WithContext(ctx).Model(&application).Updates(map[string]interface{}{
		"status":      status,
		"advice_text": advice,
		"reviewed_at": now,
	}).Error; err != nil {
		return apperr.Persistence("Review update failed", err)
	}
	return nil
}

// Publish promotes approved applicants to members, grants member access to
// their accounts, seals the batch and opens the next one — all in a single
// transaction gated by a compare-and-set on published_at, so the operation
// is at-most-once and a partial failure leaves nothing behind.
func (s *Service) Publish(ctx context.Context) (int, error) {
	batch, err := s.CurrentBatch(ctx)
	if err != nil {
		return 0, err
	}
	if batch.PublishedAt != nil {
		return 0, apperr.Conflict("This batch is already published")
	}

	publishedCount := 0
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock()
		res := tx.Model(&models.AuditionBatch{}).
			Where("id = ? AND published_at IS NULL", batch.ID).
			Update("published_at", now)
		if res.Error != nil {
			return apperr.Persistence("Publish failed", res.Error)
		}
		if res.RowsAffected != 1 {
			return apperr.Conflict("This batch is already published")
		}

		var approved []models.AuditionApplication
		if err := tx.Where("batch_id = ? AND status = ?", batch.ID, models.StatusApproved).
			Find(&approved).Error; err != nil {
			return apperr.Persistence("Publish failed", err)
		}
		publishedCount = len(approved)

		if len(approved) > 0 {
			ids := make([]uuid.UUID, 0, len(approved))
			for _, a := range approved {
				ids = append(ids, a.ID)
			}

			// Skip applications that already produced a member (safe re-run
			// after an earlier failed attempt).
			var existing []models.Member
			if err := tx.Where("created_from_application_id IN ?", ids).Find(&existing).Error; err != nil {
				return apperr.Persistence("Publish failed", err)
			}
			existingSet := make(map[uuid.UUID]bool, len(existing))
			for _, m := range existing {
				if m.CreatedFromApplicationID != nil {
					existingSet[*m.CreatedFromApplicationID] = true
				}
			}

			inserts := make([]models.Member, 0, len(approved))
			for _, a := range approved {
				if existingSet[a.ID] {
					continue
				}
				appID := a.ID
				inserts = append(inserts, models.Member{
					UserID:                   a.AppliedByUserID,
					DisplayName:              a.DisplayName,
					JoinedAt:                 now,
					IsActive:                 true,
					PortalToken:              uuid.New().String(),
					CreatedFromApplicationID: &appID,
				})
			}
			if len(inserts) > 0 {
				if err := tx.Create(&inserts).Error; err != nil {
					return apperr.Persistence("Member creation failed", err)
				}
			}

			// Grant member access to every approved applicant's account,
			// not just the newly inserted subset.
			seen := make(map[uuid.UUID]bool)
			grants := make([]models.UserAccountControl, 0, len(approved))
			for _, a := range approved {
				if a.AppliedByUserID == nil || seen[*a.AppliedByUserID] {
					continue
				}
				seen[*a.AppliedByUserID] = true
				grantedAt := now
				grants = append(grants, models.UserAccountControl{
					UserID:          *a.AppliedByUserID,
					IsMember:        true,
					MemberGrantedAt: &grantedAt,
					UpdatedAt:       now,
				})
			}
			if len(grants) > 0 {
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"is_member", "member_granted_at", "updated_at"}),
				}).Create(&grants).Error; err != nil {
					return apperr.Persistence("Member access grant failed", err)
				}
			}
		}

		_, err := s.createBatch(ctx, tx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return publishedCount, nil
}

// CheckResult is the unauthenticated self-service status lookup payload.
type CheckResult struct {
	Status      string     `json:"status"`
	DisplayName string     `json:"displayName"`
	PublishedAt *time.Time `json:"publishedAt"`
	AdviceText  *string    `json:"adviceText"`
}

// CheckCode looks up an application by its shareable code. Advice is shown
// only for consented rejections.
func (s *Service) CheckCode(ctx context.Context, code string) (*CheckResult, error) {
	normalized := strings.ToUpper(validation.SafeText(code, 6, 40))
	if normalized == "" || !validation.IsValidApplicationCode(normalized) {
		return nil, apperr.Validation("Invalid application code")
	}

	var application models.AuditionApplication
	if err := s.DB.WithContext(ctx).Where("application_code = ?", normalized).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Application code not found")
		}
		return nil, apperr.Persistence("Lookup failed", err)
	}

	var batch models.AuditionBatch
	if err := s.DB.WithContext(ctx).Unscoped().Where("id = ?", application.BatchID).First(&batch).Error; err != nil {
		return nil, apperr.Persistence("Lookup failed", err)
	}

	result := &CheckResult{
		Status:      application.Status,
		DisplayName: application.DisplayName,
		PublishedAt: batch.PublishedAt,
	}
	if application.Status == models.StatusRejected && application.ConsentAdvice {
		result.AdviceText = application.AdviceText
	}
	return result, nil
}

// ResultRow is one line of the public results listing.
type ResultRow struct {
	ID          uuid.UUID  `json:"id"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

// BatchResults describes the current batch's published results; the list is
// empty until the batch is published.
type BatchResults struct {
	Title       string      `json:"title"`
	PublishedAt *time.Time  `json:"publishedAt"`
	Results     []ResultRow `json:"results"`
}

func (s *Service) Results(ctx context.Context) (*BatchResults, error) {
	batch, err := s.CurrentBatch(ctx)
	if err != nil {
		return nil, err
	}
	out := &BatchResults{Title: batch.Title, PublishedAt: batch.PublishedAt, Results: []ResultRow{}}
	if batch.PublishedAt == nil {
		return out, nil
	}

	var applications []models.AuditionApplication
	if err := s.DB.WithContext(ctx).
		Where("batch_id = ?", batch.ID).
		Order("created_at ASC").
		Find(&applications).Error; err != nil {
		return nil, apperr.Persistence("Results lookup failed", err)
	}
	for _, a := range applications {
		out.Results = append(out.Results, ResultRow{
			ID:          a.ID,
			DisplayName: a.DisplayName,
			Status:      a.Status,
			CreatedAt:   a.CreatedAt,
			ReviewedAt:  a.ReviewedAt,
		})
	}
	return out, nil
}

// AllowResubmit grants a one-shot resubmission for the application's
// (batch, user) pair. Upsert: re-granting refreshes the grant.
func (s *Service) AllowResubmit(ctx context.Context, applicationID uuid.UUID) error {
	var application models.AuditionApplication
	if err := s.DB.WithContext(ctx).Where("id = ?", applicationID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Application not found")
		}
		return apperr.Persistence("Application lookup failed", err)
	}
	if application.AppliedByUserID == nil {
		return apperr.Validation("Application has no account attached; resubmission cannot be granted")
	}

	grant := models.ResubmitPermission{
		BatchID:                application.BatchID,
		UserID:                 *application.AppliedByUserID,
		GrantedByApplicationID: application.ID,
		GrantedAt:              s.clock(),
	}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "batch_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"granted_by_application_id", "granted_at"}),
	}).Create(&grant).Error; err != nil {
		return apperr.Persistence("Resubmit grant failed", err)
	}
	return nil
}

// ListApplications returns the current batch's applications for the admin
// review screen, newest first.
func (s *Service) ListApplications(ctx context.Context) (*models.AuditionBatch, []models.AuditionApplication, error) {
	batch, err := s.CurrentBatch(ctx)
	if err != nil {
		return nil, nil, err
	}
	var applications []models.AuditionApplication
	if err := s.DB.WithContext(ctx).
		Where("batch_id = ?", batch.ID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, nil, apperr.Persistence("Application listing failed", err)
	}
	return batch, applications, nil
}

type BatchPage struct {
	Batches  []models.AuditionBatch `json:"batches"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

func (s *Service) ListBatches(ctx context.Context, page, pageSize int, publishedOnly bool) (*BatchPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 30 {
		pageSize = 7
	}

	listQuery := s.DB.WithContext(ctx).Model(&models.AuditionBatch{})
	countQuery := s.DB.WithContext(ctx).Model(&models.AuditionBatch{})
	if publishedOnly {
		listQuery = listQuery.Where("published_at IS NOT NULL")
		countQuery = countQuery.Where("published_at IS NOT NULL")
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, apperr.Persistence("Batch listing failed", err)
	}
	var batches []models.AuditionBatch
	if err := listQuery.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&batches).Error; err != nil {
		return nil, apperr.Persistence("Batch listing failed", err)
	}
	return &BatchPage{Batches: batches, Total: total, Page: page, PageSize: pageSize}, nil
}

// DeleteBatch soft-deletes a batch so it stops being "current".
func (s *Service) DeleteBatch(ctx context.Context, batchID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", batchID).Delete(&models.AuditionBatch{})
	if res.Error != nil {
		return apperr.Persistence("Batch deletion failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Batch not found")
	}
	return nil
}
