package members

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
	"gorm.io/gorm"
)

const maxListLimit = 200
const defaultListLimit = 100

type Service struct {
	DB *gorm.DB
}

// List returns active members, oldest joiners first. q filters on display
// name, case-insensitively.
func (s *Service) List(ctx context.Context, q string, limit int) ([]models.Member, error) {
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}

	query := s.DB.WithContext(ctx).Where("is_active = ?", true)
	if trimmed := validation.SafeText(q, 0, 120); trimmed != "" {
		query = query.Where("LOWER(display_name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}

	var out []models.Member
	if err := query.Order("joined_at ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, apperr.Persistence("Member listing failed", err)
	}
	return out, nil
}

// LinkWithLikes is a member link annotated with its all-time like count.
type LinkWithLikes struct {
	models.MemberLink
	LikeCount int64 `json:"like_count"`
}

// Detail is the public member page payload.
type Detail struct {
	Member        *models.Member  `json:"member"`
	Links         []LinkWithLikes `json:"links"`
	ReactionCount int64           `json:"reactionCount"`
}

func (s *Service) Get(ctx context.Context, memberID uuid.UUID) (*Detail, error) {
	var member models.Member
	if err := s.DB.WithContext(ctx).Where("id = ? AND is_active = ?", memberID, true).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Member not found")
		}
		return nil, apperr.Persistence("Member lookup failed", err)
	}

	var links []models.MemberLink
	if err := s.DB.WithContext(ctx).Where("member_id = ?", memberID).Order("created_at ASC").Find(&links).Error; err != nil {
		return nil, apperr.Persistence("Member lookup failed", err)
	}

	annotated := make([]LinkWithLikes, 0, len(links))
	if len(links) > 0 {
		ids := make([]uuid.UUID, 0, len(links))
		for _, l := range links {
			ids = append(ids, l.ID)
		}
		type countRow struct {
			MemberLinkID uuid.UUID
			N            int64
		}
		var counts []countRow
		if err := s.DB.WithContext(ctx).Model(&models.LinkReaction{}).
			Select("member_link_id, COUNT(*) AS n").
			Where("member_link_id IN ?", ids).
			Group("member_link_id").
			Scan(&counts).Error; err != nil {
			return nil, apperr.Persistence("Member lookup failed", err)
		}
		byLink := make(map[uuid.UUID]int64, len(counts))
		for _, row := range counts {
			byLink[row.MemberLinkID] = row.N
		}
		for _, l := range links {
			annotated = append(annotated, LinkWithLikes{MemberLink: l, LikeCount: byLink[l.ID]})
		}
	}

	var reactionCount int64
	if err := s.DB.WithContext(ctx).Model(&models.Reaction{}).
		Where("member_id = ?", memberID).
		Count(&reactionCount).Error; err != nil {
		return nil, apperr.Persistence("Member lookup failed", err)
	}

	return &Detail{Member: &member, Links: annotated, ReactionCount: reactionCount}, nil
}

// Portal is the unlisted member-only page, keyed by the opaque portal token.
type Portal struct {
	Member        *models.Member        `json:"member"`
	Announcements []models.Announcement `json:"announcements"`
	Assets        []models.Asset        `json:"assets"`
}

// GetPortal resolves a portal token. Inactive members lose portal access.
func (s *Service) GetPortal(ctx context.Context, token string) (*Portal, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, apperr.NotFound("Portal not found")
	}

	var member models.Member
	if err := s.DB.WithContext(ctx).Where("portal_token = ? AND is_active = ?", trimmed, true).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Portal not found")
		}
		return nil, apperr.Persistence("Portal lookup failed", err)
	}

	var announcements []models.Announcement
	if err := s.DB.WithContext(ctx).Where("scope = ?", models.ScopeMembers).
		Order("created_at DESC").Limit(20).Find(&announcements).Error; err != nil {
		return nil, apperr.Persistence("Portal lookup failed", err)
	}
	var assets []models.Asset
	if err := s.DB.WithContext(ctx).Where("scope = ?", models.ScopeMembers).
		Order("created_at DESC").Find(&assets).Error; err != nil {
		return nil, apperr.Persistence("Portal lookup failed", err)
	}

	return &Portal{Member: &member, Announcements: announcements, Assets: assets}, nil
}

type AdminPage struct {
	Members  []models.Member `json:"members"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// AdminList includes inactive members, newest first.
func (s *Service) AdminList(ctx context.Context, page, pageSize int) (*AdminPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, apperr.Persistence("Member listing failed", err)
	}
	var rows []models.Member
	if err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("Member listing failed", err)
	}
	return &AdminPage{Members: rows, Total: total, Page: page, PageSize: pageSize}, nil
}

type AdminUpdateInput struct {
	DisplayName *string
	IsActive    *bool
	IconURL     *string
	IconFocusX  *int
	IconFocusY  *int
	JoinedAt    *time.Time
}

func (s *Service) AdminUpdate(ctx context.Context, memberID uuid.UUID, in AdminUpdateInput) (*models.Member, error) {
	var member models.Member
	if err := s.DB.WithContext(ctx).Where("id = ?", memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Member not found")
		}
		return nil, apperr.Persistence("Member lookup failed", err)
	}

	updates := map[string]interface{}{}
	if in.DisplayName != nil {
		name := validation.SafeText(*in.DisplayName, 1, 120)
		if name == "" {
			return nil, apperr.Validation("Invalid display name")
		}
		updates["display_name"] = name
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.IconURL != nil {
		if *in.IconURL != "" && !platform.IsValidURL(*in.IconURL) {
			return nil, apperr.Validation("Invalid icon URL")
		}
		updates["icon_url"] = in.IconURL
	}
	if in.IconFocusX != nil {
		updates["icon_focus_x"] = validation.ClampFocus(in.IconFocusX)
	}
	if in.IconFocusY != nil {
		updates["icon_focus_y"] = validation.ClampFocus(in.IconFocusY)
	}
	if in.JoinedAt != nil {
		updates["joined_at"] = *in.JoinedAt
	}
	if len(updates) == 0 {
		return &member, nil
	}

	if err := s.DB.WithContext(ctx).Model(&member).Updates(updates).Error; err != nil {
		return nil, apperr.Persistence("Member update failed", err)
	}
	return &member, nil
}

// AdminDelete removes a member with its links and reactions.
func (s *Service) AdminDelete(ctx context.Context, memberID uuid.UUID) error {
	var member models.Member
	if err := s.DB.WithContext(ctx).Where("id = ?", memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Member not found")
		}
		return apperr.Persistence("Member lookup failed", err)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var linkIDs []uuid.UUID
		if err := tx.Model(&models.MemberLink{}).Where("member_id = ?", memberID).Pluck("id", &linkIDs).Error; err != nil {
			return err
		}
		if len(linkIDs) > 0 {
			if err := tx.Where("member_link_id IN ?", linkIDs).Delete(&models.LinkReaction{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("member_id = ?", memberID).Delete(&models.MemberLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", memberID).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", memberID).Delete(&models.Member{}).Error
	})
	if err != nil {
		return apperr.Persistence("Member deletion failed", err)
	}
	return nil
}

// AddLink attaches a platform-checked video/SNS link to a member.
func (s *Service) AddLink(ctx context.Context, memberID uuid.UUID, url string) (*models.MemberLink, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" || !platform.IsAllowedAuditionURL(trimmed) {
		return nil, apperr.Validation("Link URL must be on YouTube, TikTok or Instagram")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Member{}).Where("id = ?", memberID).Count(&count).Error; err != nil {
		return nil, apperr.Persistence("Member lookup failed", err)
	}
	if count == 0 {
		return nil, apperr.NotFound("Member not found")
	}

	link := &models.MemberLink{
		MemberID: memberID,
		Platform: string(platform.FromURL(trimmed)),
		URL:      trimmed,
	}
	if err := s.DB.WithContext(ctx).Create(link).Error; err != nil {
		return nil, apperr.Persistence("Link creation failed", err)
	}
	return link, nil
}

// RemoveLink deletes a link and its reactions.
func (s *Service) RemoveLink(ctx context.Context, memberID, linkID uuid.UUID) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND member_id = ?", linkID, memberID).Delete(&models.MemberLink{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Link not found")
		}
		return tx.Where("member_link_id = ?", linkID).Delete(&models.LinkReaction{}).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperr.Persistence("Link deletion failed", err)
	}
	return nil
}
