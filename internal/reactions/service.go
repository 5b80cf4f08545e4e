package reactions

import (
	"context"
	"errors"
	"time"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/pkg/apperr"
	"chronoflow-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB  *gorm.DB
	now func() time.Time
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// today is the UTC calendar day used as the daily-uniqueness bucket.
func (s *Service) today() string {
	return s.clock().UTC().Format("2006-01-02")
}

type ReactInput struct {
	MemberID     *uuid.UUID
	MemberLinkID *uuid.UUID
	DeviceID     string
}

// React records one like per device per target per UTC day. Exactly one of
// MemberID and MemberLinkID must be set.
func (s *Service) React(ctx context.Context, in ReactInput) error {
	if !validation.IsValidDeviceID(in.DeviceID) {
		return apperr.Validation("Invalid device ID")
	}
	if (in.MemberID == nil) == (in.MemberLinkID == nil) {
		return apperr.Validation("Specify exactly one reaction target")
	}

	day := s.today()
	var err error
	if in.MemberID != nil {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.Member{}).
			Where("id = ? AND is_active = ?", *in.MemberID, true).
			Count(&count).Error; err != nil {
			return apperr.Persistence("Reaction failed", err)
		}
		if count == 0 {
			return apperr.NotFound("Member not found")
		}
		err = s.DB.WithContext(ctx).Create(&models.Reaction{
			MemberID:  *in.MemberID,
			DeviceID:  in.DeviceID,
			ReactedOn: day,
		}).Error
	} else {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.MemberLink{}).
			Where("id = ?", *in.MemberLinkID).
			Count(&count).Error; err != nil {
			return apperr.Persistence("Reaction failed", err)
		}
		if count == 0 {
			return apperr.NotFound("Link not found")
		}
		err = s.DB.WithContext(ctx).Create(&models.LinkReaction{
			MemberLinkID: *in.MemberLinkID,
			DeviceID:     in.DeviceID,
			ReactedOn:    day,
		}).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("Already reacted today")
		}
		return apperr.Persistence("Reaction failed", err)
	}
	return nil
}

// RankingRow is one member in the like leaderboard.
type RankingRow struct {
	MemberID    uuid.UUID `json:"member_id"`
	DisplayName string    `json:"display_name"`
	IconURL     *string   `json:"icon_url"`
	JoinedAt    time.Time `json:"joined_at"`
	LikeCount   int64     `json:"like_count"`
}

type RankingPage struct {
	Range    string       `json:"range"`
	Rows     []RankingRow `json:"rows"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

// Rankings aggregates link likes per member. rangeKey is "all" or "30d";
// ties break toward the older joiner.
func (s *Service) Rankings(ctx context.Context, rangeKey string, page, pageSize int) (*RankingPage, error) {
	if rangeKey != "all" && rangeKey != "30d" {
		rangeKey = "all"
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.DB.WithContext(ctx).Model(&models.LinkReaction{}).
		Select("members.id AS member_id, members.display_name, members.icon_url, members.joined_at, COUNT(*) AS like_count").
		Joins("JOIN member_links ON member_links.id = link_reactions.member_link_id").
		Joins("JOIN members ON members.id = member_links.member_id").
		Where("members.is_active = ?", true).
		Group("members.id, members.display_name, members.icon_url, members.joined_at").
		Order("like_count DESC, members.joined_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize)
	if rangeKey == "30d" {
		cutoff := s.clock().UTC().AddDate(0, 0, -30).Format("2006-01-02")
		query = query.Where("link_reactions.reacted_on >= ?", cutoff)
	}

	rows := []RankingRow{}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, apperr.Persistence("Ranking query failed", err)
	}
	return &RankingPage{Range: rangeKey, Rows: rows, Page: page, PageSize: pageSize}, nil
}
