package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is a published audition applicant. created_from_application_id is
// the idempotence key for publish; portal_token is an opaque capability for
// the unlisted portal page.
type Member struct {
	ID                       uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID                   *uuid.UUID `gorm:"column:user_id;type:uuid;index" json:"user_id,omitempty"`
	DisplayName              string     `gorm:"column:display_name;not null" json:"display_name"`
	JoinedAt                 time.Time  `gorm:"column:joined_at;not null" json:"joined_at"`
	IsActive                 bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	PortalToken              string     `gorm:"column:portal_token;not null;uniqueIndex" json:"-"`
	CreatedFromApplicationID *uuid.UUID `gorm:"column:created_from_application_id;type:uuid;uniqueIndex" json:"-"`
	IconURL                  *string    `gorm:"column:icon_url" json:"icon_url"`
	IconFocusX               int        `gorm:"column:icon_focus_x;not null;default:50" json:"icon_focus_x"`
	IconFocusY               int        `gorm:"column:icon_focus_y;not null;default:50" json:"icon_focus_y"`
	CreatedAt                time.Time  `json:"created_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MemberLink is a video/SNS link shown on a member's page.
type MemberLink struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MemberID  uuid.UUID `gorm:"column:member_id;type:uuid;not null;index" json:"member_id"`
	Platform  string    `gorm:"column:platform;not null" json:"platform"`
	URL       string    `gorm:"column:url;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (MemberLink) TableName() string {
	return "member_links"
}

func (l *MemberLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
