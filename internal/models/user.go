package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. Display name and icon live in UserProfile.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	LastSignInAt *time.Time `gorm:"column:last_sign_in_at" json:"last_sign_in_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile holds the public-facing bits of an account, created lazily on
// first access.
type UserProfile struct {
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	DisplayName string    `gorm:"column:display_name;not null" json:"display_name"`
	IconURL     *string   `gorm:"column:icon_url" json:"icon_url"`
	IconFocusX  int       `gorm:"column:icon_focus_x;not null;default:50" json:"icon_focus_x"`
	IconFocusY  int       `gorm:"column:icon_focus_y;not null;default:50" json:"icon_focus_y"`
	Bio         *string   `gorm:"column:bio" json:"bio"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// UserAccountControl carries moderation flags (suspension) and the member
// access grant set by audition publish.
type UserAccountControl struct {
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	IsSuspended     bool       `gorm:"column:is_suspended;not null;default:false" json:"is_suspended"`
	SuspendReason   *string    `gorm:"column:suspend_reason" json:"suspend_reason"`
	SuspendedAt     *time.Time `gorm:"column:suspended_at" json:"suspended_at"`
	IsMember        bool       `gorm:"column:is_member;not null;default:false" json:"is_member"`
	MemberGrantedAt *time.Time `gorm:"column:member_granted_at" json:"member_granted_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (UserAccountControl) TableName() string {
	return "user_account_controls"
}
