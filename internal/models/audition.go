package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditionBatch is one application round. At most one batch is "current"
// (latest non-deleted); apply_open_at < apply_close_at.
type AuditionBatch struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	ApplyOpenAt  time.Time      `gorm:"column:apply_open_at;not null" json:"apply_open_at"`
	ApplyCloseAt time.Time      `gorm:"column:apply_close_at;not null" json:"apply_close_at"`
	PublishedAt  *time.Time     `gorm:"column:published_at" json:"published_at"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AuditionBatch) TableName() string {
	return "audition_batches"
}

func (b *AuditionBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Application statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// AuditionApplication is a user's submission to a batch. advice_text is
// non-null only when status is rejected. The (batch_id, applied_by_user_id)
// index is deliberately non-unique: a consumed resubmit permission allows a
// second row for the same pair.
type AuditionApplication struct {
	ID                   uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	BatchID              uuid.UUID                   `gorm:"column:batch_id;type:uuid;not null;index:idx_applications_batch_user" json:"batch_id"`
	AppliedByUserID      *uuid.UUID                  `gorm:"column:applied_by_user_id;type:uuid;index:idx_applications_batch_user" json:"applied_by_user_id"`
	DisplayName          string                      `gorm:"column:display_name;not null" json:"display_name"`
	VideoURL             string                      `gorm:"column:video_url;not null" json:"video_url"`
	SNSURLs              datatypes.JSONSlice[string] `gorm:"column:sns_urls" json:"sns_urls"`
	ConsentPublicProfile bool                        `gorm:"column:consent_public_profile;not null" json:"consent_public_profile"`
	ConsentAdvice        bool                        `gorm:"column:consent_advice;not null" json:"consent_advice"`
	Status               string                      `gorm:"column:status;not null;default:pending" json:"status"`
	AdviceText           *string                     `gorm:"column:advice_text" json:"advice_text,omitempty"`
	ApplicationCode      string                      `gorm:"column:application_code;not null;uniqueIndex" json:"-"`
	CreatedAt            time.Time                   `json:"created_at"`
	ReviewedAt           *time.Time                  `gorm:"column:reviewed_at" json:"reviewed_at"`
}

func (AuditionApplication) TableName() string {
	return "audition_applications"
}

func (a *AuditionApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ResubmitPermission is an admin-granted one-shot allowance for a second
// application in the same batch. Deleted when consumed.
type ResubmitPermission struct {
	BatchID                uuid.UUID `gorm:"column:batch_id;type:uuid;primaryKey" json:"batch_id"`
	UserID                 uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	GrantedByApplicationID uuid.UUID `gorm:"column:granted_by_application_id;type:uuid;not null" json:"granted_by_application_id"`
	GrantedAt              time.Time `gorm:"column:granted_at;not null" json:"granted_at"`
}

func (ResubmitPermission) TableName() string {
	return "audition_resubmit_permissions"
}
