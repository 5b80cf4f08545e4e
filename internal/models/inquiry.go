package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactInquiry struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid;index" json:"user_id,omitempty"`
	Email     string     `gorm:"column:email;not null" json:"email"`
	Subject   string     `gorm:"column:subject;not null" json:"subject"`
	Message   string     `gorm:"column:message;not null" json:"message"`
	Status    string     `gorm:"column:status;not null;default:open" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

func (ContactInquiry) TableName() string {
	return "contact_inquiries"
}

func (i *ContactInquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
