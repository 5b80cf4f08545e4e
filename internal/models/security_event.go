package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEvent is an audit-trail row for sensitive actions (admin logins,
// suspensions, contact submissions).
type SecurityEvent struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EventType   string            `gorm:"column:event_type;not null;index" json:"event_type"`
	Severity    string            `gorm:"column:severity;not null;default:info" json:"severity"`
	ActorUserID *uuid.UUID        `gorm:"column:actor_user_id;type:uuid" json:"actor_user_id"`
	Target      *string           `gorm:"column:target" json:"target"`
	Detail      datatypes.JSONMap `gorm:"column:detail" json:"detail"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (SecurityEvent) TableName() string {
	return "security_events"
}

func (e *SecurityEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
