package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction is a device-keyed daily like for a member profile. The unique
// index enforces one reaction per device per member per day.
type Reaction struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MemberID  uuid.UUID `gorm:"column:member_id;type:uuid;not null;uniqueIndex:idx_reactions_daily" json:"member_id"`
	DeviceID  string    `gorm:"column:device_id;not null;uniqueIndex:idx_reactions_daily" json:"-"`
	ReactedOn string    `gorm:"column:reacted_on;not null;uniqueIndex:idx_reactions_daily" json:"reacted_on"`
	CreatedAt time.Time `json:"created_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// LinkReaction is the same daily like, targeted at a member video link.
type LinkReaction struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MemberLinkID uuid.UUID `gorm:"column:member_link_id;type:uuid;not null;uniqueIndex:idx_link_reactions_daily" json:"member_link_id"`
	DeviceID     string    `gorm:"column:device_id;not null;uniqueIndex:idx_link_reactions_daily" json:"-"`
	ReactedOn    string    `gorm:"column:reacted_on;not null;uniqueIndex:idx_link_reactions_daily" json:"reacted_on"`
	CreatedAt    time.Time `json:"created_at"`
}

func (LinkReaction) TableName() string {
	return "link_reactions"
}

func (r *LinkReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
