package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement scopes.
const (
	ScopePublic  = "public"
	ScopeMembers = "members"
)

type Announcement struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Body      string    `gorm:"column:body;not null" json:"body"`
	Scope     string    `gorm:"column:scope;not null;default:public;index" json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Asset is a downloadable resource shared with members via an external URL.
type Asset struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	ExternalURL *string   `gorm:"column:external_url" json:"external_url"`
	Description *string   `gorm:"column:description" json:"description"`
	Scope       string    `gorm:"column:scope;not null;default:members;index" json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Asset) TableName() string {
	return "assets"
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Lesson is a video course entry, ordered by sort_order then recency.
type Lesson struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	YoutubeURL string    `gorm:"column:youtube_url;not null" json:"youtube_url"`
	SortOrder  int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
