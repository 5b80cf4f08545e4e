package security

import (
	"context"

	"chronoflow-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event describes a sensitive action worth auditing.
type Event struct {
	EventType   string
	Severity    string // info | warn | error
	ActorUserID *uuid.UUID
	Target      string
	Detail      map[string]interface{}
}

// Logger writes security events to the log and the security_events table.
// Persistence failures are logged but never fail the calling request.
type Logger struct {
	DB *gorm.DB
}

func (l *Logger) Log(ctx context.Context, e Event) {
	if e.Severity == "" {
		e.Severity = "info"
	}

	evt := log.Info()
	if e.Severity == "warn" {
		evt = log.Warn()
	} else if e.Severity == "error" {
		evt = log.Error()
	}
	evt.Str("event_type", e.EventType).Str("target", e.Target).Msg("security event")

	if l.DB == nil {
		return
	}
	row := &models.SecurityEvent{
		EventType:   e.EventType,
		Severity:    e.Severity,
		ActorUserID: e.ActorUserID,
		Detail:      datatypes.JSONMap(e.Detail),
	}
	if e.Target != "" {
		row.Target = &e.Target
	}
	if err := l.DB.WithContext(ctx).Create(row).Error; err != nil {
		log.Error().Err(err).Str("event_type", e.EventType).Msg("security event persist failed")
	}
}

// ListInput pages through recorded events, newest first.
type ListInput struct {
	Page     int
	PageSize int
}

func (l *Logger) List(ctx context.Context, in ListInput) ([]models.SecurityEvent, int64, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 30
	}

	var total int64
	if err := l.DB.WithContext(ctx).Model(&models.SecurityEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var events []models.SecurityEvent
	if err := l.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
