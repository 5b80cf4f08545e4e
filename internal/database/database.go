package database

import (
	"chronoflow-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind poolers (PgBouncer, Supabase).
// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
}

// AutoMigrate runs migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.UserAccountControl{},
		&models.AuditionBatch{},
		&models.AuditionApplication{},
		&models.ResubmitPermission{},
		&models.Member{},
		&models.MemberLink{},
		&models.Reaction{},
		&models.LinkReaction{},
		&models.Announcement{},
		&models.Asset{},
		&models.Lesson{},
		&models.ContactInquiry{},
		&models.SecurityEvent{},
	)
}
