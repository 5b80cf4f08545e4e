package content

import (
	"context"
	"testing"

	"chronoflow-backend/internal/models"
	"chronoflow-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupContentTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Announcement{}, &models.Asset{}, &models.Lesson{}))
	return &Service{DB: db}, db
}

func TestAnnouncements_ScopeSeparation(t *testing.T) {
	s, _ := setupContentTest(t)

	_, err := s.CreateAnnouncement(context.Background(), AnnouncementInput{
		Title: "Public", Body: "news", Scope: "public",
	})
	require.NoError(t, err)
	_, err = s.CreateAnnouncement(context.Background(), AnnouncementInput{
		Title: "Private", Body: "secret", Scope: "members",
	})
	require.NoError(t, err)

	public, err := s.ListAnnouncements(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Public", public[0].Title)

	all, err := s.AdminListAnnouncements(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAnnouncements_Validation(t *testing.T) {
	s, _ := setupContentTest(t)

	_, err := s.CreateAnnouncement(context.Background(), AnnouncementInput{Title: " ", Body: "x"})
	assert.Equal(t, 400, apperr.StatusOf(err))
	_, err = s.CreateAnnouncement(context.Background(), AnnouncementInput{Title: "x", Body: "x", Scope: "vip"})
	assert.Equal(t, 400, apperr.StatusOf(err))

	// Empty scope defaults to public.
	row, err := s.CreateAnnouncement(context.Background(), AnnouncementInput{Title: "x", Body: "y"})
	require.NoError(t, err)
	assert.Equal(t, models.ScopePublic, row.Scope)
}

func TestAnnouncements_UpdateAndDelete(t *testing.T) {
	s, _ := setupContentTest(t)

	row, err := s.CreateAnnouncement(context.Background(), AnnouncementInput{Title: "Old", Body: "b"})
	require.NoError(t, err)

	updated, err := s.UpdateAnnouncement(context.Background(), row.ID, AnnouncementInput{
		Title: "New", Body: "b2", Scope: "members",
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)

	require.NoError(t, s.DeleteAnnouncement(context.Background(), row.ID))
	err = s.DeleteAnnouncement(context.Background(), row.ID)
	assert.Equal(t, 404, apperr.StatusOf(err))

	_, err = s.UpdateAnnouncement(context.Background(), uuid.New(), AnnouncementInput{Title: "x", Body: "y"})
	assert.Equal(t, 404, apperr.StatusOf(err))
}

func TestAssets(t *testing.T) {
	s, _ := setupContentTest(t)

	url := "https://cdn.example.com/pack.zip"
	_, err := s.CreateAsset(context.Background(), AssetInput{
		Name: "Logo pack", ExternalURL: &url, Scope: "members",
	})
	require.NoError(t, err)
	_, err = s.CreateAsset(context.Background(), AssetInput{Name: "Press kit"})
	require.NoError(t, err)

	public, err := s.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Press kit", public[0].Name)

	bad := "nope"
	_, err = s.CreateAsset(context.Background(), AssetInput{Name: "x", ExternalURL: &bad})
	assert.Equal(t, 400, apperr.StatusOf(err))
}

func TestLessons_SortedAndYouTubeOnly(t *testing.T) {
	s, _ := setupContentTest(t)

	_, err := s.CreateLesson(context.Background(), LessonInput{
		Title: "Second", YoutubeURL: "https://youtu.be/b", SortOrder: 2,
	})
	require.NoError(t, err)
	first, err := s.CreateLesson(context.Background(), LessonInput{
		Title: "First", YoutubeURL: "https://youtube.com/watch?v=a", SortOrder: 1,
	})
	require.NoError(t, err)

	rows, err := s.ListLessons(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "First", rows[0].Title)

	_, err = s.CreateLesson(context.Background(), LessonInput{
		Title: "Bad", YoutubeURL: "https://tiktok.com/@a/video/1",
	})
	assert.Equal(t, 400, apperr.StatusOf(err))

	require.NoError(t, s.DeleteLesson(context.Background(), first.ID))
	err = s.DeleteLesson(context.Background(), first.ID)
	assert.Equal(t, 404, apperr.StatusOf(err))
}
