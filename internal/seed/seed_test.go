package seed

import (
	"testing"

	"chapel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func seedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.RecurringService{},
		&models.Video{},
		&models.Ebook{},
		&models.ChatMessage{},
	))
	return db
}

func TestWeeklySchedule_Idempotent(t *testing.T) {
	db := seedTestDB(t)

	require.NoError(t, WeeklySchedule(db))
	var count int64
	require.NoError(t, db.Model(&models.RecurringService{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultWeeklyTemplates)), count)

	// Second run does not duplicate templates.
	require.NoError(t, WeeklySchedule(db))
	require.NoError(t, db.Model(&models.RecurringService{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultWeeklyTemplates)), count)

	var tpl models.RecurringService
	require.NoError(t, db.Where("title = ?", "Sunday Morning Worship").First(&tpl).Error)
	assert.Equal(t, 0, tpl.DayOfWeek)
	assert.Equal(t, "10:00", tpl.Time)
}

func TestFactory_BuildVideo(t *testing.T) {
	f := NewFactory(seedTestDB(t))

	video := f.BuildVideo()
	assert.NotEmpty(t, video.Title)
	assert.Len(t, video.YouTubeID, 11)
	assert.True(t, video.Published)

	draft := f.BuildVideo(func(v *models.Video) { v.Published = false })
	assert.False(t, draft.Published)
}

func TestFactory_DemoLibrary(t *testing.T) {
	db := seedTestDB(t)
	f := NewFactory(db)

	require.NoError(t, f.DemoLibrary(5, 3))

	var videos, ebooks int64
	require.NoError(t, db.Model(&models.Video{}).Count(&videos).Error)
	require.NoError(t, db.Model(&models.Ebook{}).Count(&ebooks).Error)
	assert.Equal(t, int64(5), videos)
	assert.Equal(t, int64(3), ebooks)
}

func TestRun(t *testing.T) {
	db := seedTestDB(t)
	require.NoError(t, Run(db))

	var tpls int64
	require.NoError(t, db.Model(&models.RecurringService{}).Count(&tpls).Error)
	assert.Equal(t, int64(len(DefaultWeeklyTemplates)), tpls)
}
