package repository

import (
	"context"
	"testing"

	"chapel/internal/database"
	"chapel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func configTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)
	return db
}

func TestStreamConfigRepository_CreatesSingletonOnFirstRead(t *testing.T) {
	db := configTestDB(t)
	repo := NewStreamConfigRepository(db)
	ctx := context.Background()

	cfg, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StreamConfigKey, cfg.Key)
	assert.Equal(t, models.PlatformNone, cfg.Platform)
	assert.False(t, cfg.IsLive)
	assert.True(t, cfg.Chat.Enabled)

	var count int64
	require.NoError(t, db.Model(&models.StreamConfig{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// A second read finds the same row, not a second one.
	_, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.StreamConfig{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStreamConfigRepository_ReadsAreFullyShaped(t *testing.T) {
	db := configTestDB(t)
	repo := NewStreamConfigRepository(db)
	ctx := context.Background()

	// Plant a record missing enum and bound fields, as one written by an
	// older build would be.
	stale := models.StreamConfig{Key: models.StreamConfigKey, IsLive: true}
	require.NoError(t, db.Create(&stale).Error)

	cfg, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PlatformNone, cfg.Platform)
	assert.Equal(t, models.ChatSourceYouTubeEmbed, cfg.Chat.Source)
	assert.Equal(t, models.ApprovalAuto, cfg.Chat.ApprovalMode)
	assert.Equal(t, 500, cfg.Chat.MaxMessageLength)
	assert.NotNil(t, cfg.Chat.BlockedWords)
	assert.True(t, cfg.IsLive, "stored values survive backfill")
}

func TestStreamConfigRepository_ApplyMergesPartialWrites(t *testing.T) {
	db := configTestDB(t)
	repo := NewStreamConfigRepository(db)
	ctx := context.Background()

	platform := models.PlatformYouTube
	videoID := "dQw4w9WgXcQ"
	title := "Sunday Service"
	welcome := "Welcome to chapel"
	_, err := repo.Apply(ctx, models.StreamConfigPatch{
		Platform:       &platform,
		YouTubeVideoID: &videoID,
		Title:          &title,
		Chat:           &models.ChatConfigPatch{WelcomeMessage: &welcome},
	})
	require.NoError(t, err)

	// A quick switch carrying only the live flag.
	live := true
	cfg, err := repo.Apply(ctx, models.StreamConfigPatch{IsLive: &live})
	require.NoError(t, err)
	assert.True(t, cfg.IsLive)
	assert.Equal(t, models.PlatformYouTube, cfg.Platform)
	assert.Equal(t, "dQw4w9WgXcQ", cfg.YouTubeVideoID)
	assert.Equal(t, "Sunday Service", cfg.Title)
	assert.Equal(t, "Welcome to chapel", cfg.Chat.WelcomeMessage)

	// Persisted, not just returned.
	cfg, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.IsLive)
	assert.Equal(t, "Sunday Service", cfg.Title)
}

func TestStreamConfigRepository_ApplyDeepChatMerge(t *testing.T) {
	db := configTestDB(t)
	repo := NewStreamConfigRepository(db)
	ctx := context.Background()

	words := []string{"Heresy", " spoiler "}
	_, err := repo.Apply(ctx, models.StreamConfigPatch{
		Chat: &models.ChatConfigPatch{BlockedWords: &words},
	})
	require.NoError(t, err)

	slow := 30
	cfg, err := repo.Apply(ctx, models.StreamConfigPatch{
		Chat: &models.ChatConfigPatch{SlowModeSeconds: &slow},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Chat.SlowModeSeconds)
	assert.Equal(t, []string{"heresy", "spoiler"}, cfg.Chat.BlockedWords)
}

func TestStreamConfigRepository_ResetKeepsRow(t *testing.T) {
	db := configTestDB(t)
	repo := NewStreamConfigRepository(db)
	ctx := context.Background()

	live := true
	title := "Sunday Service"
	_, err := repo.Apply(ctx, models.StreamConfigPatch{IsLive: &live, Title: &title})
	require.NoError(t, err)

	cfg, err := repo.Reset(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.IsLive)
	assert.Equal(t, "", cfg.Title)

	var count int64
	require.NoError(t, db.Model(&models.StreamConfig{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
