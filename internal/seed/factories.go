package seed

import (
	"fmt"
	"math/rand"
	"time"

	"chapel/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var (
	sermonSeries = []string{
		"Psalms", "The Gospel of John", "Romans", "Parables",
		"Fruit of the Spirit", "Advent", "Acts",
	}
	speakers = []string{
		"Pastor Allen", "Elder Reyes", "Pastor Kim", "Guest Speaker",
	}
	// archive sermons reference real public video IDs so demo embeds load
	archiveVideoIDs = []string{
		"dQw4w9WgXcQ", "9bZkp7q19f0", "3JZ_D3ELwOQ", "L_jWHffIx5E", "kXYiU_JCYtU",
	}
	ebookCategories = []string{"devotional", "study-guide", "theology"}
)

// BuildVideo constructs an archived sermon video without persisting it.
func (f *Factory) BuildVideo(overrides ...func(*models.Video)) *models.Video {
	id := archiveVideoIDs[f.r.Intn(len(archiveVideoIDs))]
	preached := time.Now().AddDate(0, 0, -f.r.Intn(365))
	video := &models.Video{
		Title:        fmt.Sprintf("%s: %s", sermonSeries[f.r.Intn(len(sermonSeries))], gofakeit.Sentence(4)),
		Description:  gofakeit.Paragraph(1, 3, 8, "\n"),
		Speaker:      speakers[f.r.Intn(len(speakers))],
		YouTubeID:    id,
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id),
		Series:       sermonSeries[f.r.Intn(len(sermonSeries))],
		Duration:     1800 + f.r.Intn(3600),
		PreachedAt:   &preached,
		Published:    true,
	}
	for _, override := range overrides {
		override(video)
	}
	return video
}

// BuildEbook constructs a downloadable resource without persisting it.
func (f *Factory) BuildEbook(overrides ...func(*models.Ebook)) *models.Ebook {
	slug := gofakeit.UUID()
	ebook := &models.Ebook{
		Title:     gofakeit.BookTitle(),
		Author:    gofakeit.Name(),
		CoverURL:  fmt.Sprintf("https://picsum.photos/seed/%s/400/600", slug),
		FileURL:   fmt.Sprintf("https://files.chapel.local/ebooks/%s.pdf", slug),
		Category:  ebookCategories[f.r.Intn(len(ebookCategories))],
		Summary:   gofakeit.Paragraph(1, 2, 10, " "),
		Published: true,
	}
	for _, override := range overrides {
		override(ebook)
	}
	return ebook
}

// BuildChatMessage constructs a guest chat message without persisting it.
func (f *Factory) BuildChatMessage(sessionID string, overrides ...func(*models.ChatMessage)) *models.ChatMessage {
	msg := &models.ChatMessage{
		SessionID:   sessionID,
		DisplayName: gofakeit.FirstName(),
		Content:     gofakeit.Sentence(6 + f.r.Intn(10)),
		Approved:    true,
	}
	for _, override := range overrides {
		override(msg)
	}
	return msg
}

// DemoLibrary persists a batch of published videos and ebooks.
func (f *Factory) DemoLibrary(videos, ebooks int) error {
	for i := 0; i < videos; i++ {
		if err := f.db.Create(f.BuildVideo()).Error; err != nil {
			return fmt.Errorf("seed demo video: %w", err)
		}
	}
	for i := 0; i < ebooks; i++ {
		if err := f.db.Create(f.BuildEbook()).Error; err != nil {
			return fmt.Errorf("seed demo ebook: %w", err)
		}
	}
	return nil
}
