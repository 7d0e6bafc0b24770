package models

import (
	"time"

	"gorm.io/gorm"
)

// Video is a sermon recording in the media library.
type Video struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Speaker      string         `gorm:"size:255;index" json:"speaker"`
	YouTubeID    string         `gorm:"size:20" json:"youtube_id"`
	ThumbnailURL string         `gorm:"size:500" json:"thumbnail_url"`
	Series       string         `gorm:"size:255;index" json:"series"`
	Duration     int            `json:"duration"` // seconds
	PreachedAt   *time.Time     `json:"preached_at,omitempty"`
	Published    bool           `gorm:"default:false;index" json:"published"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Ebook is an entry in the e-book catalog.
type Ebook struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Author    string         `gorm:"size:255;index" json:"author"`
	CoverURL  string         `gorm:"size:500" json:"cover_url"`
	FileURL   string         `gorm:"size:500;not null" json:"file_url"`
	Category  string         `gorm:"size:100;index" json:"category"`
	Summary   string         `gorm:"type:text" json:"summary"`
	Published bool           `gorm:"default:false;index" json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
