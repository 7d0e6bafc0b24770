package models

import (
	"time"
)

// ScheduledService is a one-off service event created by the operator.
// A service becomes "past" once its date+time is behind read time; past
// rows are filtered out of upcoming views but never auto-deleted.
type ScheduledService struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Time        string    `gorm:"size:5;not null" json:"time"` // "15:04" local time-of-day
	Speaker     string    `gorm:"size:255" json:"speaker"`
	Thumbnail   string    `gorm:"size:500" json:"thumbnail"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsSpecial   bool      `gorm:"default:false" json:"is_special"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecurringService is a weekly repeating template, never a concrete event.
// The schedule service maps (template, now) to the next occurrence.
type RecurringService struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	DayOfWeek     int       `gorm:"not null" json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	Time          string    `gorm:"size:5;not null" json:"time"` // "15:04"
	DurationHours int       `gorm:"default:2" json:"duration_hours"`
	Speaker       string    `gorm:"size:255" json:"speaker"`
	Thumbnail     string    `gorm:"size:500" json:"thumbnail"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ServiceOccurrence is a concrete occurrence derived from a recurring
// template or lifted from a one-off scheduled service.
type ServiceOccurrence struct {
	TemplateID uint      `json:"template_id,omitempty"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Speaker    string    `json:"speaker"`
	Thumbnail  string    `json:"thumbnail"`
	IsLive     bool      `json:"is_live"`
	StartsAt   time.Time `json:"starts_at"`
}
