// Package seed provides database seeding utilities for development and
// demo environments.
package seed

import (
	"errors"
	"fmt"
	"log"

	"chapel/internal/models"

	"gorm.io/gorm"
)

// WeeklyTemplate is a recurring service installed on first run so a fresh
// install always has a schedule to show.
type WeeklyTemplate struct {
	Title     string
	DayOfWeek int
	Time      string
	Duration  int
	Speaker   string
}

// DefaultWeeklyTemplates defines the standard service week. Operators
// edit or delete them from the console afterwards.
var DefaultWeeklyTemplates = []WeeklyTemplate{
	{Title: "Sunday Morning Worship", DayOfWeek: 0, Time: "10:00", Duration: 2, Speaker: "Pastor Allen"},
	{Title: "Sunday Evening Service", DayOfWeek: 0, Time: "18:00", Duration: 2, Speaker: "Pastor Allen"},
	{Title: "Midweek Bible Study", DayOfWeek: 3, Time: "19:00", Duration: 1, Speaker: "Elder Reyes"},
}

// Run installs the default schedule and a demo media library. It is
// idempotent: existing rows are matched by title and left alone.
func Run(db *gorm.DB) error {
	if err := WeeklySchedule(db); err != nil {
		return err
	}

	f := NewFactory(db)
	if err := f.DemoLibrary(8, 4); err != nil {
		return err
	}

	log.Println("demo data seeding complete")
	return nil
}

// WeeklySchedule installs DefaultWeeklyTemplates, skipping any template
// whose title already exists.
func WeeklySchedule(db *gorm.DB) error {
	for _, item := range DefaultWeeklyTemplates {
		err := db.Transaction(func(tx *gorm.DB) error {
			var existing models.RecurringService
			queryErr := tx.Where("title = ?", item.Title).First(&existing).Error
			switch {
			case queryErr == nil:
				return nil
			case !errors.Is(queryErr, gorm.ErrRecordNotFound):
				return queryErr
			}

			tpl := models.RecurringService{
				Title:         item.Title,
				DayOfWeek:     item.DayOfWeek,
				Time:          item.Time,
				DurationHours: item.Duration,
				Speaker:       item.Speaker,
			}
			return tx.Create(&tpl).Error
		})
		if err != nil {
			return fmt.Errorf("seed weekly template %q: %w", item.Title, err)
		}
	}
	return nil
}
