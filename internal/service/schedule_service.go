package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"chapel/internal/models"
	"chapel/internal/repository"
)

// ScheduleService maps weekly templates and one-off services to concrete
// occurrences relative to a clock. The clock is injected so tests can pin
// "now" to any day of the week.
type ScheduleService struct {
	scheduleRepo repository.ScheduleRepository
	now          func() time.Time
}

// NewScheduleService creates a new schedule service using the wall clock.
func NewScheduleService(scheduleRepo repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo, now: time.Now}
}

// NewScheduleServiceWithClock creates a schedule service with a fixed clock.
func NewScheduleServiceWithClock(scheduleRepo repository.ScheduleRepository, now func() time.Time) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo, now: now}
}

// parseTimeOfDay parses a "15:04" wall-clock string.
func parseTimeOfDay(s string) (hour, minute int, err error) {
	if _, err := time.Parse("15:04", s); err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	fmt.Sscanf(s, "%d:%d", &hour, &minute)
	return hour, minute, nil
}

// NextOccurrence computes the next concrete occurrence of a weekly template.
//
// The base date is the next calendar day matching the template's weekday, at
// the template's time of day. One override applies: when now falls inside
// the live window [start, start+duration) of an occurrence on the current
// calendar day, the occurrence is pinned to today even though the start
// time is already behind the clock. Without the override an in-progress
// Sunday service would advertise next Sunday while it is still running.
func (s *ScheduleService) NextOccurrence(tpl *models.RecurringService, now time.Time) (*models.ServiceOccurrence, error) {
	hour, minute, err := parseTimeOfDay(tpl.Time)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(tpl.DurationHours) * time.Hour
	if duration <= 0 {
		duration = 2 * time.Hour
	}

	occDate := now
	if int(now.Weekday()) == tpl.DayOfWeek {
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		switch {
		case now.Before(todayStart):
			// later today
		case now.Before(todayStart.Add(duration)):
			// live right now, pin to today
		default:
			occDate = now.AddDate(0, 0, 7)
		}
	} else {
		daysAhead := (tpl.DayOfWeek - int(now.Weekday()) + 7) % 7
		occDate = now.AddDate(0, 0, daysAhead)
	}

	startsAt := time.Date(occDate.Year(), occDate.Month(), occDate.Day(), hour, minute, 0, 0, now.Location())
	return &models.ServiceOccurrence{
		TemplateID: tpl.ID,
		Title:      tpl.Title,
		Date:       time.Date(occDate.Year(), occDate.Month(), occDate.Day(), 0, 0, 0, 0, now.Location()),
		Time:       tpl.Time,
		Speaker:    tpl.Speaker,
		Thumbnail:  tpl.Thumbnail,
		IsLive:     !now.Before(startsAt) && now.Before(startsAt.Add(duration)),
		StartsAt:   startsAt,
	}, nil
}

// NextUpcomingService returns the single occurrence the landing page should
// feature: a currently live occurrence wins outright, otherwise the soonest
// future start. One-off scheduled services compete on equal footing with
// recurring templates. Returns nil when nothing is scheduled.
func (s *ScheduleService) NextUpcomingService(ctx context.Context) (*models.ServiceOccurrence, error) {
	now := s.now()

	tpls, err := s.scheduleRepo.GetAllRecurring(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	scheduled, err := s.scheduleRepo.GetUpcomingScheduled(ctx, now, 20)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var occurrences []*models.ServiceOccurrence
	for _, tpl := range tpls {
		occ, err := s.NextOccurrence(tpl, now)
		if err != nil {
			// a malformed time string disables that template, not the page
			continue
		}
		occurrences = append(occurrences, occ)
	}
	for _, svc := range scheduled {
		occ, err := s.occurrenceFromScheduled(svc, now)
		if err != nil || occ == nil {
			continue
		}
		occurrences = append(occurrences, occ)
	}

	if len(occurrences) == 0 {
		return nil, nil
	}

	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].StartsAt.Before(occurrences[j].StartsAt)
	})
	for _, occ := range occurrences {
		if occ.IsLive {
			return occ, nil
		}
	}
	for _, occ := range occurrences {
		if occ.StartsAt.After(now) {
			return occ, nil
		}
	}
	return nil, nil
}

// UpcomingOccurrences returns the next occurrence of every template plus all
// future one-off services, soonest first, for the schedule page.
func (s *ScheduleService) UpcomingOccurrences(ctx context.Context, limit int) ([]*models.ServiceOccurrence, error) {
	now := s.now()

	tpls, err := s.scheduleRepo.GetAllRecurring(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	scheduled, err := s.scheduleRepo.GetUpcomingScheduled(ctx, now, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var occurrences []*models.ServiceOccurrence
	for _, tpl := range tpls {
		if occ, err := s.NextOccurrence(tpl, now); err == nil {
			occurrences = append(occurrences, occ)
		}
	}
	for _, svc := range scheduled {
		if occ, err := s.occurrenceFromScheduled(svc, now); err == nil && occ != nil {
			occurrences = append(occurrences, occ)
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].StartsAt.Before(occurrences[j].StartsAt)
	})
	if limit > 0 && len(occurrences) > limit {
		occurrences = occurrences[:limit]
	}
	return occurrences, nil
}

// occurrenceFromScheduled lifts a one-off service into an occurrence.
// Services already past their start (and not live within a default two hour
// window) yield nil.
func (s *ScheduleService) occurrenceFromScheduled(svc *models.ScheduledService, now time.Time) (*models.ServiceOccurrence, error) {
	hour, minute, err := parseTimeOfDay(svc.Time)
	if err != nil {
		return nil, err
	}
	startsAt := time.Date(svc.Date.Year(), svc.Date.Month(), svc.Date.Day(), hour, minute, 0, 0, now.Location())
	const window = 2 * time.Hour
	if now.After(startsAt.Add(window)) {
		return nil, nil
	}
	return &models.ServiceOccurrence{
		Title:     svc.Title,
		Date:      time.Date(svc.Date.Year(), svc.Date.Month(), svc.Date.Day(), 0, 0, 0, 0, now.Location()),
		Time:      svc.Time,
		Speaker:   svc.Speaker,
		Thumbnail: svc.Thumbnail,
		IsLive:    !now.Before(startsAt) && now.Before(startsAt.Add(window)),
		StartsAt:  startsAt,
	}, nil
}

// CreateScheduled validates and stores a one-off service.
func (s *ScheduleService) CreateScheduled(ctx context.Context, svc *models.ScheduledService) error {
	if svc.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if _, _, err := parseTimeOfDay(svc.Time); err != nil {
		return models.NewValidationError("Time must be in HH:MM format")
	}
	if err := s.scheduleRepo.CreateScheduled(ctx, svc); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// CreateRecurring validates and stores a weekly template.
func (s *ScheduleService) CreateRecurring(ctx context.Context, tpl *models.RecurringService) error {
	if tpl.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if tpl.DayOfWeek < 0 || tpl.DayOfWeek > 6 {
		return models.NewValidationError("Day of week must be between 0 (Sunday) and 6 (Saturday)")
	}
	if _, _, err := parseTimeOfDay(tpl.Time); err != nil {
		return models.NewValidationError("Time must be in HH:MM format")
	}
	if tpl.DurationHours <= 0 {
		tpl.DurationHours = 2
	}
	if err := s.scheduleRepo.CreateRecurring(ctx, tpl); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
