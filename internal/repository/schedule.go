package repository

import (
	"context"
	"time"

	"chapel/internal/models"

	"gorm.io/gorm"
)

// ScheduleRepository defines data operations for one-off and recurring services.
type ScheduleRepository interface {
	CreateScheduled(ctx context.Context, svc *models.ScheduledService) error
	GetScheduledByID(ctx context.Context, id uint) (*models.ScheduledService, error)
	GetUpcomingScheduled(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledService, error)
	GetAllScheduled(ctx context.Context, limit, offset int) ([]*models.ScheduledService, int64, error)
	UpdateScheduled(ctx context.Context, svc *models.ScheduledService) error
	DeleteScheduled(ctx context.Context, id uint) error

	CreateRecurring(ctx context.Context, tpl *models.RecurringService) error
	GetRecurringByID(ctx context.Context, id uint) (*models.RecurringService, error)
	GetAllRecurring(ctx context.Context) ([]*models.RecurringService, error)
	UpdateRecurring(ctx context.Context, tpl *models.RecurringService) error
	DeleteRecurring(ctx context.Context, id uint) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) CreateScheduled(ctx context.Context, svc *models.ScheduledService) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *scheduleRepository) GetScheduledByID(ctx context.Context, id uint) (*models.ScheduledService, error) {
	var svc models.ScheduledService
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// GetUpcomingScheduled returns services whose calendar date is on or after
// today. Past services are filtered, never deleted. The same-day time-of-day
// cut is applied by the service layer since the time column is a wall-clock
// string.
func (r *scheduleRepository) GetUpcomingScheduled(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledService, error) {
	var services []*models.ScheduledService
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err := r.db.WithContext(ctx).
		Where("date >= ?", today).
		Order("date ASC, time ASC").
		Limit(limit).
		Find(&services).Error
	return services, err
}

func (r *scheduleRepository) GetAllScheduled(ctx context.Context, limit, offset int) ([]*models.ScheduledService, int64, error) {
	var services []*models.ScheduledService
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ScheduledService{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("date DESC, time DESC").
		Limit(limit).
		Offset(offset).
		Find(&services).Error
	return services, total, err
}

func (r *scheduleRepository) UpdateScheduled(ctx context.Context, svc *models.ScheduledService) error {
	return r.db.WithContext(ctx).Save(svc).Error
}

func (r *scheduleRepository) DeleteScheduled(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ScheduledService{}, id).Error
}

func (r *scheduleRepository) CreateRecurring(ctx context.Context, tpl *models.RecurringService) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *scheduleRepository) GetRecurringByID(ctx context.Context, id uint) (*models.RecurringService, error) {
	var tpl models.RecurringService
	if err := r.db.WithContext(ctx).First(&tpl, id).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *scheduleRepository) GetAllRecurring(ctx context.Context) ([]*models.RecurringService, error) {
	var tpls []*models.RecurringService
	err := r.db.WithContext(ctx).
		Order("day_of_week ASC, time ASC").
		Find(&tpls).Error
	return tpls, err
}

func (r *scheduleRepository) UpdateRecurring(ctx context.Context, tpl *models.RecurringService) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *scheduleRepository) DeleteRecurring(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RecurringService{}, id).Error
}
