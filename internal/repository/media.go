package repository

import (
	"context"

	"chapel/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines data operations for the video library and e-book catalog.
type MediaRepository interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideoByID(ctx context.Context, id uint) (*models.Video, error)
	GetPublishedVideos(ctx context.Context, series, speaker string, limit, offset int) ([]*models.Video, int64, error)
	SearchVideos(ctx context.Context, query string, limit, offset int) ([]*models.Video, error)
	UpdateVideo(ctx context.Context, video *models.Video) error
	DeleteVideo(ctx context.Context, id uint) error

	CreateEbook(ctx context.Context, ebook *models.Ebook) error
	GetEbookByID(ctx context.Context, id uint) (*models.Ebook, error)
	GetPublishedEbooks(ctx context.Context, category string, limit, offset int) ([]*models.Ebook, int64, error)
	UpdateEbook(ctx context.Context, ebook *models.Ebook) error
	DeleteEbook(ctx context.Context, id uint) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *mediaRepository) GetVideoByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *mediaRepository) GetPublishedVideos(ctx context.Context, series, speaker string, limit, offset int) ([]*models.Video, int64, error) {
	var videos []*models.Video
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Video{}).Where("published = ?", true)
	if series != "" {
		query = query.Where("series = ?", series)
	}
	if speaker != "" {
		query = query.Where("speaker = ?", speaker)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error

	return videos, total, err
}

func (r *mediaRepository) SearchVideos(ctx context.Context, query string, limit, offset int) ([]*models.Video, error) {
	var videos []*models.Video
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Where("title LIKE ? OR speaker LIKE ? OR series LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error
	return videos, err
}

func (r *mediaRepository) UpdateVideo(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *mediaRepository) DeleteVideo(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Video{}, id).Error
}

func (r *mediaRepository) CreateEbook(ctx context.Context, ebook *models.Ebook) error {
	return r.db.WithContext(ctx).Create(ebook).Error
}

func (r *mediaRepository) GetEbookByID(ctx context.Context, id uint) (*models.Ebook, error) {
	var ebook models.Ebook
	if err := r.db.WithContext(ctx).First(&ebook, id).Error; err != nil {
		return nil, err
	}
	return &ebook, nil
}

func (r *mediaRepository) GetPublishedEbooks(ctx context.Context, category string, limit, offset int) ([]*models.Ebook, int64, error) {
	var ebooks []*models.Ebook
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Ebook{}).Where("published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ebooks).Error

	return ebooks, total, err
}

func (r *mediaRepository) UpdateEbook(ctx context.Context, ebook *models.Ebook) error {
	return r.db.WithContext(ctx).Save(ebook).Error
}

func (r *mediaRepository) DeleteEbook(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Ebook{}, id).Error
}
