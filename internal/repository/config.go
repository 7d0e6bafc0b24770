// Package repository contains data access layers over GORM.
package repository

import (
	"context"
	"errors"

	"chapel/internal/models"
	"chapel/internal/observability"

	"gorm.io/gorm"
)

// StreamConfigRepository is the config store: one named record holding the
// live-stream platform, status and chat policy. Single-writer (the operator
// console), multiple-reader (viewer surfaces). Writes are read-merge-write
// with last-write-wins; there is deliberately no locking or versioning.
type StreamConfigRepository interface {
	// Get returns the singleton config, fully shaped. Missing fields,
	// including nested chat fields, are backfilled from defaults before
	// return; the record is created with defaults on first access.
	Get(ctx context.Context) (*models.StreamConfig, error)
	// Apply merges the patch onto the current record and persists the
	// result as one write. Top-level fields merge shallowly, chat
	// sub-fields individually.
	Apply(ctx context.Context, patch models.StreamConfigPatch) (*models.StreamConfig, error)
	// Reset overwrites the record with defaults. It never deletes the row.
	Reset(ctx context.Context) (*models.StreamConfig, error)
}

type streamConfigRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewStreamConfigRepository creates a new stream config repository.
func NewStreamConfigRepository(db *gorm.DB) StreamConfigRepository {
	return &streamConfigRepository{
		db:  db,
		log: observability.NewRepoLogger("stream_configs"),
	}
}

func (r *streamConfigRepository) Get(ctx context.Context) (*models.StreamConfig, error) {
	defer observability.TrackQuery("get", "stream_configs")()

	var cfg models.StreamConfig
	err := r.db.WithContext(ctx).
		Where("key = ?", models.StreamConfigKey).
		First(&cfg).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First access: create the record with defaults.
		cfg = models.DefaultStreamConfig()
		if createErr := r.db.WithContext(ctx).Create(&cfg).Error; createErr != nil {
			observability.ConfigReads.WithLabelValues("error").Inc()
			return nil, createErr
		}
		observability.ConfigReads.WithLabelValues("created").Inc()
		return &cfg, nil
	case err != nil:
		observability.ConfigReads.WithLabelValues("error").Inc()
		return nil, err
	}

	// Backfill guards every consumer against schema drift when the stored
	// record predates a newer field.
	before := cfg
	cfg.ApplyDefaults()
	if before.Platform != cfg.Platform || before.Chat.Source != cfg.Chat.Source ||
		before.Chat.MaxMessageLength != cfg.Chat.MaxMessageLength {
		observability.ConfigReads.WithLabelValues("backfilled").Inc()
	} else {
		observability.ConfigReads.WithLabelValues("hit").Inc()
	}
	return &cfg, nil
}

func (r *streamConfigRepository) Apply(ctx context.Context, patch models.StreamConfigPatch) (*models.StreamConfig, error) {
	defer observability.TrackQuery("apply", "stream_configs")()

	// Read-merge-write. Not transactionally isolated from concurrent
	// writers: last write wins at the granularity of one Apply call.
	cfg, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	patch.Merge(cfg)
	cfg.ApplyDefaults()

	if err := r.db.WithContext(ctx).Save(cfg).Error; err != nil {
		r.log.LogError(ctx, err, "apply")
		return nil, err
	}

	r.log.LogMerge(ctx, map[string]interface{}{
		"platform": cfg.Platform,
		"is_live":  cfg.IsLive,
	})
	return cfg, nil
}

func (r *streamConfigRepository) Reset(ctx context.Context) (*models.StreamConfig, error) {
	defer observability.TrackQuery("reset", "stream_configs")()

	cfg := models.DefaultStreamConfig()
	if err := r.db.WithContext(ctx).Save(&cfg).Error; err != nil {
		r.log.LogError(ctx, err, "reset")
		return nil, err
	}
	return &cfg, nil
}
