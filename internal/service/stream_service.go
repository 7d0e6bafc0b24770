package service

import (
	"context"

	"chapel/internal/models"
	"chapel/internal/observability"
	"chapel/internal/repository"
)

// OperatorForm is the full operator console form: platform, identifiers,
// live flag and the complete chat policy, committed as one merge-write.
type OperatorForm struct {
	Platform          models.StreamPlatform  `json:"platform"`
	YouTubeVideoInput string                 `json:"youtube_video_input"` // raw paste: bare ID or URL
	YouTubeChannelID  string                 `json:"youtube_channel_id"`
	FacebookVideoURL  string                 `json:"facebook_video_url"`
	IsLive            bool                   `json:"is_live"`
	Title             string                 `json:"title"`
	FallbackThumbnail string                 `json:"fallback_thumbnail"`
	Chat              models.ChatConfigPatch `json:"chat"`
}

// StreamService is the operator console write path. Both the full-form save
// and the quick live switch funnel through the repository merge-write, so
// a quick switch never clobbers fields it does not carry.
type StreamService struct {
	configRepo repository.StreamConfigRepository
}

// NewStreamService creates a new stream service.
func NewStreamService(configRepo repository.StreamConfigRepository) *StreamService {
	return &StreamService{configRepo: configRepo}
}

// ApplyChanges validates and commits the full operator form.
//
// Validation is deliberately permissive where the product is: youtube with
// both identifiers empty is allowed (it yields a non-ready state, not an
// error), and the facebook URL is accepted without structural checks.
func (s *StreamService) ApplyChanges(ctx context.Context, form OperatorForm) (*models.StreamConfig, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "StreamService", "ApplyChanges")
	defer span.End()

	if !form.Platform.Valid() {
		return nil, models.NewValidationError("Unknown stream platform")
	}

	videoID := ""
	if form.YouTubeVideoInput != "" {
		videoID = ExtractYouTubeID(form.YouTubeVideoInput)
		if videoID == "" {
			return nil, models.NewValidationError("Could not recognize a YouTube video ID in the pasted value")
		}
	}

	if form.Chat.Source != nil && !form.Chat.Source.Valid() {
		return nil, models.NewValidationError("Unknown chat source")
	}
	if form.Chat.ApprovalMode != nil && !form.Chat.ApprovalMode.Valid() {
		return nil, models.NewValidationError("Unknown chat approval mode")
	}
	if form.Chat.SlowModeSeconds != nil && *form.Chat.SlowModeSeconds < 0 {
		return nil, models.NewValidationError("Slow mode seconds must not be negative")
	}
	if form.Chat.MaxMessageLength != nil &&
		(*form.Chat.MaxMessageLength < models.MinMessageLength || *form.Chat.MaxMessageLength > models.MaxMessageLength) {
		return nil, models.NewValidationError("Max message length must be between 50 and 2000")
	}

	patch := models.StreamConfigPatch{
		Platform:          &form.Platform,
		YouTubeVideoID:    &videoID,
		YouTubeChannelID:  &form.YouTubeChannelID,
		FacebookVideoURL:  &form.FacebookVideoURL,
		IsLive:            &form.IsLive,
		Title:             &form.Title,
		FallbackThumbnail: &form.FallbackThumbnail,
		Chat:              &form.Chat,
	}

	cfg, err := s.configRepo.Apply(ctx, patch)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.ConfigWrites.WithLabelValues("full_form").Inc()
	return cfg, nil
}

// SetLive is the quick switch: it writes only the live flag, immediately,
// independent of any uncommitted form edits.
func (s *StreamService) SetLive(ctx context.Context, isLive bool) (*models.StreamConfig, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "StreamService", "SetLive")
	defer span.End()

	cfg, err := s.configRepo.Apply(ctx, models.StreamConfigPatch{IsLive: &isLive})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.ConfigWrites.WithLabelValues("quick_switch").Inc()
	return cfg, nil
}

// Reset overwrites the config with defaults. The record itself survives.
func (s *StreamService) Reset(ctx context.Context) (*models.StreamConfig, error) {
	cfg, err := s.configRepo.Reset(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return cfg, nil
}

// Current returns the backfilled config.
func (s *StreamService) Current(ctx context.Context) (*models.StreamConfig, error) {
	return s.configRepo.Get(ctx)
}
