// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// StreamConfigKey identifies the singleton stream configuration record.
// There is exactly one StreamConfig system-wide; resets overwrite it with
// defaults, they never delete it.
const StreamConfigKey = "default"

// StreamPlatform identifies which embed family the viewer page renders.
type StreamPlatform string

const (
	PlatformYouTube  StreamPlatform = "youtube"
	PlatformFacebook StreamPlatform = "facebook"
	PlatformNone     StreamPlatform = "none"
)

// Valid reports whether p is a known platform value.
func (p StreamPlatform) Valid() bool {
	switch p {
	case PlatformYouTube, PlatformFacebook, PlatformNone:
		return true
	}
	return false
}

// ChatSource selects which chat surface the viewer page renders.
type ChatSource string

const (
	ChatSourceYouTubeEmbed ChatSource = "youtube-embed"
	ChatSourceYouTubeAPI   ChatSource = "youtube-api"
	ChatSourceInternal     ChatSource = "internal"
	ChatSourceBoth         ChatSource = "both"
)

// Valid reports whether s is a known chat source value.
func (s ChatSource) Valid() bool {
	switch s {
	case ChatSourceYouTubeEmbed, ChatSourceYouTubeAPI, ChatSourceInternal, ChatSourceBoth:
		return true
	}
	return false
}

// ApprovalMode controls whether internal chat messages need operator approval.
type ApprovalMode string

const (
	ApprovalAuto   ApprovalMode = "auto"
	ApprovalManual ApprovalMode = "manual"
)

// Valid reports whether m is a known approval mode value.
func (m ApprovalMode) Valid() bool {
	return m == ApprovalAuto || m == ApprovalManual
}

// Bounds on chat policy values.
const (
	MinMessageLength = 50
	MaxMessageLength = 2000
)

// ChatConfig is the chat policy embedded in StreamConfig. It is always
// fully shaped when read through the repository; missing sub-fields are
// backfilled from DefaultChatConfig.
type ChatConfig struct {
	Enabled            bool         `gorm:"default:true" json:"enabled"`
	Source             ChatSource   `gorm:"size:20" json:"source"`
	ApprovalMode       ApprovalMode `gorm:"size:10" json:"approval_mode"`
	ShowViewerCount    bool         `json:"show_viewer_count"`
	AllowGuestComments bool         `json:"allow_guest_comments"`
	SlowModeSeconds    int          `json:"slow_mode_seconds"`
	MaxMessageLength   int          `json:"max_message_length"`
	BlockedWords       []string     `gorm:"serializer:json" json:"blocked_words"`
	WelcomeMessage     string       `gorm:"size:500" json:"welcome_message"`
}

// StreamConfig is the singleton record coordinating the operator console
// and the public viewing page. The operator is the only writer; viewers
// only ever read it.
type StreamConfig struct {
	Key               string         `gorm:"primaryKey;size:32" json:"-"`
	Platform          StreamPlatform `gorm:"size:20" json:"platform"`
	YouTubeVideoID    string         `gorm:"size:20" json:"youtube_video_id"`
	YouTubeChannelID  string         `gorm:"size:64" json:"youtube_channel_id"`
	FacebookVideoURL  string         `gorm:"size:500" json:"facebook_video_url"`
	IsLive            bool           `gorm:"default:false" json:"is_live"`
	Title             string         `gorm:"size:255" json:"title"`
	FallbackThumbnail string         `gorm:"size:500" json:"fallback_thumbnail"`
	Chat              ChatConfig     `gorm:"embedded;embeddedPrefix:chat_" json:"chat"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// DefaultChatConfig returns the fixed default chat policy.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Enabled:            true,
		Source:             ChatSourceYouTubeEmbed,
		ApprovalMode:       ApprovalAuto,
		ShowViewerCount:    true,
		AllowGuestComments: true,
		SlowModeSeconds:    0,
		MaxMessageLength:   500,
		BlockedWords:       []string{},
		WelcomeMessage:     "",
	}
}

// DefaultStreamConfig returns the fixed default value set used both to
// create the record on first access and to backfill missing fields on read.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Key:      StreamConfigKey,
		Platform: PlatformNone,
		IsLive:   false,
		Chat:     DefaultChatConfig(),
	}
}

// ApplyDefaults backfills any unset field from the default value set so a
// persisted record that predates a newer field never surfaces partially
// shaped. Booleans are left as stored; only enum, bound and nil-slice
// fields can be "missing" at this layer.
func (c *StreamConfig) ApplyDefaults() {
	def := DefaultStreamConfig()
	if c.Key == "" {
		c.Key = def.Key
	}
	if !c.Platform.Valid() {
		c.Platform = def.Platform
	}
	c.Chat.ApplyDefaults()
}

// ApplyDefaults backfills unset chat sub-fields from DefaultChatConfig.
func (c *ChatConfig) ApplyDefaults() {
	def := DefaultChatConfig()
	if !c.Source.Valid() {
		c.Source = def.Source
	}
	if !c.ApprovalMode.Valid() {
		c.ApprovalMode = def.ApprovalMode
	}
	if c.SlowModeSeconds < 0 {
		c.SlowModeSeconds = 0
	}
	if c.MaxMessageLength < MinMessageLength || c.MaxMessageLength > MaxMessageLength {
		c.MaxMessageLength = def.MaxMessageLength
	}
	if c.BlockedWords == nil {
		c.BlockedWords = []string{}
	}
}

// ChatConfigPatch is a partial chat policy update. Nil fields are left
// untouched so an operator changing only one knob does not erase the rest.
type ChatConfigPatch struct {
	Enabled            *bool         `json:"enabled,omitempty"`
	Source             *ChatSource   `json:"source,omitempty"`
	ApprovalMode       *ApprovalMode `json:"approval_mode,omitempty"`
	ShowViewerCount    *bool         `json:"show_viewer_count,omitempty"`
	AllowGuestComments *bool         `json:"allow_guest_comments,omitempty"`
	SlowModeSeconds    *int          `json:"slow_mode_seconds,omitempty"`
	MaxMessageLength   *int          `json:"max_message_length,omitempty"`
	BlockedWords       *[]string     `json:"blocked_words,omitempty"`
	WelcomeMessage     *string       `json:"welcome_message,omitempty"`
}

// StreamConfigPatch is a partial stream configuration update. Top-level
// fields merge shallowly; Chat merges per sub-field.
type StreamConfigPatch struct {
	Platform          *StreamPlatform  `json:"platform,omitempty"`
	YouTubeVideoID    *string          `json:"youtube_video_id,omitempty"`
	YouTubeChannelID  *string          `json:"youtube_channel_id,omitempty"`
	FacebookVideoURL  *string          `json:"facebook_video_url,omitempty"`
	IsLive            *bool            `json:"is_live,omitempty"`
	Title             *string          `json:"title,omitempty"`
	FallbackThumbnail *string          `json:"fallback_thumbnail,omitempty"`
	Chat              *ChatConfigPatch `json:"chat,omitempty"`
}

// Merge applies the patch onto cfg. Unset (nil) fields are preserved,
// including individual chat sub-fields, so concurrent partial writes only
// ever clobber the fields they actually carry.
func (p StreamConfigPatch) Merge(cfg *StreamConfig) {
	if p.Platform != nil {
		cfg.Platform = *p.Platform
	}
	if p.YouTubeVideoID != nil {
		cfg.YouTubeVideoID = *p.YouTubeVideoID
	}
	if p.YouTubeChannelID != nil {
		cfg.YouTubeChannelID = *p.YouTubeChannelID
	}
	if p.FacebookVideoURL != nil {
		cfg.FacebookVideoURL = *p.FacebookVideoURL
	}
	if p.IsLive != nil {
		cfg.IsLive = *p.IsLive
	}
	if p.Title != nil {
		cfg.Title = *p.Title
	}
	if p.FallbackThumbnail != nil {
		cfg.FallbackThumbnail = *p.FallbackThumbnail
	}
	if p.Chat != nil {
		p.Chat.Merge(&cfg.Chat)
	}
}

// Merge applies the chat patch onto chat, sub-field by sub-field.
func (p ChatConfigPatch) Merge(chat *ChatConfig) {
	if p.Enabled != nil {
		chat.Enabled = *p.Enabled
	}
	if p.Source != nil {
		chat.Source = *p.Source
	}
	if p.ApprovalMode != nil {
		chat.ApprovalMode = *p.ApprovalMode
	}
	if p.ShowViewerCount != nil {
		chat.ShowViewerCount = *p.ShowViewerCount
	}
	if p.AllowGuestComments != nil {
		chat.AllowGuestComments = *p.AllowGuestComments
	}
	if p.SlowModeSeconds != nil {
		chat.SlowModeSeconds = *p.SlowModeSeconds
	}
	if p.MaxMessageLength != nil {
		chat.MaxMessageLength = *p.MaxMessageLength
	}
	if p.BlockedWords != nil {
		words := make([]string, 0, len(*p.BlockedWords))
		for _, w := range *p.BlockedWords {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				words = append(words, w)
			}
		}
		chat.BlockedWords = words
	}
	if p.WelcomeMessage != nil {
		chat.WelcomeMessage = *p.WelcomeMessage
	}
}

// HasRequiredIdentifier reports whether the config carries at least one
// non-empty identifier matching its platform. A live flag without one
// must render as offline rather than fail.
func (c StreamConfig) HasRequiredIdentifier() bool {
	switch c.Platform {
	case PlatformYouTube:
		return c.YouTubeVideoID != "" || c.YouTubeChannelID != ""
	case PlatformFacebook:
		return c.FacebookVideoURL != ""
	}
	return false
}

// StreamReady reports whether the viewer page may show a live embed.
func (c StreamConfig) StreamReady() bool {
	return c.IsLive && c.Platform != PlatformNone && c.HasRequiredIdentifier()
}
