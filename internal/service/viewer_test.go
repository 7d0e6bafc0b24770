package service

import (
	"testing"

	"chapel/internal/models"

	"github.com/stretchr/testify/assert"
)

func readyYouTubeConfig() models.StreamConfig {
	cfg := models.DefaultStreamConfig()
	cfg.Platform = models.PlatformYouTube
	cfg.YouTubeVideoID = "dQw4w9WgXcQ"
	cfg.IsLive = true
	return cfg
}

func TestDeriveRenderState(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.StreamConfig)
		playing bool
		want    RenderState
	}{
		{"Default config is offline", func(c *models.StreamConfig) {
			*c = models.DefaultStreamConfig()
		}, false, RenderOffline},
		{"Live without identifier is offline", func(c *models.StreamConfig) {
			c.Platform = models.PlatformYouTube
			c.YouTubeVideoID = ""
			c.YouTubeChannelID = ""
		}, false, RenderOffline},
		{"Live with platform none is offline", func(c *models.StreamConfig) {
			c.Platform = models.PlatformNone
		}, false, RenderOffline},
		{"Ready but not playing requires the play action", func(c *models.StreamConfig) {}, false, RenderReadyToPlay},
		{"Ready and playing", func(c *models.StreamConfig) {}, true, RenderPlaying},
		{"Not live while playing drops to offline", func(c *models.StreamConfig) {
			c.IsLive = false
		}, true, RenderOffline},
		{"Facebook with URL is ready", func(c *models.StreamConfig) {
			c.Platform = models.PlatformFacebook
			c.YouTubeVideoID = ""
			c.FacebookVideoURL = "https://www.facebook.com/chapel/videos/123"
		}, false, RenderReadyToPlay},
		{"Channel ID alone is a valid identifier", func(c *models.StreamConfig) {
			c.YouTubeVideoID = ""
			c.YouTubeChannelID = "UCabcdefghijklmnopqrstuv"
		}, false, RenderReadyToPlay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := readyYouTubeConfig()
			tt.mutate(&cfg)
			assert.Equal(t, tt.want, DeriveRenderState(cfg, tt.playing))
		})
	}
}

func TestEmbedURL_YouTubeVideo(t *testing.T) {
	cfg := readyYouTubeConfig()

	url := EmbedURL(cfg, "https://chapel.example.org", true)
	assert.Equal(t,
		"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1&modestbranding=1&rel=0&controls=1&playsinline=1&enablejsapi=1&origin=https%3A%2F%2Fchapel.example.org",
		url)

	url = EmbedURL(cfg, "https://chapel.example.org", false)
	assert.Contains(t, url, "autoplay=0")
}

func TestEmbedURL_YouTubeChannelFallback(t *testing.T) {
	cfg := readyYouTubeConfig()
	cfg.YouTubeVideoID = ""
	cfg.YouTubeChannelID = "UCabcdefghijklmnopqrstuv"

	assert.Equal(t,
		"https://www.youtube.com/embed/live_stream?channel=UCabcdefghijklmnopqrstuv&autoplay=1&modestbranding=1",
		EmbedURL(cfg, "https://chapel.example.org", true))
}

func TestEmbedURL_Facebook(t *testing.T) {
	cfg := models.DefaultStreamConfig()
	cfg.Platform = models.PlatformFacebook
	cfg.FacebookVideoURL = "https://www.facebook.com/chapel/videos/123"

	assert.Equal(t,
		"https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Fwww.facebook.com%2Fchapel%2Fvideos%2F123&show_text=false&autoplay=true&width=720",
		EmbedURL(cfg, "https://chapel.example.org", true))
}

func TestEmbedURL_NoIdentifier(t *testing.T) {
	cfg := models.DefaultStreamConfig()
	assert.Equal(t, "", EmbedURL(cfg, "https://chapel.example.org", true))

	cfg.Platform = models.PlatformYouTube
	assert.Equal(t, "", EmbedURL(cfg, "https://chapel.example.org", true))
}

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Bare ID", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Bare ID with whitespace", "  dQw4w9WgXcQ ", "dQw4w9WgXcQ"},
		{"Watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Watch URL with extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"Short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Short URL with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ"},
		{"Embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Legacy v URL", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Live URL", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Mobile URL", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Empty input", "", ""},
		{"Garbage", "not a youtube link", ""},
		{"Too-short ID", "abc123", ""},
		{"Channel URL has no video ID", "https://www.youtube.com/@somechannel", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractYouTubeID(tt.input))
		})
	}
}

func TestDeriveChatSurface(t *testing.T) {
	chat := models.DefaultChatConfig()

	chat.Enabled = false
	assert.Equal(t, ChatSurfaceNone, DeriveChatSurface(chat))

	chat.Enabled = true
	chat.Source = models.ChatSourceYouTubeEmbed
	assert.Equal(t, ChatSurfaceEmbed, DeriveChatSurface(chat))

	chat.Source = models.ChatSourceYouTubeAPI
	assert.Equal(t, ChatSurfaceAPIPoll, DeriveChatSurface(chat))

	chat.Source = models.ChatSourceInternal
	assert.Equal(t, ChatSurfaceInternal, DeriveChatSurface(chat))

	chat.Source = models.ChatSourceBoth
	assert.Equal(t, ChatSurfaceCombined, DeriveChatSurface(chat))
}
