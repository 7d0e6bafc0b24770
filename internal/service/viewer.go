// Package service contains business logic between HTTP handlers and repositories.
package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"chapel/internal/models"
)

// RenderState is the derived state of the viewer surface.
type RenderState string

const (
	// RenderOffline shows the fallback thumbnail and next-service info.
	RenderOffline RenderState = "offline"
	// RenderReadyToPlay shows the pre-play overlay; the embed is not mounted.
	RenderReadyToPlay RenderState = "ready_to_play"
	// RenderPlaying has the embed mounted. Once mounted the surface never
	// falls back to ready_to_play without a full reload; it can only drop
	// to offline when a fresh read reports the stream not ready.
	RenderPlaying RenderState = "playing"
)

// ConnectionLabelDelay is how long the viewer shows "connecting" before
// switching to "connected". Purely cosmetic, carries no functional weight.
const ConnectionLabelDelay = 2 * time.Second

// DeriveRenderState computes the render state from a fresh config read and
// whether the viewer has already pressed play. Playback never starts
// automatically; entering playing requires an explicit viewer action.
func DeriveRenderState(cfg models.StreamConfig, playing bool) RenderState {
	if !cfg.StreamReady() {
		return RenderOffline
	}
	if playing {
		return RenderPlaying
	}
	return RenderReadyToPlay
}

// ChatSurface is what the viewer renders for chat, derived from the chat
// policy independently of the video state machine.
type ChatSurface string

const (
	ChatSurfaceNone     ChatSurface = "none"
	ChatSurfaceEmbed    ChatSurface = "embed"     // external chat iframe
	ChatSurfaceAPIPoll  ChatSurface = "api_poll"  // poll the external chat-message API
	ChatSurfaceInternal ChatSurface = "internal"  // locally stored message list
	ChatSurfaceCombined ChatSurface = "api_poll+internal"
)

// DeriveChatSurface maps the chat policy to a chat surface.
func DeriveChatSurface(chat models.ChatConfig) ChatSurface {
	if !chat.Enabled {
		return ChatSurfaceNone
	}
	switch chat.Source {
	case models.ChatSourceYouTubeEmbed:
		return ChatSurfaceEmbed
	case models.ChatSourceYouTubeAPI:
		return ChatSurfaceAPIPoll
	case models.ChatSourceInternal:
		return ChatSurfaceInternal
	case models.ChatSourceBoth:
		return ChatSurfaceCombined
	}
	return ChatSurfaceNone
}

// EmbedURL derives the embeddable player URL for the config. Returns ""
// when no identifier matches the platform, which forces offline rendering
// regardless of the live flag.
func EmbedURL(cfg models.StreamConfig, origin string, autoplay bool) string {
	switch cfg.Platform {
	case models.PlatformYouTube:
		if cfg.YouTubeVideoID != "" {
			auto := "0"
			if autoplay {
				auto = "1"
			}
			return fmt.Sprintf(
				"https://www.youtube.com/embed/%s?autoplay=%s&modestbranding=1&rel=0&controls=1&playsinline=1&enablejsapi=1&origin=%s",
				cfg.YouTubeVideoID, auto, url.QueryEscape(origin),
			)
		}
		if cfg.YouTubeChannelID != "" {
			// Channel-level live embed; works only when the channel is
			// actually live upstream, which this layer does not verify.
			return fmt.Sprintf(
				"https://www.youtube.com/embed/live_stream?channel=%s&autoplay=1&modestbranding=1",
				cfg.YouTubeChannelID,
			)
		}
	case models.PlatformFacebook:
		if cfg.FacebookVideoURL != "" {
			return fmt.Sprintf(
				"https://www.facebook.com/plugins/video.php?href=%s&show_text=false&autoplay=%t&width=720",
				url.QueryEscape(cfg.FacebookVideoURL), autoplay,
			)
		}
	}
	return ""
}

var youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// youtubeURLPatterns match the URL shapes a pasted YouTube link can take,
// each capturing the 11-character video ID.
var youtubeURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?.*v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/live/([A-Za-z0-9_-]{11})`),
}

// ExtractYouTubeID extracts the 11-character video ID from a pasted value:
// a bare ID or any of the common YouTube URL forms. Unrecognized input
// yields "", never a guess.
func ExtractYouTubeID(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if youtubeIDPattern.MatchString(input) {
		return input
	}
	for _, p := range youtubeURLPatterns {
		if m := p.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}
	return ""
}
