package server

import (
	"chapel/internal/models"
	"chapel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetStreamStatus handles GET /api/stream. This is the viewer poll target:
// the full derived state in one payload, computed from a fresh config read.
// The playing query flag carries the client's local playback state so the
// derivation matches what the page is showing.
func (s *Server) GetStreamStatus(c *fiber.Ctx) error {
	cfg, err := s.configRepo.Get(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	playing := c.QueryBool("playing", false)
	state := service.DeriveRenderState(*cfg, playing)

	next, err := s.scheduleService.NextUpcomingService(c.Context())
	if err != nil {
		// the schedule is decoration on this payload, never a reason to fail it
		next = nil
	}

	return c.JSON(fiber.Map{
		"platform":           cfg.Platform,
		"is_live":            cfg.IsLive,
		"title":              cfg.Title,
		"fallback_thumbnail": cfg.FallbackThumbnail,
		"render_state":       state,
		"stream_ready":       cfg.StreamReady(),
		"embed_url":          service.EmbedURL(*cfg, s.config.EmbedOrigin, playing),
		"chat":               publicChatView(cfg.Chat),
		"chat_surface":       service.DeriveChatSurface(cfg.Chat),
		"next_service":       next,
		"poll_seconds":       s.config.ConfigPollSeconds,
	})
}

// publicChatView strips operator-only policy fields (blocked words) from
// the chat config before it goes to viewers.
func publicChatView(chat models.ChatConfig) fiber.Map {
	return fiber.Map{
		"enabled":              chat.Enabled,
		"source":               chat.Source,
		"show_viewer_count":    chat.ShowViewerCount,
		"allow_guest_comments": chat.AllowGuestComments,
		"slow_mode_seconds":    chat.SlowModeSeconds,
		"max_message_length":   chat.MaxMessageLength,
	}
}

// AdminGetStream handles GET /api/admin/stream
func (s *Server) AdminGetStream(c *fiber.Ctx) error {
	cfg, err := s.streamService.Current(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cfg)
}

// AdminUpdateStream handles PUT /api/admin/stream. The full operator form
// is validated and committed as a single merge-write.
func (s *Server) AdminUpdateStream(c *fiber.Ctx) error {
	var form service.OperatorForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cfg, err := s.streamService.ApplyChanges(c.Context(), form)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cfg)
}

// AdminSetLive handles POST /api/admin/stream/live, the quick switch that
// flips only the live flag without touching the rest of the form.
func (s *Server) AdminSetLive(c *fiber.Ctx) error {
	var req struct {
		IsLive bool `json:"is_live"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cfg, err := s.streamService.SetLive(c.Context(), req.IsLive)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cfg)
}

// AdminResetStream handles POST /api/admin/stream/reset
func (s *Server) AdminResetStream(c *fiber.Ctx) error {
	cfg, err := s.streamService.Reset(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cfg)
}
