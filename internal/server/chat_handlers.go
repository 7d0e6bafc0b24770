package server

import (
	"chapel/internal/models"
	"chapel/internal/observability"
	"chapel/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// chatSessionID extracts the client chat session identifier. The viewer
// page generates one per load and sends it with every chat request; slow
// mode and the welcome greeting are scoped to it.
func chatSessionID(c *fiber.Ctx) string {
	if id := c.Get("X-Chat-Session"); id != "" {
		return id
	}
	return c.Query("session_id")
}

// GetChatMessages handles GET /api/chat/messages. The first call of a
// session also carries the configured welcome message.
func (s *Server) GetChatMessages(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	msgs, err := s.chatService.Messages(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	welcome := ""
	if sessionID := chatSessionID(c); sessionID != "" {
		welcome, _ = s.chatService.WelcomeFor(c.Context(), sessionID)
	}

	resp := fiber.Map{"messages": msgs}
	if welcome != "" {
		resp["welcome"] = welcome
	}
	return c.JSON(resp)
}

// PostChatMessage handles POST /api/chat/messages. Authentication is
// optional; guests are admitted or rejected by the chat policy.
func (s *Server) PostChatMessage(c *fiber.Ctx) error {
	sessionID := chatSessionID(c)
	if sessionID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Chat session ID is required"))
	}

	var req struct {
		DisplayName string `json:"display_name"`
		Content     string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateDisplayName(req.DisplayName); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	var userID *uint
	if id, ok := s.optionalUserID(c); ok {
		userID = &id
	}

	// Operational kill switches, evaluated before the chat policy.
	var flagID uint
	if userID != nil {
		flagID = *userID
	}
	if !s.featureFlags.EnabledDefault("internal_chat", flagID, true) ||
		(userID == nil && !s.featureFlags.EnabledDefault("guest_chat", 0, true)) {
		observability.ChatMessagesRejected.WithLabelValues(string(models.ChatRejectDisabled)).Inc()
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"accepted": false,
			"reason":   models.ChatRejectDisabled,
		})
	}

	result, err := s.chatService.PostMessage(c.Context(), sessionID, userID, req.DisplayName, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}

	if result.Reason != "" {
		// policy rejections are a normal outcome, not a server error
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"accepted": false,
			"reason":   result.Reason,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"accepted": true,
		"pending":  result.Pending,
		"message":  result.Message,
	})
}

// AdminGetPendingMessages handles GET /api/admin/chat/pending
func (s *Server) AdminGetPendingMessages(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	msgs, err := s.chatService.PendingMessages(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

// AdminApproveMessage handles POST /api/admin/chat/:id/approve
func (s *Server) AdminApproveMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.chatService.ApproveMessage(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Message approved"})
}

// AdminDeleteMessage handles DELETE /api/admin/chat/:id
func (s *Server) AdminDeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.chatService.DeleteMessage(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
