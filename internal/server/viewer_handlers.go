package server

import (
	"context"
	"time"

	"chapel/internal/middleware"
	"chapel/internal/models"
	"chapel/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OpenViewerSession handles POST /api/stream/sessions. It creates the
// server-side companion of one viewer page load: a session with its own
// config and chat poll loops, returning the session ID and first snapshot.
func (s *Server) OpenViewerSession(c *fiber.Ctx) error {
	sess := service.NewViewerSession(
		s.configRepo,
		s.chatService,
		s.config.ConfigPollInterval(),
		s.config.ChatPollInterval(),
	)

	// Loops outlive the request; they stop on session close or server shutdown.
	ctx := s.shutdownCtx
	if ctx == nil {
		ctx = context.Background()
	}
	sess.Start(ctx)

	id := uuid.New().String()
	s.sessionsMu.Lock()
	s.sessions[id] = sess
	s.sessionsMu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": id,
		"snapshot":   sess.Snapshot(),
	})
}

func (s *Server) lookupSession(c *fiber.Ctx) (*service.ViewerSession, error) {
	id := c.Params("sessionId")
	s.sessionsMu.Lock()
	sess, ok := s.sessions[id]
	s.sessionsMu.Unlock()
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("viewer session", id))
		return nil, errResponseWritten
	}
	return sess, nil
}

// GetViewerSnapshot handles GET /api/stream/sessions/:sessionId
func (s *Server) GetViewerSnapshot(c *fiber.Ctx) error {
	sess, err := s.lookupSession(c)
	if err != nil {
		return nil
	}
	return c.JSON(sess.Snapshot())
}

// PlayViewerSession handles POST /api/stream/sessions/:sessionId/play,
// the explicit user action that moves a ready session into playing.
func (s *Server) PlayViewerSession(c *fiber.Ctx) error {
	sess, err := s.lookupSession(c)
	if err != nil {
		return nil
	}

	switch playErr := sess.Play(); playErr {
	case nil:
		return c.JSON(sess.Snapshot())
	case service.ErrSessionTornDown:
		return models.RespondWithError(c, fiber.StatusGone,
			models.NewValidationError("Session ended, reload to start a new one"))
	case service.ErrStreamNotReady:
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Stream is not ready to play"))
	default:
		return respondServiceError(c, playErr)
	}
}

// reapIdleSessions stops and forgets sessions whose client has not polled
// for at least maxIdle, returning how many were closed. Stop happens outside
// the sessions lock; it waits for in-flight poll cycles.
func (s *Server) reapIdleSessions(maxIdle time.Duration) int {
	var idle []*service.ViewerSession
	s.sessionsMu.Lock()
	for id, sess := range s.sessions {
		if sess.IdleFor() >= maxIdle {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	s.sessionsMu.Unlock()

	for _, sess := range idle {
		sess.Stop()
	}
	if len(idle) > 0 {
		middleware.Logger.Info("Closed abandoned viewer sessions",
			"count", len(idle), "max_idle", maxIdle)
	}
	return len(idle)
}

// runSessionReaper sweeps for abandoned sessions until ctx is cancelled.
// A tab closed without the session DELETE would otherwise keep its poll
// loops running for the life of the process.
func (s *Server) runSessionReaper(ctx context.Context, maxIdle time.Duration) {
	interval := maxIdle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reapIdleSessions(maxIdle)
		}
	}
}

// CloseViewerSession handles DELETE /api/stream/sessions/:sessionId. Poll
// loops stop and any cycle still in flight is discarded.
func (s *Server) CloseViewerSession(c *fiber.Ctx) error {
	id := c.Params("sessionId")
	s.sessionsMu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.sessionsMu.Unlock()

	if ok {
		sess.Stop()
	}
	return c.SendStatus(fiber.StatusNoContent)
}
