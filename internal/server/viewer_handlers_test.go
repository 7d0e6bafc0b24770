package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewerTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/api/stream/sessions", s.OpenViewerSession)
	app.Get("/api/stream/sessions/:sessionId", s.GetViewerSnapshot)
	app.Post("/api/stream/sessions/:sessionId/play", s.PlayViewerSession)
	app.Delete("/api/stream/sessions/:sessionId", s.CloseViewerSession)
	app.Put("/api/admin/stream", s.AdminUpdateStream)
	return app
}

func TestViewerSessionLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	app := viewerTestApp(s)

	// Go live before the session opens so the initial fetch sees it.
	resp := putJSON(t, app, http.MethodPut, "/api/admin/stream", fiber.Map{
		"platform":            "youtube",
		"youtube_video_input": "dQw4w9WgXcQ",
		"is_live":             true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = putJSON(t, app, http.MethodPost, "/api/stream/sessions", fiber.Map{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	sessionID := body["session_id"].(string)
	require.NotEmpty(t, sessionID)
	snapshot := body["snapshot"].(map[string]any)
	assert.Equal(t, "ready_to_play", snapshot["render_state"])

	// Explicit play moves it to playing; a second snapshot agrees.
	resp = putJSON(t, app, http.MethodPost, "/api/stream/sessions/"+sessionID+"/play", fiber.Map{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/stream/sessions/"+sessionID, nil))
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, "playing", body["render_state"])

	// Close tears the session down and forgets it.
	req := httptest.NewRequest(http.MethodDelete, "/api/stream/sessions/"+sessionID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/stream/sessions/"+sessionID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlayViewerSession_NotReady(t *testing.T) {
	s, _ := newTestServer(t)
	app := viewerTestApp(s)

	resp := putJSON(t, app, http.MethodPost, "/api/stream/sessions", fiber.Map{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	sessionID := body["session_id"].(string)

	// Default config is offline; play must be refused.
	resp = putJSON(t, app, http.MethodPost, "/api/stream/sessions/"+sessionID+"/play", fiber.Map{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	putJSON(t, app, http.MethodDelete, "/api/stream/sessions/"+sessionID, fiber.Map{})
}

func TestViewerSession_IdleReaping(t *testing.T) {
	s, _ := newTestServer(t)
	app := viewerTestApp(s)

	resp := putJSON(t, app, http.MethodPost, "/api/stream/sessions", fiber.Map{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	abandoned := decodeBody(t, resp)["session_id"].(string)

	resp = putJSON(t, app, http.MethodPost, "/api/stream/sessions", fiber.Map{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	active := decodeBody(t, resp)["session_id"].(string)

	// A tab that closed without the DELETE goes silent; the active viewer
	// keeps polling.
	time.Sleep(50 * time.Millisecond)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/stream/sessions/"+active, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, s.reapIdleSessions(25*time.Millisecond))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/stream/sessions/"+abandoned, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/stream/sessions/"+active, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	putJSON(t, app, http.MethodDelete, "/api/stream/sessions/"+active, fiber.Map{})
}

func TestViewerSession_UnknownID(t *testing.T) {
	s, _ := newTestServer(t)
	app := viewerTestApp(s)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/stream/sessions/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = putJSON(t, app, http.MethodPost, "/api/stream/sessions/nope/play", fiber.Map{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
