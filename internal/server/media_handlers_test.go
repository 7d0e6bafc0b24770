package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Get("/api/videos", s.GetVideos)
	app.Get("/api/videos/search", s.SearchVideos)
	app.Get("/api/videos/:id", s.GetVideo)
	app.Get("/api/ebooks", s.GetEbooks)
	app.Get("/api/ebooks/:id", s.GetEbook)
	app.Post("/api/admin/videos", s.AdminCreateVideo)
	app.Put("/api/admin/videos/:id", s.AdminUpdateVideo)
	app.Delete("/api/admin/videos/:id", s.AdminDeleteVideo)
	app.Post("/api/admin/ebooks", s.AdminCreateEbook)
	return app
}

func TestVideoLibrary(t *testing.T) {
	s, _ := newTestServer(t)
	app := mediaTestApp(s)

	// A pasted watch URL is reduced to the bare video ID.
	resp := putJSON(t, app, http.MethodPost, "/api/admin/videos", fiber.Map{
		"title":      "The Good Shepherd",
		"youtube_id": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"series":     "Psalms",
		"speaker":    "Pastor Allen",
		"published":  true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	assert.Equal(t, "dQw4w9WgXcQ", created["youtube_id"])

	// Unpublished videos stay out of the public listing.
	resp = putJSON(t, app, http.MethodPost, "/api/admin/videos", fiber.Map{
		"title":      "Draft Sermon",
		"youtube_id": "abc_DEF1234",
		"series":     "Psalms",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/videos?series=Psalms", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])
	videos := body["videos"].([]any)
	require.Len(t, videos, 1)
	assert.Equal(t, "The Good Shepherd", videos[0].(map[string]any)["title"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/videos/2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "unpublished video reads as missing")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/videos/search?q=shepherd", nil))
	require.NoError(t, err)
	assert.Len(t, decodeBody(t, resp)["videos"].([]any), 1)
}

func TestAdminCreateVideo_RejectsUnrecognizableID(t *testing.T) {
	s, _ := newTestServer(t)
	app := mediaTestApp(s)

	resp := putJSON(t, app, http.MethodPost, "/api/admin/videos", fiber.Map{
		"title":      "Broken Link",
		"youtube_id": "https://example.com/not-youtube",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEbookLibrary(t *testing.T) {
	s, _ := newTestServer(t)
	app := mediaTestApp(s)

	resp := putJSON(t, app, http.MethodPost, "/api/admin/ebooks", fiber.Map{
		"title":     "Daily Devotions",
		"author":    "J. Allen",
		"file_url":  "https://files.chapel.org/devotions.pdf",
		"category":  "devotional",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = putJSON(t, app, http.MethodPost, "/api/admin/ebooks", fiber.Map{
		"title": "No File",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ebooks?category=devotional", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])
	assert.Len(t, body["ebooks"].([]any), 1)
}
