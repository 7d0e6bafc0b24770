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

func scheduleTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Get("/api/schedule", s.GetSchedule)
	app.Get("/api/schedule/next", s.GetNextService)
	app.Get("/api/admin/schedule/services", s.AdminGetScheduledServices)
	app.Post("/api/admin/schedule/services", s.AdminCreateScheduledService)
	app.Put("/api/admin/schedule/services/:id", s.AdminUpdateScheduledService)
	app.Delete("/api/admin/schedule/services/:id", s.AdminDeleteScheduledService)
	app.Get("/api/admin/schedule/recurring", s.AdminGetRecurringServices)
	app.Post("/api/admin/schedule/recurring", s.AdminCreateRecurringService)
	app.Put("/api/admin/schedule/recurring/:id", s.AdminUpdateRecurringService)
	app.Delete("/api/admin/schedule/recurring/:id", s.AdminDeleteRecurringService)
	return app
}

func TestScheduleLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	app := scheduleTestApp(s)

	// Weekly template for the current weekday so the occurrence lands
	// either today or exactly a week out, never in the past.
	resp := putJSON(t, app, http.MethodPost, "/api/admin/schedule/recurring", fiber.Map{
		"title":       "Sunday Worship",
		"day_of_week": int(time.Now().Weekday()),
		"time":        "23:59",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	assert.Equal(t, float64(2), created["duration_hours"], "duration defaults to two hours")

	// One-off service far in the future.
	resp = putJSON(t, app, http.MethodPost, "/api/admin/schedule/services", fiber.Map{
		"title":   "Christmas Eve Service",
		"date":    time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
		"time":    "18:00",
		"speaker": "Pastor Allen",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/schedule", nil))
	require.NoError(t, err)
	occurrences := decodeBody(t, resp)["occurrences"].([]any)
	require.Len(t, occurrences, 2)
	first := occurrences[0].(map[string]any)
	assert.Equal(t, "Sunday Worship", first["title"], "weekly occurrence sorts before next year's one-off")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/schedule/next", nil))
	require.NoError(t, err)
	next := decodeBody(t, resp)["next_service"].(map[string]any)
	assert.Equal(t, "Sunday Worship", next["title"])

	// Update preserves identity.
	resp = putJSON(t, app, http.MethodPut, "/api/admin/schedule/recurring/1", fiber.Map{
		"title":       "Evening Worship",
		"day_of_week": 3,
		"time":        "19:00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, float64(1), updated["id"])
	assert.Equal(t, "Evening Worship", updated["title"])

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/schedule/recurring/1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/schedule/recurring", nil))
	require.NoError(t, err)
	assert.Empty(t, decodeBody(t, resp)["recurring"])
}

func TestGetNextService_EmptySchedule(t *testing.T) {
	s, _ := newTestServer(t)
	app := scheduleTestApp(s)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/schedule/next", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeBody(t, resp)["next_service"])
}

func TestAdminCreateRecurring_Validation(t *testing.T) {
	s, _ := newTestServer(t)
	app := scheduleTestApp(s)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"day of week out of range", fiber.Map{"title": "Bad", "day_of_week": 7, "time": "10:00"}},
		{"malformed time", fiber.Map{"title": "Bad", "day_of_week": 0, "time": "10am"}},
		{"missing title", fiber.Map{"day_of_week": 0, "time": "10:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := putJSON(t, app, http.MethodPost, "/api/admin/schedule/recurring", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAdminUpdateScheduledService_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	app := scheduleTestApp(s)

	resp := putJSON(t, app, http.MethodPut, "/api/admin/schedule/services/42", fiber.Map{
		"title": "Ghost Service",
		"date":  time.Now().Format(time.RFC3339),
		"time":  "10:00",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
