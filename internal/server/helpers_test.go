package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chapel/internal/config"
	"chapel/internal/featureflags"
	"chapel/internal/models"
	"chapel/internal/repository"
	"chapel/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.StreamConfig{},
		&models.ChatMessage{},
		&models.ScheduledService{},
		&models.RecurringService{},
		&models.Video{},
		&models.Ebook{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret-key-for-handler-tests",
		Port:              "0",
		Env:               "test",
		EmbedOrigin:       "http://localhost:5173",
		ConfigPollSeconds: 1,
		ChatPollSeconds:   1,
	}
}

// newTestServer builds a Server over in-memory SQLite without touching the
// global Prometheus registry, mirroring what NewServerWithDeps wires.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	cfg := testConfig()

	configRepo := repository.NewStreamConfigRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	chatRepo := repository.NewChatRepository(db)

	s := &Server{
		config:          cfg,
		db:              db,
		userRepo:        repository.NewUserRepository(db),
		configRepo:      configRepo,
		scheduleRepo:    scheduleRepo,
		chatRepo:        chatRepo,
		mediaRepo:       repository.NewMediaRepository(db),
		featureFlags:    featureflags.NewManager(""),
		sessions:        make(map[string]*service.ViewerSession),
		streamService:   service.NewStreamService(configRepo),
		scheduleService: service.NewScheduleService(scheduleRepo),
		chatService:     service.NewChatService(chatRepo, configRepo, nil),
	}
	return s, db
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// --- humanizeParam ---

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"sessionId", "session ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

// --- parsePagination ---

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c, 25)
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})

	tests := []struct {
		name       string
		url        string
		wantLimit  float64
		wantOffset float64
	}{
		{"Defaults", "/items", 25, 0},
		{"Explicit", "/items?limit=10&offset=40", 10, 40},
		{"Clamped To Max", "/items?limit=5000", 100, 0},
		{"Negative Offset", "/items?offset=-3", 25, 0},
		{"Zero Limit", "/items?limit=0", 25, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.url, nil))
			require.NoError(t, err)
			body := decodeBody(t, resp)
			assert.Equal(t, tt.wantLimit, body["limit"])
			assert.Equal(t, tt.wantOffset, body["offset"])
		})
	}
}

func TestParseID_Invalid(t *testing.T) {
	s, _ := newTestServer(t)
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		if _, err := s.parseID(c, "id"); err != nil {
			return nil
		}
		return c.SendStatus(http.StatusOK)
	})

	for _, bad := range []string{"abc", "0", "-5"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things/"+bad, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}
}
