package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"hackportal/middleware"
	"hackportal/models"
	"hackportal/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-test-secret-test-secret!")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Team{}, &models.CheckinLog{}))

	qr, err := services.NewQRService(testDB, t.TempDir(), "http://localhost:3000")
	require.NoError(t, err)
	Init(testDB, qr)

	seedUser(t, testDB, "admin", "password123", models.RoleAdmin)
	seedUser(t, testDB, "volunteer", "volunteer123", models.RoleVolunteer)
	seedUser(t, testDB, "hall_admin", "hall123", models.RoleHallVolunteer)

	app := fiber.New()
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	api := app.Group("/api")
	api.Post("/auth/login", Login)
	api.Post("/auth/logout", Logout)
	api.Get("/auth/me", middleware.AuthMiddleware, Me)

	api.Post("/checkin", middleware.AuthMiddleware, Checkin)

	api.Get("/teams", middleware.AuthMiddleware, GetTeams)
	api.Get("/teams/export", middleware.AuthMiddleware, requireAdmin, ExportTeams)
	api.Get("/teams/:id", GetTeam)
	api.Post("/teams", middleware.AuthMiddleware, requireAdmin, CreateTeam)
	api.Put("/teams", middleware.AuthMiddleware, requireAdmin, UpdateTeam)
	api.Delete("/teams", middleware.AuthMiddleware, requireAdmin, WipeTeams)
	api.Delete("/teams/:id", middleware.AuthMiddleware, requireAdmin, DeleteTeam)

	api.Post("/admin/generate-qr", middleware.AuthMiddleware, requireAdmin, GenerateQRCodes)
	api.Get("/analytics", middleware.AuthMiddleware, requireAdmin, GetAnalytics)

	return app
}

func seedUser(t *testing.T, testDB *gorm.DB, username, password, role string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, testDB.Create(&models.User{
		Username: username,
		Password: string(hashed),
		Role:     role,
	}).Error)
}

func request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	result := map[string]interface{}{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &result))
	} else {
		result["raw"] = string(raw)
	}
	return resp, result
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp, body := request(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"username": username,
		"password": password,
	})
	require.Equal(t, 200, resp.StatusCode)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLogin(t *testing.T) {
	app := setupApp(t)

	t.Run("success returns user info and session cookie", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/api/auth/login",
			bytes.NewReader([]byte(`{"username":"admin","password":"password123"}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, 200, resp.StatusCode)

		cookieSet := false
		for _, c := range resp.Cookies() {
			if c.Name == middleware.SessionCookie {
				cookieSet = true
				assert.True(t, c.HttpOnly, "session cookie must not be client-readable")
				assert.NotEmpty(t, c.Value)
			}
		}
		assert.True(t, cookieSet)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "admin", user["username"])
		assert.Equal(t, models.RoleAdmin, user["role"])
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		resp1, body1 := request(t, app, "POST", "/api/auth/login", "",
			fiber.Map{"username": "nobody", "password": "whatever"})
		resp2, body2 := request(t, app, "POST", "/api/auth/login", "",
			fiber.Map{"username": "admin", "password": "wrong"})

		assert.Equal(t, 401, resp1.StatusCode)
		assert.Equal(t, 401, resp2.StatusCode)
		assert.Equal(t, body1["error"], body2["error"])
	})
}

func TestRoleGate(t *testing.T) {
	app := setupApp(t)
	volunteerToken := login(t, app, "volunteer", "volunteer123")

	resp, _ := request(t, app, "POST", "/api/teams", volunteerToken, fiber.Map{
		"teamId": "DX-001", "name": "Alpha", "college": "Tech U",
	})
	assert.Equal(t, 403, resp.StatusCode)

	resp, _ = request(t, app, "GET", "/api/analytics", volunteerToken, nil)
	assert.Equal(t, 403, resp.StatusCode)

	// unauthenticated check-in is rejected outright
	resp, _ = request(t, app, "POST", "/api/checkin", "", fiber.Map{
		"teamId": "DX-001", "type": "GATE",
	})
	assert.Equal(t, 401, resp.StatusCode)
}

// The full portal flow: register, find, gate, duplicate, hall, delete.
func TestCheckinFlow(t *testing.T) {
	app := setupApp(t)
	adminToken := login(t, app, "admin", "password123")
	volunteerToken := login(t, app, "volunteer", "volunteer123")

	resp, body := request(t, app, "POST", "/api/teams", adminToken, fiber.Map{
		"teamId": "DX-001", "name": "Alpha", "college": "Tech U",
		"members": []string{"A", "B"},
	})
	require.Equal(t, 201, resp.StatusCode)
	team := body["team"].(map[string]interface{})
	assert.Equal(t, "DX-001", team["teamId"])
	assert.Equal(t, false, team["gateCheckIn"])

	resp, body = request(t, app, "GET", "/api/teams?search=DX-001", volunteerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	teams := body["teams"].([]interface{})
	require.Len(t, teams, 1)

	resp, body = request(t, app, "POST", "/api/checkin", volunteerToken, fiber.Map{
		"teamId": "DX-001", "type": "GATE", "presentMembers": []string{"A"},
	})
	require.Equal(t, 200, resp.StatusCode)
	team = body["team"].(map[string]interface{})
	assert.Equal(t, true, team["gateCheckIn"])
	assert.Equal(t, []interface{}{"A"}, team["presentMembers"])

	// duplicate scan conflicts with the original time in the message
	resp, body = request(t, app, "POST", "/api/checkin", volunteerToken, fiber.Map{
		"teamId": "DX-001", "type": "GATE", "presentMembers": []string{"A"},
	})
	require.Equal(t, 409, resp.StatusCode)
	assert.Contains(t, body["error"].(string), "already checked in at Gate")

	resp, body = request(t, app, "POST", "/api/checkin", volunteerToken, fiber.Map{
		"teamId": "DX-001", "type": "HALL",
	})
	require.Equal(t, 200, resp.StatusCode)
	team = body["team"].(map[string]interface{})
	assert.Equal(t, true, team["hallCheckIn"])

	resp, _ = request(t, app, "DELETE", "/api/teams/DX-001", adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)

	resp, _ = request(t, app, "GET", "/api/teams/DX-001", "", nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestCheckinErrorStatuses(t *testing.T) {
	app := setupApp(t)
	adminToken := login(t, app, "admin", "password123")

	resp, body := request(t, app, "POST", "/api/teams", adminToken, fiber.Map{
		"teamId": "DX-002", "name": "Beta", "college": "Tech U",
	})
	require.Equal(t, 201, resp.StatusCode)
	token := body["team"].(map[string]interface{})["token"].(string)

	t.Run("unknown team is 404", func(t *testing.T) {
		resp, _ := request(t, app, "POST", "/api/checkin", adminToken, fiber.Map{
			"teamId": "DX-404", "type": "GATE",
		})
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("hall before gate is 400", func(t *testing.T) {
		resp, body := request(t, app, "POST", "/api/checkin", adminToken, fiber.Map{
			"teamId": "DX-002", "type": "HALL",
		})
		assert.Equal(t, 400, resp.StatusCode)
		assert.Contains(t, body["error"].(string), "gate entry not completed")
	})

	t.Run("bad type is 400", func(t *testing.T) {
		resp, _ := request(t, app, "POST", "/api/checkin", adminToken, fiber.Map{
			"teamId": "DX-002", "type": "LOBBY",
		})
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("token mismatch is 403", func(t *testing.T) {
		resp, _ := request(t, app, "POST", "/api/checkin", adminToken, fiber.Map{
			"teamId": "DX-002", "type": "GATE", "token": "bogus",
		})
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("matching token passes", func(t *testing.T) {
		resp, _ := request(t, app, "POST", "/api/checkin", adminToken, fiber.Map{
			"teamId": "DX-002", "type": "GATE", "token": token,
		})
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("duplicate create is 409", func(t *testing.T) {
		resp, _ := request(t, app, "POST", "/api/teams", adminToken, fiber.Map{
			"teamId": "DX-002", "name": "Beta", "college": "Tech U",
		})
		assert.Equal(t, 409, resp.StatusCode)
	})
}

func TestGenerateQRAndAnalytics(t *testing.T) {
	app := setupApp(t)
	adminToken := login(t, app, "admin", "password123")

	for _, id := range []string{"DX-001", "DX-002"} {
		resp, _ := request(t, app, "POST", "/api/teams", adminToken, fiber.Map{
			"teamId": id, "name": "Team " + id, "college": "Tech U", "track": "AI",
		})
		require.Equal(t, 201, resp.StatusCode)
	}

	resp, body := request(t, app, "POST", "/api/admin/generate-qr", adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 2, body["generated"])

	resp, body = request(t, app, "GET", "/api/analytics", adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["timeline"].([]interface{}), 13)
	assert.Len(t, body["colleges"].([]interface{}), 1)
	assert.Len(t, body["tracks"].([]interface{}), 1)
}

func TestExportTeamsCSV(t *testing.T) {
	app := setupApp(t)
	adminToken := login(t, app, "admin", "password123")

	resp, _ := request(t, app, "POST", "/api/teams", adminToken, fiber.Map{
		"teamId": "DX-001", "name": "Alpha", "college": "Tech U",
		"members": []string{"A", "B"},
	})
	require.Equal(t, 201, resp.StatusCode)

	req, err := http.NewRequest("GET", "/api/teams/export", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+adminToken)

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, 200, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/csv")

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Team ID,Name,College")
	assert.Contains(t, string(raw), "DX-001,Alpha,Tech U")
}

func TestWipeTeams(t *testing.T) {
	app := setupApp(t)
	adminToken := login(t, app, "admin", "password123")
	volunteerToken := login(t, app, "volunteer", "volunteer123")

	resp, _ := request(t, app, "POST", "/api/teams", adminToken, fiber.Map{
		"teamId": "DX-001", "name": "Alpha", "college": "Tech U",
	})
	require.Equal(t, 201, resp.StatusCode)
	resp, _ = request(t, app, "POST", "/api/checkin", volunteerToken, fiber.Map{
		"teamId": "DX-001", "type": "GATE",
	})
	require.Equal(t, 200, resp.StatusCode)

	resp, _ = request(t, app, "DELETE", "/api/teams", adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)

	resp, body := request(t, app, "GET", "/api/teams", volunteerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, body["teams"])
	assert.EqualValues(t, 0, body["count"])

	var logCount int64
	require.NoError(t, db.Model(&models.CheckinLog{}).Count(&logCount).Error)
	assert.Zero(t, logCount)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := generateToken(models.User{Username: "admin", Role: models.RoleAdmin}, time.Now().Add(time.Hour))
	assert.Error(t, err, "signing without a configured secret must refuse, not fall back")
}
