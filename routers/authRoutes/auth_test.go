package authRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"examprep/config"
	"examprep/database"
	"examprep/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failed logins before the account is blocked
const maxAttempts = 3

type response struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}
	t.Cleanup(func() { config.AppConfig = prev })

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open("sqlite", dsn, "test")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	SetupAuthRoutes(app)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestSignupAndLogin(t *testing.T) {
	app := newAuthApp(t)
	signup := map[string]string{"name": "Asha Rao", "email": " Asha@Example.com ", "password": "correct-horse"}

	status, out := call(t, app, "POST", "/auth/signup", "", signup)
	require.Equal(t, fiber.StatusCreated, status, out.Message)
	assert.Equal(t, "asha@example.com", out.Data["email"])
	assert.Equal(t, models.RoleUser, out.Data["role"])
	assert.NotContains(t, out.Data, "password")

	status, _ = call(t, app, "POST", "/auth/signup", "", signup)
	assert.Equal(t, fiber.StatusConflict, status)

	status, out = call(t, app, "POST", "/auth/login", "", map[string]string{"email": "asha@example.com", "password": "correct-horse"})
	require.Equal(t, fiber.StatusOK, status, out.Message)
	token, _ := out.Data["token"].(string)
	require.NotEmpty(t, token)

	status, out = call(t, app, "GET", "/auth/login/history", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	history := out.Data["loginTracking"].([]interface{})
	require.Len(t, history, 2)
	actions := []interface{}{history[0].(map[string]interface{})["action"], history[1].(map[string]interface{})["action"]}
	assert.ElementsMatch(t, []interface{}{"SIGNUP", "LOGIN"}, actions)
}

func TestLoginBlocksAfterRepeatedFailures(t *testing.T) {
	app := newAuthApp(t)
	status, _ := call(t, app, "POST", "/auth/signup", "", map[string]string{"name": "Ravi", "email": "ravi@example.com", "password": "secret-pass"})
	require.Equal(t, fiber.StatusCreated, status)

	wrong := map[string]string{"email": "ravi@example.com", "password": "wrong-pass"}
	for i := 0; i < maxAttempts; i++ {
		status, out := call(t, app, "POST", "/auth/login", "", wrong)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "Invalid credentials!", out.Message)
	}

	status, out := call(t, app, "POST", "/auth/login", "", map[string]string{"email": "ravi@example.com", "password": "secret-pass"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, out.Message, "temporarily blocked")

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "ravi@example.com").First(&user).Error)
	assert.True(t, user.IsBlocked)
	assert.Equal(t, maxAttempts, user.FailedLoginAttempts)
}

func TestLoginValidation(t *testing.T) {
	app := newAuthApp(t)

	status, out := call(t, app, "POST", "/auth/login", "", map[string]string{"email": "not-an-email", "password": "x"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Invalid email!", out.Data["email"])

	status, _ = call(t, app, "GET", "/auth/login/history", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
