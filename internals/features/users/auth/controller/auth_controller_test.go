package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tesfa_backend/internals/configs"
	"tesfa_backend/internals/features/users/auth/dto"
	"tesfa_backend/internals/features/users/auth/model"
)

type authEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    dto.LoginResponse `json:"data"`
}

func newAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"

	ctrl := NewAuthController(db)
	app := fiber.New()
	app.Post("/api/auth/login", ctrl.Login)
	app.Post("/api/auth/refresh", ctrl.Refresh)
	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, phone, password string, active bool) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{
		UserName:         "Test Agent",
		UserPhone:        phone,
		UserPasswordHash: string(hash),
		UserRole:         "agent",
		UserIsActive:     active,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestLoginIssuesRefreshTokenAndRefreshRotatesPair(t *testing.T) {
	app, db := newAuthApp(t)
	user := seedUser(t, db, "+251911000001", "secret123", true)

	resp := postJSON(t, app, "/api/auth/login", dto.LoginRequest{
		Phone:    "+251911000001",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login authEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.True(t, login.Success)
	require.NotEmpty(t, login.Data.AccessToken)
	require.NotEmpty(t, login.Data.RefreshToken)
	require.Equal(t, user.UserID.String(), login.Data.UserID)

	resp = postJSON(t, app, "/api/auth/refresh", dto.RefreshRequest{
		RefreshToken: login.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed authEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&refreshed))
	require.True(t, refreshed.Success)
	require.NotEmpty(t, refreshed.Data.AccessToken)
	require.NotEmpty(t, refreshed.Data.RefreshToken)
	require.Equal(t, user.UserID.String(), refreshed.Data.UserID)
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	app, db := newAuthApp(t)
	seedUser(t, db, "+251911000002", "secret123", true)

	resp := postJSON(t, app, "/api/auth/refresh", dto.RefreshRequest{
		RefreshToken: "not-a-token",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshRejectsAccessTokenAsRefreshToken(t *testing.T) {
	app, db := newAuthApp(t)
	seedUser(t, db, "+251911000003", "secret123", true)

	resp := postJSON(t, app, "/api/auth/login", dto.LoginRequest{
		Phone:    "+251911000003",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login authEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))

	// Access tokens are signed with a different secret and carry no
	// refresh marker, so they must not open the refresh endpoint.
	resp = postJSON(t, app, "/api/auth/refresh", dto.RefreshRequest{
		RefreshToken: login.Data.AccessToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshRejectsDisabledAccount(t *testing.T) {
	app, db := newAuthApp(t)
	user := seedUser(t, db, "+251911000004", "secret123", true)

	resp := postJSON(t, app, "/api/auth/login", dto.LoginRequest{
		Phone:    "+251911000004",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login authEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))

	require.NoError(t, db.Model(&model.User{}).
		Where("user_id = ?", user.UserID).
		Update("user_is_active", false).Error)

	resp = postJSON(t, app, "/api/auth/refresh", dto.RefreshRequest{
		RefreshToken: login.Data.RefreshToken,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
