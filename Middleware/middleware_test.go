package Middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"HospitalMS/Models"
	"HospitalMS/Utils/Token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthTest(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("API_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.MigrateAll(db))
	Models.DB = db

	router := gin.New()
	protected := router.Group("/api/protected")
	protected.Use(JwtAuthMiddleware())
	protected.GET("/whoami", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": user.Email, "role": user.Role})
	})

	doctorOnly := protected.Group("/doctor")
	doctorOnly.Use(RequireRole(Models.RoleDoctor))
	doctorOnly.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return router
}

func createUser(t *testing.T, role, email string, active, blacklisted bool) Models.User {
	t.Helper()
	user := Models.User{
		Role:     role,
		FullName: "Test User",
		Email:    email,
		Password: "secret123",
		IsActive: true,
	}
	_, err := user.SaveUser(Models.DB)
	require.NoError(t, err)

	// The is_active column default would swallow a zero value on create.
	err = Models.DB.Model(&Models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"is_active":      active,
		"is_blacklisted": blacklisted,
	}).Error
	require.NoError(t, err)
	user.IsActive = active
	user.IsBlacklisted = blacklisted
	return user
}

func authedRequest(t *testing.T, router *gin.Engine, method, path string, user Models.User, viaCookie bool) *httptest.ResponseRecorder {
	t.Helper()
	token, err := Token.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	if viaCookie {
		req.AddCookie(&http.Cookie{Name: Token.CookieName, Value: token})
	} else {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestJwtAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/protected/whoami", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJwtAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	router := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/protected/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJwtAuthMiddlewareAcceptsHeaderAndCookie(t *testing.T) {
	router := setupAuthTest(t)
	user := createUser(t, Models.RolePatient, "pat@hms.local", true, false)

	header := authedRequest(t, router, http.MethodGet, "/api/protected/whoami", user, false)
	assert.Equal(t, http.StatusOK, header.Code)
	assert.Contains(t, header.Body.String(), "pat@hms.local")

	cookie := authedRequest(t, router, http.MethodGet, "/api/protected/whoami", user, true)
	assert.Equal(t, http.StatusOK, cookie.Code)
}

func TestJwtAuthMiddlewareBlocksInactiveAndBlacklisted(t *testing.T) {
	router := setupAuthTest(t)

	inactive := createUser(t, Models.RolePatient, "inactive@hms.local", false, false)
	recorder := authedRequest(t, router, http.MethodGet, "/api/protected/whoami", inactive, false)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	blacklisted := createUser(t, Models.RolePatient, "blocked@hms.local", true, true)
	recorder = authedRequest(t, router, http.MethodGet, "/api/protected/whoami", blacklisted, false)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "blacklisted")
}

func TestRequireRole(t *testing.T) {
	router := setupAuthTest(t)

	doctor := createUser(t, Models.RoleDoctor, "doc@hms.local", true, false)
	recorder := authedRequest(t, router, http.MethodGet, "/api/protected/doctor/ping", doctor, false)
	assert.Equal(t, http.StatusOK, recorder.Code)

	patient := createUser(t, Models.RolePatient, "pat@hms.local", true, false)
	recorder = authedRequest(t, router, http.MethodGet, "/api/protected/doctor/ping", patient, false)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
