package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfcastro/task-manager-api/internal/auth"
	"github.com/mfcastro/task-manager-api/internal/dto"
	"github.com/mfcastro/task-manager-api/internal/middleware"
	"github.com/mfcastro/task-manager-api/internal/models"
	"github.com/mfcastro/task-manager-api/internal/repository"
	"github.com/mfcastro/task-manager-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	tokens      *auth.Manager
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	tokens := auth.NewManager("auth-test-secret", time.Hour, "test")
	authService := services.NewAuthService(repository.NewUserRepository(db))
	handler := NewAuthHandler(authService, tokens)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", handler.Register)
		authRoutes.POST("/login", handler.Login)
		authRoutes.GET("/me", middleware.RequireAuth(tokens), handler.GetCurrentUser)
		authRoutes.POST("/refresh", middleware.RequireAuth(tokens), handler.Refresh)
	}

	return authTestEnv{
		db:          db,
		router:      r,
		tokens:      tokens,
		authService: authService,
	}
}

func (env authTestEnv) do(t *testing.T, method, url string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{
		"name":     "Maria Silva",
		"email":    "maria@example.com",
		"password": "supersecret",
	}
	w := env.do(t, http.MethodPost, "/api/auth/register", payload, "")

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool        `json:"success"`
		Data    dto.AuthDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, payload["email"], resp.Data.User.Email)
	require.NotEmpty(t, resp.Data.Token)

	// The returned token is immediately usable
	claims, err := env.tokens.Validate(resp.Data.Token)
	require.NoError(t, err)
	require.Equal(t, resp.Data.User.ID, claims.UserID)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{
		"name":     "Maria Silva",
		"email":    "maria@example.com",
		"password": "supersecret",
	}
	w := env.do(t, http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{
		"name":     "",
		"email":    "broken",
		"password": "nope",
	}
	w := env.do(t, http.MethodPost, "/api/auth/register", payload, "")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Errors  []dto.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotEmpty(t, resp.Errors)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	payload := map[string]string{
		"email":    "maria@example.com",
		"password": "supersecret",
	}
	w := env.do(t, http.MethodPost, "/api/auth/login", payload, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool        `json:"success"`
		Data    dto.AuthDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Data.Token)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	payload := map[string]string{
		"email":    "maria@example.com",
		"password": "wrongpassword",
	}
	w := env.do(t, http.MethodPost, "/api/auth/login", payload, "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	token, err := env.tokens.Generate(user)
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool        `json:"success"`
		Data    dto.UserDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, user.Email, resp.Data.Email)
}

func TestAuthHandler_GetCurrentUser_NoToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	token, err := env.tokens.Generate(user)
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/auth/refresh", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    dto.TokenDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)

	claims, err := env.tokens.Validate(resp.Data.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}
