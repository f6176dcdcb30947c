package handlers

import (
	"encoding/json"
	"net/http"
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

type userTestEnv struct {
	authTestEnv
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	tokens := auth.NewManager("user-test-secret", time.Hour, "test")
	authService := services.NewAuthService(repository.NewUserRepository(db))
	taskService := services.NewTaskService(repository.NewTaskRepository(db))
	handler := NewUserHandler(authService, taskService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	users := r.Group("/api/users")
	{
		users.GET("/profile", middleware.RequireAuth(tokens), handler.Profile)
		users.GET("/check-email/:email", handler.CheckEmail)
	}

	return userTestEnv{authTestEnv{
		db:          db,
		router:      r,
		tokens:      tokens,
		authService: authService,
	}}
}

func TestUserHandler_Profile(t *testing.T) {
	env := setupUserTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	tasks := []models.Task{
		{Title: "Pay bills", Priority: models.TaskPriorityMedium, OwnerID: user.ID},
		{Title: "Walk the dog", Priority: models.TaskPriorityLow, OwnerID: user.ID, Completed: true},
		{Title: "File taxes", Priority: models.TaskPriorityHigh, OwnerID: user.ID},
	}
	for i := range tasks {
		require.NoError(t, env.db.Create(&tasks[i]).Error)
	}

	token, err := env.tokens.Generate(user)
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/users/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    dto.ProfileDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, user.Email, resp.Data.Profile.Email)
	require.Equal(t, int64(3), resp.Data.Statistics.TotalTasks)
	require.Equal(t, int64(1), resp.Data.Statistics.CompletedTasks)
	require.Equal(t, int64(2), resp.Data.Statistics.PendingTasks)
	require.Equal(t, user.CreatedAt.Format("2006-01-02"), resp.Data.Statistics.MemberSince)
}

func TestUserHandler_Profile_NoToken(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/users/profile", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_CheckEmail(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/users/check-email/maria@example.com", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    dto.EmailAvailabilityDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "maria@example.com", resp.Data.Email)
	require.True(t, resp.Data.Available)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w = env.do(t, http.MethodGet, "/api/users/check-email/maria@example.com", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp.Data = dto.EmailAvailabilityDTO{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Data.Available)
}
