package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mfcastro/task-manager-api/internal/dto"
	apierrors "github.com/mfcastro/task-manager-api/internal/errors"
	"github.com/mfcastro/task-manager-api/internal/middleware"
	"github.com/mfcastro/task-manager-api/internal/services"
)

// UserHandler coordinates user account HTTP handlers.
type UserHandler struct {
	authService *services.AuthService
	taskService *services.TaskService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, taskService *services.TaskService) *UserHandler {
	return &UserHandler{
		authService: authService,
		taskService: taskService,
	}
}

// Profile returns the authenticated user together with their task statistics.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	stats, err := h.taskService.Statistics(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	dto.OK(c, http.StatusOK, dto.ProfileDTO{
		Profile: dto.ToUserDTO(*user),
		Statistics: dto.UserStatsDTO{
			TotalTasks:     stats.Total,
			CompletedTasks: stats.Completed,
			PendingTasks:   stats.Pending,
			MemberSince:    user.CreatedAt.Format("2006-01-02"),
			LastUpdate:     user.UpdatedAt.Format("2006-01-02 15:04:05"),
		},
	})
}

// CheckEmail reports whether the given email is still free to register.
func (h *UserHandler) CheckEmail(c *gin.Context) {
	email := c.Param("email")

	available, err := h.authService.IsEmailAvailable(email)
	if err != nil {
		apierrors.InternalError(c, "Failed to check email")
		return
	}

	dto.OK(c, http.StatusOK, dto.EmailAvailabilityDTO{
		Email:     email,
		Available: available,
	})
}
