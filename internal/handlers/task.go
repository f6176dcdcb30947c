package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfcastro/task-manager-api/internal/dto"
	apierrors "github.com/mfcastro/task-manager-api/internal/errors"
	"github.com/mfcastro/task-manager-api/internal/middleware"
	"github.com/mfcastro/task-manager-api/internal/models"
	"github.com/mfcastro/task-manager-api/internal/repository"
	"github.com/mfcastro/task-manager-api/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns the current user's tasks, optionally filtered by
// completed, priority, category and search query parameters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var filter repository.TaskFilter

	if v := c.Query("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed filter")
			return
		}
		filter.Completed = &completed
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	tasks, err := h.taskService.ListTasks(userID, filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	dto.OKList(c, http.StatusOK, dto.ToTaskDTOs(tasks), len(tasks))
}

// GetTask returns a single task owned by the current user
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	dto.OK(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task for the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Completed   bool                `json:"completed"`
		Priority    models.TaskPriority `json:"priority"`
		Category    *string             `json:"category"`
		DueDate     *time.Time          `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	dto.OKWithMessage(c, http.StatusCreated, "Task created successfully", dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task owned by the current user.
// The raw JSON is inspected so that explicit nulls clear category and due date.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if title, ok := rawReq["title"]; ok {
		titleStr, ok := title.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid title")
			return
		}
		input.Title = &titleStr
	}
	if description, ok := rawReq["description"]; ok {
		descStr, ok := description.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid description")
			return
		}
		input.Description = &descStr
	}
	if completed, ok := rawReq["completed"]; ok {
		completedBool, ok := completed.(bool)
		if !ok {
			apierrors.BadRequest(c, "Invalid completed flag")
			return
		}
		input.Completed = &completedBool
	}
	if priority, ok := rawReq["priority"]; ok {
		priorityStr, ok := priority.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		p := models.TaskPriority(priorityStr)
		input.Priority = &p
	}
	if category, ok := rawReq["category"]; ok {
		if category == nil {
			input.ClearCategory = true
		} else if categoryStr, ok := category.(string); ok {
			input.Category = &categoryStr
		} else {
			apierrors.BadRequest(c, "Invalid category")
			return
		}
	}
	if dueDate, ok := rawReq["due_date"]; ok {
		if dueDate == nil {
			input.ClearDueDate = true
		} else if dueDateStr, ok := dueDate.(string); ok {
			parsed, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date format")
				return
			}
			input.DueDate = &parsed
		} else {
			apierrors.BadRequest(c, "Invalid due_date format")
			return
		}
	}

	task, err := h.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	dto.OKWithMessage(c, http.StatusOK, "Task updated successfully", dto.ToTaskDTO(*task))
}

// DeleteTask permanently removes a task owned by the current user
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	dto.OKWithMessage(c, http.StatusOK, "Task deleted successfully", nil)
}

// ToggleTask flips the completed flag of a task owned by the current user
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	dto.OKWithMessage(c, http.StatusOK, "Task status updated", dto.ToTaskDTO(*task))
}

// Stats returns aggregate counts over the current user's tasks
func (h *TaskHandler) Stats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.taskService.Statistics(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	dto.OK(c, http.StatusOK, dto.TaskStatsDTO{
		Total:     stats.Total,
		Completed: stats.Completed,
		Pending:   stats.Pending,
		Overdue:   stats.Overdue,
	})
}

// Categories returns the current user's distinct task categories
func (h *TaskHandler) Categories(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	categories, err := h.taskService.Categories(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch categories")
		return
	}

	dto.OK(c, http.StatusOK, categories)
}

// Overdue returns the current user's open tasks past their due date
func (h *TaskHandler) Overdue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.OverdueTasks(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch overdue tasks")
		return
	}

	dto.OKList(c, http.StatusOK, dto.ToTaskDTOs(tasks), len(tasks))
}

// taskRequestIDs extracts the caller's user ID and the task ID path parameter,
// responding with the appropriate error when either is missing.
func taskRequestIDs(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	return userID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.UnprocessableEntity(c, toFieldErrors(verr))
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c, "Access denied")
	default:
		apierrors.InternalError(c, "")
	}
}

func toFieldErrors(verr *services.ValidationError) []dto.FieldError {
	errs := make([]dto.FieldError, len(verr.Fields))
	for i, f := range verr.Fields {
		errs[i] = dto.FieldError{Field: f.Field, Message: f.Message}
	}
	return errs
}
