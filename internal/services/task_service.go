package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mfcastro/task-manager-api/internal/constants"
	"github.com/mfcastro/task-manager-api/internal/models"
	"github.com/mfcastro/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("task belongs to another user")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Completed   bool
	Priority    models.TaskPriority
	Category    *string
	DueDate     *time.Time
}

// UpdateTaskInput represents input for partially updating a task. Nil fields
// are left untouched.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Completed     *bool
	Priority      *models.TaskPriority
	Category      *string
	ClearCategory bool
	DueDate       *time.Time
	ClearDueDate  bool
}

// TaskStatistics holds the aggregate counts returned by Statistics.
type TaskStatistics struct {
	Total     int64
	Completed int64
	Pending   int64
	Overdue   int64
}

// ListTasks returns the owner's tasks matching the filter, newest first
func (s *TaskService) ListTasks(ownerID uint64, filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task owned by the given user
func (s *TaskService) GetTask(taskID, ownerID uint64) (*models.Task, error) {
	return s.findOwnedTask(taskID, ownerID)
}

// CreateTask creates a new task after validating its fields. An unset priority
// defaults to medium. Past due dates are accepted.
func (s *TaskService) CreateTask(ownerID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	verr := &ValidationError{}
	validateTitle(verr, input.Title)
	validateDescription(verr, input.Description)
	validatePriority(verr, input.Priority)
	validateCategory(verr, input.Category)
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    input.Priority,
		Category:    input.Category,
		DueDate:     input.DueDate,
		OwnerID:     ownerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update to a task owned by the given user. Field
// rules are enforced only for the fields supplied.
func (s *TaskService) UpdateTask(taskID, ownerID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwnedTask(taskID, ownerID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if input.Title != nil {
		validateTitle(verr, *input.Title)
	}
	if input.Description != nil {
		validateDescription(verr, *input.Description)
	}
	if input.Priority != nil {
		validatePriority(verr, *input.Priority)
	}
	if input.Category != nil {
		validateCategory(verr, input.Category)
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearCategory {
		task.Category = nil
	} else if input.Category != nil {
		task.Category = input.Category
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask permanently removes a task owned by the given user
func (s *TaskService) DeleteTask(taskID, ownerID uint64) error {
	task, err := s.findOwnedTask(taskID, ownerID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ToggleTask flips the completed flag of a task owned by the given user
func (s *TaskService) ToggleTask(taskID, ownerID uint64) (*models.Task, error) {
	task, err := s.findOwnedTask(taskID, ownerID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return task, nil
}

// Statistics returns aggregate counts over the owner's tasks. Overdue is
// evaluated against the wall clock at call time.
func (s *TaskService) Statistics(ownerID uint64) (TaskStatistics, error) {
	stats, err := s.taskRepo.Stats(ownerID, time.Now())
	if err != nil {
		return TaskStatistics{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	return TaskStatistics{
		Total:     stats.Total,
		Completed: stats.Completed,
		Pending:   stats.Total - stats.Completed,
		Overdue:   stats.Overdue,
	}, nil
}

// OverdueTasks returns the owner's open tasks past due, earliest due date first
func (s *TaskService) OverdueTasks(ownerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListOverdue(ownerID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	return tasks, nil
}

// Categories returns the owner's distinct category values, sorted
func (s *TaskService) Categories(ownerID uint64) ([]string, error) {
	categories, err := s.taskRepo.DistinctCategories(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// findOwnedTask loads a task and enforces ownership. An absent ID and a task
// owned by someone else are distinct failures so the HTTP layer can map them
// to 404 and 403.
func (s *TaskService) findOwnedTask(taskID, ownerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != ownerID {
		return nil, ErrTaskForbidden
	}

	return task, nil
}

func validateTitle(verr *ValidationError, title string) {
	length := utf8.RuneCountInString(title)
	switch {
	case length == 0:
		verr.add("title", "title is required")
	case length < constants.MinTitleLength:
		verr.add("title", fmt.Sprintf("title must be at least %d characters", constants.MinTitleLength))
	case length > constants.MaxTitleLength:
		verr.add("title", fmt.Sprintf("title cannot be longer than %d characters", constants.MaxTitleLength))
	}
}

func validateDescription(verr *ValidationError, description string) {
	if utf8.RuneCountInString(description) > constants.MaxDescriptionLength {
		verr.add("description", fmt.Sprintf("description cannot be longer than %d characters", constants.MaxDescriptionLength))
	}
}

func validatePriority(verr *ValidationError, priority models.TaskPriority) {
	if !models.ValidPriority(priority) {
		verr.add("priority", "priority must be one of: low, medium, high")
	}
}

func validateCategory(verr *ValidationError, category *string) {
	if category != nil && utf8.RuneCountInString(*category) > constants.MaxCategoryLength {
		verr.add("category", fmt.Sprintf("category cannot be longer than %d characters", constants.MaxCategoryLength))
	}
}
