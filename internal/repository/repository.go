package repository

import (
	"time"

	"github.com/mfcastro/task-manager-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID regardless of owner
	FindByID(id uint64) (*models.Task, error)

	// List retrieves the owner's tasks matching the filter, newest first
	List(ownerID uint64, filter TaskFilter) ([]models.Task, error)

	// Update persists all fields of a task
	Update(task *models.Task) error

	// Delete permanently removes a task
	Delete(id uint64) error

	// Stats returns aggregate counts for the owner's tasks at the given instant
	Stats(ownerID uint64, now time.Time) (TaskStats, error)

	// ListOverdue retrieves the owner's open tasks past due at the given instant,
	// earliest due date first
	ListOverdue(ownerID uint64, now time.Time) ([]models.Task, error)

	// DistinctCategories returns the owner's category values, sorted, without
	// duplicates or NULLs
	DistinctCategories(ownerID uint64) ([]string, error)
}

// TaskFilter holds the optional predicates for listing tasks. Set fields are
// combined with AND on top of the owner scope.
type TaskFilter struct {
	Completed *bool
	Priority  *models.TaskPriority
	Category  *string
	Search    *string
}

// TaskStats holds aggregate counts over an owner's tasks.
type TaskStats struct {
	Total     int64
	Completed int64
	Overdue   int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
