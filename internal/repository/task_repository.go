package repository

import (
	"time"

	"github.com/mfcastro/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID regardless of owner
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves the owner's tasks matching the filter, newest first
func (r *GormTaskRepository) List(ownerID uint64, filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("owner_id = ?", ownerID)

	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Search != nil {
		pattern := "%" + *filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update persists all fields of a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete permanently removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// Stats returns aggregate counts for the owner's tasks at the given instant
func (r *GormTaskRepository) Stats(ownerID uint64, now time.Time) (TaskStats, error) {
	var stats TaskStats

	err := r.db.Model(&models.Task{}).
		Where("owner_id = ?", ownerID).
		Count(&stats.Total).Error
	if err != nil {
		return TaskStats{}, err
	}

	err = r.db.Model(&models.Task{}).
		Where("owner_id = ? AND completed = ?", ownerID, true).
		Count(&stats.Completed).Error
	if err != nil {
		return TaskStats{}, err
	}

	err = r.db.Model(&models.Task{}).
		Where("owner_id = ? AND completed = ? AND due_date < ?", ownerID, false, now).
		Count(&stats.Overdue).Error
	if err != nil {
		return TaskStats{}, err
	}

	return stats, nil
}

// ListOverdue retrieves the owner's open tasks past due at the given instant
func (r *GormTaskRepository) ListOverdue(ownerID uint64, now time.Time) ([]models.Task, error) {
	var tasks []models.Task

	err := r.db.Model(&models.Task{}).
		Where("owner_id = ? AND completed = ? AND due_date < ?", ownerID, false, now).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// DistinctCategories returns the owner's category values, sorted, without duplicates or NULLs
func (r *GormTaskRepository) DistinctCategories(ownerID uint64) ([]string, error) {
	var categories []string

	err := r.db.Model(&models.Task{}).
		Distinct("category").
		Where("owner_id = ? AND category IS NOT NULL", ownerID).
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}
