package repository

import (
	"errors"
	"time"

	"github.com/tasksync/tasksync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCapacityExceeded is returned when every slot on the task is taken.
	ErrCapacityExceeded = errors.New("task repository: assignment capacity exceeded")
	// ErrAlreadyAssigned is returned when the user is already on the task.
	ErrAlreadyAssigned = errors.New("task repository: user already assigned")
	// ErrTaskCompleted is returned when assigning to a completed task.
	ErrTaskCompleted = errors.New("task repository: task already completed")
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

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with pagination, soonest deadline first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.deadline ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Assignments").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListWithAssignments retrieves the full task snapshot with assignments
func (r *GormTaskRepository) ListWithAssignments() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Assignments").
		Order("tasks.deadline ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Assign adds a user to a task inside a single transaction. The task row is
// locked for the duration of the capacity check so two writers cannot both
// take the last slot.
func (r *GormTaskRepository) Assign(taskID uint64, email string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		query := tx
		// sqlite has no row locks; its writes are serialized anyway.
		if tx.Dialector.Name() != "sqlite" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var task models.Task
		if err := query.First(&task, taskID).Error; err != nil {
			return err
		}

		if task.Completed {
			return ErrTaskCompleted
		}

		var existing models.TaskAssignment
		err := tx.Where("task_id = ? AND user_email = ?", taskID, email).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyAssigned
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&models.TaskAssignment{}).
			Where("task_id = ?", taskID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(task.MaxStudents) {
			return ErrCapacityExceeded
		}

		assignment := models.TaskAssignment{TaskID: taskID, UserEmail: email}
		return tx.Create(&assignment).Error
	})
}

// Complete marks a task completed. The transition is monotonic: a completed
// task stays completed.
func (r *GormTaskRepository) Complete(taskID uint64) error {
	result := r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Update("completed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAssignment finds a specific task assignment
func (r *GormTaskRepository) FindAssignment(taskID uint64, email string) (*models.TaskAssignment, error) {
	var assignment models.TaskAssignment
	if err := r.db.Where("task_id = ? AND user_email = ?", taskID, email).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignmentsByEmail lists a user's assignments
func (r *GormTaskRepository) ListAssignmentsByEmail(email string, preload ...string) ([]models.TaskAssignment, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var assignments []models.TaskAssignment
	if err := query.Where("user_email = ?", email).
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// MarkPenaltyApplied sets the penalty marker. The guarded update means only
// one evaluation pass ever wins the marker, no matter how many run.
func (r *GormTaskRepository) MarkPenaltyApplied(taskID uint64, email string, at time.Time) (bool, error) {
	result := r.db.Model(&models.TaskAssignment{}).
		Where("task_id = ? AND user_email = ? AND penalty_applied = ?", taskID, email, false).
		Updates(map[string]interface{}{
			"penalty_applied": true,
			"penalized_at":    at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
