package repository

import (
	"time"

	"github.com/tasksync/tasksync-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListActive lists users that still have lifelines
	ListActive() ([]models.User, error)

	// ListAll lists every user, including soft-removed ones
	ListAll() ([]models.User, error)

	// DecrementLifeline takes one lifeline in a single guarded update,
	// never below zero, and stamps the removal timestamp when the count
	// lands on zero. Returns the stored count after the update, so callers
	// never act on their own snapshot of the counter.
	DecrementLifeline(id uint64, at time.Time) (remaining int, removed bool, err error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with pagination, soonest deadline first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListWithAssignments retrieves the full task snapshot with assignments
	ListWithAssignments() ([]models.Task, error)

	// Assign adds a user to a task if and only if the task is incomplete,
	// under capacity, and the user is not already assigned. The check and
	// the write happen in one transaction.
	Assign(taskID uint64, email string) error

	// Complete marks a task completed. Completing a completed task is a
	// no-op.
	Complete(taskID uint64) error

	// FindAssignment finds a specific task assignment
	FindAssignment(taskID uint64, email string) (*models.TaskAssignment, error)

	// ListAssignmentsByEmail lists a user's assignments
	ListAssignmentsByEmail(email string, preload ...string) ([]models.TaskAssignment, error)

	// MarkPenaltyApplied sets the penalty marker on an assignment and
	// reports whether this call won the marker. Only the winner may
	// decrement lifelines.
	MarkPenaltyApplied(taskID uint64, email string, at time.Time) (bool, error)
}

// TaskFilter holds pagination options for listing tasks
type TaskFilter struct {
	Page     int
	PageSize int
}

// ReminderRepository defines the interface for reminder bookkeeping
type ReminderRepository interface {
	// Exists reports whether a reminder was already recorded for the
	// (task, user, lead) triple
	Exists(taskID uint64, email string, leadMinutes int) (bool, error)

	// Record stores a reminder row. Returns false when the triple was
	// already recorded by a concurrent pass.
	Record(reminder *models.Reminder) (bool, error)

	// CountByTask counts recorded reminders for a task
	CountByTask(taskID uint64) (int64, error)
}
