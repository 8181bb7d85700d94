package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasksync/tasksync-api/internal/lifecycle"
	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskNameRequired     = errors.New("task name is required")
	ErrDescriptionRequired  = errors.New("task description is required")
	ErrInvalidMaxStudents   = errors.New("max students must be at least 1")
	ErrDeadlineRequired     = errors.New("task deadline is required")
	ErrAdminOnly            = errors.New("only admins can perform this action")
	ErrCapacityExceeded     = errors.New("task has no open slots")
	ErrAlreadyAssigned      = errors.New("user is already assigned to this task")
	ErrTaskAlreadyCompleted = errors.New("task is already completed")
	ErrCompletionNotAllowed = errors.New("only the admin or an assignee can complete this task")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	reminders *ReminderService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, reminders *ReminderService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		reminders: reminders,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string
	Description string
	MaxStudents int
	Deadline    time.Time
	Creator     *models.User
}

// CreateTask creates a new task. Creation is an admin capability; every
// required field is validated before anything is written.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Creator == nil || input.Creator.Role != models.RoleAdmin {
		return nil, ErrAdminOnly
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTaskNameRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if input.MaxStudents < 1 {
		return nil, ErrInvalidMaxStudents
	}
	if input.Deadline.IsZero() {
		return nil, ErrDeadlineRequired
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		MaxStudents: input.MaxStudents,
		Deadline:    input.Deadline,
		Completed:   false,
		CreatorID:   input.Creator.ID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task with its assignments
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListTasks returns the paginated full task list (admin dashboard view)
func (s *TaskService) ListTasks(page, pageSize int) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// Board computes a user's assigned/available views over the current task
// snapshot. No side effects.
func (s *TaskService) Board(email string) (lifecycle.Board, error) {
	tasks, err := s.taskRepo.ListWithAssignments()
	if err != nil {
		return lifecycle.Board{}, fmt.Errorf("failed to load tasks: %w", err)
	}

	return lifecycle.SplitBoard(tasks, email), nil
}

// SelfAssign puts the user on the task if the capacity preconditions hold,
// then schedules the reminders for the new assignment. The repository
// performs the check-and-write atomically; the snapshot check here only
// short-circuits the obvious cases.
func (s *TaskService) SelfAssign(taskID uint64, user *models.User, now time.Time) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	switch lifecycle.CheckAssign(task, user.Email) {
	case lifecycle.AssignAlreadyAssigned:
		return nil, ErrAlreadyAssigned
	case lifecycle.AssignTaskCompleted:
		return nil, ErrTaskAlreadyCompleted
	case lifecycle.AssignCapacityExceeded:
		return nil, ErrCapacityExceeded
	}

	if err := s.taskRepo.Assign(taskID, user.Email); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityExceeded):
			return nil, ErrCapacityExceeded
		case errors.Is(err, repository.ErrAlreadyAssigned):
			return nil, ErrAlreadyAssigned
		case errors.Is(err, repository.ErrTaskCompleted):
			return nil, ErrTaskAlreadyCompleted
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTaskNotFound
		default:
			return nil, fmt.Errorf("failed to assign task: %w", err)
		}
	}

	// Best-effort: scheduling failures never fail the assignment.
	s.reminders.ScheduleForTask(task, user.Email, now)

	return s.taskRepo.FindByID(taskID, "Assignments")
}

// Complete marks a task completed. Allowed for admins and assignees;
// completing an already-completed task succeeds without change.
func (s *TaskService) Complete(taskID uint64, actor *models.User) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if actor.Role != models.RoleAdmin && !task.HasAssignee(actor.Email) {
		return nil, ErrCompletionNotAllowed
	}

	if !task.Completed {
		if err := s.taskRepo.Complete(taskID); err != nil {
			return nil, fmt.Errorf("failed to complete task: %w", err)
		}
	}

	return s.taskRepo.FindByID(taskID, "Assignments")
}
