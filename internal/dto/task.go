package dto

import (
	"time"

	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/services"
	"github.com/tasksync/tasksync-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	MaxStudents   int       `json:"max_students"`
	Deadline      time.Time `json:"deadline"`
	Completed     bool      `json:"completed"`
	AssignedUsers []string  `json:"assigned_users"`
	CreatedAt     time.Time `json:"created_at"`
}

// BoardResponse is a user's split view over the task snapshot, plus the
// outcome of the deadline pass that ran while building it.
type BoardResponse struct {
	Assigned  []TaskDTO                  `json:"assigned"`
	Available []TaskDTO                  `json:"available"`
	Warnings  []services.LifelineWarning `json:"warnings"`
	Lifelines int                        `json:"lifelines"`
}

// TaskListResponse is the paginated admin task list
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:            task.ID,
		Name:          task.Name,
		Description:   task.Description,
		MaxStudents:   task.MaxStudents,
		Deadline:      task.Deadline,
		Completed:     task.Completed,
		AssignedUsers: task.AssignedEmails(),
		CreatedAt:     task.CreatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
