package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tasksync/tasksync-api/internal/dto"
	apierrors "github.com/tasksync/tasksync-api/internal/errors"
	"github.com/tasksync/tasksync-api/internal/middleware"
	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/services"
	"github.com/tasksync/tasksync-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	authService     *services.AuthService
	taskService     *services.TaskService
	lifelineService *services.LifelineService
	reminderService *services.ReminderService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(authService *services.AuthService, taskService *services.TaskService, lifelineService *services.LifelineService, reminderService *services.ReminderService) *TaskHandler {
	return &TaskHandler{
		authService:     authService,
		taskService:     taskService,
		lifelineService: lifelineService,
		reminderService: reminderService,
	}
}

// ListTasks returns the task view for the current user. Admins get the full
// paginated list; users get their board, which also runs the deadline pass
// and refreshes reminders, mirroring a snapshot delivery.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if user.Role == models.RoleAdmin {
		h.listAllTasks(c)
		return
	}

	now := time.Now()

	result, err := h.lifelineService.EvaluateUser(user, now)
	if err != nil {
		apierrors.InternalError(c, "Failed to evaluate deadlines")
		return
	}

	if result.Removed {
		// Forced sign-out: the removal notice carries the final warnings.
		clearSession(c)
		apierrors.UserRemoved(c, "", gin.H{"warnings": result.Warnings})
		return
	}

	board, err := h.taskService.Board(user.Email)
	if err != nil {
		apierrors.InternalError(c, "Failed to load tasks")
		return
	}

	for i := range board.Assigned {
		if board.Assigned[i].Completed {
			continue
		}
		h.reminderService.ScheduleForTask(&board.Assigned[i], user.Email, now)
	}

	c.JSON(http.StatusOK, dto.BoardResponse{
		Assigned:  dto.ToTaskDTOs(board.Assigned),
		Available: dto.ToTaskDTOs(board.Available),
		Warnings:  result.Warnings,
		Lifelines: result.Lifelines,
	})
}

func (h *TaskHandler) listAllTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks: dto.ToTaskDTOs(tasks),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a specific task by ID.
// Task is already loaded by the RequireTask middleware.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a new task. Admin only; enforced both by the route
// middleware and the service capability check.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Name        string     `json:"name"`
		Description string     `json:"description"`
		MaxStudents int        `json:"max_students"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		MaxStudents: req.MaxStudents,
		Creator:     user,
	}
	if req.Deadline != nil {
		input.Deadline = *req.Deadline
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// AssignTask assigns the current user to the task.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	task, taskOK := middleware.GetTask(c)
	if !taskOK {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	updated, err := h.taskService.SelfAssign(task.ID, user, time.Now())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You have been assigned to the task",
		"task":    dto.ToTaskDTO(*updated),
	})
}

// CompleteTask marks the task completed.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	task, taskOK := middleware.GetTask(c)
	if !taskOK {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	updated, err := h.taskService.Complete(task.ID, user)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// currentUser loads the authenticated user, signing out removed sessions.
func (h *TaskHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserRemoved) {
			clearSession(c)
			apierrors.UserRemoved(c, "", nil)
			return nil, false
		}
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}

	return user, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrInvalidMaxStudents),
		errors.Is(err, services.ErrDeadlineRequired):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIError(apierrors.ErrCodeMissingField, err.Error()))
	case errors.Is(err, services.ErrAdminOnly),
		errors.Is(err, services.ErrCompletionNotAllowed):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCapacityExceeded):
		apierrors.CapacityExceeded(c, err.Error())
	case errors.Is(err, services.ErrAlreadyAssigned):
		apierrors.AlreadyAssigned(c, err.Error())
	case errors.Is(err, services.ErrTaskAlreadyCompleted):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
