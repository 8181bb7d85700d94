package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasksync/tasksync-api/internal/constants"
	"github.com/tasksync/tasksync-api/internal/database"
	apierrors "github.com/tasksync/tasksync-api/internal/errors"
	"github.com/tasksync/tasksync-api/internal/models"
)

// RequireTask loads the task addressed by the :id parameter into the
// request context, with its assignments.
func RequireTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Assignments").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTask
func GetTask(c *gin.Context) (models.Task, bool) {
	taskInterface, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := taskInterface.(models.Task)
	return task, ok
}
