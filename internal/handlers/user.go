package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasksync/tasksync-api/internal/dto"
	apierrors "github.com/tasksync/tasksync-api/internal/errors"
	"github.com/tasksync/tasksync-api/internal/middleware"
	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/services"
)

// UserHandler serves the contributor views shown on both dashboards.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// ListUsers returns the active contributors with their lifeline counts.
// Admins may pass include_removed=true to audit soft-removed users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserRemoved) {
			clearSession(c)
			apierrors.UserRemoved(c, "", nil)
			return
		}
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	includeRemoved := c.Query("include_removed") == "true" && user.Role == models.RoleAdmin

	users, err := h.authService.ListContributors(includeRemoved)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToContributorDTOs(users),
	})
}
