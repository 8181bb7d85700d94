package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/tasksync/tasksync-api/internal/database"
	apierrors "github.com/tasksync/tasksync-api/internal/errors"
	"github.com/tasksync/tasksync-api/internal/models"
)

// RequireAdmin restricts a route to admin users. The role is checked against
// the database, not a client claim.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
