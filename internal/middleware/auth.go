package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tasksync/tasksync-api/internal/constants"
	apierrors "github.com/tasksync/tasksync-api/internal/errors"
)

// RequireAuth gates a route on a live session. It only proves the session
// exists; removal is checked by the handlers, which also know how to tear
// the session down when a user has lost their last lifeline.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID returns the signed-in user's ID from the request context. The
// session store can hand the value back under a narrower integer type, so
// widen before use.
func GetUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch id := v.(type) {
	case uint64:
		return id, true
	case uint:
		return uint64(id), true
	case int:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	default:
		return 0, false
	}
}
