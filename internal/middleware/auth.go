package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mfcastro/task-manager-api/internal/auth"
	"github.com/mfcastro/task-manager-api/internal/constants"
	apierrors "github.com/mfcastro/task-manager-api/internal/errors"
)

// RequireAuth validates the Authorization bearer token and stores the caller's
// user ID in the request context.
func RequireAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			apierrors.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
