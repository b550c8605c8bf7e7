package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinetix/auth/internal/models"
)

// RequirePermission gates a route on an "action:resource" capability of
// the authenticated user's role. Must run after Auth.
func RequirePermission(permission string) gin.HandlerFunc {
	// A malformed permission string is a programming error in the route
	// table, not a request failure.
	if _, err := models.ParsePermission(permission); err != nil {
		panic("middleware: bad permission string " + permission)
	}

	return func(c *gin.Context) {
		userVal, exists := c.Get(ContextCurrentUser)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		user, ok := userVal.(models.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_user"})
			return
		}

		allowed, err := models.HasPermission(user.Role, permission)
		if err != nil || !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
