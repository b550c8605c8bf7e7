package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cinetix/auth/internal/service"
)

const (
	ContextAccessToken = "access_token"
	ContextCurrentUser = "current_user"
)

// Auth verifies the bearer token, rejects blacklisted tokens, and attaches
// the authenticated user to the request context.
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		user, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		c.Set(ContextAccessToken, tokenStr)
		c.Set(ContextCurrentUser, user)

		c.Next()
	}
}
