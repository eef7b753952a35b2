package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/auth"
	"github.com/taskstack/task-management/pkg/response"
)

// Middleware validates the bearer JWT and populates the request context with
// the caller's identity claims.
func Middleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, response.Failed(response.StatusUnauthorized).
				AddError("Missing authentication token"))
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Failed(response.StatusUnauthorized).
				AddError("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole gates a route group on the role claim.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimed, exists := c.Get("role")
		if !exists || claimed.(string) != string(role) {
			c.JSON(http.StatusForbidden, response.Failed(response.StatusForbidden).
				AddError("Insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}
