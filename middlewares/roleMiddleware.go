package middlewares

import (
	"net/http"

	"civic-reporter-api/models"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route on the caller's role. It must run after
// AuthMiddleware has stored the identity in the context.
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		role, ok := models.ParseRole(roleVal.(string))
		if !ok || role != required {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to perform this action"})
			c.Abort()
			return
		}

		c.Next()
	}
}
