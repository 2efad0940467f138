package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"utilityledger/internal/models"
)

// RequireRole rejects requests whose authenticated user does not hold role.
// It must run after AuthMiddleware.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"}})
			return
		}
		if got, ok := v.(models.UserRole); !ok || got != role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"error": gin.H{"code": "FORBIDDEN", "message": "Insufficient permissions"}})
			return
		}
		c.Next()
	}
}
