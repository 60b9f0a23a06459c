package middleware

import (
	"net/http"

	"nido/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates the review panel endpoints.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
