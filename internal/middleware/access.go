package middleware

import (
	"net/http"

	"museo/internal/domain"
	"museo/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireAction gates a route on the capability table. Roles are resolved
// once here; services behind the boundary never look at roles.
func RequireAction(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if !domain.Allowed(domain.Role(role.(string)), action) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
