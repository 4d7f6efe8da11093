package middleware

import (
	"net/http"

	"plume/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired checks that the authenticated user has the ADMIN role.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// StaffRequired allows EDITOR and ADMIN roles.
func StaffRequired() gin.HandlerFunc {
	return RequireRole(domain.RoleEditor, domain.RoleAdmin)
}
