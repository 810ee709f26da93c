package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"diezagency/internal/pkg/response"
)

// RequireRole lets the request through when the authenticated admin has one
// of roles. Must run after AdminAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Role not found in token")
			return
		}

		if !slices.Contains(roles, role) {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}
