package admin

import "github.com/gin-gonic/gin"

// RegisterAuthRoutes registers login on the public admin group and the
// profile route on the authenticated one.
func RegisterAuthRoutes(public, protected *gin.RouterGroup, h *AuthHandler) {
	public.POST("/auth/login", h.Login)
	protected.GET("/auth/me", h.GetMe)
}

// RegisterRoutes registers the dashboard. owners must already require RoleOwner.
func RegisterRoutes(protected, owners *gin.RouterGroup, h *Handler) {
	protected.GET("/stats", h.GetStats)
	owners.GET("/admins", h.ListAdmins)
}
