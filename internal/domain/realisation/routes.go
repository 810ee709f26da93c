package realisation

import "github.com/gin-gonic/gin"

func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/realisations", h.List)
	r.GET("/realisations/:slug", h.GetBySlug)
}

func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	items := r.Group("/realisations")
	{
		items.GET("", h.List)
		items.POST("", h.Create)
		items.GET("/:id", h.Get)
		items.PUT("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
	}
}
