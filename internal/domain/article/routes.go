package article

import "github.com/gin-gonic/gin"

func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	articles := r.Group("/articles")
	{
		articles.GET("", h.ListPublished)
		articles.GET("/categories", h.Categories)
		articles.GET("/:slug", h.GetPublished)
	}
}

func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	articles := r.Group("/articles")
	{
		articles.GET("", h.ListAll)
		articles.POST("", h.Create)
		articles.POST("/preview", h.Preview)
		articles.GET("/:id", h.Get)
		articles.PUT("/:id", h.Update)
		articles.DELETE("/:id", h.Delete)
	}
}
