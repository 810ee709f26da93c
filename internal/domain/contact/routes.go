package contact

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers the funnel API. Callers wrap r with the rate limiter.
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/contact/options", h.Options)
	r.POST("/contacts", h.SubmitContact)

	f := r.Group("/contact/funnel")
	{
		f.POST("", h.CreateSession)
		f.GET("/:id", h.GetSession)
		f.DELETE("/:id", h.DeleteSession)
		f.PATCH("/:id/form", h.UpdateForm)
		f.POST("/:id/advance", h.Advance)
		f.POST("/:id/retreat", h.Retreat)
		f.POST("/:id/submit", h.Submit)
	}
}

// RegisterAdminRoutes registers the admin inbox.
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	contacts := r.Group("/contacts")
	{
		contacts.GET("", h.ListContacts)
		contacts.GET("/stats", h.GetStats)
		contacts.GET("/:id", h.GetContact)
		contacts.PATCH("/:id/status", h.UpdateStatus)
		contacts.DELETE("/:id", h.DeleteContact)
	}
}
