package site

import (
	"github.com/gin-gonic/gin"

	"diezagency/internal/locale"
)

// RegisterRoutes mounts the pages under every locale prefix plus the
// crawler files and the language switch.
func RegisterRoutes(r gin.IRouter, h *Handler) {
	for _, l := range locale.Supported() {
		g := r.Group("/" + string(l))
		g.GET("", h.Home)
		g.GET("/blog", h.Blog)
		g.GET("/blog/:slug", h.Article)
		g.GET("/work", h.Work)
		g.GET("/contact", h.Contact)
	}
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/robots.txt", h.Robots)
	r.POST("/api/locale", h.SetLocale)
}
