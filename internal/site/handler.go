// Package site serves the public pages, the sitemap and the language switch.
package site

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diezagency/internal/domain/article"
	"diezagency/internal/domain/realisation"
	"diezagency/internal/funnel"
	"diezagency/internal/i18n"
	"diezagency/internal/locale"
	"diezagency/internal/middleware"
	"diezagency/internal/pkg/response"
	"diezagency/internal/pkg/validator"
)

const latestArticles = 3

type ArticleSource interface {
	ListPublished(ctx context.Context, category string) ([]article.Article, error)
	GetPublished(ctx context.Context, slug string) (*article.View, error)
}

type RealisationSource interface {
	List(ctx context.Context, featuredOnly bool) ([]realisation.Realisation, error)
}

type Options struct {
	BaseURL      string
	CookieMaxAge time.Duration
	CookieSecure bool
}

type Handler struct {
	articles     ArticleSource
	realisations RealisationSource
	catalog      *i18n.Catalog
	pages        *renderer
	opts         Options
	log          *zap.Logger
}

func NewHandler(articles ArticleSource, realisations RealisationSource, catalog *i18n.Catalog, opts Options, log *zap.Logger) (*Handler, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	return &Handler{
		articles:     articles,
		realisations: realisations,
		catalog:      catalog,
		pages:        pages,
		opts:         opts,
		log:          log,
	}, nil
}

// Home handles GET /:lang
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	featured, err := h.realisations.List(ctx, true)
	if err != nil {
		h.serverError(c, "home realisations", err)
		return
	}
	posts, err := h.articles.ListPublished(ctx, "")
	if err != nil {
		h.serverError(c, "home articles", err)
		return
	}
	if len(posts) > latestArticles {
		posts = posts[:latestArticles]
	}

	p := h.page(c, "home")
	p.JSONLD, _ = jsonLD(map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Organization",
		"name":        p.T("site.name"),
		"url":         h.opts.BaseURL,
		"description": p.Description,
	})
	p.Data = struct {
		Realisations []realisation.Realisation
		Articles     []article.Article
	}{featured, posts}
	h.render(c, http.StatusOK, "home", p)
}

// Blog handles GET /:lang/blog?category=
func (h *Handler) Blog(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !article.ValidCategory(category) {
		category = ""
	}
	posts, err := h.articles.ListPublished(c.Request.Context(), category)
	if err != nil {
		h.serverError(c, "blog articles", err)
		return
	}

	p := h.page(c, "blog")
	p.Data = struct {
		Categories []string
		Category   string
		Articles   []article.Article
	}{article.Categories(), category, posts}
	h.render(c, http.StatusOK, "blog", p)
}

// Article handles GET /:lang/blog/:slug
func (h *Handler) Article(c *gin.Context) {
	view, err := h.articles.GetPublished(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, article.ErrArticleNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, "blog article", err)
		return
	}

	p := h.page(c, "")
	p.Title = view.Title + " | " + p.T("site.name")
	p.Description = view.Excerpt
	p.OGType = "article"

	ld := map[string]any{
		"@context":         "https://schema.org",
		"@type":            "BlogPosting",
		"headline":         view.Title,
		"description":      view.Excerpt,
		"articleSection":   view.Category,
		"dateModified":     view.UpdatedAt.Format(time.RFC3339),
		"mainEntityOfPage": p.Canonical,
		"author":           map[string]string{"@type": "Organization", "name": p.T("site.name")},
		"publisher":        map[string]string{"@type": "Organization", "name": p.T("site.name")},
	}
	if view.PublishedAt != nil {
		ld["datePublished"] = view.PublishedAt.Format(time.RFC3339)
	}
	if view.CoverURL != "" {
		ld["image"] = h.absolute(view.CoverURL)
	}
	p.JSONLD, _ = jsonLD(ld)
	p.Data = view
	h.render(c, http.StatusOK, "article", p)
}

// Work handles GET /:lang/work
func (h *Handler) Work(c *gin.Context) {
	items, err := h.realisations.List(c.Request.Context(), false)
	if err != nil {
		h.serverError(c, "work realisations", err)
		return
	}
	p := h.page(c, "work")
	p.Data = items
	h.render(c, http.StatusOK, "work", p)
}

type stepView struct {
	ID       funnel.StepID
	Name     string
	Title    string
	Subtitle string
}

type optionView struct {
	Value string
	Label string
}

// Contact handles GET /:lang/contact. The form is driven by the funnel API.
func (h *Handler) Contact(c *gin.Context) {
	p := h.page(c, "contact")

	data := struct {
		Steps     []stepView
		Needs     []optionView
		Budgets   []optionView
		Timelines []optionView
	}{}
	for _, s := range funnel.Steps() {
		data.Steps = append(data.Steps, stepView{
			ID:       s.ID,
			Name:     s.Name,
			Title:    p.T("contact.steps." + s.Name + ".title"),
			Subtitle: p.T("contact.steps." + s.Name + ".subtitle"),
		})
	}
	for _, n := range funnel.NeedOptions() {
		data.Needs = append(data.Needs, optionView{string(n), p.T("contact.need." + string(n))})
	}
	for _, b := range funnel.BudgetOptions() {
		data.Budgets = append(data.Budgets, optionView{string(b), p.T("contact.budget." + string(b))})
	}
	for _, t := range funnel.TimelineOptions() {
		data.Timelines = append(data.Timelines, optionView{string(t), p.T("contact.timeline." + string(t))})
	}
	p.Data = data
	h.render(c, http.StatusOK, "contact", p)
}

// NotFound answers unmatched routes: JSON under /api, a localized page elsewhere.
func (h *Handler) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Route not found")
		return
	}
	p := h.page(c, "")
	p.Title = p.T("notfound.title") + " | " + p.T("site.name")
	p.Description = p.T("notfound.body")
	h.render(c, http.StatusNotFound, "notfound", p)
}

type setLocaleRequest struct {
	Lang string `form:"lang" json:"lang" validate:"required,oneof=fr en"`
	Path string `form:"path" json:"path" validate:"max=2048"`
}

// SetLocale handles POST /api/locale. Form posts are redirected to the same
// page in the chosen language; JSON callers get the target location.
func (h *Handler) SetLocale(c *gin.Context) {
	var req setLocaleRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidJSON, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeValidation, "Validation failed", errs)
		return
	}

	l := locale.Locale(req.Lang)
	middleware.SetLocaleCookie(c, l, h.opts.CookieMaxAge, h.opts.CookieSecure)
	target := "/" + string(l) + localPath(req.Path)

	if c.ContentType() == gin.MIMEJSON {
		response.Success(c, http.StatusOK, gin.H{"lang": l, "location": target})
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

// page builds the shared template data. metaKey selects the meta.<key>.*
// title and description; an empty key leaves them to the caller.
func (h *Handler) page(c *gin.Context, metaKey string) *Page {
	l := pageLocale(c)
	path := unprefixed(c.Request.URL.Path, l)

	p := &Page{
		Lang:      l,
		Other:     other(l),
		Path:      path,
		Canonical: h.url(l, path),
		OGType:    "website",
		OGLocale:  ogLocale(l),
		catalog:   h.catalog,
	}
	for _, alt := range locale.Supported() {
		p.Alternates = append(p.Alternates, Alternate{Hreflang: string(alt), Href: h.url(alt, path)})
	}
	p.Alternates = append(p.Alternates, Alternate{Hreflang: "x-default", Href: h.url(locale.Secondary, path)})

	if metaKey != "" {
		p.Title = p.T("meta." + metaKey + ".title")
		p.Description = p.T("meta." + metaKey + ".description")
	}
	return p
}

func (h *Handler) render(c *gin.Context, status int, name string, p *Page) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Content-Language", string(p.Lang))
	c.Status(status)
	if err := h.pages.render(c.Writer, name, p); err != nil {
		h.log.Error("render page", zap.String("page", name), zap.Error(err))
	}
}

func (h *Handler) serverError(c *gin.Context, op string, err error) {
	h.log.Error(op, zap.Error(err))
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}

func (h *Handler) url(l locale.Locale, path string) string {
	return h.opts.BaseURL + "/" + string(l) + path
}

func (h *Handler) absolute(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return h.opts.BaseURL + u
}

func pageLocale(c *gin.Context) locale.Locale {
	if l, ok := locale.PathLocale(c.Request.URL.Path); ok {
		return l
	}
	return middleware.RequestLocale(c)
}

func unprefixed(path string, l locale.Locale) string {
	rest, ok := strings.CutPrefix(path, "/"+string(l))
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return ""
	}
	return strings.TrimSuffix(rest, "/")
}

// localPath keeps a same-site path without its locale prefix.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return ""
	}
	if l, ok := locale.PathLocale(p); ok {
		p = strings.TrimPrefix(p, "/"+string(l))
	}
	return strings.TrimSuffix(p, "/")
}

func other(l locale.Locale) locale.Locale {
	if l == locale.French {
		return locale.English
	}
	return locale.French
}

func ogLocale(l locale.Locale) string {
	if l == locale.French {
		return "fr_FR"
	}
	return "en_US"
}
