package site

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"diezagency/internal/locale"
)

type staticRoute struct {
	path       string
	changeFreq string
	priority   string
}

var staticRoutes = []staticRoute{
	{"", "weekly", "1.0"},
	{"/blog", "daily", "0.9"},
	{"/work", "daily", "0.8"},
	{"/contact", "monthly", "0.7"},
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq string      `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Links      []xhtmlLink `xml:"xhtml:link"`
}

type xhtmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap handles GET /sitemap.xml: every static page and published article
// in each locale, with hreflang alternates.
func (h *Handler) Sitemap(c *gin.Context) {
	posts, err := h.articles.ListPublished(c.Request.Context(), "")
	if err != nil {
		h.serverError(c, "sitemap articles", err)
		return
	}

	set := urlset{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}
	today := time.Now().UTC().Format(time.DateOnly)
	for _, r := range staticRoutes {
		set.URLs = append(set.URLs, h.entries(r.path, today, r.changeFreq, r.priority)...)
	}
	for _, a := range posts {
		set.URLs = append(set.URLs, h.entries("/blog/"+a.Slug, a.UpdatedAt.UTC().Format(time.DateOnly), "monthly", "0.6")...)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		h.serverError(c, "sitemap encode", err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

func (h *Handler) entries(path, lastMod, changeFreq, priority string) []sitemapURL {
	links := make([]xhtmlLink, 0, len(locale.Supported())+1)
	for _, l := range locale.Supported() {
		links = append(links, xhtmlLink{Rel: "alternate", Hreflang: string(l), Href: h.url(l, path)})
	}
	links = append(links, xhtmlLink{Rel: "alternate", Hreflang: "x-default", Href: h.url(locale.Secondary, path)})

	out := make([]sitemapURL, 0, len(locale.Supported()))
	for _, l := range locale.Supported() {
		out = append(out, sitemapURL{
			Loc:        h.url(l, path),
			LastMod:    lastMod,
			ChangeFreq: changeFreq,
			Priority:   priority,
			Links:      links,
		})
	}
	return out
}

// Robots handles GET /robots.txt
func (h *Handler) Robots(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api\n\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", h.opts.BaseURL)
	c.String(http.StatusOK, b.String())
}
