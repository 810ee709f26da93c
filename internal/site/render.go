package site

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"diezagency/internal/i18n"
	"diezagency/internal/locale"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "blog", "article", "work", "contact", "notfound"}

// Alternate is one hreflang link.
type Alternate struct {
	Hreflang string
	Href     string
}

// Page is the data every template receives.
type Page struct {
	Lang        locale.Locale
	Other       locale.Locale
	Path        string
	Title       string
	Description string
	Canonical   string
	Alternates  []Alternate
	OGType      string
	OGLocale    string
	JSONLD      template.JS
	Data        any

	catalog *i18n.Catalog
}

// T translates key in the page locale.
func (p *Page) T(key string, args ...any) string {
	return p.catalog.T(p.Lang, key, args...)
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Date formats t the way readers of the page locale expect.
func (p *Page) Date(t *time.Time) string {
	if t == nil {
		return ""
	}
	if p.Lang == locale.French {
		return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render executes the page into a buffer so a template error never leaves a
// half-written response.
func (r *renderer) render(w io.Writer, name string, p *Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func jsonLD(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
