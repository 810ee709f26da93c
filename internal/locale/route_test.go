package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	cases := []struct {
		path     string
		resolved Locale
		want     Decision
	}{
		{"/", French, Decision{Redirect: true, Location: "/fr"}},
		{"/", English, Decision{Redirect: true, Location: "/en"}},
		{"/blog", French, Decision{Redirect: true, Location: "/fr/blog"}},
		{"/blog/my-post", English, Decision{Redirect: true, Location: "/en/blog/my-post"}},
		{"/french-fries", English, Decision{Redirect: true, Location: "/en/french-fries"}},
		{"/fr", English, Decision{}},
		{"/fr/", English, Decision{}},
		{"/en/work", French, Decision{}},
		{"/api/articles", French, Decision{}},
		{"/api", French, Decision{}},
		{"/admin/dashboard", French, Decision{}},
		{"/static/css/site.css", French, Decision{}},
		{"/favicon.ico", French, Decision{}},
		{"/sitemap.xml", English, Decision{}},
		{"/apiary", French, Decision{Redirect: true, Location: "/fr/apiary"}},
		{"/contact", Locale("de"), Decision{Redirect: true, Location: "/en/contact"}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, Route(tc.path, tc.resolved))
		})
	}
}

func TestPathLocale(t *testing.T) {
	l, ok := PathLocale("/fr/blog")
	assert.True(t, ok)
	assert.Equal(t, French, l)

	_, ok = PathLocale("/fresh")
	assert.False(t, ok)
}
