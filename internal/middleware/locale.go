package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"diezagency/internal/locale"
)

const localeKey = "locale"

// Locale resolves the request locale for every path, including unmatched
// ones, and redirects page paths that lack a locale prefix. A prefixed path
// is served in the locale it names.
func Locale(geoHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		l, prefixed := locale.PathLocale(path)
		if !prefixed {
			cookie, _ := c.Cookie(locale.CookieName)
			l = locale.Resolve(locale.Signals{
				Cookie:         cookie,
				Country:        c.GetHeader(geoHeader),
				AcceptLanguage: c.GetHeader("Accept-Language"),
			})
		}

		if d := locale.Route(path, l); d.Redirect {
			target := d.Location
			if q := c.Request.URL.RawQuery; q != "" {
				target += "?" + q
			}
			c.Header("Vary", "Cookie, Accept-Language, "+geoHeader)
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
			return
		}

		c.Set(localeKey, l)
		c.Request = c.Request.WithContext(locale.WithLocale(c.Request.Context(), l))
		c.Next()
	}
}

// RequestLocale returns the locale chosen by the Locale middleware.
func RequestLocale(c *gin.Context) locale.Locale {
	if l, ok := c.Get(localeKey); ok {
		if v, ok := l.(locale.Locale); ok {
			return v
		}
	}
	return locale.FromContext(c.Request.Context())
}

// SetLocaleCookie persists an explicit language choice.
func SetLocaleCookie(c *gin.Context, l locale.Locale, maxAge time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(locale.CookieName, string(l), int(maxAge.Seconds()), "/", "", secure, false)
}
