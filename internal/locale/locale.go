// Package locale picks the language a request is served in and enforces that
// every public page path carries an explicit locale prefix.
package locale

import (
	"context"
	"strings"
)

// Locale is one of the supported language codes.
type Locale string

const (
	French  Locale = "fr"
	English Locale = "en"
)

const (
	// Primary is returned for francophone signals.
	Primary = French
	// Secondary is the catch-all locale.
	Secondary = English
)

// CookieName holds the user's explicit language choice.
const CookieName = "lang"

var supported = []Locale{French, English}

// francophone countries served in French when no cookie is set
var primaryCountries = map[string]struct{}{
	"FR": {}, "BE": {}, "CH": {}, "LU": {}, "MC": {}, "MA": {}, "TN": {}, "DZ": {}, "SN": {}, "CI": {},
	"CM": {}, "MG": {}, "CD": {}, "ML": {}, "BF": {}, "NE": {}, "TD": {}, "GN": {}, "RW": {}, "BJ": {},
	"TG": {}, "GA": {}, "CG": {}, "DJ": {}, "KM": {}, "SC": {}, "MU": {}, "CA": {}, "HT": {},
}

// Supported returns the supported locales, primary first.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Parse returns the locale for an exact supported code.
func Parse(s string) (Locale, bool) {
	for _, l := range supported {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// IsSupported reports whether l is a supported locale.
func IsSupported(l Locale) bool {
	_, ok := Parse(string(l))
	return ok
}

// IsPrimaryCountry reports whether an ISO country code maps to the primary locale.
func IsPrimaryCountry(code string) bool {
	_, ok := primaryCountries[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Signals are the request inputs considered when resolving a locale.
type Signals struct {
	Cookie         string
	Country        string
	AcceptLanguage string
}

// Resolve maps request signals to exactly one supported locale.
// A saved cookie wins, then the geo country, then the browser header.
func Resolve(s Signals) Locale {
	if l, ok := Parse(s.Cookie); ok {
		return l
	}

	if country, ok := normalizeCountry(s.Country); ok {
		if _, fr := primaryCountries[country]; fr {
			return Primary
		}
		return Secondary
	}

	if tag := primaryTag(s.AcceptLanguage); tag != "" && strings.HasPrefix(tag, string(Primary)) {
		return Primary
	}

	return Secondary
}

// normalizeCountry accepts two ASCII letters only; anything else counts as absent.
func normalizeCountry(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return "", false
	}
	code = strings.ToUpper(code)
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", false
		}
	}
	return code, true
}

func primaryTag(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.ToLower(strings.TrimSpace(first))
}

type ctxKey struct{}

// WithLocale stores the resolved locale in ctx.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the locale stored in ctx, or Secondary when none was set.
func FromContext(ctx context.Context) Locale {
	if l, ok := ctx.Value(ctxKey{}).(Locale); ok && IsSupported(l) {
		return l
	}
	return Secondary
}
