package locale

import "strings"

// exempt namespaces never get a locale prefix
var passThroughPrefixes = []string{"/static", "/api", "/admin"}

// Decision is the outcome of routing a request path.
type Decision struct {
	Redirect bool
	Location string
}

// PathLocale returns the locale a path is prefixed with, if any.
func PathLocale(path string) (Locale, bool) {
	for _, l := range supported {
		prefix := "/" + string(l)
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return l, true
		}
	}
	return "", false
}

// IsExempt reports whether no locale logic applies to path.
func IsExempt(path string) bool {
	for _, p := range passThroughPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return strings.Contains(path, ".")
}

// Route decides whether path is served as is or redirected under the resolved locale.
func Route(path string, resolved Locale) Decision {
	if IsExempt(path) {
		return Decision{}
	}
	if _, ok := PathLocale(path); ok {
		return Decision{}
	}
	if !IsSupported(resolved) {
		resolved = Secondary
	}
	if path == "" || path == "/" {
		return Decision{Redirect: true, Location: "/" + string(resolved)}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Decision{Redirect: true, Location: "/" + string(resolved) + path}
}
