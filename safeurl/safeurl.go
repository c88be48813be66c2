// Package safeurl validates untrusted link targets before they reach a
// rendered surface. Only http, https, mailto and tel destinations are
// considered navigable; everything else (javascript:, data:, vbscript:,
// file:, ...) is rejected.
package safeurl

import (
	"net/http"
	"net/url"
	"strings"
)

// relativeBase stands in for the document base URL a browser would use
// to resolve relative references. Only its scheme matters: a relative
// href inherits it and passes the scheme check.
var relativeBase = &url.URL{Scheme: "https", Host: "example.com"}

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// Normalize reports whether raw is safe to use as a link target. It
// trims surrounding whitespace, accepts pure fragment references
// verbatim, resolves relative references against a neutral https base,
// and requires the resolved scheme to be http, https, mailto or tel.
// Scheme matching is case-insensitive (url.Parse lower-cases schemes).
// On success the returned string is the trimmed input, not a
// re-serialized URL.
func Normalize(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(trimmed, "#") {
		return trimmed, true
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}
	resolved := relativeBase.ResolveReference(parsed)
	if !allowedSchemes[resolved.Scheme] {
		return "", false
	}
	return trimmed, true
}

// IsSafe reports whether raw would survive Normalize.
func IsSafe(raw string) bool {
	_, ok := Normalize(raw)
	return ok
}

// Redirect sends a 303 redirect to href when it is a safe target and
// reports whether the redirect was written. Unsafe targets write
// nothing, so callers can fall through to their own error handling.
func Redirect(w http.ResponseWriter, r *http.Request, href string) bool {
	safe, ok := Normalize(href)
	if !ok {
		return false
	}
	http.Redirect(w, r, safe, http.StatusSeeOther)
	return true
}
