package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeaders sets the content security policy and related headers.
// apiOrigin is added to img-src so the front end can load images served by
// this API.
func SecurityHeaders(apiOrigin string) func(http.Handler) http.Handler {
	imgSrc := []string{"'self'", "data:"}
	if apiOrigin != "" {
		imgSrc = append(imgSrc, apiOrigin)
	}
	csp := strings.Join([]string{
		"default-src 'self'",
		"base-uri 'self'",
		"font-src 'self' https: data:",
		"form-action 'self'",
		"frame-ancestors 'self'",
		"img-src " + strings.Join(imgSrc, " "),
		"object-src 'none'",
		"script-src 'self'",
		"script-src-attr 'none'",
		"style-src 'self' https: 'unsafe-inline'",
		"upgrade-insecure-requests",
	}, ";")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("Cross-Origin-Resource-Policy", "cross-origin")
			h.Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	}
}
