package middleware

import (
	"net"
	"net/http"
	"strings"
)

// RealIP rewrites RemoteAddr from X-Forwarded-For, trusting only the entries
// appended by the last trustedHops proxies. Anything a client writes into the
// header sits to the left of those entries and is ignored. With zero hops the
// header is ignored and RemoteAddr is the socket peer.
func RealIP(trustedHops int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if trustedHops <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := forwardedFor(r.Header.Values("X-Forwarded-For"), trustedHops); ip != "" {
				r.RemoteAddr = ip
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwardedFor returns the client address as seen by the outermost trusted
// proxy: the hops-th entry from the right.
func forwardedFor(headers []string, hops int) string {
	var hopsSeen []string
	for _, h := range headers {
		for _, part := range strings.Split(h, ",") {
			if part = strings.TrimSpace(part); part != "" {
				hopsSeen = append(hopsSeen, part)
			}
		}
	}
	if len(hopsSeen) < hops {
		return ""
	}
	ip := hopsSeen[len(hopsSeen)-hops]
	if net.ParseIP(ip) == nil {
		return ""
	}
	return ip
}
