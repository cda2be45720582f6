package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForwardedFor(t *testing.T) {
	cases := []struct {
		name    string
		headers []string
		hops    int
		want    string
	}{
		{"single hop", []string{"203.0.113.7"}, 1, "203.0.113.7"},
		{"spoofed left entries", []string{"1.1.1.1, 2.2.2.2, 203.0.113.7"}, 1, "203.0.113.7"},
		{"two hops", []string{"1.1.1.1, 203.0.113.7, 10.0.0.2"}, 2, "203.0.113.7"},
		{"split headers", []string{"1.1.1.1", "203.0.113.7"}, 1, "203.0.113.7"},
		{"too few entries", []string{"203.0.113.7"}, 2, ""},
		{"not an ip", []string{"evil"}, 1, ""},
		{"missing", nil, 1, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, forwardedFor(tc.headers, tc.hops))
		})
	}
}

func TestRealIP_NoTrustedHopsIgnoresHeader(t *testing.T) {
	var got string
	h := RealIP(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Real-IP", "203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.1:1234", got)
}

// TestRateLimiter_SpoofedForwardedForFromOneSocket sends many requests from the
// same socket, each claiming a different client in X-Forwarded-For.
func TestRateLimiter_SpoofedForwardedForFromOneSocket(t *testing.T) {
	for _, hops := range []int{0, 1} {
		t.Run(fmt.Sprintf("hops=%d", hops), func(t *testing.T) {
			rl := NewRateLimiter(2, time.Minute, discardLogger())
			defer rl.Stop()

			h := RealIP(hops)(rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			allowed := 0
			for i := 0; i < 50; i++ {
				req := httptest.NewRequest(http.MethodPost, "/login", nil)
				req.RemoteAddr = "192.0.2.1:1234"
				// the client writes a fresh value; the trusted proxy appends the socket peer
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d, 192.0.2.1", i))
				req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				if rec.Code == http.StatusOK {
					allowed++
				}
			}
			assert.Equal(t, 2, allowed)
		})
	}
}
