package middleware

import (
	"net/http"

	"github.com/voyaglog/voyaglog-api/internal/config"
)

const (
	allowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	allowHeaders  = "Content-Type, Authorization"
	exposeHeaders = "Set-Cookie"
)

type Decision int

const (
	Allow Decision = iota
	Reject
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "reject"
}

// OriginGate admits requests by their Origin header. Credentials are always
// allowed, so the allow-list is exact-match only and never contains "*".
// The set is built once and only read afterwards.
type OriginGate struct {
	allowed map[string]struct{}
}

func NewOriginGate(origins []string) (*OriginGate, error) {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = config.NormalizeOrigin(o)
		if o == "" {
			continue
		}
		if o == "*" {
			return nil, config.ErrWildcardOrigin
		}
		allowed[o] = struct{}{}
	}
	return &OriginGate{allowed: allowed}, nil
}

// Decide admits requests without an Origin (curl, server-to-server, health
// checks) and otherwise requires an exact match after trailing slashes are
// stripped.
func (g *OriginGate) Decide(origin string, present bool) Decision {
	if !present {
		return Allow
	}
	if _, ok := g.allowed[config.NormalizeOrigin(origin)]; ok {
		return Allow
	}
	return Reject
}

// Handler rejects disallowed origins before anything downstream runs, so a
// rejected caller's cookie is never read.
func (g *OriginGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values, present := r.Header["Origin"]
		origin := ""
		if present && len(values) > 0 {
			origin = values[0]
		}

		w.Header().Add("Vary", "Origin")

		if g.Decide(origin, present) == Reject {
			WriteError(w, http.StatusForbidden, CodeOriginRejected, "Origin "+origin+" not allowed")
			return
		}

		if present {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
