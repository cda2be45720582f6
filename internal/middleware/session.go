package middleware

import (
	"context"
	"net/http"
)

// Authenticator resolves the caller of r and returns a context carrying the
// principal, or an error describing why there is none.
type Authenticator interface {
	Authenticate(r *http.Request) (context.Context, error)
}

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

func SessionMiddleware(auth Authenticator, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := auth.Authenticate(r)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
