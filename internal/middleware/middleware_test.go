package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyaglog/voyaglog-api/internal/middleware"
)

type ctxKey struct{}

// mockAuthenticator implements middleware.Authenticator without any token or store.
type mockAuthenticator struct {
	principal string
	err       error
	calls     int
}

func (m *mockAuthenticator) Authenticate(r *http.Request) (context.Context, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return context.WithValue(r.Context(), ctxKey{}, m.principal), nil
}

func writeUnauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	middleware.WriteError(w, http.StatusUnauthorized, "MISSING", err.Error())
}

// callWithCookie wraps a simple 200-OK inner handler in the provided middleware,
// optionally setting one cookie on the request, and returns the recorded response.
func callWithCookie(t *testing.T, mw func(http.Handler) http.Handler, cookieName, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if cookieName != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)
	return rec
}

// TestSessionMiddleware_Rejects verifies that an authentication error stops the
// chain and is rendered by the error writer.
func TestSessionMiddleware_Rejects(t *testing.T) {
	auth := &mockAuthenticator{err: errors.New("Not authenticated")}
	mw := middleware.SessionMiddleware(auth, writeUnauthorized)

	rec := callWithCookie(t, mw, "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"code":"MISSING","message":"Not authenticated"}`, rec.Body.String())
	assert.Equal(t, 1, auth.calls)
}

// TestSessionMiddleware_PassesPrincipal verifies the context returned by the
// authenticator reaches the next handler.
func TestSessionMiddleware_PassesPrincipal(t *testing.T) {
	auth := &mockAuthenticator{principal: "user-123"}

	var got any
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Context().Value(ctxKey{})
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	middleware.SessionMiddleware(auth, writeUnauthorized)(inner).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", got)
}
