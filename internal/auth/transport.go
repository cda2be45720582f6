package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/voyaglog/voyaglog-api/internal/config"
)

const (
	SessionCookieName = "token"
	SessionMaxAge     = 7 * 24 * time.Hour
)

// SessionTransport moves an opaque token between server and client.
type SessionTransport interface {
	Attach(w http.ResponseWriter, token string)
	Detach(w http.ResponseWriter)
	Extract(r *http.Request) (string, bool)
}

// CookieTransport keeps the token in an http-only cookie. Secure cookies
// are sent cross-site (SameSite=None); plain ones stay Lax.
type CookieTransport struct {
	Secure bool
}

func NewCookieTransport(cfg config.Config) CookieTransport {
	return CookieTransport{Secure: cfg.CookieSecure}
}

func (c CookieTransport) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: config.SameSiteFor(c.Secure),
	}
}

func (c CookieTransport) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(SessionMaxAge.Seconds())))
}

// Detach must repeat the attach flags or browsers keep the old cookie.
func (c CookieTransport) Detach(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c CookieTransport) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// BearerTransport reads "Authorization: Bearer <token>". The client holds
// the token itself, so there is nothing to attach or detach.
type BearerTransport struct{}

func (BearerTransport) Attach(http.ResponseWriter, string) {}

func (BearerTransport) Detach(http.ResponseWriter) {}

func (BearerTransport) Extract(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ChainTransport extracts from the first transport that has a token and
// attaches/detaches through all of them.
type ChainTransport []SessionTransport

func (c ChainTransport) Attach(w http.ResponseWriter, token string) {
	for _, t := range c {
		t.Attach(w, token)
	}
}

func (c ChainTransport) Detach(w http.ResponseWriter) {
	for _, t := range c {
		t.Detach(w)
	}
}

func (c ChainTransport) Extract(r *http.Request) (string, bool) {
	for _, t := range c {
		if tok, ok := t.Extract(r); ok {
			return tok, true
		}
	}
	return "", false
}
