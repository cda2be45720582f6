package auth

import (
	"context"
	"errors"
	"net/http"
)

// Resolver turns a request into the live user record behind its token.
type Resolver struct {
	transport SessionTransport
	issuer    *TokenIssuer
	store     UserStore
}

func NewResolver(transport SessionTransport, issuer *TokenIssuer, store UserStore) *Resolver {
	return &Resolver{transport: transport, issuer: issuer, store: store}
}

// Resolve returns the principal or an *Error with reason MISSING,
// INVALID_TOKEN or EXPIRED. Store failures come back unwrapped.
func (res *Resolver) Resolve(r *http.Request) (*User, error) {
	token, ok := res.transport.Extract(r)
	if !ok {
		return nil, newError(ReasonMissing, "Not authenticated")
	}

	claims, err := res.issuer.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, wrapError(ReasonExpired, "Session expired", err)
		}
		return nil, wrapError(ReasonInvalidToken, "Invalid session", err)
	}

	user, err := res.store.FindByID(r.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, wrapError(ReasonInvalidToken, "Invalid session", err)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate resolves the caller and returns a request context carrying the
// principal. It lets the resolver back middleware.SessionMiddleware.
func (res *Resolver) Authenticate(r *http.Request) (context.Context, error) {
	user, err := res.Resolve(r)
	if err != nil {
		return nil, err
	}
	return WithPrincipal(r.Context(), user), nil
}
