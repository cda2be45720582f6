package auth

import "context"

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a copy of ctx carrying the authenticated user.
func WithPrincipal(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

func PrincipalFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(principalKey).(*User)
	return user, ok && user != nil
}
