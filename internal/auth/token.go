package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingSigningSecret = errors.New("token signing secret is not configured")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
)

// Claims is the token payload. ID, Email and Username are for display only;
// anything that matters re-reads the user record.
type Claims struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret  []byte
	horizon time.Duration
	now     func() time.Time
}

type IssuerOption func(*TokenIssuer)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) IssuerOption {
	return func(t *TokenIssuer) { t.now = now }
}

func NewTokenIssuer(secret []byte, horizon time.Duration, opts ...IssuerOption) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSigningSecret
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("token horizon must be positive, got %s", horizon)
	}
	t := &TokenIssuer{secret: secret, horizon: horizon, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *TokenIssuer) Horizon() time.Duration {
	return t.horizon
}

// Issue mints a new HS256 token for user. Every call yields a distinct token.
func (t *TokenIssuer) Issue(user *User) (string, error) {
	now := t.now()
	claims := Claims{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.horizon)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature first and the expiry second, so a forged
// token is reported as invalid even when it is also stale.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.ExpiresAt == nil || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	if !t.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}
