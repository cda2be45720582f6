package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func testUser() *User {
	return &User{
		ID:             "5b0c1b55-0000-4000-8000-000000000001",
		Username:       "ana",
		Email:          "ana@example.com",
		HashedPassword: "$2a$04$should-never-leak",
	}
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(nil, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSigningSecret)

	_, err = NewTokenIssuer([]byte("k"), 0)
	assert.Error(t, err)
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("test-secret"), 7*24*time.Hour)
	require.NoError(t, err)

	tok, err := issuer.Issue(testUser())
	require.NoError(t, err)

	claims, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "5b0c1b55-0000-4000-8000-000000000001", claims.ID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, claims.ID, claims.Subject)
}

func TestTokenIssuer_PayloadCarriesNoSecret(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	tok, err := issuer.Issue(testUser())
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "should-never-leak")
	assert.NotContains(t, string(payload), "test-secret")
}

func TestTokenIssuer_HorizonBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer, err := NewTokenIssuer([]byte("test-secret"), 7*24*time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	tok, err := issuer.Issue(testUser())
	require.NoError(t, err)
	issued := clock.t

	clock.t = issued.Add(6*24*time.Hour + 23*time.Hour)
	_, err = issuer.Verify(tok)
	assert.NoError(t, err)

	clock.t = issued.Add(7*24*time.Hour + time.Hour)
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	a, err := NewTokenIssuer([]byte("right"), time.Hour)
	require.NoError(t, err)
	b, err := NewTokenIssuer([]byte("wrong"), time.Hour)
	require.NoError(t, err)

	tok, err := a.Issue(testUser())
	require.NoError(t, err)

	_, err = b.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_ForgedAndExpiredIsInvalid(t *testing.T) {
	clock := &fakeClock{t: time.Now().Add(-2 * time.Hour)}
	forger, err := NewTokenIssuer([]byte("attacker"), time.Minute, WithClock(clock.Now))
	require.NoError(t, err)
	tok, err := forger.Issue(testUser())
	require.NoError(t, err)

	issuer, err := NewTokenIssuer([]byte("server"), time.Minute)
	require.NoError(t, err)

	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	claims := Claims{
		ID: "x",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Verify(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = issuer.Verify(hs512)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_IndependentTokens(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	first, err := issuer.Issue(testUser())
	require.NoError(t, err)
	second, err := issuer.Issue(testUser())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = issuer.Verify(first)
	assert.NoError(t, err)
	_, err = issuer.Verify(second)
	assert.NoError(t, err)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := issuer.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, tok)
	}
}
