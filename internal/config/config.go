// Package config holds the process-wide settings read once at startup.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenHorizon  = 7 * 24 * time.Hour
	DefaultAllowedOrigin = "http://localhost:5173"
	DefaultPort          = "3000"
	DefaultBcryptCost    = 12
	DefaultAuthRateLimit = 10
	DefaultAPIOrigin     = "http://localhost:3000"
)

var (
	ErrMissingSigningSecret = errors.New("JWT_SECRET is not set")
	ErrWildcardOrigin       = errors.New("wildcard origin cannot be combined with credentialed requests")
	ErrInsecureCrossSite    = errors.New("SameSite=None cookies require the Secure flag")
)

// Config is built once in main and handed to every component by value.
// Nothing re-reads the environment after Load returns.
type Config struct {
	Env         string
	Port        string
	DatabaseURL string

	SigningSecret []byte
	TokenHorizon  time.Duration

	AllowedOrigins []string

	CookieSecure   bool
	CookieSameSite http.SameSite

	BcryptCost    int
	HashWorkers   int
	AuthRateLimit int

	// TrustedProxyHops is how many reverse proxies in front of the server
	// append to X-Forwarded-For. Zero means the header is ignored.
	TrustedProxyHops int

	PublicAPIOrigin string
	LogLevel        slog.Level
}

// Load reads configuration from environment variables.
//
// Environment variables:
//   - JWT_SECRET: token signing secret (required)
//   - JWT_EXPIRATION: token horizon, e.g. "7d", "36h" (default: 7d)
//   - CORS_ORIGIN: comma-separated exact origins (default: http://localhost:5173)
//   - NODE_ENV or APP_ENV: "production" turns on Secure + SameSite=None cookies
//   - COOKIE_SECURE: optional "true"/"false" override of the production posture
//   - PORT: listen port (default: 3000)
//   - DATABASE_URL: postgres DSN or sqlite:<path>
//   - TRUSTED_PROXY_HOPS: proxies whose X-Forwarded-For entries are trusted (default: 0)
//   - BCRYPT_COST, HASH_WORKERS, AUTH_RATE_LIMIT, PUBLIC_API_ORIGIN, LOG_LEVEL
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with an injectable lookup, used by tests.
func LoadFrom(getenv func(string) string) (Config, error) {
	env := strings.ToLower(strings.TrimSpace(getenv("NODE_ENV")))
	if env == "" {
		env = strings.ToLower(strings.TrimSpace(getenv("APP_ENV")))
	}
	if env == "" {
		env = "development"
	}

	cfg := Config{
		Env:             env,
		Port:            firstNonEmpty(getenv("PORT"), DefaultPort),
		DatabaseURL:     strings.TrimSpace(getenv("DATABASE_URL")),
		SigningSecret:   []byte(getenv("JWT_SECRET")),
		TokenHorizon:    DefaultTokenHorizon,
		AllowedOrigins:  ParseOrigins(firstNonEmpty(getenv("CORS_ORIGIN"), DefaultAllowedOrigin)),
		BcryptCost:      DefaultBcryptCost,
		HashWorkers:     runtime.NumCPU(),
		AuthRateLimit:   DefaultAuthRateLimit,
		PublicAPIOrigin: firstNonEmpty(getenv("PUBLIC_API_ORIGIN"), DefaultAPIOrigin),
		LogLevel:        slog.LevelInfo,
	}

	if v := strings.TrimSpace(getenv("JWT_EXPIRATION")); v != "" {
		d, err := ParseHorizon(v)
		if err != nil {
			return Config{}, fmt.Errorf("JWT_EXPIRATION: %w", err)
		}
		cfg.TokenHorizon = d
	}

	secure := cfg.IsProduction()
	if v := strings.TrimSpace(getenv("COOKIE_SECURE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		secure = b
	}
	cfg.CookieSecure = secure
	cfg.CookieSameSite = SameSiteFor(secure)

	var err error
	if cfg.BcryptCost, err = intFromEnv(getenv, "BCRYPT_COST", cfg.BcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.HashWorkers, err = intFromEnv(getenv, "HASH_WORKERS", cfg.HashWorkers); err != nil {
		return Config{}, err
	}
	if cfg.AuthRateLimit, err = intFromEnv(getenv, "AUTH_RATE_LIMIT", cfg.AuthRateLimit); err != nil {
		return Config{}, err
	}
	if cfg.TrustedProxyHops, err = intFromEnv(getenv, "TRUSTED_PROXY_HOPS", cfg.TrustedProxyHops); err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(getenv("LOG_LEVEL")); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration defects that must stop the process.
func (c Config) Validate() error {
	if len(c.SigningSecret) == 0 {
		return ErrMissingSigningSecret
	}
	if c.TokenHorizon <= 0 {
		return fmt.Errorf("token horizon must be positive, got %s", c.TokenHorizon)
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return ErrWildcardOrigin
		}
	}
	if c.CookieSameSite == http.SameSiteNoneMode && !c.CookieSecure {
		return ErrInsecureCrossSite
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.HashWorkers < 1 {
		return errors.New("HASH_WORKERS must be greater than 0")
	}
	if c.AuthRateLimit < 0 {
		return errors.New("AUTH_RATE_LIMIT must not be negative")
	}
	if c.TrustedProxyHops < 0 {
		return errors.New("TRUSTED_PROXY_HOPS must not be negative")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// SameSiteFor pairs the same-site policy with the secure flag.
func SameSiteFor(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// ParseOrigins splits a comma-separated origin list, trimming spaces and
// trailing slashes. Empty entries are dropped.
func ParseOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		o := NormalizeOrigin(part)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func NormalizeOrigin(o string) string {
	return strings.TrimRight(strings.TrimSpace(o), "/")
}

// ParseHorizon accepts Go durations plus a day unit: "7d", "1d12h", "90m".
// A bare integer is read as seconds.
func ParseHorizon(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}

	var days time.Duration
	if i := strings.IndexByte(s, 'd'); i >= 0 {
		n, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day count in %q", s)
		}
		days = time.Duration(n) * 24 * time.Hour
		s = s[i+1:]
		if s == "" {
			return days, nil
		}
	}

	rest, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return days + rest, nil
}

func intFromEnv(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
