package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/semaphore"

	"github.com/voyaglog/voyaglog-api/internal/auth"
	"github.com/voyaglog/voyaglog-api/internal/config"
	"github.com/voyaglog/voyaglog-api/internal/db"
	"github.com/voyaglog/voyaglog-api/internal/middleware"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"message":"Welcome to the Travel Blog API"}` + "\n"))
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := auth.Init(database); err != nil {
		return err
	}
	logger.Info("database ready")

	hashSlots := semaphore.NewWeighted(int64(cfg.HashWorkers))

	issuer, err := auth.NewTokenIssuer(cfg.SigningSecret, cfg.TokenHorizon)
	if err != nil {
		return err
	}
	store := auth.NewGormStore(database)
	transport := auth.ChainTransport{auth.NewCookieTransport(cfg), auth.BearerTransport{}}
	service, err := auth.NewService(store, auth.NewBcryptHasher(cfg.BcryptCost, hashSlots), issuer)
	if err != nil {
		return err
	}
	handler := auth.NewHandler(service, transport, logger)
	resolver := auth.NewResolver(transport, issuer, store)

	gate, err := middleware.NewOriginGate(cfg.AllowedOrigins)
	if err != nil {
		return err
	}

	var limit func(http.Handler) http.Handler
	if cfg.AuthRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute, logger)
		defer limiter.Stop()
		limit = limiter.Handler
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RealIP(cfg.TrustedProxyHops))
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(gate.Handler)
	r.Use(middleware.SecurityHeaders(cfg.PublicAPIOrigin))

	r.Get("/", RootHandler)
	auth.SetupRoutes(r, handler, resolver, limit)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"url", "http://localhost:"+cfg.Port,
			"environment", cfg.Env,
			"allowed_origins", strings.Join(cfg.AllowedOrigins, ","),
			"csp_api_origin", cfg.PublicAPIOrigin,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
