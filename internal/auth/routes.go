package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyaglog/voyaglog-api/internal/middleware"
)

// SetupRoutes registers the account routes on r, both under /api and at the
// bare paths older clients call:
//
//	POST  /api/auth/signup   POST  /signup
//	POST  /api/auth/login    POST  /login
//	POST  /api/auth/logout   POST  /logout
//	GET   /api/auth/profile  GET   /profile
//	PATCH /api/users/{id}    PATCH /users/{id}
//
// limit guards signup and login; nil disables it.
func SetupRoutes(r chi.Router, h *Handler, resolver *Resolver, limit func(http.Handler) http.Handler) {
	session := middleware.SessionMiddleware(resolver, h.WriteSessionError)

	authRoutes := func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limit != nil {
				r.Use(limit)
			}
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})
		r.Post("/logout", h.Logout)
		r.With(session).Get("/profile", h.Profile)
	}
	userRoutes := func(r chi.Router) {
		r.With(session).Patch("/{id}", h.UpdateUser)
	}

	r.Route("/api/auth", authRoutes)
	r.Route("/api/users", userRoutes)

	r.Group(authRoutes)
	r.Route("/users", userRoutes)
}
