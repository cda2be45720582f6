package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// Handler exposes the account flows over HTTP.
type Handler struct {
	service   *Service
	transport SessionTransport
	logger    *slog.Logger
}

func NewHandler(service *Service, transport SessionTransport, logger *slog.Logger) *Handler {
	return &Handler{service: service, transport: transport, logger: logger}
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

type loginResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}

type errorResponse struct {
	Code    Reason `json:"code"`
	Message string `json:"message"`
}

// Signup creates the account and logs the new user in. A rejected signup
// never sets a cookie.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in SignupInput
	if !h.decode(w, r, &in) {
		return
	}

	user, token, err := h.service.Signup(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.transport.Attach(w, token)
	h.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, userResponse{
		Message: "User registered successfully",
		User:    user.Public(),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if !h.decode(w, r, &in) {
		return
	}

	user, token, err := h.service.Login(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.transport.Attach(w, token)
	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Public(),
	})
}

// Logout only clears the client's cookie. The token itself stays valid
// until it expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.transport.Detach(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, r, newError(ReasonNotFound, "User not found"))
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

// UpdateUser applies a partial update. Callers may only update their own record.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, r, newError(ReasonMissing, "Not authenticated"))
		return
	}
	if principal.ID != id {
		h.writeError(w, r, newError(ReasonForbidden, "Cannot update another user"))
		return
	}

	var in UpdateInput
	if !h.decode(w, r, &in) {
		return
	}

	user, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		Message: "User updated successfully",
		User:    user.Public(),
	})
}

// WriteSessionError renders a resolver failure. It has the signature of
// middleware.ErrorWriter.
func (h *Handler) WriteSessionError(w http.ResponseWriter, r *http.Request, err error) {
	h.writeError(w, r, err)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, r, wrapError(ReasonBadRequest, "Invalid request body", err))
		return false
	}
	return true
}

// writeError sends client-facing reasons as-is. Anything else is logged and
// reported as a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *Error
	if errors.As(err, &e) {
		writeJSON(w, StatusFor(e.Reason), errorResponse{Code: e.Reason, Message: e.Message})
		return
	}

	h.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    ReasonInternal,
		Message: "Internal server error",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
