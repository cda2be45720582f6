package auth

import (
	"errors"
	"net/http"
)

// Reason is the stable, machine-readable code sent to clients.
type Reason string

const (
	ReasonBadRequest          Reason = "BAD_REQUEST"
	ReasonDuplicate           Reason = "DUPLICATE"
	ReasonInvalidCredentials  Reason = "INVALID_CREDENTIALS"
	ReasonNotFound            Reason = "NOT_FOUND"
	ReasonForbidden           Reason = "FORBIDDEN"
	ReasonInvalidToken        Reason = "INVALID_TOKEN"
	ReasonExpired             Reason = "EXPIRED"
	ReasonMissing             Reason = "MISSING"
	ReasonOriginRejected      Reason = "ORIGIN_REJECTED"
	ReasonServerMisconfigured Reason = "SERVER_MISCONFIGURED"
	ReasonRateLimited         Reason = "RATE_LIMITED"
	ReasonInternal            Reason = "INTERNAL"
)

// Store errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

// Error is a rejection that carries a client-facing reason.
type Error struct {
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Reason) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Reason) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(reason Reason, msg string) *Error {
	return &Error{Reason: reason, Message: msg}
}

func wrapError(reason Reason, msg string, err error) *Error {
	return &Error{Reason: reason, Message: msg, Err: err}
}

// ReasonOf returns the reason carried by err, or ReasonInternal.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonInternal
}

// StatusFor maps a reason to its HTTP status.
func StatusFor(reason Reason) int {
	switch reason {
	case ReasonBadRequest:
		return http.StatusBadRequest
	case ReasonDuplicate:
		return http.StatusConflict
	case ReasonInvalidCredentials, ReasonInvalidToken, ReasonExpired, ReasonMissing:
		return http.StatusUnauthorized
	case ReasonNotFound:
		return http.StatusNotFound
	case ReasonOriginRejected, ReasonForbidden:
		return http.StatusForbidden
	case ReasonRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
