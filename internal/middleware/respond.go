package middleware

import (
	"encoding/json"
	"net/http"
)

// Reason codes written by the middleware itself. They match the codes the
// account handlers use so clients see a single taxonomy.
const (
	CodeOriginRejected = "ORIGIN_REJECTED"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes the standard {"code","message"} error body.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Code: code, Message: message})
}
