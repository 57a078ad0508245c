// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the REST API: assessment profile storage, the guidance
// pipeline (recommendations, analyses, advice), mentor chat, the mood
// journal, and daily content. HTTP concerns stay here; business logic
// lives in the usecase layer.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soulease/guidance/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy to HTTP statuses. The
// completion-provider failures keep distinct codes so clients can tell a
// missing key apart from a revoked one or a throttled minute.
func writeError(w http.ResponseWriter, _ *http.Request, err error, details any) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrNotConfigured):
		code = http.StatusUnauthorized
		codeStr = "NOT_CONFIGURED"
	case errors.Is(err, domain.ErrAuth):
		code = http.StatusUnauthorized
		codeStr = "UPSTREAM_AUTH"
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
		codeStr = "UPSTREAM_FORBIDDEN"
	case errors.Is(err, domain.ErrRateLimited):
		code = http.StatusTooManyRequests
		codeStr = "RATE_LIMITED"
	case errors.Is(err, domain.ErrTransport):
		code = http.StatusServiceUnavailable
		codeStr = "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, domain.ErrMalformedResponse):
		code = http.StatusBadGateway
		codeStr = "MALFORMED_RESPONSE"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
