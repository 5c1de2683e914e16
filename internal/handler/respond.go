package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitcoach/coach/internal/auth"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/service"
	"github.com/fitcoach/coach/internal/validation"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps domain errors to status codes. Anything unknown is logged
// and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeMessage(w, status, "internal server error")
		return
	}
	writeMessage(w, status, err.Error())
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrLogNotFound),
		errors.Is(err, repository.ErrResourceNotFound),
		errors.Is(err, repository.ErrChatNotFound),
		errors.Is(err, repository.ErrSummaryNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidSession),
		errors.Is(err, service.ErrUserNotProvisioned),
		errors.Is(err, service.ErrOAuthEmailUnverified):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, service.ErrGoalNotActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrOAuthNotSupported):
		return http.StatusNotImplemented
	case errors.As(err, new(requestError)),
		errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidGoalType),
		errors.Is(err, service.ErrProfileIncomplete),
		errors.Is(err, service.ErrMissingWeight),
		errors.Is(err, service.ErrMissingText),
		errors.Is(err, service.ErrMissingFile),
		errors.Is(err, service.ErrEmptyMessage),
		errors.As(err, new(*validation.Error)):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// requestError marks a malformed request.
type requestError struct {
	err error
}

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return requestError{err: err}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return badRequest(errors.New("invalid JSON body"))
	}
	return nil
}
