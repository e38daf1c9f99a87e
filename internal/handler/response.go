package handler

// Response helpers shared by every handler in this package.
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same one-field shape:
//
//	{"error": "Post not found"}
//
// The message for 400/401/404 comes from the typed AppError; a store fault
// or any unexpected error becomes a 500 with a route-supplied generic
// message — the raw error may carry SQL text or file paths and never
// reaches the client.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devconnect/backend/internal/apperror"
)

// ErrorResponse is the standard error body returned by all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the first body write, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and body.
//
// The service layer returns apperror kinds, not status codes; this is the
// single place where ErrValidation becomes 400, ErrNotFound 404, and
// ErrUnauthenticated 401. Everything else — ErrStore included — collapses
// to a 500 carrying only the fallback message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: appErr.Message})
			return
		}
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fallback})
}
