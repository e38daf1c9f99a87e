// Package handler contains the HTTP layer: request parsing, response
// writing, and the mapping from domain errors to status codes. Handlers
// never touch SQL and never re-check authentication — the auth middleware
// is the single gate, and the identity it resolved is read from the
// request context.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/devconnect/backend/internal/auth"
	"github.com/devconnect/backend/internal/service"
)

// ProfileHandler serves the authenticated profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// HandleMe returns the caller's own profile.
//
// HTTP: GET /api/me (auth required)
//
// A 404 here is normal, not a fault: it just means no sync has run yet for
// this subject. The client is expected to call POST /api/me/sync first.
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth; kept so the handler fails closed
		// if it is ever wired onto an unprotected route.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing or invalid Authorization header"})
		return
	}

	profile, err := h.profiles.Get(r.Context(), identity.Subject)
	if err != nil {
		writeError(w, err, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// syncRequest is the explicit schema for the sync body. Both fields are
// optional; empty or absent values overwrite the stored ones.
type syncRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// HandleSync upserts the caller's profile with display attributes from the
// identity provider.
//
// HTTP: POST /api/me/sync (auth required)
// BODY: {"full_name": "...", "avatar_url": "..."}
//
// The subject id comes from the verified token, never from the body, so a
// caller can only ever write their own row.
func (h *ProfileHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing or invalid Authorization header"})
		return
	}

	var req syncRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Warn("invalid sync JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	profile, err := h.profiles.Sync(r.Context(), identity.Subject, req.FullName, req.AvatarURL)
	if err != nil {
		writeError(w, err, "Failed to sync profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
