package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/devconnect/backend/internal/auth"
	"github.com/devconnect/backend/internal/model"
	"github.com/devconnect/backend/internal/repository"
	"github.com/devconnect/backend/internal/service"
)

// PostHandler serves the feed: post creation (authenticated) and the public
// list/get reads.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger,
	}
}

// createPostRequest is the explicit schema for the create body, per the API
// table: type and title required, everything else optional. There is no
// user_id field — the owner is always the verified caller, and unknown
// fields are rejected at decode time so a body cannot smuggle one in.
type createPostRequest struct {
	Type             model.PostType `json:"type"`
	Title            string         `json:"title"`
	Content          string         `json:"content"`
	Tags             []string       `json:"tags"`
	CoverImageURL    string         `json:"cover_image_url"`
	Images           []string       `json:"images"`
	ShortDescription string         `json:"short_description"`
	ProjectLink      string         `json:"project_link"`
	GithubLink       string         `json:"github_link"`
}

// HandleCreate publishes a new post owned by the caller.
//
// HTTP: POST /api/posts (auth required)
// Returns 201 with the full created row, including the generated id and the
// server-assigned created_at.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing or invalid Authorization header"})
		return
	}

	var req createPostRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	post, err := h.posts.Create(r.Context(), identity.Subject, service.CreatePostInput{
		Type:             req.Type,
		Title:            req.Title,
		Content:          req.Content,
		Tags:             req.Tags,
		CoverImageURL:    req.CoverImageURL,
		Images:           req.Images,
		ShortDescription: req.ShortDescription,
		ProjectLink:      req.ProjectLink,
		GithubLink:       req.GithubLink,
	})
	if err != nil {
		writeError(w, err, "Failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleList returns the feed, newest first.
//
// HTTP: GET /api/posts?type=&featured=&limit=   (no auth)
//
// The three query predicates are independent and AND-combined. featured is
// only a positive filter: "true" restricts to featured posts, anything else
// applies no constraint. A non-numeric or non-positive limit is a client
// error rather than being silently ignored.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.PostFilter{
		Type:     model.PostType(q.Get("type")),
		Featured: q.Get("featured") == "true",
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	posts, err := h.posts.List(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to fetch posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns a single post with its owner's public fields.
//
// HTTP: GET /api/posts/{id}   (no auth)
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "post id is required"})
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to fetch post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}
