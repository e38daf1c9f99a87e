package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devconnect/backend/internal/apperror"
	"github.com/devconnect/backend/internal/model"
	"github.com/devconnect/backend/internal/repository"
)

const MaxTitleLength = 200

// CreatePostInput carries the client-suppliable fields of a new post.
// Deliberately absent: the owner id (always taken from the verified caller,
// never from the body), is_featured (set only by a trusted administrative
// path), and the id/timestamp (server-assigned).
type CreatePostInput struct {
	Type             model.PostType
	Title            string
	Content          string
	ShortDescription string
	Tags             []string
	CoverImageURL    string
	Images           []string
	ProjectLink      string
	GithubLink       string
}

// PostService handles business logic for published posts.
type PostService struct {
	repo   repository.PostRepository
	logger *slog.Logger
}

func NewPostService(repo repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and persists a new post owned by ownerID.
//
// Only type and title are required; every other field is accepted as empty.
// A validation failure persists nothing. Create is not idempotent — a retry
// after an ambiguous failure may produce a duplicate post, so no caller
// retries it automatically.
func (s *PostService) Create(ctx context.Context, ownerID string, in CreatePostInput) (*model.Post, error) {
	title := strings.TrimSpace(in.Title)

	if in.Type == "" || title == "" {
		return nil, apperror.ValidationFailed("type", "type and title are required")
	}
	if !in.Type.Valid() {
		return nil, apperror.ValidationFailed("type",
			fmt.Sprintf("type must be %q or %q", model.PostTypeProject, model.PostTypeBlog))
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}

	post := &model.Post{
		UserID:           ownerID,
		Type:             in.Type,
		Title:            title,
		Content:          in.Content,
		ShortDescription: in.ShortDescription,
		Tags:             in.Tags,
		CoverImageURL:    in.CoverImageURL,
		Images:           in.Images,
		ProjectLink:      in.ProjectLink,
		GithubLink:       in.GithubLink,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("owner", ownerID),
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("owner", post.UserID),
		slog.String("type", string(post.Type)),
	)

	return post, nil
}

// List returns the feed: posts joined with their owner's public fields,
// newest first, filtered by whichever predicates are set.
func (s *PostService) List(ctx context.Context, filter repository.PostFilter) ([]model.PostWithOwner, error) {
	posts, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Get returns a single post with its owner joined in.
func (s *PostService) Get(ctx context.Context, id string) (*model.PostWithOwner, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return post, nil
}
