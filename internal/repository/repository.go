// Package repository declares the persistence interfaces the service layer
// programs against. The sqlite subpackage provides the concrete adapter.
package repository

import (
	"context"

	"github.com/devconnect/backend/internal/model"
)

// PostFilter holds the three independent, AND-combined list predicates.
// Zero values mean "no filter": empty Type matches every type, Featured false
// applies no featured constraint, and Limit <= 0 falls back to the adapter's
// cap.
type PostFilter struct {
	Type     model.PostType
	Featured bool
	Limit    int
}

type ProfileRepository interface {
	// Upsert atomically inserts the profile or overwrites full_name and
	// avatar_url of the existing row with the same id. Idempotent: calling
	// it twice with the same values leaves exactly one identical row.
	Upsert(ctx context.Context, profile *model.Profile) error

	// GetProfileByID is a pure primary-key read. Returns
	// apperror.ErrNotFound when no row exists.
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)
}

type PostRepository interface {
	// Create inserts a post, assigning its id and creation timestamp.
	Create(ctx context.Context, post *model.Post) error

	// GetByID returns a post joined with its owner's public profile fields.
	// A missing row and a row whose owner profile is missing both come back
	// as apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.PostWithOwner, error)

	// List returns posts matching the filter, joined with owner fields,
	// newest first. Posts whose owner profile is missing are silently
	// excluded.
	List(ctx context.Context, filter PostFilter) ([]model.PostWithOwner, error)
}
