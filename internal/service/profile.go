// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and write responses; services validate and enforce the
// domain rules; repositories read and write rows. Services receive the
// repository interfaces, never the concrete sqlite types, so tests inject
// in-memory mocks and the handlers stay free of SQL.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devconnect/backend/internal/model"
	"github.com/devconnect/backend/internal/repository"
)

// ProfileService reconciles the application's own profile records with the
// identity provider's view of a user.
type ProfileService struct {
	repo   repository.ProfileRepository
	logger *slog.Logger
}

func NewProfileService(repo repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: logger,
	}
}

// Get is a pure lookup by subject id. It does no reconciliation of its own —
// callers that need fresh attributes must issue Sync first, otherwise Get
// returns whatever the last sync wrote (or NotFound if none ever ran).
func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	profile, err := s.repo.GetProfileByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return profile, nil
}

// Sync upserts the profile row for the given subject with the supplied
// display attributes.
//
// The id is always the verified caller's own subject (the auth gate
// guarantees it), so the supplied values are trusted as-is — including empty
// strings, which clear the fields. Sync is idempotent and safe to call on
// every session start or refresh; repeating it accumulates no side effects.
func (s *ProfileService) Sync(ctx context.Context, id, fullName, avatarURL string) (*model.Profile, error) {
	profile := &model.Profile{
		ID:        id,
		FullName:  fullName,
		AvatarURL: avatarURL,
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		s.logger.Error("failed to sync profile",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("syncing profile: %w", err)
	}

	s.logger.Info("profile synced", slog.String("id", profile.ID))

	return profile, nil
}
