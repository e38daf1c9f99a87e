package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/devconnect/backend/internal/apperror"
	"github.com/devconnect/backend/internal/model"
	"github.com/devconnect/backend/internal/repository"
)

// compile-time check that *DB implements repository.ProfileRepository
var _ repository.ProfileRepository = (*DB)(nil)

// Upsert inserts a profile row or overwrites the display fields of the
// existing row with the same id, as a single atomic statement.
//
// UPSERT SEMANTICS:
// `INSERT ... ON CONFLICT(id) DO UPDATE` resolves the conflict inside one
// write. Profile sync runs on every session start and refresh, so two
// concurrent syncs for the same subject must not race: a read-then-write
// pair could insert duplicate rows or interleave updates, a conflict-
// resolving insert cannot. The id is the identity's subject and is never
// rewritten on conflict — only full_name, avatar_url, and updated_at move.
//
// The caller's supplied values win unconditionally, empty strings included;
// the auth gate already guarantees the caller owns this subject id.
func (db *DB) Upsert(ctx context.Context, profile *model.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO profiles (id, full_name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   full_name  = excluded.full_name,
		   avatar_url = excluded.avatar_url,
		   updated_at = excluded.updated_at`,
		profile.ID,
		profile.FullName,
		profile.AvatarURL,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return apperror.Store(fmt.Errorf("sqlite: upserting profile %s: %w", profile.ID, err))
	}

	// Read the row back so the caller gets the canonical record — on the
	// update path created_at keeps its original value.
	canonical, err := db.GetProfileByID(ctx, profile.ID)
	if err != nil {
		return err
	}
	*profile = *canonical

	return nil
}

// GetProfileByID retrieves a profile by its primary key.
// Returns apperror.ErrNotFound if no row exists — a distinct outcome from a
// backend fault, so callers can treat it as a plain miss rather than an
// error-logged condition.
func (db *DB) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, full_name, avatar_url, created_at, updated_at
		 FROM profiles WHERE id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.FullName,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Profile")
		}
		return nil, apperror.Store(fmt.Errorf("sqlite: getting profile %s: %w", id, err))
	}

	return &p, nil
}
