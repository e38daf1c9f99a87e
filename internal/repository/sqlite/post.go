package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/devconnect/backend/internal/apperror"
	"github.com/devconnect/backend/internal/model"
	"github.com/devconnect/backend/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*DB)(nil)

// MaxListLimit caps unbounded list calls so a filterless request cannot
// fetch the entire table.
const MaxListLimit = 100

// postWithOwnerColumns is the projection shared by GetByID and List: every
// post column plus the owner's public profile fields from the inner join.
const postWithOwnerColumns = `
	p.id, p.user_id, p.type, p.title, p.content, p.short_description,
	p.tags, p.cover_image_url, p.images, p.project_link, p.github_link,
	p.is_featured, p.created_at,
	pr.full_name, pr.avatar_url`

// Create inserts a new post.
//
// The id is an xid — 20 URL-safe chars that sort by creation time, which
// also makes the id a deterministic tiebreak when created_at collides.
// CreatedAt is server-assigned here; the caller's value is ignored.
func (db *DB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now()

	tags, err := marshalStrings(post.Tags)
	if err != nil {
		return apperror.Store(fmt.Errorf("sqlite: encoding tags: %w", err))
	}
	images, err := marshalStrings(post.Images)
	if err != nil {
		return apperror.Store(fmt.Errorf("sqlite: encoding images: %w", err))
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, type, title, content, short_description,
		                    tags, cover_image_url, images, project_link, github_link,
		                    is_featured, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		string(post.Type),
		post.Title,
		post.Content,
		post.ShortDescription,
		tags,
		post.CoverImageURL,
		images,
		post.ProjectLink,
		post.GithubLink,
		post.IsFeatured,
		post.CreatedAt,
	)
	if err != nil {
		return apperror.Store(fmt.Errorf("sqlite: creating post: %w", err))
	}

	return nil
}

// GetByID retrieves a single post joined with its owner's public fields.
//
// The INNER JOIN means a post whose owner profile row is missing scans as
// sql.ErrNoRows — both "no such post" and "orphaned post" collapse to the
// same NotFound outcome, which is the documented contract.
func (db *DB) GetByID(ctx context.Context, id string) (*model.PostWithOwner, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+postWithOwnerColumns+`
		 FROM posts p
		 INNER JOIN profiles pr ON pr.id = p.user_id
		 WHERE p.id = ?`,
		id,
	)

	post, err := scanPostWithOwner(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Post")
		}
		return nil, apperror.Store(fmt.Errorf("sqlite: getting post %s: %w", id, err))
	}

	return post, nil
}

// List retrieves posts matching the filter, newest first.
//
// FILTER COMPOSITION:
// The three predicates are independent and AND-combined, so the WHERE clause
// is built dynamically from whichever are set. Parameterized placeholders
// throughout — never concatenate values into SQL.
//
// ORDERING IS A CONTRACT:
// created_at DESC is what callers rely on; the id DESC tiebreak keeps
// equal-timestamp rows in a stable order across repeated calls within the
// same snapshot.
func (db *DB) List(ctx context.Context, filter repository.PostFilter) ([]model.PostWithOwner, error) {
	query := `SELECT ` + postWithOwnerColumns + `
		 FROM posts p
		 INNER JOIN profiles pr ON pr.id = p.user_id`
	var (
		conditions []string
		args       []any
	)

	if filter.Type != "" {
		conditions = append(conditions, "p.type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Featured {
		conditions = append(conditions, "p.is_featured = 1")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Store(fmt.Errorf("sqlite: listing posts: %w", err))
	}
	defer rows.Close()

	posts := make([]model.PostWithOwner, 0, limit)
	for rows.Next() {
		post, err := scanPostWithOwner(rows)
		if err != nil {
			return nil, apperror.Store(fmt.Errorf("sqlite: scanning post row: %w", err))
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Store(fmt.Errorf("sqlite: iterating posts: %w", err))
	}

	return posts, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPostWithOwner(s scanner) (*model.PostWithOwner, error) {
	var (
		post   model.PostWithOwner
		typ    string
		tags   string
		images string
	)

	err := s.Scan(
		&post.ID,
		&post.UserID,
		&typ,
		&post.Title,
		&post.Content,
		&post.ShortDescription,
		&tags,
		&post.CoverImageURL,
		&images,
		&post.ProjectLink,
		&post.GithubLink,
		&post.IsFeatured,
		&post.CreatedAt,
		&post.Owner.FullName,
		&post.Owner.AvatarURL,
	)
	if err != nil {
		return nil, err
	}

	post.Type = model.PostType(typ)
	if post.Tags, err = unmarshalStrings(tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	if post.Images, err = unmarshalStrings(images); err != nil {
		return nil, fmt.Errorf("decoding images: %w", err)
	}

	return &post, nil
}

// Tags and images are ordered string sequences stored as JSON text columns.
// SQLite has no array type and the sequences are only ever read whole, so a
// JSON column beats a join table here.

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func unmarshalStrings(encoded string) ([]string, error) {
	values := []string{}
	if encoded == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, err
	}
	return values, nil
}
