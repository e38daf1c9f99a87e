package model

import "time"

// PostType distinguishes the two kinds of published content.
type PostType string

const (
	PostTypeProject PostType = "project"
	PostTypeBlog    PostType = "blog"
)

// Valid reports whether t is one of the known post types.
func (t PostType) Valid() bool {
	return t == PostTypeProject || t == PostTypeBlog
}

// Post is a published content item owned by exactly one profile.
//
// Posts are append-only from the API's perspective: created once, then read.
// There is no update or delete operation. UserID is bound to the verified
// caller at creation time and is immutable, as are Type and CreatedAt.
//
// ProjectLink and GithubLink only make sense for `project` posts by
// convention; that convention is not enforced here.
type Post struct {
	ID               string    `json:"id"                db:"id"`
	UserID           string    `json:"user_id"           db:"user_id"` // owner profile id
	Type             PostType  `json:"type"              db:"type"`
	Title            string    `json:"title"             db:"title"`
	Content          string    `json:"content"           db:"content"`
	ShortDescription string    `json:"short_description" db:"short_description"`
	Tags             []string  `json:"tags"              db:"tags"`
	CoverImageURL    string    `json:"cover_image_url"   db:"cover_image_url"`
	Images           []string  `json:"images"            db:"images"`
	ProjectLink      string    `json:"project_link"      db:"project_link"`
	GithubLink       string    `json:"github_link"       db:"github_link"`
	IsFeatured       bool      `json:"is_featured"       db:"is_featured"`
	CreatedAt        time.Time `json:"created_at"        db:"created_at"`
}

// PostOwner is the read-only subset of the owning profile that listing
// operations project alongside each post.
type PostOwner struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// PostWithOwner is a post joined with its owner's public profile fields.
//
// The JSON key "profiles" matches the wire shape the frontend consumes
// (the row carries a nested owner object keyed by the joined table).
type PostWithOwner struct {
	Post
	Owner PostOwner `json:"profiles"`
}
