// Package model defines the data structures used throughout the application.
package model

import "time"

// Profile is this application's own record of a user.
//
// The primary key is the identity provider's stable subject id ("sub" claim),
// so one provider identity maps to exactly one profile row. The id is set on
// the first sync call for a subject and never changes afterwards.
//
// WHY FullName string (not *string)?
// The provider may not supply a display name or avatar at all. We use the
// empty string as the zero value rather than a nullable pointer — simpler to
// work with, and the frontend already falls back to a placeholder when the
// field is empty.
type Profile struct {
	ID        string    `json:"id"         db:"id"` // provider subject id
	FullName  string    `json:"full_name"  db:"full_name"`
	AvatarURL string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
