// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of the SQLite C code — no CGo, no C compiler,
// cross-compiles everywhere Go does. The driver registers itself with
// database/sql under the name "sqlite" via the blank import below.
//
// The store is the only shared mutable resource between in-flight requests;
// row consistency is delegated entirely to SQLite's native atomicity (WAL
// mode allows concurrent reads while a write is in progress).
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The server owns the DB and closes it on shutdown.
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database (tests).
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only creates the pool; Ping forces a real connection so a bad
	// path surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode: concurrent reads while a write is happening. Default SQLite
	// locks the whole database during writes, which stalls the feed under
	// concurrent requests.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the profiles and posts tables.
//
// NOTE: posts.user_id deliberately carries no FOREIGN KEY constraint. The
// read contract is inner-join semantics — a post whose owner profile row is
// missing is excluded from results, not surfaced as an error — and a
// declared FK would turn that documented edge case into a constraint
// violation instead.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id         TEXT PRIMARY KEY,
			full_name  TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL,
			type              TEXT NOT NULL,
			title             TEXT NOT NULL,
			content           TEXT NOT NULL DEFAULT '',
			short_description TEXT NOT NULL DEFAULT '',
			tags              TEXT NOT NULL DEFAULT '[]',
			cover_image_url   TEXT NOT NULL DEFAULT '',
			images            TEXT NOT NULL DEFAULT '[]',
			project_link      TEXT NOT NULL DEFAULT '',
			github_link       TEXT NOT NULL DEFAULT '',
			is_featured       INTEGER NOT NULL DEFAULT 0,
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
		CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
		CREATE INDEX IF NOT EXISTS idx_posts_type ON posts(type);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	return nil
}
