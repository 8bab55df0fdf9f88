// Package sqlite provides embedded storage for single-node deployments.
// It mirrors the PostgreSQL repositories over a local database file so
// the server runs without external infrastructure.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	// Timestamps are unix microseconds so ordering and round trips are
	// exact; TEXT datetimes do not sort correctly once sub-second
	// precision matters.
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		payload_ref TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		deleted_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_posts_author_recent
		ON posts (author_id, created_at DESC, id DESC)
		WHERE deleted_at IS NULL;
	CREATE TABLE IF NOT EXISTS follows (
		follower_id TEXT NOT NULL,
		followee_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (follower_id, followee_id),
		CHECK (follower_id <> followee_id)
	);
	CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows (followee_id);
	`
	_, err := db.Exec(schema)
	return err
}
