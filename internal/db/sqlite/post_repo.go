package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"Roost/internal/core/posts"
)

type sqlitePostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLite post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &sqlitePostRepo{db: db}
}

// Create inserts a new post
// Idempotent: replayed creates affect zero rows
func (r *sqlitePostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (id, author_id, payload_ref, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, post.ID, post.AuthorID, post.PayloadRef, post.CreatedAt.UnixMicro())
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a live post by id
func (r *sqlitePostRepo) GetByID(ctx context.Context, postID string) (*posts.Post, error) {
	query := `
		SELECT id, author_id, payload_ref, created_at
		FROM posts
		WHERE id = ? AND deleted_at IS NULL
	`

	var post posts.Post
	var createdAt int64
	err := r.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID, &post.AuthorID, &post.PayloadRef, &createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	post.CreatedAt = time.UnixMicro(createdAt).UTC()
	return &post, nil
}

// ListRecentByAuthor retrieves up to limit live posts by the author,
// newest first with id descending as the tiebreak
func (r *sqlitePostRepo) ListRecentByAuthor(ctx context.Context, authorID string, limit int) ([]*posts.Post, error) {
	query := `
		SELECT id, author_id, payload_ref, created_at
		FROM posts
		WHERE author_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query author posts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("WARN: failed to close rows: %v", err)
		}
	}()

	var result []*posts.Post
	for rows.Next() {
		var post posts.Post
		var createdAt int64
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.PayloadRef, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan author post: %w", err)
		}
		post.CreatedAt = time.UnixMicro(createdAt).UTC()
		result = append(result, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author posts results: %w", err)
	}

	return result, nil
}

// SoftDelete sets deleted_at on a live post
func (r *sqlitePostRepo) SoftDelete(ctx context.Context, postID string) error {
	query := `
		UPDATE posts
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC().UnixMicro(), postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if rowsAffected == 0 {
		return posts.ErrPostNotFound
	}

	return nil
}
