package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"Roost/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (id, author_id, payload_ref, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	// ON CONFLICT DO NOTHING affects zero rows on a replayed create - this is OK (idempotent)
	_, err := r.db.ExecContext(ctx, query, post.ID, post.AuthorID, post.PayloadRef, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a live post by id
// Soft-deleted posts are reported as not found
func (r *postgresPostRepo) GetByID(ctx context.Context, postID string) (*posts.Post, error) {
	query := `
		SELECT id, author_id, payload_ref, created_at
		FROM posts
		WHERE id = $1 AND deleted_at IS NULL
	`

	var post posts.Post
	err := r.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID, &post.AuthorID, &post.PayloadRef, &post.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return &post, nil
}

// ListRecentByAuthor retrieves up to limit live posts by the author,
// newest first. Ties on created_at break by id descending so the order
// is stable across reads.
func (r *postgresPostRepo) ListRecentByAuthor(ctx context.Context, authorID string, limit int) ([]*posts.Post, error) {
	query := `
		SELECT id, author_id, payload_ref, created_at
		FROM posts
		WHERE author_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2
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
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.PayloadRef, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan author post: %w", err)
		}
		result = append(result, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author posts results: %w", err)
	}

	return result, nil
}

// SoftDelete sets deleted_at on a live post
func (r *postgresPostRepo) SoftDelete(ctx context.Context, postID string) error {
	query := `
		UPDATE posts
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	// No live row with this id: either never existed or already deleted
	if rowsAffected == 0 {
		return posts.ErrPostNotFound
	}

	return nil
}
