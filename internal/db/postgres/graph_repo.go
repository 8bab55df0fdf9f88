package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"Roost/internal/core/graph"
)

type postgresGraphRepo struct {
	db *sql.DB
}

// NewGraphRepository creates a new PostgreSQL follow graph repository
func NewGraphRepository(db *sql.DB) graph.Repository {
	return &postgresGraphRepo{db: db}
}

// Follow inserts a follow edge
// Idempotent: re-following an already followed user affects zero rows
func (r *postgresGraphRepo) Follow(ctx context.Context, followerID, followeeID string) error {
	query := `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}

	return nil
}

// Unfollow deletes a follow edge, reporting ErrFollowNotFound when the
// edge does not exist
func (r *postgresGraphRepo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	query := `
		DELETE FROM follows
		WHERE follower_id = $1 AND followee_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check unfollow result: %w", err)
	}

	if rowsAffected == 0 {
		return graph.ErrFollowNotFound
	}

	return nil
}

// GetFollowers returns the ids of users following userID, most recent
// follower first
func (r *postgresGraphRepo) GetFollowers(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT follower_id
		FROM follows
		WHERE followee_id = $1
		ORDER BY created_at DESC, follower_id
	`

	return r.listIDs(ctx, query, userID)
}

// GetFollowees returns the ids userID follows, most recent follow first
func (r *postgresGraphRepo) GetFollowees(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT followee_id
		FROM follows
		WHERE follower_id = $1
		ORDER BY created_at DESC, followee_id
	`

	return r.listIDs(ctx, query, userID)
}

func (r *postgresGraphRepo) listIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follow edges: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("WARN: failed to close rows: %v", err)
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follow edge: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow edges: %w", err)
	}

	return ids, nil
}

// CountFollowers returns userID's follower count
func (r *postgresGraphRepo) CountFollowers(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM follows WHERE followee_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}

	return count, nil
}

// CountFollowersBatch returns follower counts for several users in one
// query. Ids with no followers are absent from the result map.
func (r *postgresGraphRepo) CountFollowersBatch(ctx context.Context, userIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	// Use ANY($1) for PostgreSQL array support with pq.Array() for type conversion
	query := `
		SELECT followee_id, COUNT(*)
		FROM follows
		WHERE followee_id = ANY($1)
		GROUP BY followee_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query follower counts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("WARN: failed to close rows: %v", err)
		}
	}()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan follower count: %w", err)
		}
		counts[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follower counts: %w", err)
	}

	return counts, nil
}

// IsFollowing reports whether the edge follower -> followee exists
func (r *postgresGraphRepo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM follows
			WHERE follower_id = $1 AND followee_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, followerID, followeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}

	return exists, nil
}
