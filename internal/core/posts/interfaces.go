package posts

import "context"

// Service defines the business logic interface for the post store.
// This is the "post store accessor" boundary consumed by the API layer
// and, for recent-post pulls, by the timeline assembler.
type Service interface {
	// CreatePost stores a new post and hands it to the fan-out engine.
	// Flow: Validate -> Assign id/timestamp -> Persist -> Notify fan-out.
	// Fan-out failures never fail the create; dropped followers recover
	// through the pull path.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// GetPost retrieves a single live post by id
	GetPost(ctx context.Context, postID string) (*Post, error)

	// DeletePost soft-deletes a post. Only the author may delete.
	// Cached timeline entries referencing the post are not purged; they
	// age out with the cache TTL while the pull path filters immediately.
	DeletePost(ctx context.Context, postID, authorID string) error

	// GetRecentPosts returns up to limit live posts by the author,
	// most-recent-first. Used as the pull path for celebrity authors
	// and for cold-cache regeneration.
	GetRecentPosts(ctx context.Context, authorID string, limit int) ([]*Post, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a new post. Idempotent on id conflicts
	// (ON CONFLICT DO NOTHING) so retried creates cannot duplicate.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a live post by id; soft-deleted posts are
	// reported as ErrPostNotFound
	GetByID(ctx context.Context, postID string) (*Post, error)

	// ListRecentByAuthor retrieves up to limit live posts by the author,
	// ordered by (created_at, id) descending
	ListRecentByAuthor(ctx context.Context, authorID string, limit int) ([]*Post, error)

	// SoftDelete sets deleted_at on a live post; ErrPostNotFound when
	// there is no live post with this id
	SoftDelete(ctx context.Context, postID string) error
}

// FanoutNotifier receives newly created posts for timeline fan-out.
// The timeline fan-out engine implements this; the service tolerates a nil
// notifier so the store can run without fan-out wiring (tests, seed tool).
type FanoutNotifier interface {
	OnPostCreated(ctx context.Context, post *Post) error
}
