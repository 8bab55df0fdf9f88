package graph

import "context"

// Service defines the business logic interface for follow graph operations
type Service interface {
	// Follow creates a follow edge from follower to followee.
	// Idempotent: following a user twice is not an error.
	Follow(ctx context.Context, followerID, followeeID string) error

	// Unfollow removes a follow edge and invalidates the follower's
	// cached timeline so the removed author's posts stop appearing.
	Unfollow(ctx context.Context, followerID, followeeID string) error

	// Following returns the ids of users that userID follows
	Following(ctx context.Context, userID string) ([]string, error)

	// Followers returns the ids of users that follow userID
	Followers(ctx context.Context, userID string) ([]string, error)

	// FollowerCount returns the number of followers userID has
	FollowerCount(ctx context.Context, userID string) (int, error)
}

// Repository defines the data access interface for follow edges
type Repository interface {
	// Follow inserts an edge; inserting an existing edge is a no-op
	Follow(ctx context.Context, followerID, followeeID string) error

	// Unfollow deletes an edge, returning ErrFollowNotFound when absent
	Unfollow(ctx context.Context, followerID, followeeID string) error

	// GetFollowers returns follower ids of userID
	GetFollowers(ctx context.Context, userID string) ([]string, error)

	// GetFollowees returns the ids userID follows
	GetFollowees(ctx context.Context, userID string) ([]string, error)

	// CountFollowers returns userID's follower count
	CountFollowers(ctx context.Context, userID string) (int, error)

	// CountFollowersBatch returns follower counts for several users in
	// one query; ids absent from the result have zero followers
	CountFollowersBatch(ctx context.Context, userIDs []string) (map[string]int, error)

	// IsFollowing reports whether the edge follower -> followee exists
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

// TimelineInvalidator is implemented by the timeline cache so graph
// changes can drop stale cached feeds without importing the timeline
// package directly
type TimelineInvalidator interface {
	Invalidate(userID string)
}
