package timeline

import (
	"context"
	"time"

	"Roost/internal/core/posts"
)

// FollowGraph is the follow graph accessor the timeline layer consumes.
// The graph repository satisfies it; the indirection keeps this package
// free of a dependency on the graph service.
type FollowGraph interface {
	// GetFollowers returns the ids of users following userID
	GetFollowers(ctx context.Context, userID string) ([]string, error)

	// GetFollowees returns the ids userID follows
	GetFollowees(ctx context.Context, userID string) ([]string, error)

	// CountFollowers returns userID's follower count
	CountFollowers(ctx context.Context, userID string) (int, error)

	// CountFollowersBatch returns follower counts for several users in
	// one query; ids absent from the result have zero followers
	CountFollowersBatch(ctx context.Context, userIDs []string) (map[string]int, error)
}

// PostStore is the post store accessor the timeline layer consumes.
// The post repository satisfies it.
type PostStore interface {
	// ListRecentByAuthor returns up to limit live posts by the author,
	// most recent first
	ListRecentByAuthor(ctx context.Context, authorID string, limit int) ([]*posts.Post, error)
}

// Cache holds per-user timelines. Implementations must be safe for
// concurrent use; a record created implicitly by Insert stays stale
// until a Prime supplies a complete feed for that user.
//
// The in-process implementation is MemoryCache; the interface carries a
// context so a networked backend can honor per-operation timeouts.
type Cache interface {
	// Insert places entry into userID's record in feed order and trims
	// to capacity, creating the record if it does not exist
	Insert(ctx context.Context, userID string, entry Entry) error

	// Get returns a snapshot of userID's record and its trust state.
	// StateAbsent is distinct from an empty slice with StateFresh:
	// the former means no data yet, the latter a user whose feed is
	// genuinely empty.
	Get(ctx context.Context, userID string) ([]Entry, State, error)

	// Prime replaces userID's record with a freshly assembled feed and
	// restarts the TTL. asOf is the instant assembly began: entries
	// pushed into the record since then are folded in rather than lost,
	// while older entries missing from the feed (deleted posts, posts
	// beyond the pull window) are dropped with the rest of the record.
	Prime(ctx context.Context, userID string, entries []Entry, asOf time.Time) error

	// Invalidate drops userID's record entirely
	Invalidate(userID string)
}
