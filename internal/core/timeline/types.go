package timeline

import (
	"time"

	"Roost/internal/core/posts"
)

// Entry is one post reference in a user's cached timeline.
// Each follower holds its own copy; entries are never shared across users.
// CreatedAt orders the feed, InsertedAt records when the entry reached
// this user's cache.
type Entry struct {
	CreatedAt  time.Time `json:"createdAt"`
	InsertedAt time.Time `json:"insertedAt"`
	PostID     string    `json:"postId"`
	AuthorID   string    `json:"authorId"`
	PayloadRef string    `json:"payloadRef"`
}

// entryFromPost builds a timeline entry referencing p
func entryFromPost(p *posts.Post, insertedAt time.Time) Entry {
	return Entry{
		CreatedAt:  p.CreatedAt,
		InsertedAt: insertedAt,
		PostID:     p.ID,
		AuthorID:   p.AuthorID,
		PayloadRef: p.PayloadRef,
	}
}

// State describes what the cache holds for a user
type State int

const (
	// StateAbsent means no record exists for the user
	StateAbsent State = iota

	// StateStale means a record exists but cannot be trusted as a
	// complete feed: either its TTL has lapsed or it was created as a
	// side effect of fan-out inserts and never primed by a full pull
	StateStale

	// StateFresh means the record was primed and its TTL has not lapsed
	StateFresh
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateStale:
		return "stale"
	case StateFresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// AuthorClass determines the fan-out strategy for an author's posts.
// It is derived from the live follower count each time it is needed,
// never stored, since follower counts drift.
type AuthorClass int

const (
	// ClassOrdinary authors get their posts pushed to every follower's cache
	ClassOrdinary AuthorClass = iota

	// ClassCelebrity authors are never pushed; their posts are pulled
	// and merged into follower feeds at read time
	ClassCelebrity
)

func (c AuthorClass) String() string {
	switch c {
	case ClassOrdinary:
		return "ordinary"
	case ClassCelebrity:
		return "celebrity"
	default:
		return "unknown"
	}
}

// HomeTimeline is the assembled feed for one user. Degraded is set when
// at least one contribution (a followee pull or the follow graph itself)
// could not be reached, so the feed may be missing posts.
type HomeTimeline struct {
	Entries  []Entry `json:"entries"`
	Degraded bool    `json:"degraded,omitempty"`
}
