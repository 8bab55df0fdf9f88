package graph

import (
	"time"
)

// FollowEdge represents a directed follow relationship in the social graph.
// FollowerID follows FolloweeID; the reverse direction is a separate edge.
type FollowEdge struct {
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	FollowerID string    `json:"followerId" db:"follower_id"`
	FolloweeID string    `json:"followeeId" db:"followee_id"`
}
