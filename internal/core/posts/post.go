package posts

import (
	"time"
)

// Post represents a single authored post as held by the post store.
// IDs are UUIDv7, so sorting ids lexicographically follows creation order.
// A Post is immutable once created; the only permitted mutation is a soft
// delete, which sets DeletedAt and hides the post from every read path.
type Post struct {
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	ID         string     `json:"id" db:"id"`
	AuthorID   string     `json:"authorId" db:"author_id"`
	PayloadRef string     `json:"payloadRef" db:"payload_ref"`
}

// CreatePostRequest represents input for creating a new post.
// The id and creation timestamp are assigned by the service, never the caller.
type CreatePostRequest struct {
	AuthorID   string `json:"authorId"`
	PayloadRef string `json:"payloadRef"`
}
