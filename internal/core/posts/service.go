package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation limits for create requests
const (
	maxAuthorIDLen   = 128
	maxPayloadRefLen = 512
)

type postService struct {
	repo   Repository
	fanout FanoutNotifier
	logger *slog.Logger
}

// NewPostService creates a new post service.
// fanout can be nil when fan-out is not wired (e.g. minimal setups or tests).
func NewPostService(repo Repository, fanout FanoutNotifier, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:   repo,
		fanout: fanout,
		logger: logger,
	}
}

// CreatePost stores a new post and fans it out to follower timelines
// Flow:
// 1. Validate input
// 2. Assign id (UUIDv7, time-ordered) and creation timestamp
// 3. Persist via Repository
// 4. Notify the fan-out engine synchronously; an incomplete fan-out is
//    logged, never returned - the post is created either way and dropped
//    followers see it through the pull path until their cache regenerates
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post id: %w", err)
	}

	post := &Post{
		ID:         id.String(),
		AuthorID:   req.AuthorID,
		PayloadRef: req.PayloadRef,
		// Microsecond precision survives a Postgres round-trip unchanged,
		// keeping merge comparisons between cached and pulled posts exact.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to store post: %w", err)
	}

	if s.fanout != nil {
		if err := s.fanout.OnPostCreated(ctx, post); err != nil {
			s.logger.Warn("fan-out incomplete",
				"post", post.ID,
				"author", post.AuthorID,
				"error", err)
		}
	}

	return post, nil
}

// GetPost retrieves a single live post by id
func (s *postService) GetPost(ctx context.Context, postID string) (*Post, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, NewValidationError("postId", "post id is required")
	}
	return s.repo.GetByID(ctx, postID)
}

// DeletePost soft-deletes a post after verifying authorship
func (s *postService) DeletePost(ctx context.Context, postID, authorID string) error {
	if strings.TrimSpace(postID) == "" {
		return NewValidationError("postId", "post id is required")
	}
	if strings.TrimSpace(authorID) == "" {
		return NewValidationError("authorId", "author id is required")
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return ErrNotPostAuthor
	}

	if err := s.repo.SoftDelete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("post deleted", "post", postID, "author", authorID)
	return nil
}

// GetRecentPosts returns up to limit live posts by the author, newest first
func (s *postService) GetRecentPosts(ctx context.Context, authorID string, limit int) ([]*Post, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, NewValidationError("authorId", "author id is required")
	}
	if limit <= 0 {
		return nil, NewValidationError("limit", "limit must be positive")
	}
	return s.repo.ListRecentByAuthor(ctx, authorID, limit)
}

// validateCreateRequest validates a create request's fields
func (s *postService) validateCreateRequest(req CreatePostRequest) error {
	if strings.TrimSpace(req.AuthorID) == "" {
		return NewValidationError("authorId", "author id is required")
	}
	if len(req.AuthorID) > maxAuthorIDLen {
		return NewValidationError("authorId", fmt.Sprintf("author id must not exceed %d characters", maxAuthorIDLen))
	}
	if strings.TrimSpace(req.PayloadRef) == "" {
		return NewValidationError("payloadRef", "payload reference is required")
	}
	if len(req.PayloadRef) > maxPayloadRefLen {
		return NewValidationError("payloadRef", fmt.Sprintf("payload reference must not exceed %d characters", maxPayloadRefLen))
	}
	return nil
}
