package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const maxUserIDLen = 128

type graphService struct {
	repo        Repository
	invalidator TimelineInvalidator
	logger      *slog.Logger
}

// NewGraphService creates a new follow graph service.
// invalidator can be nil when no timeline cache is wired (e.g. tests).
func NewGraphService(repo Repository, invalidator TimelineInvalidator, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &graphService{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Follow creates a follow edge from follower to followee
func (s *graphService) Follow(ctx context.Context, followerID, followeeID string) error {
	if err := validateEdge(followerID, followeeID); err != nil {
		return err
	}

	if err := s.repo.Follow(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}

	// The new followee's existing posts reach the follower when their
	// cached timeline next regenerates, at the latest when its TTL
	// lapses. New posts arrive through fan-out immediately.
	return nil
}

// Unfollow removes a follow edge and drops the follower's cached timeline.
// Invalidation runs even though the next read could filter instead: a
// regenerate is cheap and guarantees the unfollowed author disappears
// immediately rather than lingering until the cache entry expires.
func (s *graphService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := validateEdge(followerID, followeeID); err != nil {
		return err
	}

	if err := s.repo.Unfollow(ctx, followerID, followeeID); err != nil {
		if errors.Is(err, ErrFollowNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove follow: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(followerID)
		s.logger.Debug("timeline invalidated after unfollow",
			"follower", followerID,
			"followee", followeeID)
	}

	return nil
}

// Following returns the ids of users that userID follows
func (s *graphService) Following(ctx context.Context, userID string) ([]string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewValidationError("userId", "user id is required")
	}
	return s.repo.GetFollowees(ctx, userID)
}

// Followers returns the ids of users that follow userID
func (s *graphService) Followers(ctx context.Context, userID string) ([]string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewValidationError("userId", "user id is required")
	}
	return s.repo.GetFollowers(ctx, userID)
}

// FollowerCount returns the number of followers userID has
func (s *graphService) FollowerCount(ctx context.Context, userID string) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, NewValidationError("userId", "user id is required")
	}
	return s.repo.CountFollowers(ctx, userID)
}

func validateEdge(followerID, followeeID string) error {
	if strings.TrimSpace(followerID) == "" {
		return NewValidationError("followerId", "follower id is required")
	}
	if len(followerID) > maxUserIDLen {
		return NewValidationError("followerId", fmt.Sprintf("follower id must not exceed %d characters", maxUserIDLen))
	}
	if strings.TrimSpace(followeeID) == "" {
		return NewValidationError("followeeId", "followee id is required")
	}
	if len(followeeID) > maxUserIDLen {
		return NewValidationError("followeeId", fmt.Sprintf("followee id must not exceed %d characters", maxUserIDLen))
	}
	if followerID == followeeID {
		return ErrSelfFollow
	}
	return nil
}
