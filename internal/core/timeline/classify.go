package timeline

import (
	"context"
	"fmt"
)

// Classifier decides push vs pull for an author from their live
// follower count. The rule is inclusive at the boundary: a count at or
// above the threshold is celebrity, strictly below is ordinary.
// Classification is computed on demand every time because follower
// counts move; nothing here is cached.
type Classifier struct {
	graph     FollowGraph
	threshold int
}

// NewClassifier creates a classifier with the given celebrity threshold
func NewClassifier(graph FollowGraph, threshold int) *Classifier {
	return &Classifier{
		graph:     graph,
		threshold: threshold,
	}
}

// Classify returns the author's class from their current follower count
func (c *Classifier) Classify(ctx context.Context, authorID string) (AuthorClass, error) {
	count, err := c.graph.CountFollowers(ctx, authorID)
	if err != nil {
		return ClassOrdinary, fmt.Errorf("failed to count followers of %s: %w", authorID, err)
	}
	return c.classOf(count), nil
}

// ClassifyAll classifies several authors with one batched count query.
// Authors the graph does not report have zero followers and come back
// ordinary.
func (c *Classifier) ClassifyAll(ctx context.Context, authorIDs []string) (map[string]AuthorClass, error) {
	if len(authorIDs) == 0 {
		return map[string]AuthorClass{}, nil
	}

	counts, err := c.graph.CountFollowersBatch(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}

	classes := make(map[string]AuthorClass, len(authorIDs))
	for _, id := range authorIDs {
		classes[id] = c.classOf(counts[id])
	}
	return classes, nil
}

func (c *Classifier) classOf(followerCount int) AuthorClass {
	if followerCount >= c.threshold {
		return ClassCelebrity
	}
	return ClassOrdinary
}
