package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"Roost/internal/core/posts"
)

// Engine decides, for each new post, whether to push it into follower
// caches or leave it for the pull path, and executes the push.
// It satisfies posts.FanoutNotifier so the post service can trigger it
// without importing this package's internals.
type Engine struct {
	cache      Cache
	graph      FollowGraph
	classifier *Classifier
	sem        *semaphore.Weighted
	timeout    time.Duration
	logger     *slog.Logger
}

var _ posts.FanoutNotifier = (*Engine)(nil)

// NewEngine creates a fan-out engine. Concurrency and the per-follower
// delivery timeout come from cfg.
func NewEngine(cache Cache, graph FollowGraph, classifier *Classifier, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cache:      cache,
		graph:      graph,
		classifier: classifier,
		sem:        semaphore.NewWeighted(int64(cfg.FanoutConcurrency)),
		timeout:    cfg.FanoutTimeout,
		logger:     logger,
	}
}

// OnPostCreated fans a stored post out to its author's followers.
//
// Ordinary authors get the push model: every follower's cached timeline
// receives an entry, with deliveries dispatched concurrently under the
// engine's concurrency bound. Celebrity authors get no push at all;
// their followers pick the post up through the pull path at read time.
//
// Deliveries are isolated from each other. One follower's failure or
// timeout drops that delivery, is counted and logged, and never stops
// the rest. The returned error aggregates every dropped delivery so the
// caller can report it; the post itself is already stored and remains
// reachable either way.
func (e *Engine) OnPostCreated(ctx context.Context, post *posts.Post) error {
	start := time.Now()
	defer func() {
		fanoutDuration.Observe(time.Since(start).Seconds())
	}()

	// The post is already stored, so fan-out should finish even when
	// the originating request goes away. Per-delivery timeouts below
	// keep the detached work bounded.
	ctx = context.WithoutCancel(ctx)

	class, err := e.classifier.Classify(ctx, post.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to classify author: %w", err)
	}
	fanoutPostsTotal.WithLabelValues(pushPullLabel(class)).Inc()

	if class == ClassCelebrity {
		e.logger.Debug("push skipped for celebrity author",
			"post", post.ID,
			"author", post.AuthorID)
		return nil
	}

	followers, err := e.graph.GetFollowers(ctx, post.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to list followers of %s: %w", post.AuthorID, err)
	}
	if len(followers) == 0 {
		return nil
	}

	entry := entryFromPost(post, time.Now().UTC())

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, followerID := range followers {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("dispatch aborted: %w", err))
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(followerID string) {
			defer wg.Done()
			defer e.sem.Release(1)

			if err := e.deliver(ctx, followerID, entry); err != nil {
				fanoutDeliveriesTotal.WithLabelValues("dropped").Inc()
				e.logger.Warn("fan-out delivery dropped",
					"post", post.ID,
					"follower", followerID,
					"error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("follower %s: %w", followerID, err))
				mu.Unlock()
				return
			}
			fanoutDeliveriesTotal.WithLabelValues("delivered").Inc()
		}(followerID)
	}
	wg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("fan-out of %s dropped %d of %d deliveries: %w",
			post.ID, len(errs), len(followers), errors.Join(errs...))
	}
	return nil
}

// deliver inserts entry into one follower's record under a bounded
// wait. A slow record costs its own timeout, never the whole fan-out;
// the dropped follower sees the post through the pull path once their
// record regenerates.
func (e *Engine) deliver(ctx context.Context, followerID string, entry Entry) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.cache.Insert(ctx, followerID, entry)
}

func pushPullLabel(class AuthorClass) string {
	if class == ClassCelebrity {
		return "pull"
	}
	return "push"
}
