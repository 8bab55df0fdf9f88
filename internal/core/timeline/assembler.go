package timeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"Roost/internal/core/posts"
)

// Assembler serves home timeline reads. A trusted cache record supplies
// the push contributions and only celebrity followees are pulled; an
// absent, expired, or unprimed record sends the whole read down the
// pull path, after which the result primes the record for later reads.
type Assembler struct {
	cache       Cache
	graph       FollowGraph
	store       PostStore
	classifier  *Classifier
	sem         *semaphore.Weighted
	pullTimeout time.Duration
	capacity    int
	logger      *slog.Logger
}

// NewAssembler creates a timeline assembler. Pull concurrency, the
// per-followee timeout, and the regeneration depth come from cfg.
func NewAssembler(cache Cache, graph FollowGraph, store PostStore, classifier *Classifier, cfg Config, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		cache:       cache,
		graph:       graph,
		store:       store,
		classifier:  classifier,
		sem:         semaphore.NewWeighted(int64(cfg.PullConcurrency)),
		pullTimeout: cfg.PullTimeout,
		capacity:    cfg.CacheCapacity,
		logger:      logger,
	}
}

// GetHomeTimeline returns up to limit posts from the users userID
// follows, newest first, with no duplicate post ids. Reads are best
// effort: an unreachable followee or a cold cache degrades the feed,
// it never fails it. Only invalid input produces an error.
func (a *Assembler) GetHomeTimeline(ctx context.Context, userID string, limit int) (*HomeTimeline, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewValidationError("userId", "user id is required")
	}
	if limit <= 0 {
		return nil, NewValidationError("limit", "limit must be positive")
	}

	start := time.Now()
	tl, source, err := a.assemble(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	assembleDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if tl.Degraded {
		assembleDegradedTotal.Inc()
	}
	return tl, nil
}

func (a *Assembler) assemble(ctx context.Context, userID string, limit int) (*HomeTimeline, string, error) {
	followees, err := a.graph.GetFollowees(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		a.logger.Warn("follow graph unavailable", "user", userID, "error", err)

		// Without the followee set no pull is possible. A trusted
		// record still serves its push contributions; otherwise the
		// read degrades to an empty feed rather than an error.
		cached, state, cerr := a.cache.Get(ctx, userID)
		if cerr == nil && state == StateFresh {
			return &HomeTimeline{Entries: truncate(cached, limit), Degraded: true}, "cache", nil
		}
		return &HomeTimeline{Entries: []Entry{}, Degraded: true}, "pull", nil
	}

	if len(followees) == 0 {
		return &HomeTimeline{Entries: []Entry{}}, "empty", nil
	}

	degraded := false
	cached, state, err := a.cache.Get(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		a.logger.Warn("timeline cache unavailable", "user", userID, "error", err)
		cached, state = nil, StateAbsent
		degraded = true
	}

	if state == StateFresh {
		return a.assembleFromCache(ctx, userID, limit, followees, cached, degraded)
	}
	return a.regenerate(ctx, userID, limit, followees, degraded)
}

// assembleFromCache is the fast path: the record's push contributions
// are trusted, so only celebrity followees need a pull.
func (a *Assembler) assembleFromCache(ctx context.Context, userID string, limit int, followees []string, cached []Entry, degraded bool) (*HomeTimeline, string, error) {
	classes, err := a.classifier.ClassifyAll(ctx, followees)
	if err != nil {
		a.logger.Warn("classification unavailable, serving cache only",
			"user", userID, "error", err)
		return &HomeTimeline{Entries: truncate(cached, limit), Degraded: true}, "cache", nil
	}

	var celebrities []string
	for _, id := range followees {
		if classes[id] == ClassCelebrity {
			celebrities = append(celebrities, id)
		}
	}

	// Celebrity posts were never pushed. Pull them now; on an id
	// collision the pulled copy wins, since the store is authoritative
	// for authors the push path does not track.
	pulled, failed := a.pullMany(ctx, celebrities, limit)
	entries := mergeEntries(pulled, cached, limit)

	return &HomeTimeline{Entries: entries, Degraded: degraded || failed > 0}, "cache", nil
}

// regenerate serves a read that cannot trust the cache: pull every
// followee, merge, and prime the record when the feed came back whole.
func (a *Assembler) regenerate(ctx context.Context, userID string, limit int, followees []string, degraded bool) (*HomeTimeline, string, error) {
	// Pull to cache capacity rather than the request limit so the
	// primed record can answer deeper reads until it expires.
	depth := a.capacity
	if limit > depth {
		depth = limit
	}

	// Pushes landing after this instant are preserved by Prime even
	// though the pulls below cannot see them.
	asOf := time.Now().UTC()

	pulled, failed := a.pullMany(ctx, followees, depth)
	feed := mergeEntries(pulled, nil, 0)

	if failed > 0 {
		// A partial feed is served but never primed; priming it would
		// hide the missing authors' posts until the TTL lapsed.
		degraded = true
	} else if err := a.cache.Prime(ctx, userID, feed, asOf); err != nil {
		a.logger.Warn("failed to prime timeline", "user", userID, "error", err)
	}

	return &HomeTimeline{Entries: truncate(feed, limit), Degraded: degraded}, "pull", nil
}

// pullMany fetches recent posts for each author concurrently under the
// pull concurrency bound and returns the combined entries plus the
// number of authors whose pull failed. Each pull gets its own timeout;
// a failed author simply contributes nothing to this read.
func (a *Assembler) pullMany(ctx context.Context, authorIDs []string, perAuthor int) ([]Entry, int) {
	if len(authorIDs) == 0 {
		return nil, 0
	}

	insertedAt := time.Now().UTC()
	results := make([][]*posts.Post, len(authorIDs))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for i, authorID := range authorIDs {
		if err := a.sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			failed += len(authorIDs) - i
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(i int, authorID string) {
			defer wg.Done()
			defer a.sem.Release(1)

			pctx, cancel := context.WithTimeout(ctx, a.pullTimeout)
			defer cancel()

			recent, err := a.store.ListRecentByAuthor(pctx, authorID, perAuthor)
			if err != nil {
				a.logger.Warn("followee pull failed",
					"author", authorID, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			results[i] = recent
		}(i, authorID)
	}
	wg.Wait()

	var entries []Entry
	for _, recent := range results {
		for _, p := range recent {
			entries = append(entries, entryFromPost(p, insertedAt))
		}
	}
	return entries, failed
}

func truncate(entries []Entry, limit int) []Entry {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		return []Entry{}
	}
	return entries
}
