package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// record is one user's cached timeline. Entries are kept in feed order
// (newest first). primed flips to true the first time a full feed is
// written; until then the record only holds whatever fan-out pushed
// after it appeared, which is not a complete feed and must not be
// served as one.
type record struct {
	mu        sync.RWMutex
	entries   []Entry
	expiresAt time.Time
	primed    bool
}

// insert places entry at its feed-order position and trims to capacity.
// Re-inserting a post id already present is a no-op, which makes
// fan-out redelivery safe. Caller holds r.mu.
func (r *record) insert(entry Entry, capacity int) {
	for _, e := range r.entries {
		if e.PostID == entry.PostID {
			return
		}
	}

	// Almost always position 0; concurrent posts can land slightly out
	// of creation order, so find the spot instead of assuming the head.
	i := sort.Search(len(r.entries), func(i int) bool {
		return feedBefore(entry, r.entries[i])
	})
	r.entries = append(r.entries, Entry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = entry

	if len(r.entries) > capacity {
		r.entries = r.entries[:capacity]
	}
}

// MemoryCache is the in-process timeline cache. Records are bounded two
// ways: each record holds at most capacity entries, and the record set
// itself is an LRU so memory stays flat no matter how many users read
// feeds. Expiry is checked lazily on Get; nothing sweeps in the
// background.
type MemoryCache struct {
	records  *lru.Cache[string, *record]
	capacity int
	ttl      time.Duration
	logger   *slog.Logger
}

// NewMemoryCache creates a timeline cache holding up to maxRecords user
// records of capacity entries each, trusted for ttl after priming.
func NewMemoryCache(capacity int, ttl time.Duration, maxRecords int, logger *slog.Logger) (*MemoryCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	records, err := lru.NewWithEvict[string, *record](maxRecords, func(string, *record) {
		cacheEvictionsTotal.Inc()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create record store: %w", err)
	}
	return &MemoryCache{
		records:  records,
		capacity: capacity,
		ttl:      ttl,
		logger:   logger,
	}, nil
}

// getOrCreate returns the user's record, creating an unprimed one if
// needed. PeekOrAdd resolves the race where two fan-out workers create
// the same record at once.
func (c *MemoryCache) getOrCreate(userID string) *record {
	if rec, ok := c.records.Get(userID); ok {
		return rec
	}
	fresh := &record{expiresAt: time.Now().Add(c.ttl)}
	if prev, ok, _ := c.records.PeekOrAdd(userID, fresh); ok {
		return prev
	}
	cacheRecords.Set(float64(c.records.Len()))
	return fresh
}

// Insert places entry into userID's timeline, creating the record when
// absent. A record created this way starts unprimed: it accepts pushes
// but Get reports it stale until a Prime writes a complete feed.
//
// The in-memory store cannot block, so honoring the context amounts to
// refusing work once the caller has given up.
func (c *MemoryCache) Insert(ctx context.Context, userID string, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec := c.getOrCreate(userID)
	rec.mu.Lock()
	rec.insert(entry, c.capacity)
	rec.mu.Unlock()

	return nil
}

// Get returns a snapshot of userID's timeline and how far it can be
// trusted. The snapshot is a copy; callers may keep it without holding
// any lock. Expired and unprimed records are reported stale rather than
// deleted, so their entries can still seed the next Prime.
func (c *MemoryCache) Get(ctx context.Context, userID string) ([]Entry, State, error) {
	if err := ctx.Err(); err != nil {
		return nil, StateAbsent, err
	}

	rec, ok := c.records.Get(userID)
	if !ok {
		cacheRequestsTotal.WithLabelValues(StateAbsent.String()).Inc()
		return nil, StateAbsent, nil
	}

	rec.mu.RLock()
	state := StateStale
	if rec.primed && time.Now().Before(rec.expiresAt) {
		state = StateFresh
	}
	snapshot := make([]Entry, len(rec.entries))
	copy(snapshot, rec.entries)
	rec.mu.RUnlock()

	cacheRequestsTotal.WithLabelValues(state.String()).Inc()
	return snapshot, state, nil
}

// Prime installs a freshly assembled feed for userID and restarts the
// TTL. Entries pushed into the record after asOf are folded into the
// incoming feed so a post fanned out mid-assembly cannot be lost; the
// record's older contents are discarded, which is how entries for
// deleted posts leave the cache once the record regenerates.
func (c *MemoryCache) Prime(ctx context.Context, userID string, entries []Entry, asOf time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec := c.getOrCreate(userID)
	rec.mu.Lock()
	var pushed []Entry
	for _, e := range rec.entries {
		if e.InsertedAt.After(asOf) {
			pushed = append(pushed, e)
		}
	}
	rec.entries = mergeEntries(entries, pushed, c.capacity)
	rec.primed = true
	rec.expiresAt = time.Now().Add(c.ttl)
	rec.mu.Unlock()

	c.logger.Debug("timeline primed",
		"user", userID,
		"entries", len(entries),
		"ttl", c.ttl)
	return nil
}

// Invalidate drops userID's record entirely. The next read sees an
// absent record and regenerates from the pull path.
func (c *MemoryCache) Invalidate(userID string) {
	c.records.Remove(userID)
	cacheRecords.Set(float64(c.records.Len()))

	c.logger.Debug("timeline invalidated", "user", userID)
}

// Size returns the number of user records currently held
func (c *MemoryCache) Size() int {
	return c.records.Len()
}
