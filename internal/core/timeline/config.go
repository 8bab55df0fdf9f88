package timeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config validation errors
var (
	// ErrInvalidThreshold is returned when CelebrityThreshold is not positive
	ErrInvalidThreshold = errors.New("CelebrityThreshold must be positive")
	// ErrInvalidCapacity is returned when CacheCapacity is not positive
	ErrInvalidCapacity = errors.New("CacheCapacity must be positive")
	// ErrInvalidTTL is returned when CacheTTL is not positive
	ErrInvalidTTL = errors.New("CacheTTL must be positive")
	// ErrInvalidMaxRecords is returned when CacheMaxRecords is not positive
	ErrInvalidMaxRecords = errors.New("CacheMaxRecords must be positive")
	// ErrInvalidConcurrency is returned when a concurrency bound is not positive
	ErrInvalidConcurrency = errors.New("concurrency bounds must be positive")
	// ErrInvalidTimeout is returned when a per-operation timeout is not positive
	ErrInvalidTimeout = errors.New("per-operation timeouts must be positive")
)

// Config holds the tuning knobs for fan-out and feed assembly.
type Config struct {
	// CelebrityThreshold is the follower count at which an author stops
	// being pushed and is served via the pull path instead. The rule is
	// inclusive: a count equal to the threshold is already celebrity.
	CelebrityThreshold int

	// CacheCapacity is the maximum number of entries per user record.
	CacheCapacity int

	// CacheTTL is how long a primed record stays trusted.
	CacheTTL time.Duration

	// CacheMaxRecords bounds the number of user records held in memory;
	// the least recently used record is evicted past this.
	CacheMaxRecords int

	// FanoutConcurrency bounds concurrent per-follower deliveries.
	FanoutConcurrency int

	// FanoutTimeout is the budget for delivering to one follower.
	FanoutTimeout time.Duration

	// PullConcurrency bounds concurrent followee pulls within one read.
	PullConcurrency int

	// PullTimeout is the budget for pulling one followee's posts.
	PullTimeout time.Duration
}

// Validate checks the configuration for invalid values.
// Returns nil if the configuration is valid, or an error describing the problem.
func (c Config) Validate() error {
	if c.CelebrityThreshold <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, c.CelebrityThreshold)
	}
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c.CacheCapacity)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTTL, c.CacheTTL)
	}
	if c.CacheMaxRecords <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxRecords, c.CacheMaxRecords)
	}
	if c.FanoutConcurrency <= 0 {
		return fmt.Errorf("%w: FanoutConcurrency got %d", ErrInvalidConcurrency, c.FanoutConcurrency)
	}
	if c.PullConcurrency <= 0 {
		return fmt.Errorf("%w: PullConcurrency got %d", ErrInvalidConcurrency, c.PullConcurrency)
	}
	if c.FanoutTimeout <= 0 {
		return fmt.Errorf("%w: FanoutTimeout got %v", ErrInvalidTimeout, c.FanoutTimeout)
	}
	if c.PullTimeout <= 0 {
		return fmt.Errorf("%w: PullTimeout got %v", ErrInvalidTimeout, c.PullTimeout)
	}
	return nil
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		CelebrityThreshold: 1_000_000,
		CacheCapacity:      100,
		CacheTTL:           15 * time.Minute,
		CacheMaxRecords:    100_000,
		FanoutConcurrency:  64,
		FanoutTimeout:      2 * time.Second,
		PullConcurrency:    16,
		PullTimeout:        2 * time.Second,
	}
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - TIMELINE_CELEBRITY_THRESHOLD: follower count at which push stops (default: 1000000)
//   - TIMELINE_CACHE_CAPACITY: entries per user record (default: 100)
//   - TIMELINE_CACHE_TTL_MINUTES: minutes a primed record stays trusted (default: 15)
//   - TIMELINE_CACHE_MAX_RECORDS: user records held before LRU eviction (default: 100000)
//   - TIMELINE_FANOUT_CONCURRENCY: concurrent fan-out deliveries (default: 64)
//   - TIMELINE_FANOUT_TIMEOUT_MS: per-follower delivery budget in ms (default: 2000)
//   - TIMELINE_PULL_CONCURRENCY: concurrent followee pulls per read (default: 16)
//   - TIMELINE_PULL_TIMEOUT_MS: per-followee pull budget in ms (default: 2000)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TIMELINE_CELEBRITY_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CelebrityThreshold = n
		} else {
			slog.Warn("invalid TIMELINE_CELEBRITY_THRESHOLD value, using default",
				"value", v,
				"default", cfg.CelebrityThreshold,
				"error", err,
			)
		}
	}

	if v := os.Getenv("TIMELINE_CACHE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheCapacity = n
		} else {
			slog.Warn("invalid TIMELINE_CACHE_CAPACITY value, using default",
				"value", v,
				"default", cfg.CacheCapacity,
				"error", err,
			)
		}
	}

	if v := os.Getenv("TIMELINE_CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTL = time.Duration(n) * time.Minute
		} else {
			slog.Warn("invalid TIMELINE_CACHE_TTL_MINUTES value, using default",
				"value", v,
				"default_minutes", int(cfg.CacheTTL.Minutes()),
				"error", err,
			)
		}
	}

	if v := os.Getenv("TIMELINE_CACHE_MAX_RECORDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheMaxRecords = n
		} else {
			slog.Warn("invalid TIMELINE_CACHE_MAX_RECORDS value, using default",
				"value", v,
				"default", cfg.CacheMaxRecords,
				"error", err,
			)
		}
	}

	if v := os.Getenv("TIMELINE_FANOUT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FanoutConcurrency = n
		} else {
			slog.Warn("invalid TIMELINE_FANOUT_CONCURRENCY value, using default",
				"value", v,
				"default", cfg.FanoutConcurrency,
				"error", err,
			)
		}
	}

	if v := os.Getenv("TIMELINE_FANOUT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FanoutTimeout = time.Duration(n) * time.Millisecond
		} else {
			slog.Warn("invalid TIMELINE_FANOUT_TIMEOUT_MS value, using default",
				"value", v,
				"default_ms", cfg.FanoutTimeout.Milliseconds(),
				"error", err,
			)
		}
	}

	if v := os.Getenv("TIMELINE_PULL_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PullConcurrency = n
		} else {
			slog.Warn("invalid TIMELINE_PULL_CONCURRENCY value, using default",
				"value", v,
				"default", cfg.PullConcurrency,
				"error", err,
			)
		}
	}

	if v := os.Getenv("TIMELINE_PULL_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PullTimeout = time.Duration(n) * time.Millisecond
		} else {
			slog.Warn("invalid TIMELINE_PULL_TIMEOUT_MS value, using default",
				"value", v,
				"default_ms", cfg.PullTimeout.Milliseconds(),
				"error", err,
			)
		}
	}

	return cfg
}
