package app

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/ephero/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxRequests     = 10
	DefaultRateWindow      = time.Minute
	DefaultCleanupInterval = time.Minute
)

type rateEntry struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window counter per connection: up to max requests
// anywhere in a window, then denied until the window rolls over.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[domain.ConnID]*rateEntry
	max     int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{
		entries: make(map[domain.ConnID]*rateEntry),
		max:     limit,
		window:  window,
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	rl.now = now
	return rl
}

func (rl *RateLimiter) Max() int              { return rl.max }
func (rl *RateLimiter) Window() time.Duration { return rl.window }

// Allow applies the configured limit.
func (rl *RateLimiter) Allow(id domain.ConnID) bool {
	return rl.IsAllowed(id, rl.max, rl.window)
}

func (rl *RateLimiter) IsAllowed(id domain.ConnID, limit int, window time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.entries[id]
	if !ok || now.After(e.resetAt) {
		rl.entries[id] = &rateEntry{count: 1, resetAt: now.Add(window)}
		return true
	}
	if e.count >= limit {
		return false
	}
	e.count++
	return true
}

// Remaining is the number of requests left in the current window.
func (rl *RateLimiter) Remaining(id domain.ConnID) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	e, ok := rl.entries[id]
	if !ok || rl.now().After(e.resetAt) {
		return rl.max
	}
	return max(0, rl.max-e.count)
}

func (rl *RateLimiter) Reset(id domain.ConnID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.entries, id)
}

// Cleanup reclaims entries whose window has already passed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	n := 0
	for id, e := range rl.entries {
		if now.After(e.resetAt) {
			delete(rl.entries, id)
			n++
		}
	}
	return n
}

func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// Run calls Cleanup every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(); n > 0 {
				log.Debug().Str("module", "app.ratelimit").Int("reclaimed", n).Msg("rate limit entries cleaned")
			}
		}
	}
}
