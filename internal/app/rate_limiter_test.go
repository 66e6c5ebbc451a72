package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *testClock {
	return &testClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestRateLimiter_EleventhRequestDenied(t *testing.T) {
	clock := newClock()
	rl := NewRateLimiter(10, 60000*time.Millisecond).WithClock(clock.Now)

	for i := range 10 {
		assert.True(t, rl.IsAllowed("a", 10, time.Minute), "request %d", i+1)
	}
	assert.False(t, rl.IsAllowed("a", 10, time.Minute))
	assert.True(t, rl.IsAllowed("b", 10, time.Minute), "other ids are independent")

	clock.Advance(time.Minute)
	assert.False(t, rl.IsAllowed("a", 10, time.Minute), "window still open at its reset instant")

	clock.Advance(time.Millisecond)
	assert.True(t, rl.IsAllowed("a", 10, time.Minute))
}

func TestRateLimiter_BurstAnywhereInWindow(t *testing.T) {
	clock := newClock()
	rl := NewRateLimiter(3, 10*time.Second).WithClock(clock.Now)

	require.True(t, rl.Allow("a"))
	clock.Advance(9 * time.Second)
	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiter_Remaining(t *testing.T) {
	clock := newClock()
	rl := NewRateLimiter(5, time.Second).WithClock(clock.Now)

	assert.Equal(t, 5, rl.Remaining("a"))
	rl.Allow("a")
	rl.Allow("a")
	assert.Equal(t, 3, rl.Remaining("a"))

	for range 10 {
		rl.Allow("a")
	}
	assert.Equal(t, 0, rl.Remaining("a"))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 5, rl.Remaining("a"))
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))

	rl.Reset("a")
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	clock := newClock()
	rl := NewRateLimiter(10, time.Second).WithClock(clock.Now)
	rl.Allow("old")
	clock.Advance(2 * time.Second)
	rl.Allow("fresh")

	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Len())
	assert.Equal(t, 9, rl.Remaining("fresh"))
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	assert.Equal(t, DefaultMaxRequests, rl.Max())
	assert.Equal(t, DefaultRateWindow, rl.Window())
}

func TestRateLimiter_RunReclaims(t *testing.T) {
	clock := newClock()
	rl := NewRateLimiter(10, time.Second).WithClock(clock.Now)
	rl.Allow("a")
	clock.Advance(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rl.Run(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return rl.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(100, time.Hour)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				if rl.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, allowed)
}
