package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, config *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(config)
	limiter.now = clock.Now
	t.Cleanup(limiter.Stop)
	return limiter, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	// 10 per minute refills one token every 6s
	assert.InDelta(t, 6*time.Second, info.RetryAfter, float64(time.Millisecond))
	assert.True(t, info.ResetTime.After(limiter.now()))
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})

	for i := 0; i < 60; i++ {
		limiter.Allow("c", "/x", "GET")
	}
	allowed, _ := limiter.Allow("c", "/x", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = limiter.Allow("c", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/test", "GET")
		assert.True(t, allowed)
	}

	allowed, _ := limiter.Allow("10.0.0.2", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, limiter.bucketCount())
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("c", "/v1/feedback", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})

	// Feedback generation allows a burst of five
	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("c", "/v1/feedback", "POST")
		require.True(t, allowed)
		assert.Equal(t, 20, info.Limit)
	}
	allowed, _ := limiter.Allow("c", "/v1/feedback", "POST")
	assert.False(t, allowed)

	// Reads of the same path use the default bucket
	allowed, info := limiter.Allow("c", "/v1/feedback", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	// Health is unlimited
	allowed, info = limiter.Allow("c", "/health", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 0, info.Limit)
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("shared", "/test", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestLimiter_SeparateClients(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow(fmt.Sprintf("client-%d", i), "/test", "GET")
		assert.True(t, allowed)
	}
	assert.Equal(t, 3, limiter.bucketCount())
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	limiter.Allow("old", "/test", "GET")
	clock.Advance(30 * time.Minute)
	limiter.Allow("recent", "/test", "GET")
	clock.Advance(31 * time.Minute)

	limiter.cleanupBuckets()
	assert.Equal(t, 1, limiter.bucketCount())
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "30")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_CLEANUP_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "192.168.1.9")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, config.Enabled)
	assert.Equal(t, 30, config.DefaultLimit)
	assert.Equal(t, 30*time.Second, config.DefaultWindow)
	assert.Equal(t, time.Minute, config.CleanupInterval)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, config.Whitelist)
	assert.True(t, config.Blacklist["192.168.1.9"])
	assert.NotEmpty(t, config.EndpointConfigs)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, config.Enabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "1m")

	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "lots")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "0")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "RATE_LIMIT_DEFAULT_LIMIT")
}
