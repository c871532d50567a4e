package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(cfg *Config) (*Limiter, *time.Time) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(cfg)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_DefaultLimit(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  3,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/extractions", "GET")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/extractions", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, info.RetryAfter, 20*time.Second)
}

func TestLimiter_Refill(t *testing.T) {
	limiter, now := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 60; i++ {
		allowed, _ := limiter.Allow("c", "/x", "GET")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("c", "/x", "GET")
	require.False(t, allowed)

	*now = now.Add(time.Second)
	allowed, _ = limiter.Allow("c", "/x", "GET")
	assert.True(t, allowed, "one token refills per second")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("a", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("a", "/x", "GET")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("b", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_EndpointConfig(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/extractions", Method: "POST", Limit: 30, Window: time.Hour, Burst: 2},
			{Path: "/extractions/", Method: "DELETE", Limit: 10, Window: time.Minute, Burst: 1},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("c", "/extractions", "POST")
		require.True(t, allowed)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := limiter.Allow("c", "/extractions", "POST")
	assert.False(t, allowed, "burst of 2 is exhausted")

	// Reads use the default limit
	allowed, info := limiter.Allow("c", "/extractions", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)

	// Prefix routes share one bucket across IDs
	allowed, _ = limiter.Allow("c", "/extractions/one", "DELETE")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/extractions/two", "DELETE")
	assert.False(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("c", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_DisabledWhitelistBlacklist(t *testing.T) {
	disabled, _ := newTestLimiter(&Config{Enabled: false})
	defer disabled.Stop()
	allowed, _ := disabled.Allow("c", "/x", "GET")
	assert.True(t, allowed)

	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/x", "GET")
		assert.True(t, allowed)
	}
	allowed, _ = limiter.Allow("10.0.0.2", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, now := newTestLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})
	defer limiter.Stop()

	limiter.Allow("old", "/x", "GET")
	*now = now.Add(2 * time.Hour)
	limiter.Allow("new", "/x", "GET")

	limiter.cleanupBuckets(now.Add(-idleBucketTTL))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "new:GET:/x")
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("c", "/x", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowedCount)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	match := MatchEndpoint("/extractions", "POST", configs)
	require.NotNil(t, match)
	assert.Equal(t, "/extractions", match.Path)

	match = MatchEndpoint("/extractions/abc", "DELETE", configs)
	require.NotNil(t, match)
	assert.Equal(t, "/extractions/", match.Path)

	assert.Nil(t, MatchEndpoint("/extractions/abc", "GET", configs))

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Zero(t, health.Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")
	t.Setenv("RATE_LIMIT_EXTRACT_LIMIT", "7")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.True(t, cfg.Whitelist["10.0.0.2"])
	require.NotEmpty(t, cfg.EndpointConfigs)
	assert.Equal(t, 7, cfg.EndpointConfigs[0].Limit)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
