// Package ratelimit implements sliding-window rate limiting for the public
// HTTP surface.
package ratelimit

import (
	"context"
	"time"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig defines per-endpoint rate limit configuration, attached to
// operations via the Metadata field. The webhook endpoint disables limiting:
// its traffic comes from Telegram's servers and is gated by the secret token
// instead.
type EndpointConfig struct {
	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// Store defines the interface for rate limit data storage.
type Store interface {
	// Record records a request and returns the count of requests in the
	// current window. It automatically prunes expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow checks if a request from the given key should be allowed.
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// SlidingWindowLimiter implements rate limiting using a sliding window algorithm.
type SlidingWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(store Store, limit int64, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Record(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.limit, nil
}
