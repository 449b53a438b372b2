package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	// Prune expired entries in place; the backing array is reused across
	// calls, and entries are appended in time order so the first live one
	// marks the boundary.
	timestamps := s.requests[key]
	live := 0

	for live < len(timestamps) && !timestamps[live].After(cutoff) {
		live++
	}

	valid := append(timestamps[:0], timestamps[live:]...)
	valid = append(valid, now)
	s.requests[key] = valid

	return int64(len(valid)), nil
}
