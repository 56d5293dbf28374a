// Package memory provides in-memory implementations of storage ports.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/marvilon/leadgate/domain/ratelimit"
	"github.com/marvilon/leadgate/ports"
)

// RateLimitStore is an in-memory implementation of ports.RateLimitStore.
// The whole check-and-increment runs under one lock, so two concurrent
// requests for the same key cannot both claim the last slot of a window.
// State lives in process memory only; a restart resets all counters.
type RateLimitStore struct {
	mu      sync.Mutex
	entries map[string]ratelimit.Entry
}

// NewRateLimitStore creates a new in-memory rate limit store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		entries: make(map[string]ratelimit.Entry),
	}
}

// Incr runs a fixed-window check for key, recording the request when allowed.
func (s *RateLimitStore) Incr(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, next := ratelimit.Check(s.entries[key], limit, window, now)
	if allowed {
		s.entries[key] = next
	}
	return allowed, nil
}

// Info reports the remaining budget for an active window.
func (s *RateLimitStore) Info(ctx context.Context, key string, limit int, now time.Time) (ratelimit.Info, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := ratelimit.Describe(s.entries[key], limit, now)
	return info, ok, nil
}

// Sweep drops every entry whose window has passed.
func (s *RateLimitStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !e.Active(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live entries (for tests and diagnostics).
func (s *RateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Ensure interface compliance.
var _ ports.RateLimitStore = (*RateLimitStore)(nil)
