// Package ratelimit provides pure fixed-window rate limiting logic.
// All functions are deterministic - same input always produces same output.
package ratelimit

import "time"

// Entry represents the counter state for one client key (value type).
type Entry struct {
	Count     int       // Requests seen in the current window
	ResetTime time.Time // When the current window expires
}

// Info is the read-only view of an active window (value type).
type Info struct {
	Remaining int       // Requests left before the limit trips
	ResetTime time.Time // When the window resets
}

// Active reports whether the entry represents a live window at time now.
func (e Entry) Active(now time.Time) bool {
	return !e.ResetTime.IsZero() && !now.After(e.ResetTime)
}

// Check performs a fixed-window rate limit check.
// This is a PURE function - no side effects, deterministic.
//
// Parameters:
//   - e: current entry state (zero value means no prior requests)
//   - limit: maximum requests allowed per window
//   - window: window duration
//   - now: current timestamp
//
// Returns:
//   - allowed: whether this request may proceed
//   - next: updated state (caller must persist; unchanged when denied)
func Check(e Entry, limit int, window time.Duration, now time.Time) (allowed bool, next Entry) {
	if !e.Active(now) {
		// First request, or the stored window has lapsed: open a fresh one.
		return true, Entry{Count: 1, ResetTime: now.Add(window)}
	}

	if e.Count >= limit {
		// Over budget. The entry is returned untouched so the window
		// keeps its original reset time.
		return false, e
	}

	e.Count++
	return true, e
}

// Remaining computes how many requests are left in the window, never negative.
// This is a PURE function.
func Remaining(e Entry, limit int) int {
	r := limit - e.Count
	if r < 0 {
		return 0
	}
	return r
}

// Describe returns display information for an active window.
// ok is false when the key has no live window (nothing to report).
// This is a PURE function.
func Describe(e Entry, limit int, now time.Time) (Info, bool) {
	if !e.Active(now) {
		return Info{}, false
	}
	return Info{Remaining: Remaining(e, limit), ResetTime: e.ResetTime}, true
}
