package ratelimit

import (
	"testing"
	"time"
)

func TestCheck_FirstRequestOpensWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	allowed, next := Check(Entry{}, 3, time.Hour, now)

	if !allowed {
		t.Fatal("first request should be allowed")
	}
	if next.Count != 1 {
		t.Errorf("Count = %d, want 1", next.Count)
	}
	if !next.ResetTime.Equal(now.Add(time.Hour)) {
		t.Errorf("ResetTime = %v, want %v", next.ResetTime, now.Add(time.Hour))
	}
}

func TestCheck_ExactlyLimitAllowedPerWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	const limit = 3

	var e Entry
	for i := 0; i < limit; i++ {
		allowed, next := Check(e, limit, time.Hour, now)
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		e = next
	}

	// Everything past the limit inside the same window is denied.
	for i := 0; i < 5; i++ {
		allowed, next := Check(e, limit, time.Hour, now.Add(time.Minute))
		if allowed {
			t.Fatalf("request past limit should be denied (attempt %d)", i+1)
		}
		if next != e {
			t.Error("denied request must not mutate the entry")
		}
	}
}

func TestCheck_WindowExpiryResets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e := Entry{Count: 3, ResetTime: now.Add(time.Hour)}

	allowed, _ := Check(e, 3, time.Hour, now)
	if allowed {
		t.Fatal("request at limit should be denied")
	}

	later := now.Add(time.Hour + time.Second)
	allowed, next := Check(e, 3, time.Hour, later)
	if !allowed {
		t.Fatal("request after reset should be allowed")
	}
	if next.Count != 1 {
		t.Errorf("Count = %d, want 1 in fresh window", next.Count)
	}
	if !next.ResetTime.Equal(later.Add(time.Hour)) {
		t.Errorf("fresh window ResetTime = %v, want %v", next.ResetTime, later.Add(time.Hour))
	}
}

func TestRemaining_NeverNegative(t *testing.T) {
	cases := []struct {
		count, limit, want int
	}{
		{0, 3, 3},
		{1, 3, 2},
		{3, 3, 0},
		{7, 3, 0},
	}
	for _, tc := range cases {
		got := Remaining(Entry{Count: tc.count}, tc.limit)
		if got != tc.want {
			t.Errorf("Remaining(count=%d, limit=%d) = %d, want %d", tc.count, tc.limit, got, tc.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reset := now.Add(30 * time.Minute)

	info, ok := Describe(Entry{Count: 2, ResetTime: reset}, 3, now)
	if !ok {
		t.Fatal("expected info for active window")
	}
	if info.Remaining != 1 {
		t.Errorf("Remaining = %d, want 1", info.Remaining)
	}
	if !info.ResetTime.Equal(reset) {
		t.Errorf("ResetTime = %v, want %v", info.ResetTime, reset)
	}

	if _, ok := Describe(Entry{}, 3, now); ok {
		t.Error("zero entry should report no active window")
	}

	expired := Entry{Count: 2, ResetTime: now.Add(-time.Minute)}
	if _, ok := Describe(expired, 3, now); ok {
		t.Error("expired entry should report no active window")
	}
}
