package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/marvilon/leadgate/adapters/memory"
)

func TestRateLimitStore_WindowSequence(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// First three requests pass, everything after is denied.
	for i := 0; i < 3; i++ {
		allowed, err := store.Incr(ctx, "1.2.3.4", 3, time.Hour, now)
		if err != nil {
			t.Fatalf("Incr failed: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	for i := 0; i < 4; i++ {
		allowed, _ := store.Incr(ctx, "1.2.3.4", 3, time.Hour, now.Add(time.Minute))
		if allowed {
			t.Fatalf("request past limit allowed (attempt %d)", i+1)
		}
	}

	// A different key has its own budget.
	if allowed, _ := store.Incr(ctx, "5.6.7.8", 3, time.Hour, now); !allowed {
		t.Error("separate key should not share the window")
	}

	// After the window expires the key resets.
	if allowed, _ := store.Incr(ctx, "1.2.3.4", 3, time.Hour, now.Add(2*time.Hour)); !allowed {
		t.Error("request after window expiry should be allowed")
	}
}

func TestRateLimitStore_Info(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, ok, _ := store.Info(ctx, "k", 3, now); ok {
		t.Error("no window yet, Info should report ok=false")
	}

	store.Incr(ctx, "k", 3, time.Hour, now)
	info, ok, err := store.Info(ctx, "k", 3, now.Add(time.Minute))
	if err != nil || !ok {
		t.Fatalf("Info: ok=%v err=%v", ok, err)
	}
	if info.Remaining != 2 {
		t.Errorf("Remaining = %d, want 2", info.Remaining)
	}
	if !info.ResetTime.Equal(now.Add(time.Hour)) {
		t.Errorf("ResetTime = %v, want %v", info.ResetTime, now.Add(time.Hour))
	}
}

func TestRateLimitStore_Sweep(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store.Incr(ctx, "old", 3, time.Minute, now)
	store.Incr(ctx, "live", 3, time.Hour, now)

	removed, err := store.Sweep(ctx, now.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}

	// A swept key starts a fresh window, same as an expired one.
	if allowed, _ := store.Incr(ctx, "old", 3, time.Minute, now.Add(11*time.Minute)); !allowed {
		t.Error("swept key should open a new window")
	}
}

func TestRateLimitStore_ConcurrentSameKey(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	const limit = 10

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := store.Incr(ctx, "shared", limit, time.Hour, now)
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != limit {
		t.Errorf("allowed %d of 50 concurrent requests, want exactly %d", allowedCount, limit)
	}
}
