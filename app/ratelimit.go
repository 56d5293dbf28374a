package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/domain/ratelimit"
	"github.com/marvilon/leadgate/ports"
)

// RateLimitService wraps a rate-limit store with a sweeping lifecycle.
// It is a process-scoped service object: construct it, Start the sweeper,
// Stop it on shutdown. No package-level state.
type RateLimitService struct {
	store      ports.RateLimitStore
	clock      ports.Clock
	logger     zerolog.Logger
	sweepEvery time.Duration

	onSweep func(removed int) // optional metrics hook

	mu      sync.Mutex
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewRateLimitService creates a rate limit service.
// sweepEvery controls how often expired entries are purged; zero or negative
// disables the background sweep.
func NewRateLimitService(store ports.RateLimitStore, clock ports.Clock, logger zerolog.Logger, sweepEvery time.Duration) *RateLimitService {
	return &RateLimitService{
		store:      store,
		clock:      clock,
		logger:     logger,
		sweepEvery: sweepEvery,
	}
}

// OnSweep registers a callback invoked with the entry count removed by each
// sweep. Call before Start.
func (s *RateLimitService) OnSweep(fn func(removed int)) {
	s.onSweep = fn
}

// Allow checks and consumes one request slot for key under the given budget.
func (s *RateLimitService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return s.store.Incr(ctx, key, limit, window, s.clock.Now())
}

// Info reports the remaining budget for key, or ok=false when the key has
// no active window.
func (s *RateLimitService) Info(ctx context.Context, key string, limit int) (ratelimit.Info, bool, error) {
	return s.store.Info(ctx, key, limit, s.clock.Now())
}

// Start launches the background sweep goroutine. Safe to call once.
func (s *RateLimitService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.sweepEvery <= 0 {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop terminates the sweep goroutine and waits for it to exit.
func (s *RateLimitService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// Sweep removes expired entries immediately (exposed for tests and admin use).
func (s *RateLimitService) Sweep(ctx context.Context) (int, error) {
	return s.store.Sweep(ctx, s.clock.Now())
}

func (s *RateLimitService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	removed, err := s.store.Sweep(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("rate limit sweep failed")
		return
	}
	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Msg("swept expired rate limit entries")
	}
	if s.onSweep != nil {
		s.onSweep(removed)
	}
}
