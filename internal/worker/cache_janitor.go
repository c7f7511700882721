package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper drops expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// CacheJanitor periodically evicts expired dashboard pages.
type CacheJanitor struct {
	cache    Sweeper
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewCacheJanitor constructs a janitor sweeping cache every interval.
func NewCacheJanitor(cache Sweeper, interval time.Duration, logger *slog.Logger) *CacheJanitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &CacheJanitor{
		cache:    cache,
		interval: interval,
		logger:   logger,
	}
}

// Start launches background sweeping. Calling Start twice is a no-op.
func (j *CacheJanitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go j.run(runCtx)
}

// Stop cancels sweeping and waits for the loop to exit.
func (j *CacheJanitor) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *CacheJanitor) run(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := j.cache.Sweep(); removed > 0 {
				j.logger.Debug("expired pages swept", slog.Int("removed", removed))
			}
		}
	}
}
