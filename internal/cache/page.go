package cache

import (
	"log/slog"
	"sync"
	"time"
)

// PageCache keeps rendered dashboard responses keyed by path and query variant.
// Revalidate drops every variant of a path at once and advances the path's
// generation, so renders started before it can no longer be stored.
type PageCache struct {
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	pages map[string]map[string]entry
	gens  map[string]uint64
}

type entry struct {
	body    []byte
	expires time.Time
}

// NewPageCache creates an empty cache whose entries live for ttl.
func NewPageCache(ttl time.Duration, logger *slog.Logger) *PageCache {
	return &PageCache{
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		pages:  make(map[string]map[string]entry),
		gens:   make(map[string]uint64),
	}
}

// Get returns a fresh cached body for path and variant together with the
// path's current generation. On a miss the generation must be passed to Set
// once the page has been rendered.
func (c *PageCache) Get(path, variant string) ([]byte, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	gen := c.gens[path]
	e, ok := c.pages[path][variant]
	if !ok || !c.now().Before(e.expires) {
		return nil, gen, false
	}
	return e.body, gen, true
}

// Set stores body for path and variant unless the path was revalidated after
// gen was taken. It reports whether the body was stored.
func (c *PageCache) Set(path, variant string, gen uint64, body []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[path] != gen {
		return false
	}

	variants, ok := c.pages[path]
	if !ok {
		variants = make(map[string]entry)
		c.pages[path] = variants
	}
	variants[variant] = entry{body: body, expires: c.now().Add(c.ttl)}
	return true
}

// Revalidate marks every cached variant of path as stale.
func (c *PageCache) Revalidate(path string) {
	c.mu.Lock()
	dropped := len(c.pages[path])
	delete(c.pages, path)
	c.gens[path]++
	c.mu.Unlock()

	c.logger.Debug("page revalidated", slog.String("path", path), slog.Int("variants", dropped))
}

// Sweep removes expired entries and returns how many were dropped.
func (c *PageCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for path, variants := range c.pages {
		for variant, e := range variants {
			if !now.Before(e.expires) {
				delete(variants, variant)
				removed++
			}
		}
		if len(variants) == 0 {
			delete(c.pages, path)
		}
	}
	return removed
}

// Len returns the number of cached variants across all paths.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, variants := range c.pages {
		n += len(variants)
	}
	return n
}
