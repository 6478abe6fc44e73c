package photos

import (
	"sync"
	"time"

	"github.com/evergreenbyte/keepsake/internal/media"
)

const defaultListingTTL = 5 * time.Minute

// ListingCacheConfig supplies the cache's time bounds.
type ListingCacheConfig struct {
	TTL   time.Duration
	Clock func() time.Time
}

// ListingCache is a single-slot, time-boxed snapshot of the full photo
// listing. It is not keyed per query: every page request shares the one
// underlying full-listing snapshot. Uploads invalidate it.
type ListingCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	clock     func() time.Time
	snapshot  []media.Asset
	fetchedAt time.Time
	populated bool
}

// NewListingCache constructs an empty cache.
func NewListingCache(cfg ListingCacheConfig) *ListingCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultListingTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ListingCache{ttl: ttl, clock: clock}
}

// Get returns the cached listing while it is younger than the TTL.
func (c *ListingCache) Get() ([]media.Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.populated || c.clock().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

// Set replaces the snapshot and restarts the TTL window.
func (c *ListingCache) Set(assets []media.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = assets
	c.fetchedAt = c.clock()
	c.populated = true
}

// Invalidate drops the snapshot so the next Get misses.
func (c *ListingCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.populated = false
}
