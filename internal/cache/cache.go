// Package cache implements the per-node result cache spec §4.8
// describes: entries keyed by region, invalidated synchronously on
// overlap, with a dont_cache escape hatch for subtrees that should never
// be cached (e.g. operations with side effects).
package cache

import (
	"sync"

	"github.com/smilemakc/gegraph/internal/domain"
)

type entry struct {
	region domain.Rectangle
	format string
	buf    domain.Buffer
}

// Cache is a straightforward region-indexed implementation of
// domain.Cache. Unlike a real tiled store it does not decompose regions
// into fixed tiles; it tracks whichever regions were actually produced
// and still satisfies the cache's core invariant: after Invalidate(R),
// any Get overlapping R misses until recomputed.
type Cache struct {
	mu        sync.Mutex
	entries   []entry
	dontCache bool
}

func New() *Cache {
	return &Cache{}
}

// Get returns a buffer iff some cached entry's region fully contains the
// requested region and matches format exactly.
func (c *Cache) Get(region domain.Rectangle, format string) (domain.Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dontCache {
		return nil, false
	}
	for _, e := range c.entries {
		if e.format == format && e.region.Contains(region) {
			return e.buf, true
		}
	}
	return nil, false
}

func (c *Cache) Put(region domain.Rectangle, format string, buf domain.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dontCache || region.IsEmpty() {
		return
	}
	c.entries = append(c.entries, entry{region: region, format: format, buf: buf})
}

// Invalidate drops every entry overlapping region, so a subsequent Get
// covering that area misses and must be recomputed.
func (c *Cache) Invalidate(region domain.Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if region.IsEmpty() {
		return
	}
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.region.Overlaps(region) {
			continue
		}
		kept = append(kept, e)
	}
	c.entries = kept
}

func (c *Cache) SetDontCache(dont bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dontCache = dont
	if dont {
		c.entries = nil
	}
}

func (c *Cache) DontCache() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dontCache
}
