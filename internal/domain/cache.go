package domain

// Cache associates (node, region) with a produced Buffer. Implementations
// may or may not decompose regions into tiles; they must guarantee that after
// Invalidate(R), any Get overlapping R misses until recomputed.
type Cache interface {
	Get(region Rectangle, format string) (Buffer, bool)
	Put(region Rectangle, format string, buf Buffer)
	Invalidate(region Rectangle)
	SetDontCache(dont bool)
	DontCache() bool
}
