package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/gegraph/internal/buffer"
	"github.com/smilemakc/gegraph/internal/cache"
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
)

func TestCache_MissThenHit(t *testing.T) {
	c := cache.New()
	region := domain.Rectangle{X: 0, Y: 0, Width: 4, Height: 4}

	_, hit := c.Get(region, format.RGBAFloat)
	assert.False(t, hit)

	buf := buffer.New(format.RGBAFloat, region)
	c.Put(region, format.RGBAFloat, buf)

	got, hit := c.Get(region, format.RGBAFloat)
	require.True(t, hit)
	assert.Equal(t, buf.Region(), got.Region())
}

func TestCache_InvalidateDropsOverlapping(t *testing.T) {
	c := cache.New()
	region := domain.Rectangle{X: 0, Y: 0, Width: 4, Height: 4}
	c.Put(region, format.RGBAFloat, buffer.New(format.RGBAFloat, region))

	c.Invalidate(domain.Rectangle{X: 2, Y: 2, Width: 4, Height: 4})

	_, hit := c.Get(region, format.RGBAFloat)
	assert.False(t, hit)
}

func TestCache_InvalidateLeavesDisjointEntries(t *testing.T) {
	c := cache.New()
	r1 := domain.Rectangle{X: 0, Y: 0, Width: 4, Height: 4}
	r2 := domain.Rectangle{X: 100, Y: 100, Width: 4, Height: 4}
	c.Put(r1, format.RGBAFloat, buffer.New(format.RGBAFloat, r1))
	c.Put(r2, format.RGBAFloat, buffer.New(format.RGBAFloat, r2))

	c.Invalidate(r1)

	_, hit1 := c.Get(r1, format.RGBAFloat)
	_, hit2 := c.Get(r2, format.RGBAFloat)
	assert.False(t, hit1)
	assert.True(t, hit2)
}

func TestCache_DontCacheDisablesGetAndPut(t *testing.T) {
	c := cache.New()
	region := domain.Rectangle{X: 0, Y: 0, Width: 4, Height: 4}
	c.Put(region, format.RGBAFloat, buffer.New(format.RGBAFloat, region))
	c.SetDontCache(true)

	_, hit := c.Get(region, format.RGBAFloat)
	assert.False(t, hit)
	assert.True(t, c.DontCache())
}
