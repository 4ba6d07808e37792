package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/gegraph/internal/domain"
)

func TestRectangle_IsEmpty(t *testing.T) {
	assert.True(t, domain.Empty.IsEmpty())
	assert.True(t, domain.Rectangle{X: 1, Y: 1, Width: 0, Height: 5}.IsEmpty())
	assert.True(t, domain.Rectangle{X: 1, Y: 1, Width: 5, Height: -1}.IsEmpty())
	assert.False(t, domain.Rectangle{Width: 1, Height: 1}.IsEmpty())
}

func TestIntersect(t *testing.T) {
	a := domain.Rectangle{X: 0, Y: 0, Width: 10, Height: 10}
	b := domain.Rectangle{X: 5, Y: 5, Width: 10, Height: 10}
	got := domain.Intersect(a, b)
	assert.Equal(t, domain.Rectangle{X: 5, Y: 5, Width: 5, Height: 5}, got)
}

func TestIntersect_Disjoint(t *testing.T) {
	a := domain.Rectangle{X: 0, Y: 0, Width: 2, Height: 2}
	b := domain.Rectangle{X: 10, Y: 10, Width: 2, Height: 2}
	assert.True(t, domain.Intersect(a, b).IsEmpty())
}

func TestIntersect_EmptyOperandIsEmpty(t *testing.T) {
	a := domain.Rectangle{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, domain.Intersect(a, domain.Empty).IsEmpty())
	assert.True(t, domain.Intersect(domain.Empty, a).IsEmpty())
}

func TestBoundingBox(t *testing.T) {
	a := domain.Rectangle{X: 0, Y: 0, Width: 2, Height: 2}
	b := domain.Rectangle{X: 8, Y: 8, Width: 2, Height: 2}
	got := domain.BoundingBox(a, b)
	assert.Equal(t, domain.Rectangle{X: 0, Y: 0, Width: 10, Height: 10}, got)
}

func TestBoundingBox_EmptyIsIdentity(t *testing.T) {
	a := domain.Rectangle{X: 1, Y: 1, Width: 3, Height: 3}
	assert.Equal(t, a, domain.BoundingBox(a, domain.Empty))
	assert.Equal(t, a, domain.BoundingBox(domain.Empty, a))
}

func TestTranslate(t *testing.T) {
	r := domain.Rectangle{X: 2, Y: 0, Width: 3, Height: 10}
	got := r.Translate(-3, 0)
	assert.Equal(t, domain.Rectangle{X: -1, Y: 0, Width: 3, Height: 10}, got)
}

func TestContains(t *testing.T) {
	outer := domain.Rectangle{X: 0, Y: 0, Width: 10, Height: 10}
	inner := domain.Rectangle{X: 2, Y: 2, Width: 4, Height: 4}
	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.True(t, outer.Contains(domain.Empty))
}

func TestOverlaps(t *testing.T) {
	a := domain.Rectangle{X: 0, Y: 0, Width: 4, Height: 4}
	b := domain.Rectangle{X: 3, Y: 3, Width: 4, Height: 4}
	c := domain.Rectangle{X: 10, Y: 10, Width: 4, Height: 4}
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
}
