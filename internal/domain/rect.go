package domain

// Rectangle is an integer axis-aligned region. It is empty whenever Width
// or Height is not strictly positive; callers must not assume (0,0,0,0)
// is the only empty representation.
type Rectangle struct {
	X, Y, Width, Height int
}

// Empty is the canonical zero-area rectangle.
var Empty = Rectangle{}

func (r Rectangle) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rectangle) Right() int  { return r.X + r.Width }
func (r Rectangle) Bottom() int { return r.Y + r.Height }

// Intersect returns the overlap of r and o. Either operand being empty
// yields Empty.
func Intersect(r, o Rectangle) Rectangle {
	if r.IsEmpty() || o.IsEmpty() {
		return Empty
	}
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Empty
	}
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// BoundingBox returns the smallest rectangle covering both r and o. An
// empty operand is the identity element.
func BoundingBox(r, o Rectangle) Rectangle {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (r Rectangle) Translate(dx, dy int) Rectangle {
	if r.IsEmpty() {
		return r
	}
	return Rectangle{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Contains reports whether o lies entirely within r. An empty o is always
// contained; an empty r contains nothing (except another empty rect).
func (r Rectangle) Contains(o Rectangle) bool {
	if o.IsEmpty() {
		return true
	}
	if r.IsEmpty() {
		return false
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Overlaps reports whether r and o share any area.
func (r Rectangle) Overlaps(o Rectangle) bool {
	return !Intersect(r, o).IsEmpty()
}

func (r Rectangle) ClampPoint(x, y int) (int, int) {
	cx := clampInt(x, r.X, r.Right()-1)
	cy := clampInt(y, r.Y, r.Bottom()-1)
	return cx, cy
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
