package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectUnionIntersect(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 10, 10)

	u := a.Union(b)
	assert.Equal(t, NewRect(0, 0, 15, 15), u)

	i := a.Intersect(b)
	assert.Equal(t, NewRect(5, 5, 5, 5), i)

	// Disjoint rectangles intersect to empty.
	assert.True(t, a.Intersect(NewRect(100, 100, 5, 5)).Empty())

	// Union with an empty rect returns the other operand.
	assert.Equal(t, a, a.Union(Rect{}))
	assert.Equal(t, a, Rect{}.Union(a))
}

func TestExpandToInclude(t *testing.T) {
	var r Rect
	r = r.ExpandToInclude(Point2D{X: 10, Y: 10}, 5)
	assert.Equal(t, NewRect(5, 5, 10, 10), r)

	r = r.ExpandToInclude(Point2D{X: 30, Y: 10}, 2)
	assert.Equal(t, NewRect(5, 5, 27, 10), r)
}

func TestOutsetCoversFloatRect(t *testing.T) {
	r := NewRect(1.2, 2.7, 3.1, 0.4)
	out := r.Outset()
	assert.Equal(t, RectInt{X: 1, Y: 2, Width: 4, Height: 2}, out)
}

func TestAffineComposeApply(t *testing.T) {
	// Scale then translate: p -> p*2 + (10, 20).
	xf := Translation(10, 20).Compose(Scale(2, 2))
	p := xf.Apply(Point2D{X: 3, Y: 4})
	assert.InDelta(t, 16, p.X, 1e-12)
	assert.InDelta(t, 28, p.Y, 1e-12)

	st := ScaleTranslate(2, 10, 20)
	q := st.Apply(Point2D{X: 3, Y: 4})
	assert.Equal(t, p, q)
}

func TestAffineInverseRoundTrip(t *testing.T) {
	xf := Translation(-7, 13).Compose(Rotation(0.8)).Compose(Scale(2.5, 2.5))
	inv, ok := xf.Inverse()
	require.True(t, ok)

	for _, pt := range []Point2D{{0, 0}, {5, -3}, {123.4, 56.7}} {
		back := inv.Apply(xf.Apply(pt))
		assert.InDelta(t, pt.X, back.X, 1e-9)
		assert.InDelta(t, pt.Y, back.Y, 1e-9)
	}

	// Singular transforms report failure.
	_, ok = Scale(0, 1).Inverse()
	assert.False(t, ok)
}

func TestApplyRectIsAABBOfCorners(t *testing.T) {
	xf := Rotation(math.Pi / 4)
	r := xf.ApplyRect(NewRect(0, 0, 10, 10))
	// A rotated unit square's AABB spans +-10/sqrt(2) around its pivot.
	assert.InDelta(t, -10/math.Sqrt2, r.X, 1e-9)
	assert.InDelta(t, 10*math.Sqrt2, r.Width, 1e-9)
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{1, 2}, {-3, 8}, {5, 0}}
	bb := BoundingBox(pts)
	assert.Equal(t, NewRect(-3, 0, 8, 8), bb)
	assert.True(t, BoundingBox(nil).Empty())
}
