package layer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStabilizerShortInputUnchanged(t *testing.T) {
	s := NewStabilizer(2)

	in := []StrokePoint{{X: 1, Y: 1, Pressure: 1}, {X: 2, Y: 2, Pressure: 1}}
	out := s.Resample(in)
	assert.Equal(t, in, out)

	assert.Empty(t, s.Resample(nil))
}

func TestStabilizerUniformSpacing(t *testing.T) {
	s := NewStabilizer(5)

	// A straight line with jittered sample spacing.
	in := []StrokePoint{
		{X: 0, Y: 0, Pressure: 1},
		{X: 3, Y: 0, Pressure: 1},
		{X: 11, Y: 0, Pressure: 1},
		{X: 12, Y: 0, Pressure: 1},
		{X: 30, Y: 0, Pressure: 1},
	}
	out := s.Resample(in)
	require.GreaterOrEqual(t, len(out), 3)

	// Endpoints are preserved.
	assert.InDelta(t, 0, out[0].X, 1e-9)
	last := out[len(out)-1]
	assert.InDelta(t, 30, last.X, 1e-9)

	// Interior samples advance monotonically at the requested
	// spacing.
	for i := 1; i < len(out)-1; i++ {
		d := math.Hypot(out[i].X-out[i-1].X, out[i].Y-out[i-1].Y)
		assert.InDelta(t, 5, d, 1.0, "gap %d", i)
		assert.Greater(t, out[i].X, out[i-1].X)
	}

	// A straight line stays straight.
	for _, p := range out {
		assert.InDelta(t, 0, p.Y, 1e-6)
	}
}

func TestStabilizerInterpolatesPressure(t *testing.T) {
	s := NewStabilizer(5)

	in := []StrokePoint{
		{X: 0, Y: 0, Pressure: 0},
		{X: 10, Y: 0, Pressure: 0.5},
		{X: 20, Y: 0, Pressure: 1},
	}
	out := s.Resample(in)
	require.Greater(t, len(out), 2)

	// The unset leading pressure reads as full pressure, so samples
	// stay within the fitted range.
	mid := out[len(out)/2]
	assert.GreaterOrEqual(t, mid.Pressure, 0.5-1e-9)
	assert.LessOrEqual(t, mid.Pressure, 1.0+1e-9)
}

func TestStabilizerDropsDuplicatePoints(t *testing.T) {
	s := NewStabilizer(2)

	in := []StrokePoint{
		{X: 0, Y: 0, Pressure: 1},
		{X: 0, Y: 0, Pressure: 1},
		{X: 5, Y: 5, Pressure: 1},
		{X: 5, Y: 5, Pressure: 1},
		{X: 10, Y: 0, Pressure: 1},
	}
	// Must not panic on the spline fit and must span the input.
	out := s.Resample(in)
	require.NotEmpty(t, out)
	last := out[len(out)-1]
	assert.InDelta(t, 10, last.X, 1e-9)
}
