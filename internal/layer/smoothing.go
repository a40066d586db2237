package layer

import (
	"math"

	"gonum.org/v1/gonum/interp"
)

// Stabilizer resamples raw pointer input into evenly spaced stroke
// points along a cubic fit of the path, smoothing out pointer jitter.
// Pressure is interpolated linearly between the raw samples.
type Stabilizer struct {
	// Spacing is the arc-length distance between resampled points in
	// layer-local pixels.
	Spacing float64
}

// NewStabilizer creates a stabilizer with the given resample spacing.
// Non-positive spacings fall back to 2 pixels.
func NewStabilizer(spacing float64) *Stabilizer {
	if spacing <= 0 {
		spacing = 2
	}
	return &Stabilizer{Spacing: spacing}
}

// Resample fits an Akima spline through the points, parameterized by
// chord length, and samples it at uniform spacing. Inputs with fewer
// than three distinct points are returned as-is.
func (s *Stabilizer) Resample(points []StrokePoint) []StrokePoint {
	dedup := dedupPoints(points)
	if len(dedup) < 3 {
		out := make([]StrokePoint, len(points))
		copy(out, points)
		return out
	}

	// Chord-length parameterization.
	ts := make([]float64, len(dedup))
	xs := make([]float64, len(dedup))
	ys := make([]float64, len(dedup))
	ps := make([]float64, len(dedup))
	for i, p := range dedup {
		if i > 0 {
			ts[i] = ts[i-1] + math.Hypot(p.X-dedup[i-1].X, p.Y-dedup[i-1].Y)
		}
		xs[i] = p.X
		ys[i] = p.Y
		ps[i] = pressureOf(p)
	}
	total := ts[len(ts)-1]
	if total < s.Spacing {
		out := make([]StrokePoint, len(points))
		copy(out, points)
		return out
	}

	var fx, fy interp.AkimaSpline
	var fp interp.PiecewiseLinear
	if err := fx.Fit(ts, xs); err != nil {
		out := make([]StrokePoint, len(points))
		copy(out, points)
		return out
	}
	if err := fy.Fit(ts, ys); err != nil {
		out := make([]StrokePoint, len(points))
		copy(out, points)
		return out
	}
	if err := fp.Fit(ts, ps); err != nil {
		out := make([]StrokePoint, len(points))
		copy(out, points)
		return out
	}

	n := int(total/s.Spacing) + 1
	out := make([]StrokePoint, 0, n+1)
	for i := 0; i < n; i++ {
		t := float64(i) * s.Spacing
		out = append(out, StrokePoint{
			X:        fx.Predict(t),
			Y:        fy.Predict(t),
			Pressure: fp.Predict(t),
		})
	}
	// The final input point is always kept so the stroke ends where
	// the pointer stopped.
	out = append(out, dedup[len(dedup)-1])
	return out
}

// dedupPoints drops consecutive points closer than a hundredth of a
// pixel; spline fitting needs strictly increasing parameters.
func dedupPoints(points []StrokePoint) []StrokePoint {
	out := make([]StrokePoint, 0, len(points))
	for _, p := range points {
		if len(out) > 0 {
			last := out[len(out)-1]
			if math.Hypot(p.X-last.X, p.Y-last.Y) < 1e-2 {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
