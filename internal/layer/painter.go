package layer

import (
	"image"
	"image/color"
	"math"
)

// StrokeMode selects the stroke compositing behavior.
type StrokeMode int

const (
	// ModeBrush paints the stroke color source-over.
	ModeBrush StrokeMode = iota
	// ModeEraser clears coverage to transparent (destination-out).
	ModeEraser
)

func (m StrokeMode) String() string {
	switch m {
	case ModeBrush:
		return "brush"
	case ModeEraser:
		return "eraser"
	default:
		return "Unknown"
	}
}

// StrokePoint is one sample of a stroke in layer-local coordinates.
// Pressure is normalized to [0, 1].
type StrokePoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
}

// paintPixel writes one covered pixel according to the stroke mode.
func paintPixel(img *image.RGBA, x, y int, col color.RGBA, mode StrokeMode) {
	if mode == ModeEraser {
		img.SetRGBA(x, y, color.RGBA{})
		return
	}
	if col.A == 255 {
		img.SetRGBA(x, y, col)
		return
	}
	img.SetRGBA(x, y, blendPixel(img.RGBAAt(x, y), col, BlendNormal, 1))
}

// stampDisk paints a filled disk of radius r centered at (cx, cy).
// Coverage is hard-edged: a pixel is covered when its center lies
// inside the disk. Sub-pixel radii still cover the center pixel so a
// tap always leaves a mark.
func stampDisk(img *image.RGBA, cx, cy, r float64, col color.RGBA, mode StrokeMode) {
	bounds := img.Bounds()
	if r < 0.5 {
		x := int(math.Floor(cx))
		y := int(math.Floor(cy))
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			paintPixel(img, x, y, col, mode)
		}
		return
	}

	minX := int(math.Floor(cx - r))
	maxX := int(math.Ceil(cx + r))
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))
	r2 := r * r

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			px := float64(x) + 0.5
			dx := px - cx
			dy := py - cy
			if dx*dx+dy*dy <= r2 {
				paintPixel(img, x, y, col, mode)
			}
		}
	}
}

// stampSegment paints a capsule from (x0, y0) to (x1, y1) with the
// given stroke width: a thick line with round caps and joins. A
// zero-length segment degenerates to a disk.
func stampSegment(img *image.RGBA, x0, y0, x1, y1, width float64, col color.RGBA, mode StrokeMode) {
	r := width / 2
	dx := x1 - x0
	dy := y1 - y0
	len2 := dx*dx + dy*dy
	if len2 < 1e-12 {
		stampDisk(img, x0, y0, r, col, mode)
		return
	}

	bounds := img.Bounds()
	minX := int(math.Floor(math.Min(x0, x1) - r))
	maxX := int(math.Ceil(math.Max(x0, x1) + r))
	minY := int(math.Floor(math.Min(y0, y1) - r))
	maxY := int(math.Ceil(math.Max(y0, y1) + r))
	r2 := r * r
	if r < 0.5 {
		// Keep hairline strokes visible.
		r2 = 0.25
	}

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			px := float64(x) + 0.5

			// Distance from the pixel center to the segment.
			t := ((px-x0)*dx + (py-y0)*dy) / len2
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			ex := px - (x0 + t*dx)
			ey := py - (y0 + t*dy)
			if ex*ex+ey*ey <= r2 {
				paintPixel(img, x, y, col, mode)
			}
		}
	}
}
