package layer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"paint-canvas/internal/history"
	"paint-canvas/pkg/geometry"
)

// MergeWindow is how close in time two strokes of the same tool must
// land for the history to collapse them into one entry.
const MergeWindow = 100 * time.Millisecond

// StrokeCommand records one stroke for undo/redo: the stroke data to
// replay on redo and a snapshot of the pre-stroke pixels inside the
// rectangle the stroke touches.
type StrokeCommand struct {
	layer *CanvasLayer

	// runs holds one point sequence per stroke. Merging appends the
	// later stroke as its own run so replay never draws a connecting
	// segment between two strokes.
	runs  [][]StrokePoint
	color color.RGBA
	size  float64
	mode  StrokeMode

	// bbox covers every inked pixel: each point expanded by its
	// radius, padded by 2 pixels, clipped to the raster. When that
	// collapses to nothing the command degenerates to a full-layer
	// snapshot.
	bbox       geometry.RectInt
	degenerate bool

	snapshot  *image.RGBA
	executed  bool
	timestamp time.Time
}

var _ history.Command = (*StrokeCommand)(nil)

// NewStrokeCommand builds a stroke command that has not been applied
// yet; the first Execute captures the pre-image and paints the stroke.
func NewStrokeCommand(l *CanvasLayer, points []StrokePoint, col color.RGBA, size float64, mode StrokeMode, ts time.Time) *StrokeCommand {
	c := &StrokeCommand{
		layer:     l,
		runs:      [][]StrokePoint{points},
		color:     col,
		size:      size,
		mode:      mode,
		timestamp: ts,
	}
	c.bbox, c.degenerate = strokeBounds(c.runs, size, l.Width(), l.Height())
	return c
}

// NewAppliedStrokeCommand builds a command for a stroke that was
// already painted live. fullSnapshot is the whole pre-stroke raster
// captured at BeginStroke; it is cropped to the affected rectangle
// here so only the touched region stays pinned in memory.
func NewAppliedStrokeCommand(l *CanvasLayer, points []StrokePoint, col color.RGBA, size float64, mode StrokeMode, fullSnapshot *image.RGBA, ts time.Time) *StrokeCommand {
	c := NewStrokeCommand(l, points, col, size, mode, ts)
	c.executed = true
	if fullSnapshot != nil {
		c.snapshot = cropRGBA(fullSnapshot, c.bbox)
	}
	return c
}

// Bounds returns the affected rectangle in raster pixels.
func (c *StrokeCommand) Bounds() geometry.RectInt { return c.bbox }

// Timestamp returns the stroke completion time.
func (c *StrokeCommand) Timestamp() time.Time { return c.timestamp }

// Execute paints the stroke onto the layer, capturing the pre-image
// of the affected rectangle first if no snapshot exists yet. Already
// executed commands return immediately.
func (c *StrokeCommand) Execute() {
	if c.executed {
		return
	}
	raster := c.layer.Raster()
	if raster == nil {
		return
	}
	if c.snapshot == nil {
		c.snapshot = cropRGBA(raster, c.bbox)
	}

	for _, run := range c.runs {
		if len(run) == 1 {
			p := run[0]
			r := c.size * pressureOf(p) / 2
			stampDisk(raster, p.X, p.Y, r, c.color, c.mode)
			continue
		}
		for i := 1; i < len(run); i++ {
			a := run[i-1]
			b := run[i]
			width := math.Max(c.size*pressureOf(b), 0.001)
			stampSegment(raster, a.X, a.Y, b.X, b.Y, width, c.color, c.mode)
		}
	}
	c.executed = true
}

// Undo restores the snapshot of the affected rectangle. Without a
// snapshot (capture failed) the rectangle is cleared to transparent,
// the best-effort degradation. Non-executed commands return
// immediately.
func (c *StrokeCommand) Undo() {
	if !c.executed {
		return
	}
	raster := c.layer.Raster()
	if raster == nil {
		return
	}
	dstRect := image.Rect(c.bbox.X, c.bbox.Y, c.bbox.X+c.bbox.Width, c.bbox.Y+c.bbox.Height)
	if c.snapshot != nil {
		draw.Draw(raster, dstRect, c.snapshot, c.snapshot.Bounds().Min, draw.Src)
	} else {
		draw.Draw(raster, dstRect, &image.Uniform{color.RGBA{}}, image.Point{}, draw.Src)
	}
	c.executed = false
}

// CanMerge accepts a following stroke on the same layer with the same
// color, size, and mode that finished within MergeWindow.
func (c *StrokeCommand) CanMerge(other history.Command) bool {
	o, ok := other.(*StrokeCommand)
	if !ok {
		return false
	}
	if o.layer != c.layer || o.color != c.color || o.size != c.size || o.mode != c.mode {
		return false
	}
	d := o.timestamp.Sub(c.timestamp)
	if d < 0 {
		d = -d
	}
	return d <= MergeWindow
}

// Merge absorbs the other stroke: points are appended, the affected
// rectangle grows to the union, and the snapshot is rebuilt so it
// still holds the pre-image of the whole merged region. Undoing the
// merged command is identical to undoing both strokes.
func (c *StrokeCommand) Merge(other history.Command) history.Command {
	o := other.(*StrokeCommand)

	union := unionRectInt(c.bbox, o.bbox)
	merged := c.buildMergedSnapshot(o, union)

	c.runs = append(c.runs, o.runs...)
	c.bbox = union
	c.degenerate = c.degenerate || o.degenerate
	c.snapshot = merged
	c.timestamp = o.timestamp
	return c
}

// buildMergedSnapshot composes the pre-image of the union rectangle.
// Pixels only the later stroke touched come from its snapshot (taken
// before it painted, after us, and outside our rectangle we changed
// nothing, so those pixels equal the pristine state). Pixels we
// touched come from our own snapshot. Pixels neither covered are
// untouched and read from the live raster.
func (c *StrokeCommand) buildMergedSnapshot(o *StrokeCommand, union geometry.RectInt) *image.RGBA {
	if c.snapshot == nil || o.snapshot == nil {
		return nil
	}
	raster := c.layer.Raster()
	if raster == nil {
		return nil
	}
	merged := cropRGBA(raster, union)

	pasteRGBA(merged, union, o.snapshot, o.bbox)
	pasteRGBA(merged, union, c.snapshot, c.bbox)
	return merged
}

// strokeBounds computes the affected rectangle of a stroke: every
// point expanded by its radius, union, padded by 2 pixels, clipped to
// the raster. Reports degenerate (full-layer fallback) when the
// result has no area.
func strokeBounds(runs [][]StrokePoint, size float64, w, h int) (geometry.RectInt, bool) {
	full := geometry.RectInt{Width: w, Height: h}
	var r geometry.Rect
	total := 0
	for _, run := range runs {
		for _, p := range run {
			// Hairline strokes still cover whole pixels, so the
			// radius never drops below half a pixel.
			radius := math.Max(size*pressureOf(p)/2, 0.5)
			r = r.ExpandToInclude(geometry.Point2D{X: p.X, Y: p.Y}, radius)
			total++
		}
	}
	if total == 0 {
		return full, true
	}
	clipped := r.Expand(2).Outset().Intersect(full)
	if clipped.Empty() {
		return full, true
	}
	return clipped, false
}

// pressureOf treats an unset pressure as full pressure.
func pressureOf(p StrokePoint) float64 {
	if p.Pressure <= 0 {
		return 1
	}
	return p.Pressure
}

// cropRGBA copies the given rectangle of src into a fresh image whose
// bounds start at the rectangle's origin.
func cropRGBA(src *image.RGBA, r geometry.RectInt) *image.RGBA {
	rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	dst := image.NewRGBA(rect)
	draw.Draw(dst, rect, src, rect.Min, draw.Src)
	return dst
}

// pasteRGBA copies snap (covering snapRect) into dst (covering
// dstRect), aligning the shared raster coordinates.
func pasteRGBA(dst *image.RGBA, dstRect geometry.RectInt, snap *image.RGBA, snapRect geometry.RectInt) {
	overlap := dstRect.Intersect(snapRect)
	if overlap.Empty() {
		return
	}
	rect := image.Rect(overlap.X, overlap.Y, overlap.X+overlap.Width, overlap.Y+overlap.Height)
	draw.Draw(dst, rect, snap, rect.Min, draw.Src)
}

func unionRectInt(a, b geometry.RectInt) geometry.RectInt {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	x := minInt(a.X, b.X)
	y := minInt(a.Y, b.Y)
	x2 := maxInt(a.X+a.Width, b.X+b.Width)
	y2 := maxInt(a.Y+a.Height, b.Y+b.Height)
	return geometry.RectInt{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
