package layer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"paint-canvas/internal/history"

	xdraw "golang.org/x/image/draw"
)

// RedrawFunc procedurally repaints a canvas layer's raster.
type RedrawFunc func(l *CanvasLayer)

// CanvasLayer owns an offscreen RGBA raster and supports raster
// painting: pressure-weighted brush and eraser strokes with undo/redo
// through an attached history manager.
type CanvasLayer struct {
	Base

	raster *image.RGBA
	redraw RedrawFunc
	hist   *history.Manager

	// In-progress stroke state. The snapshot is the full pre-stroke
	// raster, cropped to the affected rectangle when the stroke
	// commits.
	drawing     bool
	points      []StrokePoint
	strokeColor color.RGBA
	strokeSize  float64
	strokeMode  StrokeMode
	strokeLive  bool // at least one Stroke call since BeginStroke
	preSnapshot *image.RGBA
}

// NewCanvasLayer creates a canvas layer with a transparent raster of
// the given pixel size. If redraw is non-nil it is invoked once to
// prime the raster.
func NewCanvasLayer(name string, width, height int, redraw RedrawFunc) (*CanvasLayer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas layer %q: invalid raster size %dx%d", name, width, height)
	}
	l := &CanvasLayer{
		Base:   newBase(name, KindCanvas, SpaceWorld),
		raster: image.NewRGBA(image.Rect(0, 0, width, height)),
		redraw: redraw,
	}
	if redraw != nil {
		redraw(l)
	}
	return l, nil
}

// Raster returns the layer's backing raster.
func (l *CanvasLayer) Raster() *image.RGBA { return l.raster }

// Width returns the raster width in pixels.
func (l *CanvasLayer) Width() int {
	if l.raster == nil {
		return 0
	}
	return l.raster.Bounds().Dx()
}

// Height returns the raster height in pixels.
func (l *CanvasLayer) Height() int {
	if l.raster == nil {
		return 0
	}
	return l.raster.Bounds().Dy()
}

// AsCanvas identifies the layer as a canvas layer.
func (l *CanvasLayer) AsCanvas() (*CanvasLayer, bool) { return l, true }

// RequestRedraw re-runs the procedural redraw callback, if any.
func (l *CanvasLayer) RequestRedraw() {
	if l.redraw != nil && l.raster != nil {
		l.redraw(l)
	}
}

// Fill floods the whole raster with a color.
func (l *CanvasLayer) Fill(c color.Color) {
	if l.raster == nil {
		return
	}
	draw.Draw(l.raster, l.raster.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
}

// Clear resets the raster to transparent.
func (l *CanvasLayer) Clear() {
	l.Fill(color.RGBA{})
}

// DrawImage blits an external image into the raster at the local
// pixel position (dx, dy). An optional target size rescales the image
// bilinearly.
func (l *CanvasLayer) DrawImage(img image.Image, dx, dy float64, size ...float64) {
	if l.raster == nil || img == nil {
		return
	}
	srcBounds := img.Bounds()
	dw := float64(srcBounds.Dx())
	dh := float64(srcBounds.Dy())
	if len(size) >= 2 {
		dw = size[0]
		dh = size[1]
	}
	dstRect := image.Rect(int(dx), int(dy), int(dx+dw), int(dy+dh))
	if dstRect.Dx() == srcBounds.Dx() && dstRect.Dy() == srcBounds.Dy() {
		draw.Draw(l.raster, dstRect, img, srcBounds.Min, draw.Over)
		return
	}
	xdraw.BiLinear.Scale(l.raster, dstRect, img, srcBounds, xdraw.Over, nil)
}

// toLocal maps a point in the layer's space to raster coordinates.
func (l *CanvasLayer) toLocal(x, y float64) (float64, float64) {
	return l.Pose().ToLocal(x, y, float64(l.Width()), float64(l.Height()))
}

// ToLocal maps a point in the layer's space to local raster
// coordinates through the inverse pose.
func (l *CanvasLayer) ToLocal(x, y float64) (lx, ly float64) {
	return l.toLocal(x, y)
}

// HitTest inverse-poses the point into local coordinates and tests it
// against the raster rectangle.
func (l *CanvasLayer) HitTest(x, y float64) bool {
	lx, ly := l.toLocal(x, y)
	return lx >= 0 && lx <= float64(l.Width()) && ly >= 0 && ly <= float64(l.Height())
}

// BeginStroke starts a stroke at the given point in the layer's
// space. If a stroke is already in progress it is discarded first.
// With a history manager attached, the full raster is snapshotted so
// the commit can crop out the affected region.
func (l *CanvasLayer) BeginStroke(x, y float64) {
	if l.raster == nil {
		return
	}
	if l.drawing {
		l.CancelStroke()
	}
	lx, ly := l.toLocal(x, y)
	l.drawing = true
	l.strokeLive = false
	l.points = append(l.points[:0], StrokePoint{X: lx, Y: ly})

	if l.hist != nil {
		l.preSnapshot = copyRGBA(l.raster)
	}
}

// Stroke extends the in-progress stroke to the given point, painting
// the segment immediately. pressure scales the stroke width; zero or
// negative pressure is treated as full pressure. Calling Stroke
// without BeginStroke is a no-op.
func (l *CanvasLayer) Stroke(x, y float64, col color.RGBA, size, pressure float64, mode StrokeMode) {
	if !l.drawing || l.raster == nil {
		return
	}
	if pressure <= 0 {
		pressure = 1
	}
	lx, ly := l.toLocal(x, y)

	// The first sample backfills the pressure recorded at BeginStroke.
	if len(l.points) > 0 && l.points[0].Pressure == 0 {
		l.points[0].Pressure = pressure
	}
	l.strokeColor = col
	l.strokeSize = size
	l.strokeMode = mode
	l.strokeLive = true

	last := l.points[len(l.points)-1]
	stampSegment(l.raster, last.X, last.Y, lx, ly, size*pressure, col, mode)
	l.points = append(l.points, StrokePoint{X: lx, Y: ly, Pressure: pressure})
}

// EndStroke finalizes the stroke. With a history manager attached and
// at least one painted segment, a StrokeCommand carrying the
// pre-stroke snapshot enters the undo stack. Calling EndStroke twice
// is a no-op.
func (l *CanvasLayer) EndStroke() {
	if !l.drawing {
		return
	}
	l.drawing = false

	if l.hist != nil && l.strokeLive && len(l.points) > 0 {
		pts := make([]StrokePoint, len(l.points))
		copy(pts, l.points)
		cmd := NewAppliedStrokeCommand(l, pts, l.strokeColor, l.strokeSize, l.strokeMode, l.preSnapshot, time.Now())
		l.hist.AddCommand(cmd)
	}

	l.points = l.points[:0]
	l.preSnapshot = nil
	l.strokeLive = false
}

// CancelStroke abandons an in-progress stroke without producing a
// command: the pointer-loss path. Pixels already painted stay on the
// raster.
func (l *CanvasLayer) CancelStroke() {
	l.drawing = false
	l.points = l.points[:0]
	l.preSnapshot = nil
	l.strokeLive = false
}

// Drawing reports whether a stroke is in progress.
func (l *CanvasLayer) Drawing() bool { return l.drawing }

// CropTo resizes the raster, preserving the existing pixels anchored
// at the top-left corner.
func (l *CanvasLayer) CropTo(width, height int) {
	if width <= 0 || height <= 0 || l.raster == nil {
		return
	}
	next := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(next, next.Bounds(), l.raster, image.Point{}, draw.Src)
	l.raster = next
}

// ResizeTo rescales the raster content bilinearly to the new size.
func (l *CanvasLayer) ResizeTo(width, height int) {
	if width <= 0 || height <= 0 || l.raster == nil {
		return
	}
	next := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(next, next.Bounds(), l.raster, l.raster.Bounds(), xdraw.Src, nil)
	l.raster = next
}

// SetHistoryManager binds a history manager for stroke undo/redo.
func (l *CanvasLayer) SetHistoryManager(m *history.Manager) { l.hist = m }

// HistoryManager returns the bound history manager, if any.
func (l *CanvasLayer) HistoryManager() *history.Manager { return l.hist }

// Undo reverts the most recent command on the bound history manager.
func (l *CanvasLayer) Undo() {
	if l.hist != nil {
		l.hist.Undo()
	}
}

// Redo re-applies the most recently undone command.
func (l *CanvasLayer) Redo() {
	if l.hist != nil {
		l.hist.Redo()
	}
}

// CanUndo reports whether an undo is available.
func (l *CanvasLayer) CanUndo() bool { return l.hist != nil && l.hist.CanUndo() }

// CanRedo reports whether a redo is available.
func (l *CanvasLayer) CanRedo() bool { return l.hist != nil && l.hist.CanRedo() }

// Render composites the raster through the pose and the frame
// transform for the layer's space.
func (l *CanvasLayer) Render(rc *RenderContext) {
	if l.raster == nil {
		return
	}
	xform := rc.TransformFor(l.Space()).Compose(l.Pose().Transform(float64(l.Width()), float64(l.Height())))
	compositeRaster(rc.Dst, l.raster, xform, l.Opacity(), l.Blend(), rc.clipBounds())
}

// Destroy releases the raster and detaches callbacks and history.
func (l *CanvasLayer) Destroy() {
	l.CancelStroke()
	l.raster = nil
	l.redraw = nil
	l.hist = nil
}

// copyRGBA duplicates an RGBA image.
func copyRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
