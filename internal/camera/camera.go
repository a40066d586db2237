// Package camera implements the animated viewport camera: log-space
// zoom easing, anchored zoom, pan with inertia, and document-aware pan
// clamping. The package is pure state; it knows nothing about surfaces
// or input devices.
package camera

import (
	"math"

	"paint-canvas/pkg/geometry"
)

// ClampMode selects how pan is constrained against the document.
type ClampMode int

const (
	// ClampMinVisible keeps at least MinVisiblePx of the document on
	// screen in each axis.
	ClampMinVisible ClampMode = iota
	// ClampMargin locks the document inside the margin-reduced viewport,
	// centering it when it is smaller than the available space.
	ClampMargin
)

func (m ClampMode) String() string {
	switch m {
	case ClampMinVisible:
		return "minVisible"
	case ClampMargin:
		return "margin"
	default:
		return "Unknown"
	}
}

// FitMode selects how FitDocument computes the zoom.
type FitMode int

const (
	FitContain FitMode = iota
	FitCover
	FitWidth
	FitHeight
)

// Margins are screen-pixel insets applied between the viewport edges and
// the document when clamping or fitting.
type Margins struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// Options configures the camera. Zero values are replaced by
// DefaultOptions at construction.
type Options struct {
	MinZoom          float64 // lower zoom bound, default 0.5
	MaxZoom          float64 // upper zoom bound, default 10
	WheelSensitivity float64 // wheel pixels to log-zoom step, default 0.0015
	ApproachKZoom    float64 // zoom ease rate 1/ms, default 0.022
	ApproachKPan     float64 // reset pull-in rate 1/ms, default 0.022
	Friction         float64 // inertia decay per 16 ms, default 0.92
	StopSpeed        float64 // inertia cutoff, CSS px/ms, default 0.02
	EMAAlpha         float64 // drag velocity smoothing, default 0.25
	IdleNoInertiaMs  float64 // hold time that cancels inertia, default 120
	MinVisiblePx     float64 // minVisible clamp requirement, default 30
	PanClampMode     ClampMode
}

// DefaultOptions returns the stock camera configuration.
func DefaultOptions() Options {
	return Options{
		MinZoom:          0.5,
		MaxZoom:          10,
		WheelSensitivity: 0.0015,
		ApproachKZoom:    0.022,
		ApproachKPan:     0.022,
		Friction:         0.92,
		StopSpeed:        0.02,
		EMAAlpha:         0.25,
		IdleNoInertiaMs:  120,
		MinVisiblePx:     30,
		PanClampMode:     ClampMinVisible,
	}
}

// sanitize fills zero fields with defaults and repairs out-of-range
// values. A non-positive MinZoom collapses the log space, so it is
// raised to a tiny positive floor instead of rejected.
func (o Options) sanitize() Options {
	def := DefaultOptions()
	if o.MinZoom == 0 {
		o.MinZoom = def.MinZoom
	}
	if o.MinZoom <= 0 {
		o.MinZoom = 1e-8
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = def.MaxZoom
	}
	if o.MaxZoom < o.MinZoom {
		o.MaxZoom = o.MinZoom
	}
	if o.WheelSensitivity == 0 {
		o.WheelSensitivity = def.WheelSensitivity
	}
	if o.ApproachKZoom == 0 {
		o.ApproachKZoom = def.ApproachKZoom
	}
	if o.ApproachKPan == 0 {
		o.ApproachKPan = def.ApproachKPan
	}
	if o.Friction == 0 {
		o.Friction = def.Friction
	}
	if o.StopSpeed == 0 {
		o.StopSpeed = def.StopSpeed
	}
	if o.EMAAlpha == 0 {
		o.EMAAlpha = def.EMAAlpha
	}
	if o.IdleNoInertiaMs == 0 {
		o.IdleNoInertiaMs = def.IdleNoInertiaMs
	}
	if o.MinVisiblePx == 0 {
		o.MinVisiblePx = def.MinVisiblePx
	}
	return o
}

// Wheel delta modes, matching the DOM deltaMode values delivered by
// pointer event sources.
const (
	DeltaPixel = 0
	DeltaLine  = 1
	DeltaPage  = 2
)

// Camera holds the viewport camera state. All coordinates are CSS
// pixels; zoom is stored as its logarithm so exponential easing behaves
// uniformly across the range.
type Camera struct {
	opts Options

	curLogZ float64
	tgtLogZ float64
	tx, ty  float64

	// Anchor of the in-flight zoom, CSS pixels.
	anchorX, anchorY float64

	// Pan inertia velocity, CSS px/ms.
	vx, vy float64

	dragging    bool
	resetting   bool
	panEnabled  bool
	zoomEnabled bool

	// Viewport size in CSS pixels.
	width, height float64

	// Optional document region, world coordinates.
	hasDoc  bool
	doc     geometry.Rect
	margins Margins
}

// New creates a camera for a viewport of the given CSS-pixel size.
func New(width, height float64, opts Options) *Camera {
	return &Camera{
		opts:        opts.sanitize(),
		panEnabled:  true,
		zoomEnabled: true,
		width:       width,
		height:      height,
	}
}

// SetViewportSize updates the CSS-pixel viewport size.
func (c *Camera) SetViewportSize(width, height float64) {
	c.width = width
	c.height = height
}

// Options returns the sanitized configuration.
func (c *Camera) Options() Options {
	return c.opts
}

// Zoom returns the current zoom factor.
func (c *Camera) Zoom() float64 {
	return math.Exp(c.curLogZ)
}

// TargetZoom returns the zoom factor being eased toward.
func (c *Camera) TargetZoom() float64 {
	return math.Exp(c.tgtLogZ)
}

// Translation returns the current pan in CSS pixels.
func (c *Camera) Translation() (tx, ty float64) {
	return c.tx, c.ty
}

// Velocity returns the current inertia velocity in CSS px/ms.
func (c *Camera) Velocity() (vx, vy float64) {
	return c.vx, c.vy
}

// Dragging reports whether a pan drag is in progress.
func (c *Camera) Dragging() bool {
	return c.dragging
}

// Animating reports whether the camera still has visible motion to
// play out: zoom easing toward a target, inertia, or a smooth reset.
func (c *Camera) Animating() bool {
	if math.Abs(c.tgtLogZ-c.curLogZ) > 1e-6 {
		return true
	}
	if math.Hypot(c.vx, c.vy) >= c.opts.StopSpeed {
		return true
	}
	return c.resetting
}

func (c *Camera) minLogZ() float64 { return math.Log(c.opts.MinZoom) }
func (c *Camera) maxLogZ() float64 { return math.Log(c.opts.MaxZoom) }

func (c *Camera) clampLogZ(lz float64) float64 {
	return math.Min(math.Max(lz, c.minLogZ()), c.maxLogZ())
}

// SetDocumentRect installs the document region in world coordinates.
func (c *Camera) SetDocumentRect(x, y, w, h float64) {
	c.hasDoc = true
	c.doc = geometry.NewRect(x, y, w, h)
	c.clampPan()
}

// ClearDocumentRect removes the document region and its pan clamp.
func (c *Camera) ClearDocumentRect() {
	c.hasDoc = false
	c.doc = geometry.Rect{}
}

// DocumentRect returns the document region and whether one is set.
func (c *Camera) DocumentRect() (geometry.Rect, bool) {
	return c.doc, c.hasDoc
}

// SetDocumentMargins sets the screen-pixel margins. Negative values
// leave the corresponding side unchanged.
func (c *Camera) SetDocumentMargins(left, right, top, bottom float64) {
	if left >= 0 {
		c.margins.Left = left
	}
	if right >= 0 {
		c.margins.Right = right
	}
	if top >= 0 {
		c.margins.Top = top
	}
	if bottom >= 0 {
		c.margins.Bottom = bottom
	}
	c.clampPan()
}

// Margins returns the current document margins.
func (c *Camera) Margins() Margins {
	return c.margins
}

// SetPanClampMode selects the document pan clamp policy.
func (c *Camera) SetPanClampMode(mode ClampMode) {
	c.opts.PanClampMode = mode
	c.clampPan()
}

// SetPanEnabled gates pan interaction. Disabling mid-drag terminates
// the drag and zeroes inertia.
func (c *Camera) SetPanEnabled(enabled bool) {
	c.panEnabled = enabled
	if !enabled {
		c.dragging = false
		c.vx = 0
		c.vy = 0
	}
}

// PanEnabled reports whether pan interaction is allowed.
func (c *Camera) PanEnabled() bool {
	return c.panEnabled
}

// SetZoomEnabled gates zoom interaction.
func (c *Camera) SetZoomEnabled(enabled bool) {
	c.zoomEnabled = enabled
}

// ZoomEnabled reports whether zoom interaction is allowed.
func (c *Camera) ZoomEnabled() bool {
	return c.zoomEnabled
}

// ZoomToAtScreen smoothly retargets to the absolute zoom z, anchored at
// the CSS point (ax, ay). Non-finite or non-positive targets are
// ignored.
func (c *Camera) ZoomToAtScreen(ax, ay, z float64) {
	if !c.zoomEnabled || !isFiniteZoom(z) {
		return
	}
	c.anchorX = ax
	c.anchorY = ay
	c.tgtLogZ = c.clampLogZ(math.Log(z))
	c.resetting = false
}

// ZoomToAtScreenRaw snaps immediately to the absolute zoom z anchored at
// (ax, ay), keeping the world point under the anchor fixed. Document
// pan clamping applies instantly.
func (c *Camera) ZoomToAtScreenRaw(ax, ay, z float64) {
	if !c.zoomEnabled || !isFiniteZoom(z) {
		return
	}
	zPrev := math.Exp(c.curLogZ)
	c.curLogZ = c.clampLogZ(math.Log(z))
	c.tgtLogZ = c.curLogZ
	zNow := math.Exp(c.curLogZ)
	c.tx = ax - (ax-c.tx)*(zNow/zPrev)
	c.ty = ay - (ay-c.ty)*(zNow/zPrev)
	c.anchorX = ax
	c.anchorY = ay
	c.resetting = false
	c.clampPan()
}

// ZoomByFactorAtScreen multiplies the target zoom by f around the CSS
// anchor (ax, ay).
func (c *Camera) ZoomByFactorAtScreen(ax, ay, f float64) {
	if !isFiniteZoom(f) {
		return
	}
	c.ZoomToAtScreen(ax, ay, math.Exp(c.tgtLogZ)*f)
}

// ZoomByFactorAtWorld multiplies the target zoom by f around the world
// anchor (wx, wy).
func (c *Camera) ZoomByFactorAtWorld(wx, wy, f float64) {
	ax, ay := c.ToScreen(wx, wy)
	c.ZoomByFactorAtScreen(ax, ay, f)
}

// FitDocument snaps zoom and pan so the document satisfies the fit mode
// within the margin-reduced viewport. The zoom is clamped to the
// configured range and the document is centered. No animation.
func (c *Camera) FitDocument(mode FitMode) {
	if !c.hasDoc || c.doc.Empty() {
		return
	}
	availW := c.width - c.margins.Left - c.margins.Right
	availH := c.height - c.margins.Top - c.margins.Bottom
	if availW <= 0 || availH <= 0 {
		return
	}

	zw := availW / c.doc.Width
	zh := availH / c.doc.Height
	var z float64
	switch mode {
	case FitCover:
		z = math.Max(zw, zh)
	case FitWidth:
		z = zw
	case FitHeight:
		z = zh
	default:
		z = math.Min(zw, zh)
	}

	lz := c.clampLogZ(math.Log(z))
	c.curLogZ = lz
	c.tgtLogZ = lz
	z = math.Exp(lz)

	c.tx = c.margins.Left + (availW-z*c.doc.Width)/2 - z*c.doc.X
	c.ty = c.margins.Top + (availH-z*c.doc.Height)/2 - z*c.doc.Y
	c.vx = 0
	c.vy = 0
	c.resetting = false
	c.clampPan()
}

// ResetSmooth starts an animated return to identity (zoom 1, pan 0).
func (c *Camera) ResetSmooth() {
	c.tgtLogZ = c.clampLogZ(0)
	c.anchorX = 0
	c.anchorY = 0
	c.vx = 0
	c.vy = 0
	c.resetting = true
}

// ResetInstant snaps to identity immediately.
func (c *Camera) ResetInstant() {
	c.curLogZ = c.clampLogZ(0)
	c.tgtLogZ = c.curLogZ
	c.tx = 0
	c.ty = 0
	c.vx = 0
	c.vy = 0
	c.resetting = false
	c.clampPan()
}

// ToWorld converts a CSS screen point to world coordinates.
func (c *Camera) ToWorld(x, y float64) (wx, wy float64) {
	z := math.Exp(c.curLogZ)
	return (x - c.tx) / z, (y - c.ty) / z
}

// ToScreen converts a world point to CSS screen coordinates.
func (c *Camera) ToScreen(wx, wy float64) (x, y float64) {
	z := math.Exp(c.curLogZ)
	return wx*z + c.tx, wy*z + c.ty
}

// HandleWheel applies a wheel event at the CSS anchor (ax, ay).
// deltaMode follows the DOM convention: line deltas are multiplied by
// lineHeight and page deltas by pageHeight before conversion. Ctrl
// scales the log step by 1.6, Shift by 0.6.
func (c *Camera) HandleWheel(deltaY float64, deltaMode int, ax, ay float64, ctrl, shift bool, lineHeight, pageHeight float64) {
	if !c.zoomEnabled {
		return
	}
	switch deltaMode {
	case DeltaLine:
		if lineHeight <= 0 {
			lineHeight = 16
		}
		deltaY *= lineHeight
	case DeltaPage:
		if pageHeight <= 0 {
			pageHeight = 800
		}
		deltaY *= pageHeight
	}

	step := -deltaY * c.opts.WheelSensitivity
	if ctrl {
		step *= 1.6
	}
	if shift {
		step *= 0.6
	}
	if math.IsNaN(step) || math.IsInf(step, 0) {
		return
	}

	c.anchorX = ax
	c.anchorY = ay
	c.tgtLogZ = c.clampLogZ(c.tgtLogZ + step)
	c.resetting = false
}

// BeginDrag starts a pan drag. Inertia is cleared so stale velocity
// does not replay after the drag.
func (c *Camera) BeginDrag() {
	if !c.panEnabled {
		return
	}
	c.dragging = true
	c.vx = 0
	c.vy = 0
	c.resetting = false
}

// DragBy applies a pointer movement of (dx, dy) CSS pixels observed
// over dtMs milliseconds. The EMA velocity feeds release inertia.
func (c *Camera) DragBy(dx, dy, dtMs float64) {
	if !c.dragging || !c.panEnabled {
		return
	}
	c.tx += dx
	c.ty += dy

	if dtMs < 1 {
		dtMs = 1
	}
	a := c.opts.EMAAlpha
	c.vx = (1-a)*c.vx + a*(dx/dtMs)
	c.vy = (1-a)*c.vy + a*(dy/dtMs)
	c.clampPan()
}

// EndDrag finishes a pan drag. idleMs is the time since the last
// movement: holding still at least IdleNoInertiaMs kills inertia,
// shorter pauses decay the velocity as friction would have.
func (c *Camera) EndDrag(idleMs float64) {
	if !c.dragging {
		return
	}
	c.dragging = false
	if idleMs >= c.opts.IdleNoInertiaMs {
		c.vx = 0
		c.vy = 0
		return
	}
	if idleMs > 0 {
		decay := math.Pow(c.opts.Friction, idleMs/16)
		c.vx *= decay
		c.vy *= decay
	}
	if math.Hypot(c.vx, c.vy) < c.opts.StopSpeed {
		c.vx = 0
		c.vy = 0
	}
}

// Step advances the camera by dtMs milliseconds: zoom easing with
// anchor compensation, pan inertia, reset pull-in, and the document
// pan clamp, in that order.
func (c *Camera) Step(dtMs float64) {
	if dtMs < 1 {
		dtMs = 1
	}

	// Zoom easing in log space.
	zPrev := math.Exp(c.curLogZ)
	alpha := 1 - math.Exp(-c.opts.ApproachKZoom*dtMs)
	c.curLogZ += (c.tgtLogZ - c.curLogZ) * alpha
	zNow := math.Exp(c.curLogZ)

	// Anchor compensation keeps the world point under the anchor fixed.
	// Applied unconditionally: the ratio is 1 when zoom did not move,
	// which keeps the numerics stable.
	ratio := zNow / zPrev
	c.tx = c.anchorX - (c.anchorX-c.tx)*ratio
	c.ty = c.anchorY - (c.anchorY-c.ty)*ratio

	// Pan inertia.
	if !c.dragging {
		if c.panEnabled {
			c.tx += c.vx * dtMs
			c.ty += c.vy * dtMs
			decay := math.Pow(c.opts.Friction, dtMs/16)
			c.vx *= decay
			c.vy *= decay
			if math.Hypot(c.vx, c.vy) < c.opts.StopSpeed {
				c.vx = 0
				c.vy = 0
			}
		} else {
			c.vx = 0
			c.vy = 0
		}
	}

	// Smooth reset pull-in.
	if c.resetting {
		beta := 1 - math.Exp(-c.opts.ApproachKPan*dtMs)
		c.tx -= c.tx * beta
		c.ty -= c.ty * beta
		if math.Abs(c.curLogZ) < 1e-3 && math.Abs(c.tx) < 0.5 && math.Abs(c.ty) < 0.5 {
			c.curLogZ = 0
			c.tgtLogZ = 0
			c.tx = 0
			c.ty = 0
			c.resetting = false
		}
	}

	c.clampPan()
}

// clampPan reprojects the pan so the document satisfies the configured
// clamp policy. No-op without a document.
func (c *Camera) clampPan() {
	if !c.hasDoc || c.doc.Empty() {
		return
	}
	z := math.Exp(c.curLogZ)

	switch c.opts.PanClampMode {
	case ClampMargin:
		c.tx = clampAxisMargin(c.tx, z, c.doc.X, c.doc.Width, c.width, c.margins.Left, c.margins.Right)
		c.ty = clampAxisMargin(c.ty, z, c.doc.Y, c.doc.Height, c.height, c.margins.Top, c.margins.Bottom)
	default:
		minVis := c.opts.MinVisiblePx
		c.tx = clampAxisMinVisible(c.tx, z, c.doc.X, c.doc.Width, c.width, minVis)
		c.ty = clampAxisMinVisible(c.ty, z, c.doc.Y, c.doc.Height, c.height, minVis)
	}
}

// clampAxisMargin implements the margin clamp for one axis. When the
// scaled document fits the available span it is locked to the centered
// position; otherwise the translation is clamped so the document covers
// the span.
func clampAxisMargin(t, z, docPos, docLen, viewLen, marginLo, marginHi float64) float64 {
	avail := viewLen - marginLo - marginHi
	scaled := z * docLen
	if scaled <= avail {
		return marginLo + (avail-scaled)/2 - z*docPos
	}
	lo := (viewLen - marginHi) - z*(docPos+docLen)
	hi := marginLo - z*docPos
	return math.Min(math.Max(t, lo), hi)
}

// clampAxisMinVisible keeps at least minVis CSS pixels of the document
// visible in one axis. A degenerate range pins the translation to its
// midpoint.
func clampAxisMinVisible(t, z, docPos, docLen, viewLen, minVis float64) float64 {
	if minVis > viewLen {
		minVis = math.Max(viewLen-5, 0)
	}
	minVis = math.Min(minVis, z*docLen)

	lo := minVis - z*(docPos+docLen)
	hi := (viewLen - minVis) - z*docPos
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Min(math.Max(t, lo), hi)
}

// PanBy translates the camera directly, outside a drag. Used by hosts
// that implement keyboard panning.
func (c *Camera) PanBy(dx, dy float64) {
	if !c.panEnabled {
		return
	}
	c.tx += dx
	c.ty += dy
	c.clampPan()
}

// SetTranslation sets the pan directly and reclamps.
func (c *Camera) SetTranslation(tx, ty float64) {
	c.tx = tx
	c.ty = ty
	c.clampPan()
}

func isFiniteZoom(z float64) bool {
	return !math.IsNaN(z) && !math.IsInf(z, 0) && z > 0
}
