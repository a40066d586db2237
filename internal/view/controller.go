// Package view implements the viewport controller: it owns the camera,
// the three render surfaces (content, overlay, final), the per-frame
// pipeline, coordinate conversion, and pixel read-back.
package view

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"paint-canvas/internal/camera"
	"paint-canvas/internal/layer"
	"paint-canvas/pkg/colorutil"
	"paint-canvas/pkg/geometry"
)

// RenderFunc is a host-supplied render callback invoked during the
// frame with the plane's transform already set up in the context.
type RenderFunc func(c *Controller, rc *layer.RenderContext)

// Options configures the controller.
type Options struct {
	Camera camera.Options

	// Background fills the content plane each frame. Empty or
	// "transparent" leaves it transparent. Default "#fff".
	Background string

	// DrawDocBorder draws a 1-CSS-pixel border at the document edges.
	DrawDocBorder bool

	// AutoResize keeps the surfaces synced to the widget size.
	AutoResize bool

	// WheelLineHeight and WheelPageHeight convert line and page wheel
	// deltas to pixels. Defaults 16 and 800.
	WheelLineHeight float64
	WheelPageHeight float64
}

// DefaultOptions returns the stock controller configuration.
func DefaultOptions() Options {
	return Options{
		Camera:          camera.DefaultOptions(),
		Background:      "#fff",
		AutoResize:      true,
		WheelLineHeight: 16,
		WheelPageHeight: 800,
	}
}

// Controller owns the camera and the three drawing surfaces. The
// content plane receives world-space layers under the camera
// transform, the overlay plane receives screen-space layers under the
// identity transform, and each frame both are blitted onto the final
// surface in that order.
type Controller struct {
	cam  *camera.Camera
	opts Options

	cssW, cssH float64
	dpr        float64

	content *image.RGBA
	overlay *image.RGBA
	final   *image.RGBA

	contentLayers *layer.Manager
	overlayLayers *layer.Manager

	renderContent RenderFunc
	renderOverlay RenderFunc

	background    color.RGBA
	hasBackground bool

	lastTs    float64
	haveTs    bool
	destroyed bool

	eventMu   sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewController creates a controller for a surface of the given CSS
// size and device pixel ratio. renderContent and renderOverlay may be
// nil; the built-in layer managers render either way.
func NewController(cssW, cssH, dpr float64, opts Options, renderContent, renderOverlay RenderFunc) (*Controller, error) {
	if cssW <= 0 || cssH <= 0 {
		return nil, fmt.Errorf("view controller: invalid surface size %gx%g", cssW, cssH)
	}
	if dpr < 1 {
		dpr = 1
	}
	if opts.WheelLineHeight <= 0 {
		opts.WheelLineHeight = 16
	}
	if opts.WheelPageHeight <= 0 {
		opts.WheelPageHeight = 800
	}

	c := &Controller{
		cam:           camera.New(cssW, cssH, opts.Camera),
		opts:          opts,
		cssW:          cssW,
		cssH:          cssH,
		dpr:           dpr,
		contentLayers: layer.NewManager(),
		overlayLayers: layer.NewManager(),
		renderContent: renderContent,
		renderOverlay: renderOverlay,
		listeners:     make(map[EventType][]EventListener),
	}
	c.setBackground(opts.Background)

	devW := int(math.Floor(cssW * dpr))
	devH := int(math.Floor(cssH * dpr))
	c.final = image.NewRGBA(image.Rect(0, 0, devW, devH))
	c.content = image.NewRGBA(image.Rect(0, 0, devW, devH))
	c.overlay = image.NewRGBA(image.Rect(0, 0, devW, devH))
	return c, nil
}

func (c *Controller) setBackground(s string) {
	if colorutil.IsTransparentName(s) {
		c.hasBackground = false
		return
	}
	col, err := colorutil.ParseHex(s)
	if err != nil {
		// Unparseable backgrounds fall back to white rather than
		// failing construction.
		col = colorutil.White
	}
	c.background = col
	c.hasBackground = true
}

// SetBackground changes the content background fill.
func (c *Controller) SetBackground(s string) {
	c.setBackground(s)
}

// Camera returns the owned camera.
func (c *Controller) Camera() *camera.Camera { return c.cam }

// ContentLayers returns the content plane's layer manager.
func (c *Controller) ContentLayers() *layer.Manager { return c.contentLayers }

// OverlayLayers returns the overlay plane's layer manager.
func (c *Controller) OverlayLayers() *layer.Manager { return c.overlayLayers }

// Size returns the CSS-pixel surface size.
func (c *Controller) Size() (w, h float64) { return c.cssW, c.cssH }

// DPR returns the device pixel ratio.
func (c *Controller) DPR() float64 { return c.dpr }

// Final returns the final composed surface.
func (c *Controller) Final() *image.RGBA { return c.final }

// AutoResize reports whether the controller tracks its widget's size.
func (c *Controller) AutoResize() bool { return c.opts.AutoResize }

// Resize synchronizes the surfaces to a new CSS size and device pixel
// ratio. Device dimensions are floor(css * dpr); the content and
// overlay offscreens match the final surface.
func (c *Controller) Resize(cssW, cssH, dpr float64) {
	if c.destroyed || cssW <= 0 || cssH <= 0 {
		return
	}
	if dpr < 1 {
		dpr = 1
	}
	devW := int(math.Floor(cssW * dpr))
	devH := int(math.Floor(cssH * dpr))
	if devW == c.final.Bounds().Dx() && devH == c.final.Bounds().Dy() &&
		cssW == c.cssW && cssH == c.cssH && dpr == c.dpr {
		return
	}
	c.cssW = cssW
	c.cssH = cssH
	c.dpr = dpr
	c.cam.SetViewportSize(cssW, cssH)
	c.final = image.NewRGBA(image.Rect(0, 0, devW, devH))
	c.content = image.NewRGBA(image.Rect(0, 0, devW, devH))
	c.overlay = image.NewRGBA(image.Rect(0, 0, devW, devH))
	c.Emit(EventResized, geometry.Size{Width: cssW, Height: cssH})
}

// SetPanClampMode selects the document pan clamp policy.
func (c *Controller) SetPanClampMode(mode camera.ClampMode) {
	c.cam.SetPanClampMode(mode)
}

// SetPanEnabled gates pan interaction; disabling terminates any
// in-flight drag and zeroes inertia.
func (c *Controller) SetPanEnabled(enabled bool) {
	c.cam.SetPanEnabled(enabled)
}

// SetZoomEnabled gates zoom interaction.
func (c *Controller) SetZoomEnabled(enabled bool) {
	c.cam.SetZoomEnabled(enabled)
}

// ZoomToAtScreen smoothly retargets to the absolute zoom z anchored at
// the CSS point (ax, ay).
func (c *Controller) ZoomToAtScreen(ax, ay, z float64) {
	c.cam.ZoomToAtScreen(ax, ay, z)
}

// ZoomToAtScreenRaw snaps immediately to the absolute zoom z anchored
// at (ax, ay).
func (c *Controller) ZoomToAtScreenRaw(ax, ay, z float64) {
	c.cam.ZoomToAtScreenRaw(ax, ay, z)
}

// ZoomByFactorAtScreen multiplies the target zoom by f around a CSS
// anchor.
func (c *Controller) ZoomByFactorAtScreen(ax, ay, f float64) {
	c.cam.ZoomByFactorAtScreen(ax, ay, f)
}

// ZoomByFactorAtWorld multiplies the target zoom by f around a world
// anchor.
func (c *Controller) ZoomByFactorAtWorld(wx, wy, f float64) {
	c.cam.ZoomByFactorAtWorld(wx, wy, f)
}

// ZoomDocumentToFit snaps zoom and pan so the document satisfies the
// fit mode within the margin-reduced viewport.
func (c *Controller) ZoomDocumentToFit(mode camera.FitMode) {
	c.cam.FitDocument(mode)
}

// ResetSmooth starts an animated return to identity.
func (c *Controller) ResetSmooth() {
	c.cam.ResetSmooth()
}

// ResetInstant snaps to identity immediately.
func (c *Controller) ResetInstant() {
	c.cam.ResetInstant()
}

// ToWorld converts a CSS screen point to world coordinates.
func (c *Controller) ToWorld(x, y float64) (wx, wy float64) {
	return c.cam.ToWorld(x, y)
}

// ToScreen converts a world point to CSS screen coordinates.
func (c *Controller) ToScreen(wx, wy float64) (x, y float64) {
	return c.cam.ToScreen(wx, wy)
}

// Frame advances the camera and renders one frame. nowMs is a
// monotonic millisecond timestamp; elapsed time is clamped to at
// least 1 ms. Returns the final surface.
func (c *Controller) Frame(nowMs float64) *image.RGBA {
	if c.destroyed {
		return c.final
	}
	dt := 16.0
	if c.haveTs {
		dt = math.Max(1, nowMs-c.lastTs)
	}
	c.lastTs = nowMs
	c.haveTs = true

	zBefore := c.cam.Zoom()
	txBefore, tyBefore := c.cam.Translation()

	c.cam.Step(dt)

	if z := c.cam.Zoom(); z != zBefore {
		c.Emit(EventZoomChanged, z)
	}
	if tx, ty := c.cam.Translation(); tx != txBefore || ty != tyBefore {
		c.Emit(EventPanChanged, geometry.Point2D{X: tx, Y: ty})
	}

	c.renderPlanes()
	c.Emit(EventFrameRendered, nil)
	return c.final
}

// renderPlanes runs the content pass, the overlay pass, and the final
// blit.
func (c *Controller) renderPlanes() {
	z := c.cam.Zoom()
	tx, ty := c.cam.Translation()

	// Content background.
	if c.hasBackground {
		draw.Draw(c.content, c.content.Bounds(), &image.Uniform{c.background}, image.Point{}, draw.Src)
	} else {
		clearRGBA(c.content)
	}
	clearRGBA(c.overlay)

	world := geometry.ScaleTranslate(c.dpr*z, c.dpr*tx, c.dpr*ty)
	screen := geometry.ScaleTranslate(c.dpr, 0, 0)

	rc := &layer.RenderContext{
		Dst:    c.content,
		World:  world,
		Screen: screen,
		Zoom:   z,
		DPR:    c.dpr,
	}

	doc, hasDoc := c.cam.DocumentRect()
	if hasDoc {
		// World content is clipped to the document rectangle.
		devRect := world.ApplyRect(doc).Outset()
		rc.Clip = image.Rect(devRect.X, devRect.Y, devRect.X+devRect.Width, devRect.Y+devRect.Height).
			Intersect(c.content.Bounds())
	}

	c.contentLayers.RenderAll(rc)
	if c.renderContent != nil {
		c.renderContent(c, rc)
	}
	if hasDoc && c.opts.DrawDocBorder {
		c.drawDocBorder(world, doc)
	}

	// Overlay pass: identity CSS transform, no clip.
	orc := &layer.RenderContext{
		Dst:    c.overlay,
		World:  world,
		Screen: screen,
		Zoom:   z,
		DPR:    c.dpr,
	}
	c.overlayLayers.RenderAll(orc)
	if c.renderOverlay != nil {
		c.renderOverlay(c, orc)
	}

	// Final blit: content, then overlay on top.
	draw.Draw(c.final, c.final.Bounds(), c.content, image.Point{}, draw.Src)
	draw.Draw(c.final, c.final.Bounds(), c.overlay, image.Point{}, draw.Over)
}

// drawDocBorder outlines the document rectangle with a 1-CSS-pixel
// border (DPR device pixels).
func (c *Controller) drawDocBorder(world geometry.AffineTransform, doc geometry.Rect) {
	devRect := world.ApplyRect(doc)
	thickness := int(math.Round(c.dpr))
	if thickness < 1 {
		thickness = 1
	}
	x1 := int(math.Floor(devRect.X))
	y1 := int(math.Floor(devRect.Y))
	x2 := int(math.Ceil(devRect.X + devRect.Width))
	y2 := int(math.Ceil(devRect.Y + devRect.Height))
	bounds := c.content.Bounds()
	borderCol := color.RGBA{R: 136, G: 136, B: 136, A: 255}

	for t := 0; t < thickness; t++ {
		for x := x1; x < x2; x++ {
			setIfInside(c.content, bounds, x, y1+t, borderCol)
			setIfInside(c.content, bounds, x, y2-1-t, borderCol)
		}
		for y := y1; y < y2; y++ {
			setIfInside(c.content, bounds, x1+t, y, borderCol)
			setIfInside(c.content, bounds, x2-1-t, y, borderCol)
		}
	}
}

func setIfInside(img *image.RGBA, bounds image.Rectangle, x, y int, col color.RGBA) {
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		img.SetRGBA(x, y, col)
	}
}

func clearRGBA(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}

// GetPixelColorAtScreen reads the content plane at the device pixel
// under the CSS coordinate. Reads outside the surface return
// transparent black.
func (c *Controller) GetPixelColorAtScreen(sx, sy float64) colorutil.PixelColor {
	dx := int(math.Floor(sx * c.dpr))
	dy := int(math.Floor(sy * c.dpr))
	bounds := c.content.Bounds()
	if dx < bounds.Min.X || dx >= bounds.Max.X || dy < bounds.Min.Y || dy >= bounds.Max.Y {
		return colorutil.TransparentPixel()
	}
	px := c.content.RGBAAt(dx, dy)
	return colorutil.NewPixelColor(px.R, px.G, px.B, px.A)
}

// GetPixelColorAtWorld reads the content plane under a world point.
func (c *Controller) GetPixelColorAtWorld(wx, wy float64) colorutil.PixelColor {
	sx, sy := c.ToScreen(wx, wy)
	return c.GetPixelColorAtScreen(sx, sy)
}

// HandleWheel forwards a wheel event to the camera using the
// configured line and page heights.
func (c *Controller) HandleWheel(deltaY float64, deltaMode int, ax, ay float64, ctrl, shift bool) {
	c.cam.HandleWheel(deltaY, deltaMode, ax, ay, ctrl, shift, c.opts.WheelLineHeight, c.opts.WheelPageHeight)
}

// Destroy tears down the controller: both layer stacks are destroyed
// and further frames are no-ops.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.contentLayers.Destroy()
	c.overlayLayers.Destroy()
	c.listeners = make(map[EventType][]EventListener)
}

// Destroyed reports whether Destroy has been called.
func (c *Controller) Destroyed() bool { return c.destroyed }
