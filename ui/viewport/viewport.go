// Package viewport provides the Fyne widget embedding the view
// controller: the final surface raster, the animation ticker, and the
// pointer/scroll event plumbing.
package viewport

import (
	"image"
	"time"

	"paint-canvas/internal/camera"
	"paint-canvas/internal/view"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// PointerHandler receives pointer events in CSS surface coordinates.
// Returning true consumes the event and suppresses camera panning,
// the drawing-tool case.
type PointerHandler func(x, y float64) bool

// Viewport is the canvas widget. It owns a view.Controller, renders
// its final surface through a Fyne raster, drives the animation loop,
// and translates drag/scroll/mouse events into camera input.
type Viewport struct {
	widget.BaseWidget

	ctrl   *view.Controller
	raster *fynecanvas.Raster
	anim   *fyne.Animation
	epoch  time.Time

	// Host pointer hooks for drawing tools.
	OnPointerDown PointerHandler
	OnPointerMove PointerHandler
	OnPointerUp   PointerHandler

	pointerHeld    bool
	strokeConsumed bool
	lastPos        fyne.Position
	lastDragTime   time.Time
	dragActive     bool
}

// New creates a viewport widget around a controller built from the
// given options. The surface starts at a nominal size and follows the
// widget once laid out.
func New(opts view.Options) (*Viewport, error) {
	ctrl, err := view.NewController(400, 300, 1, opts, nil, nil)
	if err != nil {
		return nil, err
	}
	v := &Viewport{
		ctrl:  ctrl,
		epoch: time.Now(),
	}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v, nil
}

// Controller returns the embedded view controller.
func (v *Viewport) Controller() *view.Controller { return v.ctrl }

// nowMs returns the monotonic frame timestamp in milliseconds.
func (v *Viewport) nowMs() float64 {
	return float64(time.Since(v.epoch)) / float64(time.Millisecond)
}

// draw is the raster callback: it derives the device pixel ratio from
// the physical size Fyne requests, syncs the surfaces, and renders
// the next frame.
func (v *Viewport) draw(w, h int) image.Image {
	size := v.Size()
	cssW := float64(size.Width)
	cssH := float64(size.Height)
	if cssW > 0 && cssH > 0 && v.ctrl.AutoResize() {
		dpr := float64(w) / cssW
		if dpr < 1 {
			dpr = 1
		}
		v.ctrl.Resize(cssW, cssH, dpr)
	}
	return v.ctrl.Frame(v.nowMs())
}

// Refresh redraws the surface.
func (v *Viewport) Refresh() {
	v.raster.Refresh()
}

// StartAnimation begins the repeat-forever frame ticker.
func (v *Viewport) StartAnimation() {
	if v.anim != nil {
		return
	}
	v.anim = &fyne.Animation{
		Duration:    time.Second,
		RepeatCount: fyne.AnimationRepeatForever,
		Curve:       fyne.AnimationLinear,
		Tick: func(float32) {
			v.raster.Refresh()
		},
	}
	v.anim.Start()
}

// StopAnimation halts the frame ticker.
func (v *Viewport) StopAnimation() {
	if v.anim != nil {
		v.anim.Stop()
		v.anim = nil
	}
}

// Destroy stops the ticker and tears down the controller.
func (v *Viewport) Destroy() {
	v.StopAnimation()
	if v.pointerHeld {
		v.pointerHeld = false
	}
	v.ctrl.Destroy()
}

// MouseDown begins either a stroke (when the host consumes the event)
// or a camera pan drag.
func (v *Viewport) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.pointerHeld = true
	v.lastPos = ev.Position
	v.lastDragTime = time.Now()
	v.strokeConsumed = false

	if v.OnPointerDown != nil && v.OnPointerDown(float64(ev.Position.X), float64(ev.Position.Y)) {
		v.strokeConsumed = true
		return
	}
	v.ctrl.Camera().BeginDrag()
	v.dragActive = true
}

// MouseUp finishes the stroke or the pan drag.
func (v *Viewport) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.pointerHeld = false

	if v.strokeConsumed {
		v.strokeConsumed = false
		if v.OnPointerUp != nil {
			v.OnPointerUp(float64(ev.Position.X), float64(ev.Position.Y))
		}
		v.raster.Refresh()
		return
	}
	if v.dragActive {
		idle := float64(time.Since(v.lastDragTime)) / float64(time.Millisecond)
		v.ctrl.Camera().EndDrag(idle)
		v.dragActive = false
	}
}

// Dragged applies pointer movement: stroke extension when the host
// consumed the pointer, camera panning otherwise.
func (v *Viewport) Dragged(ev *fyne.DragEvent) {
	v.lastPos = ev.Position

	if v.strokeConsumed {
		if v.OnPointerMove != nil {
			v.OnPointerMove(float64(ev.Position.X), float64(ev.Position.Y))
		}
		v.raster.Refresh()
		return
	}

	cam := v.ctrl.Camera()
	if !cam.Dragging() {
		cam.BeginDrag()
		v.dragActive = true
		v.lastDragTime = time.Now()
	}
	now := time.Now()
	dt := float64(now.Sub(v.lastDragTime)) / float64(time.Millisecond)
	v.lastDragTime = now
	cam.DragBy(float64(ev.Dragged.DX), float64(ev.Dragged.DY), dt)
	v.raster.Refresh()
}

// DragEnd terminates a pan drag that never saw a MouseUp (pointer
// left the widget). In-progress strokes are abandoned by the host via
// its own pointer-up handling.
func (v *Viewport) DragEnd() {
	if v.strokeConsumed {
		v.strokeConsumed = false
		if v.OnPointerUp != nil {
			v.OnPointerUp(float64(v.lastPos.X), float64(v.lastPos.Y))
		}
		return
	}
	if v.dragActive {
		idle := float64(time.Since(v.lastDragTime)) / float64(time.Millisecond)
		v.ctrl.Camera().EndDrag(idle)
		v.dragActive = false
	}
}

// Scrolled zooms at the cursor. Fyne reports wheel-up as positive DY;
// the camera follows the DOM convention where positive deltas zoom
// out, so the sign flips here.
func (v *Viewport) Scrolled(ev *fyne.ScrollEvent) {
	v.ctrl.HandleWheel(
		float64(-ev.Scrolled.DY), camera.DeltaPixel,
		float64(ev.Position.X), float64(ev.Position.Y),
		false, false,
	)
	v.raster.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (v *Viewport) MouseIn(*desktop.MouseEvent) {}

// MouseMoved forwards hover movement to the host for cursor overlays.
func (v *Viewport) MouseMoved(ev *desktop.MouseEvent) {
	v.lastPos = ev.Position
	if !v.pointerHeld && v.OnPointerMove != nil {
		if v.OnPointerMove(float64(ev.Position.X), float64(ev.Position.Y)) {
			v.raster.Refresh()
		}
	}
}

// MouseOut implements desktop.Hoverable.
func (v *Viewport) MouseOut() {}

// CreateRenderer implements fyne.Widget.
func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return &viewportRenderer{vp: v}
}

type viewportRenderer struct {
	vp *Viewport
}

func (r *viewportRenderer) Layout(size fyne.Size) {
	r.vp.raster.Resize(size)
}

func (r *viewportRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *viewportRenderer) Refresh() {
	r.vp.raster.Refresh()
}

func (r *viewportRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.vp.raster}
}

func (r *viewportRenderer) Destroy() {
	r.vp.StopAnimation()
}
