// Package layer provides the layer model: the Layer interface, the
// shared pose record, raster canvas layers with stroke painting,
// bitmap layers, ordered layer managers, and the stroke undo command.
package layer

import (
	"image"
	"math"
	"sync/atomic"

	"paint-canvas/pkg/geometry"
)

// Kind tags the concrete layer variant.
type Kind int

const (
	KindCanvas Kind = iota
	KindBitmap
	KindOverlay
)

func (k Kind) String() string {
	switch k {
	case KindCanvas:
		return "canvas"
	case KindBitmap:
		return "bitmap"
	case KindOverlay:
		return "overlay"
	default:
		return "Unknown"
	}
}

// Space selects the coordinate space a layer is rendered in.
type Space int

const (
	// SpaceWorld layers follow the camera: they pan and zoom.
	SpaceWorld Space = iota
	// SpaceScreen layers are fixed to the viewport in CSS pixels.
	SpaceScreen
)

func (s Space) String() string {
	switch s {
	case SpaceWorld:
		return "world"
	case SpaceScreen:
		return "screen"
	default:
		return "Unknown"
	}
}

// Anchor selects the pose origin within the layer's raster.
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorCenter
)

// Layer is a drawable entity in one of the two planes. Render is
// called with a context whose transforms are already set up for the
// frame; the layer applies its own pose on top.
type Layer interface {
	ID() int
	Name() string
	Kind() Kind
	Space() Space
	Visible() bool
	Opacity() float64
	Blend() BlendMode

	// Render draws the layer into rc.Dst. Layers with Visible false
	// or Opacity <= 0 are skipped upstream and Render is not called.
	Render(rc *RenderContext)

	// HitTest reports whether the point, given in the layer's space,
	// falls on the layer.
	HitTest(x, y float64) bool

	// Destroy releases owned resources. The layer must not be used
	// afterwards.
	Destroy()

	// AsCanvas probes for the raster-painting variant.
	AsCanvas() (*CanvasLayer, bool)
}

// RenderContext carries the per-frame destination and transforms.
// World maps world coordinates to device pixels, Screen maps CSS
// screen coordinates to device pixels (the DPR scale). Clip, when
// non-empty, restricts writes to a device-pixel rectangle.
type RenderContext struct {
	Dst    *image.RGBA
	World  geometry.AffineTransform
	Screen geometry.AffineTransform
	Clip   image.Rectangle
	Zoom   float64
	DPR    float64
}

// TransformFor returns the space-to-device transform for a layer space.
func (rc *RenderContext) TransformFor(s Space) geometry.AffineTransform {
	if s == SpaceScreen {
		return rc.Screen
	}
	return rc.World
}

// clipBounds returns the effective destination clip.
func (rc *RenderContext) clipBounds() image.Rectangle {
	if rc.Clip.Empty() {
		return rc.Dst.Bounds()
	}
	return rc.Clip.Intersect(rc.Dst.Bounds())
}

// Pose is the per-layer placement: translation, rotation around the
// anchor, uniform scale, and the anchor mode.
type Pose struct {
	X        float64
	Y        float64
	Scale    float64
	Rotation float64 // radians
	Anchor   Anchor
}

var nextLayerID atomic.Int64

// Base carries the identity and shared attributes of every layer.
// Concrete layers embed it and implement Render/HitTest/Destroy.
type Base struct {
	id      int
	name    string
	kind    Kind
	space   Space
	visible bool
	opacity float64
	blend   BlendMode
	pose    Pose
}

// NewBase creates the shared attribute record for a custom layer
// implementation: visible, fully opaque, identity pose.
func NewBase(name string, kind Kind, space Space) Base {
	return newBase(name, kind, space)
}

func newBase(name string, kind Kind, space Space) Base {
	return Base{
		id:      int(nextLayerID.Add(1)),
		name:    name,
		kind:    kind,
		space:   space,
		visible: true,
		opacity: 1,
		pose:    Pose{Scale: 1},
	}
}

// ID returns the process-unique layer id.
func (b *Base) ID() int { return b.id }

// Name returns the human-readable layer name.
func (b *Base) Name() string { return b.name }

// SetName renames the layer.
func (b *Base) SetName(name string) { b.name = name }

// Kind returns the layer variant tag.
func (b *Base) Kind() Kind { return b.kind }

// Space returns the coordinate space the layer renders in.
func (b *Base) Space() Space { return b.space }

// SetSpace moves the layer to the given coordinate space.
func (b *Base) SetSpace(s Space) { b.space = s }

// Visible reports whether the layer is rendered.
func (b *Base) Visible() bool { return b.visible }

// SetVisible toggles rendering of the layer.
func (b *Base) SetVisible(v bool) { b.visible = v }

// Opacity returns the layer opacity in [0, 1].
func (b *Base) Opacity() float64 { return b.opacity }

// SetOpacity sets the layer opacity, clamped to [0, 1].
func (b *Base) SetOpacity(o float64) {
	b.opacity = math.Min(math.Max(o, 0), 1)
}

// Blend returns the compositing mode.
func (b *Base) Blend() BlendMode { return b.blend }

// SetBlend sets the compositing mode.
func (b *Base) SetBlend(m BlendMode) { b.blend = m }

// Pose returns the current pose.
func (b *Base) Pose() Pose { return b.pose }

// SetPose replaces the pose. A non-positive scale is reset to 1.
func (b *Base) SetPose(p Pose) {
	if p.Scale <= 0 {
		p.Scale = 1
	}
	b.pose = p
}

// SetPosition moves the layer's pose translation.
func (b *Base) SetPosition(x, y float64) {
	b.pose.X = x
	b.pose.Y = y
}

// AsCanvas reports that the layer is not a canvas layer; CanvasLayer
// overrides it.
func (b *Base) AsCanvas() (*CanvasLayer, bool) { return nil, false }

// anchorOffset returns the pose origin inside a w x h raster.
func (p Pose) anchorOffset(w, h float64) (float64, float64) {
	if p.Anchor == AnchorCenter {
		return w / 2, h / 2
	}
	return 0, 0
}

// Transform returns the local-to-space transform of the pose for a
// raster of the given size: anchor offset, scale, rotation, then
// translation.
func (p Pose) Transform(w, h float64) geometry.AffineTransform {
	ax, ay := p.anchorOffset(w, h)
	t := geometry.Translation(p.X, p.Y)
	t = t.Compose(geometry.Rotation(p.Rotation))
	t = t.Compose(geometry.Scale(p.Scale, p.Scale))
	return t.Compose(geometry.Translation(-ax, -ay))
}

// ToLocal maps a point in the pose's space to local raster
// coordinates: translate by the negated position, rotate back, divide
// by scale, then add the anchor offset.
func (p Pose) ToLocal(x, y, w, h float64) (lx, ly float64) {
	dx := x - p.X
	dy := y - p.Y
	cos := math.Cos(-p.Rotation)
	sin := math.Sin(-p.Rotation)
	rx := dx*cos - dy*sin
	ry := dx*sin + dy*cos
	s := p.Scale
	if s == 0 {
		s = 1
	}
	ax, ay := p.anchorOffset(w, h)
	return rx/s + ax, ry/s + ay
}
