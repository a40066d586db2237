// Sample overlay layers: a brush-radius ring that stays one CSS pixel
// wide at any zoom, and a fixed color swatch. Both live on the overlay
// plane; they are library samples, not part of the core contract.
package viewport

import (
	"image"
	"image/color"
	"math"

	"paint-canvas/internal/layer"
	"paint-canvas/pkg/geometry"
)

// BrushRingLayer draws a circle outline around the brush position.
// The center is held in world coordinates (the host converts the
// pointer via the view) while the outline width is one CSS pixel
// regardless of zoom.
type BrushRingLayer struct {
	layer.Base

	Center geometry.Point2D // world coordinates
	Radius float64          // world units (brush size / 2)
	Color  color.RGBA
}

// NewBrushRingLayer creates a hidden brush ring; the host shows it on
// hover and moves it with the pointer.
func NewBrushRingLayer() *BrushRingLayer {
	l := &BrushRingLayer{
		Base:  layer.NewBase("brush ring", layer.KindOverlay, layer.SpaceWorld),
		Color: color.RGBA{R: 64, G: 64, B: 64, A: 255},
	}
	l.SetVisible(false)
	return l
}

// Render outlines the ring in device pixels. The world transform
// scales the radius; the outline thickness is DPR device pixels (one
// CSS pixel).
func (l *BrushRingLayer) Render(rc *layer.RenderContext) {
	if l.Radius <= 0 {
		return
	}
	center := rc.World.Apply(l.Center)
	r := l.Radius * rc.Zoom * rc.DPR
	half := rc.DPR / 2
	outer2 := (r + half) * (r + half)
	inner2 := (r - half) * (r - half)

	drawRing(rc.Dst, center.X, center.Y, inner2, outer2, l.Color)
}

// HitTest always misses: the ring is pure feedback.
func (l *BrushRingLayer) HitTest(x, y float64) bool { return false }

// Destroy implements layer.Layer; the ring owns nothing.
func (l *BrushRingLayer) Destroy() {}

// ColorSwatchLayer is a screen-space square showing the active color.
type ColorSwatchLayer struct {
	layer.Base

	Position geometry.Point2D // CSS pixels
	Size     float64          // CSS pixels
	Color    color.RGBA
}

// NewColorSwatchLayer creates a swatch square at the given CSS
// position.
func NewColorSwatchLayer(x, y, size float64) *ColorSwatchLayer {
	return &ColorSwatchLayer{
		Base:     layer.NewBase("color swatch", layer.KindOverlay, layer.SpaceScreen),
		Position: geometry.Point2D{X: x, Y: y},
		Size:     size,
		Color:    color.RGBA{A: 255},
	}
}

// Render fills the swatch with the current color and a one-pixel dark
// border.
func (l *ColorSwatchLayer) Render(rc *layer.RenderContext) {
	min := rc.Screen.Apply(l.Position)
	max := rc.Screen.Apply(geometry.Point2D{X: l.Position.X + l.Size, Y: l.Position.Y + l.Size})
	bounds := rc.Dst.Bounds()

	x1 := int(math.Floor(min.X))
	y1 := int(math.Floor(min.Y))
	x2 := int(math.Ceil(max.X))
	y2 := int(math.Ceil(max.Y))
	border := color.RGBA{R: 32, G: 32, B: 32, A: 255}

	for y := y1; y < y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x < x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			if x == x1 || x == x2-1 || y == y1 || y == y2-1 {
				rc.Dst.SetRGBA(x, y, border)
			} else {
				rc.Dst.SetRGBA(x, y, l.Color)
			}
		}
	}
}

// HitTest reports whether a CSS point falls on the swatch.
func (l *ColorSwatchLayer) HitTest(x, y float64) bool {
	return x >= l.Position.X && x <= l.Position.X+l.Size &&
		y >= l.Position.Y && y <= l.Position.Y+l.Size
}

// Destroy implements layer.Layer; the swatch owns nothing.
func (l *ColorSwatchLayer) Destroy() {}

// drawRing paints the pixels whose centers fall between the squared
// inner and outer radii.
func drawRing(dst *image.RGBA, cx, cy, inner2, outer2 float64, col color.RGBA) {
	bounds := dst.Bounds()
	r := math.Sqrt(outer2)
	minX := int(math.Floor(cx - r))
	maxX := int(math.Ceil(cx + r))
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))

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
			d2 := dx*dx + dy*dy
			if d2 <= outer2 && d2 >= inner2 {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}
