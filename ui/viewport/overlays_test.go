package viewport

import (
	"image"
	"image/color"
	"testing"

	"paint-canvas/internal/layer"
	"paint-canvas/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

func overlayContext(w, h int, zoom, dpr float64) *layer.RenderContext {
	return &layer.RenderContext{
		Dst:    image.NewRGBA(image.Rect(0, 0, w, h)),
		World:  geometry.ScaleTranslate(zoom*dpr, 0, 0),
		Screen: geometry.ScaleTranslate(dpr, 0, 0),
		Zoom:   zoom,
		DPR:    dpr,
	}
}

func TestBrushRingOnePixelAtAnyZoom(t *testing.T) {
	for _, zoom := range []float64{1, 4} {
		rc := overlayContext(400, 400, zoom, 1)
		ring := NewBrushRingLayer()
		ring.SetVisible(true)
		ring.Center = geometry.Point2D{X: 50 / zoom, Y: 50 / zoom}
		ring.Radius = 20 / zoom // 20 device px at this zoom

		ring.Render(rc)

		// On the ring: 20 device pixels right of center.
		on := rc.Dst.RGBAAt(69, 49)
		assert.NotEqual(t, color.RGBA{}, on, "zoom %v", zoom)
		// Two pixels inside the ring: clear. The outline never grows
		// with zoom.
		in := rc.Dst.RGBAAt(66, 49)
		assert.Equal(t, color.RGBA{}, in, "zoom %v", zoom)
		// Center clear.
		assert.Equal(t, color.RGBA{}, rc.Dst.RGBAAt(49, 49), "zoom %v", zoom)
	}
}

func TestBrushRingZeroRadiusDrawsNothing(t *testing.T) {
	rc := overlayContext(100, 100, 1, 1)
	ring := NewBrushRingLayer()
	ring.SetVisible(true)
	ring.Render(rc)

	for i := range rc.Dst.Pix {
		if rc.Dst.Pix[i] != 0 {
			t.Fatalf("pixel data written for zero radius")
		}
	}
}

func TestColorSwatchRendersAtScreenPosition(t *testing.T) {
	rc := overlayContext(100, 100, 3, 1) // zoom must not matter
	swatch := NewColorSwatchLayer(10, 10, 20)
	swatch.Color = color.RGBA{R: 255, A: 255}

	swatch.Render(rc)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, rc.Dst.RGBAAt(20, 20))
	// Border pixel.
	assert.Equal(t, color.RGBA{R: 32, G: 32, B: 32, A: 255}, rc.Dst.RGBAAt(10, 10))
	// Outside.
	assert.Equal(t, color.RGBA{}, rc.Dst.RGBAAt(50, 50))
}

func TestSwatchHitTest(t *testing.T) {
	swatch := NewColorSwatchLayer(10, 10, 20)
	assert.True(t, swatch.HitTest(15, 15))
	assert.False(t, swatch.HitTest(45, 15))
	assert.False(t, NewBrushRingLayer().HitTest(0, 0))
}
