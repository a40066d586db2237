package view

import (
	"image/color"
	"testing"

	"paint-canvas/internal/camera"
	"paint-canvas/internal/layer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, opts Options) *Controller {
	t.Helper()
	c, err := NewController(100, 100, 1, opts, nil, nil)
	require.NoError(t, err)
	return c
}

func TestNewControllerInvalidSize(t *testing.T) {
	_, err := NewController(0, 100, 1, DefaultOptions(), nil, nil)
	assert.Error(t, err)
}

func TestFrameFillsBackground(t *testing.T) {
	c := newTestController(t, DefaultOptions())
	out := c.Frame(0)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(50, 50))
}

func TestTransparentBackground(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "transparent"
	c := newTestController(t, opts)
	out := c.Frame(0)
	assert.Equal(t, color.RGBA{}, out.RGBAAt(50, 50))

	opts.Background = ""
	c = newTestController(t, opts)
	out = c.Frame(0)
	assert.Equal(t, color.RGBA{}, out.RGBAAt(50, 50))
}

func TestContentLayerRendersThroughCamera(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "transparent"
	c := newTestController(t, opts)

	l, err := layer.NewCanvasLayer("paint", 20, 20, nil)
	require.NoError(t, err)
	l.Fill(color.RGBA{R: 255, A: 255})
	c.ContentLayers().AddLayer(l)

	out := c.Frame(0)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(50, 50))

	// Panning moves world content.
	c.Camera().SetTranslation(30, 30)
	out = c.Frame(16)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(40, 40))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(10, 10))
}

func TestOverlayLayerIgnoresCamera(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "transparent"
	c := newTestController(t, opts)

	l, err := layer.NewCanvasLayer("cursor", 10, 10, nil)
	require.NoError(t, err)
	l.SetSpace(layer.SpaceScreen)
	l.Fill(color.RGBA{G: 255, A: 255})
	c.OverlayLayers().AddLayer(l)

	c.Camera().SetTranslation(500, 500)
	out := c.Frame(0)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(5, 5))
}

func TestOverlayDrawsOverContent(t *testing.T) {
	c := newTestController(t, DefaultOptions())

	content, err := layer.NewCanvasLayer("content", 100, 100, nil)
	require.NoError(t, err)
	content.Fill(color.RGBA{R: 255, A: 255})
	c.ContentLayers().AddLayer(content)

	overlay, err := layer.NewCanvasLayer("overlay", 100, 100, nil)
	require.NoError(t, err)
	overlay.SetSpace(layer.SpaceScreen)
	overlay.Fill(color.RGBA{B: 255, A: 255})
	c.OverlayLayers().AddLayer(overlay)

	out := c.Frame(0)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(50, 50))
}

func TestDocumentClipsContent(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "transparent"
	c := newTestController(t, opts)
	c.SetDocumentRect(0, 0, 30, 30)

	l, err := layer.NewCanvasLayer("paint", 100, 100, nil)
	require.NoError(t, err)
	l.Fill(color.RGBA{R: 255, A: 255})
	c.ContentLayers().AddLayer(l)

	out := c.Frame(0)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(15, 15))
	// Outside the document rectangle nothing is painted.
	assert.Equal(t, color.RGBA{}, out.RGBAAt(60, 60))
}

func TestDocBorderDrawn(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "transparent"
	opts.DrawDocBorder = true
	c := newTestController(t, opts)
	c.SetDocumentRect(10, 10, 50, 50)

	out := c.Frame(0)
	border := out.RGBAAt(30, 10)
	assert.NotEqual(t, color.RGBA{}, border)
}

func TestPixelReadBack(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "#ff0000"
	c := newTestController(t, opts)
	c.Frame(0)

	px := c.GetPixelColorAtScreen(50, 50)
	assert.Equal(t, uint8(255), px.R)
	assert.Equal(t, uint8(0), px.G)
	assert.Equal(t, 1.0, px.A)
	assert.Equal(t, "#ff0000", px.Hex)
	assert.Equal(t, "rgba(255,0,0,1.000)", px.RGBA)

	// Outside the surface: transparent black.
	out := c.GetPixelColorAtScreen(-5, 50)
	assert.Equal(t, 0.0, out.A)
	out = c.GetPixelColorAtScreen(50, 1e6)
	assert.Equal(t, "#000000", out.Hex)
}

func TestPixelReadAtWorldFollowsCamera(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "transparent"
	c := newTestController(t, opts)

	l, err := layer.NewCanvasLayer("paint", 10, 10, nil)
	require.NoError(t, err)
	l.Fill(color.RGBA{B: 255, A: 255})
	c.ContentLayers().AddLayer(l)

	c.Camera().SetTranslation(40, 40)
	c.Frame(0)

	px := c.GetPixelColorAtWorld(5, 5)
	assert.Equal(t, uint8(255), px.B)
}

func TestHighDPRPixelRead(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "transparent"
	c, err := NewController(100, 100, 2, opts, nil, nil)
	require.NoError(t, err)

	// Device surfaces are floor(css * dpr).
	assert.Equal(t, 200, c.Final().Bounds().Dx())

	l, lerr := layer.NewCanvasLayer("paint", 10, 10, nil)
	require.NoError(t, lerr)
	l.Fill(color.RGBA{R: 255, A: 255})
	c.ContentLayers().AddLayer(l)
	c.Frame(0)

	// CSS (5,5) maps to device (10,10), inside the scaled layer.
	px := c.GetPixelColorAtScreen(5, 5)
	assert.Equal(t, uint8(255), px.R)
	// CSS (15,15) is past the 10-unit world raster.
	px = c.GetPixelColorAtScreen(15, 15)
	assert.Equal(t, 0.0, px.A)
}

func TestResizeSyncsPlanes(t *testing.T) {
	c := newTestController(t, DefaultOptions())
	c.Resize(200, 150, 2)

	assert.Equal(t, 400, c.Final().Bounds().Dx())
	assert.Equal(t, 300, c.Final().Bounds().Dy())
	w, h := c.Size()
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 150.0, h)

	// Frames keep working at the new size.
	out := c.Frame(0)
	assert.Equal(t, 400, out.Bounds().Dx())
}

func TestHostCallbacksInvoked(t *testing.T) {
	contentCalls := 0
	overlayCalls := 0
	c, err := NewController(50, 50, 1, DefaultOptions(),
		func(c *Controller, rc *layer.RenderContext) {
			contentCalls++
			rc.Dst.SetRGBA(10, 10, color.RGBA{G: 255, A: 255})
		},
		func(c *Controller, rc *layer.RenderContext) {
			overlayCalls++
		})
	require.NoError(t, err)

	out := c.Frame(0)
	assert.Equal(t, 1, contentCalls)
	assert.Equal(t, 1, overlayCalls)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(10, 10))
}

func TestEventsEmitted(t *testing.T) {
	c := newTestController(t, DefaultOptions())

	var zoomEvents, frameEvents int
	c.On(EventZoomChanged, func(data interface{}) { zoomEvents++ })
	c.On(EventFrameRendered, func(data interface{}) { frameEvents++ })

	c.Camera().ZoomToAtScreen(50, 50, 2)
	c.Frame(0)
	c.Frame(16)

	assert.Equal(t, 2, frameEvents)
	assert.Greater(t, zoomEvents, 0)
}

func TestDestroyStopsRendering(t *testing.T) {
	c := newTestController(t, DefaultOptions())
	l, err := layer.NewCanvasLayer("paint", 10, 10, nil)
	require.NoError(t, err)
	c.ContentLayers().AddLayer(l)

	c.Destroy()
	assert.True(t, c.Destroyed())
	assert.Nil(t, l.Raster())
	assert.Zero(t, c.ContentLayers().Count())

	// Frame after destroy is a no-op.
	c.Frame(100)
}

func TestPlaneBoundManagers(t *testing.T) {
	c := newTestController(t, DefaultOptions())
	cm := NewContentLayerManager(c)
	om := NewOverlayLayerManager(c)

	assert.Same(t, c.ContentLayers(), cm.Manager)
	assert.Same(t, c.OverlayLayers(), om.Manager)
	assert.Same(t, c, cm.View())
	assert.Same(t, c, om.View())
}

func TestCameraDelegation(t *testing.T) {
	c := newTestController(t, DefaultOptions())
	c.SetDocumentRect(0, 0, 80, 80)
	c.SetDocumentMargins(10, 10, 10, 10)
	c.SetPanClampMode(camera.ClampMargin)

	c.ZoomDocumentToFit(camera.FitContain)
	assert.InDelta(t, 1.0, c.Camera().Zoom(), 1e-12)

	c.ZoomToAtScreenRaw(50, 50, 2)
	assert.InDelta(t, 2.0, c.Camera().Zoom(), 1e-9)

	c.ResetInstant()
	assert.Equal(t, 1.0, c.Camera().Zoom())

	c.SetPanEnabled(false)
	assert.False(t, c.Camera().PanEnabled())
	c.SetZoomEnabled(false)
	c.ZoomToAtScreen(0, 0, 4)
	assert.InDelta(t, 1.0, c.Camera().TargetZoom(), 1e-12)
}

func TestWheelForwarding(t *testing.T) {
	opts := DefaultOptions()
	opts.Camera = camera.DefaultOptions()
	c := newTestController(t, opts)

	c.HandleWheel(-100, camera.DeltaPixel, 50, 50, false, false)
	assert.Greater(t, c.Camera().TargetZoom(), 1.0)
}
