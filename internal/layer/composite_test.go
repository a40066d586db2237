package layer

import (
	"image"
	"image/color"
	"testing"

	"paint-canvas/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

func TestBlendModeStrings(t *testing.T) {
	assert.Equal(t, "Normal", BlendNormal.String())
	assert.Equal(t, "Multiply", BlendMultiply.String())
	assert.Equal(t, "Screen", BlendScreen.String())
	assert.Equal(t, "Overlay", BlendOverlay.String())
	assert.Equal(t, "Difference", BlendDifference.String())
}

func TestBlendPixelModes(t *testing.T) {
	dst := color.RGBA{R: 128, G: 128, B: 128, A: 255}

	// Normal replaces with the source at full opacity.
	out := blendPixel(dst, color.RGBA{R: 255, A: 255}, BlendNormal, 1)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out)

	// Multiply with white leaves the destination unchanged.
	out = blendPixel(dst, color.RGBA{R: 255, G: 255, B: 255, A: 255}, BlendMultiply, 1)
	assert.InDelta(t, 128, int(out.R), 1)
	assert.InDelta(t, 128, int(out.G), 1)

	// Multiply with black gives black.
	out = blendPixel(dst, color.RGBA{A: 255}, BlendMultiply, 1)
	assert.Equal(t, uint8(0), out.R)

	// Screen with black leaves the destination unchanged.
	out = blendPixel(dst, color.RGBA{A: 255}, BlendScreen, 1)
	assert.InDelta(t, 128, int(out.R), 1)

	// Difference of equal colors is black.
	out = blendPixel(dst, dst, BlendDifference, 1)
	assert.Equal(t, uint8(0), out.R)
	assert.Equal(t, uint8(255), out.A)
}

func TestBlendPixelOpacity(t *testing.T) {
	dst := color.RGBA{A: 255} // opaque black
	out := blendPixel(dst, color.RGBA{R: 255, A: 255}, BlendNormal, 0.5)
	assert.InDelta(t, 128, int(out.R), 1)
	assert.Equal(t, uint8(255), out.A)
}

func TestBlendPixelOntoTransparent(t *testing.T) {
	out := blendPixel(color.RGBA{}, color.RGBA{R: 200, A: 255}, BlendNormal, 1)
	assert.Equal(t, color.RGBA{R: 200, A: 255}, out)

	// Non-normal modes pass the source through where nothing exists
	// underneath.
	out = blendPixel(color.RGBA{}, color.RGBA{R: 200, A: 255}, BlendMultiply, 1)
	assert.Equal(t, uint8(200), out.R)
}

func TestCompositeRasterTranslation(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, red)
		}
	}

	compositeRaster(dst, src, geometry.Translation(10, 10), 1, BlendNormal, dst.Bounds())
	assert.Equal(t, red, dst.RGBAAt(11, 11))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(15, 15))
}

func TestCompositeRasterScale(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(0, 0, red)

	// 2x zoom: source pixel (0,0) covers destination (0,0)-(2,2).
	compositeRaster(dst, src, geometry.Scale(2, 2), 1, BlendNormal, dst.Bounds())
	assert.Equal(t, red, dst.RGBAAt(0, 0))
	assert.Equal(t, red, dst.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(2, 2))
}

func TestCompositeRasterClip(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			src.SetRGBA(x, y, red)
		}
	}

	compositeRaster(dst, src, geometry.Identity(), 1, BlendNormal, image.Rect(5, 5, 10, 10))
	assert.Equal(t, red, dst.RGBAAt(7, 7))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(12, 12))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(2, 2))
}

func TestCompositeRasterSkipsTransparentSource(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	dst.SetRGBA(3, 3, blue)
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))

	compositeRaster(dst, src, geometry.Identity(), 1, BlendNormal, dst.Bounds())
	assert.Equal(t, blue, dst.RGBAAt(3, 3))
}
