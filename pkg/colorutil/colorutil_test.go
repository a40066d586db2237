package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexForms(t *testing.T) {
	c, err := ParseHex("#ff0080")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 128, A: 255}, c)

	c, err = ParseHex("f08")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 136, A: 255}, c)

	c, err = ParseHex("#11223344")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, c)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("not a color")
	assert.Error(t, err)
}

func TestToHexRoundTrip(t *testing.T) {
	c := color.RGBA{R: 18, G: 52, B: 86, A: 255}
	hex := ToHex(c)
	assert.Equal(t, "#123456", hex)

	back, err := ParseHex(hex)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestPixelColorRecord(t *testing.T) {
	px := NewPixelColor(255, 128, 0, 255)
	assert.Equal(t, uint8(255), px.R)
	assert.Equal(t, 1.0, px.A)
	assert.Equal(t, "#ff8000", px.Hex)
	assert.Equal(t, "rgba(255,128,0,1.000)", px.RGBA)

	half := NewPixelColor(10, 20, 30, 128)
	assert.InDelta(t, 0.502, half.A, 0.001)
	assert.Equal(t, "rgba(10,20,30,0.502)", half.RGBA)

	zero := TransparentPixel()
	assert.Equal(t, 0.0, zero.A)
	assert.Equal(t, "#000000", zero.Hex)
}

func TestIsTransparentName(t *testing.T) {
	assert.True(t, IsTransparentName(""))
	assert.True(t, IsTransparentName("  "))
	assert.True(t, IsTransparentName("transparent"))
	assert.True(t, IsTransparentName("Transparent"))
	assert.False(t, IsTransparentName("#fff"))
}
