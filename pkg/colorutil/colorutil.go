// Package colorutil provides shared color utilities: named colors, hex
// parsing, and the pixel-color record returned by surface read-back.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common colors used by the sample overlays and the demo host.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red         = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green       = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue        = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Transparent = color.RGBA{}
)

// PixelColor describes one sampled pixel. R, G, B are 0-255; A is the
// normalized alpha in [0, 1]. Hex is "#rrggbb" and RGBA is the CSS-style
// "rgba(r,g,b,a)" string with three fractional digits of alpha.
type PixelColor struct {
	R    uint8   `json:"r"`
	G    uint8   `json:"g"`
	B    uint8   `json:"b"`
	A    float64 `json:"a"`
	Hex  string  `json:"hex"`
	RGBA string  `json:"rgba"`
}

// NewPixelColor builds the record from 8-bit channels and a 0-255 alpha.
func NewPixelColor(r, g, b, a uint8) PixelColor {
	alpha := float64(a) / 255.0
	return PixelColor{
		R:    r,
		G:    g,
		B:    b,
		A:    alpha,
		Hex:  fmt.Sprintf("#%02x%02x%02x", r, g, b),
		RGBA: fmt.Sprintf("rgba(%d,%d,%d,%.3f)", r, g, b, alpha),
	}
}

// TransparentPixel is the record returned for reads outside the surface
// or from a surface that refuses read-back.
func TransparentPixel() PixelColor {
	return NewPixelColor(0, 0, 0, 0)
}

// ParseHex parses "#rgb", "#rrggbb", or "#rrggbbaa" into an RGBA color.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b, a uint8
	a = 255
	switch len(s) {
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r *= 17
		g *= 17
		b *= 17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: bad length", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// ToHex formats a color as "#rrggbb", discarding alpha.
func ToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// IsTransparentName reports whether a CSS-ish background specification
// means "no background fill": empty string or "transparent".
func IsTransparentName(s string) bool {
	return strings.TrimSpace(strings.ToLower(s)) == "transparent" || strings.TrimSpace(s) == ""
}
