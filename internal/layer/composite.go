package layer

import (
	"image"
	"image/color"
	"math"

	"paint-canvas/pkg/geometry"
)

// BlendMode specifies how a layer is composited onto the plane below.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDifference
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "Normal"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	case BlendOverlay:
		return "Overlay"
	case BlendDifference:
		return "Difference"
	default:
		return "Unknown"
	}
}

// blendPixel composites src over dst with the given mode and layer
// opacity. Channels are blended in [0, 1] floats with standard alpha
// compositing and clamped on the way out.
func blendPixel(dst, src color.RGBA, mode BlendMode, opacity float64) color.RGBA {
	sf := [4]float64{float64(src.R) / 255, float64(src.G) / 255, float64(src.B) / 255, float64(src.A) / 255}
	df := [4]float64{float64(dst.R) / 255, float64(dst.G) / 255, float64(dst.B) / 255, float64(dst.A) / 255}

	var rf [3]float64

	switch mode {
	case BlendMultiply:
		rf[0] = sf[0] * df[0]
		rf[1] = sf[1] * df[1]
		rf[2] = sf[2] * df[2]

	case BlendScreen:
		rf[0] = 1 - (1-sf[0])*(1-df[0])
		rf[1] = 1 - (1-sf[1])*(1-df[1])
		rf[2] = 1 - (1-sf[2])*(1-df[2])

	case BlendOverlay:
		for i := 0; i < 3; i++ {
			if df[i] < 0.5 {
				rf[i] = 2 * sf[i] * df[i]
			} else {
				rf[i] = 1 - 2*(1-sf[i])*(1-df[i])
			}
		}

	case BlendDifference:
		rf[0] = math.Abs(sf[0] - df[0])
		rf[1] = math.Abs(sf[1] - df[1])
		rf[2] = math.Abs(sf[2] - df[2])

	default:
		rf[0] = sf[0]
		rf[1] = sf[1]
		rf[2] = sf[2]
	}

	// The non-normal modes only make sense against existing pixels;
	// where the destination is empty the source color passes through.
	if mode != BlendNormal && df[3] <= 0 {
		rf[0] = sf[0]
		rf[1] = sf[1]
		rf[2] = sf[2]
	}

	alpha := sf[3] * opacity
	outA := alpha + df[3]*(1-alpha)
	var outR, outG, outB float64
	if outA > 0 {
		outR = (rf[0]*alpha + df[0]*df[3]*(1-alpha)) / outA
		outG = (rf[1]*alpha + df[1]*df[3]*(1-alpha)) / outA
		outB = (rf[2]*alpha + df[2]*df[3]*(1-alpha)) / outA
	}

	return color.RGBA{
		R: uint8(clamp01(outR)*255 + 0.5),
		G: uint8(clamp01(outG)*255 + 0.5),
		B: uint8(clamp01(outB)*255 + 0.5),
		A: uint8(clamp01(outA)*255 + 0.5),
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// compositeRaster draws src into dst through the local-to-device
// transform, applying opacity and the blend mode. Destination pixels
// are inverse-mapped into the source raster and sampled
// nearest-neighbor, the same scheme the per-pixel layer compositor has
// always used.
func compositeRaster(dst, src *image.RGBA, xform geometry.AffineTransform, opacity float64, mode BlendMode, clip image.Rectangle) {
	if src == nil || dst == nil || opacity <= 0 {
		return
	}
	inv, ok := xform.Inverse()
	if !ok {
		return
	}

	srcBounds := src.Bounds()
	srcRect := geometry.NewRect(
		float64(srcBounds.Min.X), float64(srcBounds.Min.Y),
		float64(srcBounds.Dx()), float64(srcBounds.Dy()),
	)

	// Only walk destination pixels the projected raster can reach.
	devAABB := xform.ApplyRect(srcRect).Outset()
	region := image.Rect(devAABB.X, devAABB.Y, devAABB.X+devAABB.Width, devAABB.Y+devAABB.Height)
	region = region.Intersect(clip).Intersect(dst.Bounds())
	if region.Empty() {
		return
	}

	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			p := inv.Apply(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			sx := int(math.Floor(p.X))
			sy := int(math.Floor(p.Y))
			if sx < srcBounds.Min.X || sx >= srcBounds.Max.X ||
				sy < srcBounds.Min.Y || sy >= srcBounds.Max.Y {
				continue
			}
			sc := src.RGBAAt(sx, sy)
			if sc.A == 0 {
				continue
			}
			dst.SetRGBA(x, y, blendPixel(dst.RGBAAt(x, y), sc, mode, opacity))
		}
	}
}
