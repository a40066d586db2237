// Command strokebench renders a stroke and blend-mode test card to a
// PNG so raster changes can be eyeballed without launching the demo.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"os"

	"paint-canvas/internal/layer"
	"paint-canvas/internal/view"
	"paint-canvas/pkg/colorutil"
)

func main() {
	out := flag.String("out", "strokebench.png", "Output PNG path")
	size := flag.Int("size", 800, "Card size in pixels")
	zoom := flag.Float64("zoom", 1.0, "Camera zoom for the render")
	smooth := flag.Bool("smooth", false, "Run strokes through the stabilizer")
	flag.Parse()

	ctrl, err := view.NewController(float64(*size), float64(*size), 1, view.DefaultOptions(), nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create controller: %v\n", err)
		os.Exit(1)
	}

	base, err := layer.NewCanvasLayer("base", *size, *size, func(l *layer.CanvasLayer) {
		l.Fill(color.RGBA{R: 230, G: 230, B: 230, A: 255})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create base layer: %v\n", err)
		os.Exit(1)
	}
	ctrl.ContentLayers().AddLayer(base)

	strokes, err := layer.NewCanvasLayer("strokes", *size, *size, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create stroke layer: %v\n", err)
		os.Exit(1)
	}
	ctrl.ContentLayers().AddLayer(strokes)

	drawTestCard(strokes, float64(*size), *smooth)

	// One blended square per mode across the top.
	modes := []layer.BlendMode{
		layer.BlendNormal, layer.BlendMultiply, layer.BlendScreen,
		layer.BlendOverlay, layer.BlendDifference,
	}
	for i, mode := range modes {
		sq, err := layer.NewCanvasLayer(mode.String(), 60, 60, func(l *layer.CanvasLayer) {
			l.Fill(color.RGBA{R: 200, G: 80, B: 40, A: 255})
		})
		if err != nil {
			continue
		}
		sq.SetBlend(mode)
		sq.SetOpacity(0.85)
		sq.SetPose(layer.Pose{X: float64(20 + i*80), Y: 20, Scale: 1})
		ctrl.ContentLayers().AddLayer(sq)
	}

	if *zoom != 1 {
		ctrl.Camera().ZoomToAtScreenRaw(float64(*size)/2, float64(*size)/2, *zoom)
	}
	img := ctrl.Frame(0)

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%dx%d, zoom %.2f)\n", *out, img.Bounds().Dx(), img.Bounds().Dy(), *zoom)
}

// drawTestCard paints representative strokes: a pressure ramp, a
// sine wave, an eraser pass, and single-tap disks.
func drawTestCard(l *layer.CanvasLayer, size float64, smooth bool) {
	stab := layer.NewStabilizer(3)

	// Pressure ramp.
	ramp := make([]layer.StrokePoint, 0, 60)
	for i := 0; i < 60; i++ {
		t := float64(i) / 59
		ramp = append(ramp, layer.StrokePoint{
			X:        40 + t*(size-80),
			Y:        size * 0.25,
			Pressure: 0.1 + 0.9*t,
		})
	}
	if smooth {
		ramp = stab.Resample(ramp)
	}
	playStroke(l, ramp, colorutil.Blue, 24, layer.ModeBrush)

	// Sine wave.
	wave := make([]layer.StrokePoint, 0, 120)
	for i := 0; i < 120; i++ {
		t := float64(i) / 119
		wave = append(wave, layer.StrokePoint{
			X:        40 + t*(size-80),
			Y:        size*0.5 + math.Sin(t*6*math.Pi)*size*0.08,
			Pressure: 1,
		})
	}
	if smooth {
		wave = stab.Resample(wave)
	}
	playStroke(l, wave, colorutil.Red, 8, layer.ModeBrush)

	// Eraser pass straight through the wave.
	eraser := []layer.StrokePoint{
		{X: 40, Y: size * 0.5, Pressure: 1},
		{X: size - 40, Y: size * 0.5, Pressure: 1},
	}
	playStroke(l, eraser, colorutil.Black, 12, layer.ModeEraser)

	// Tap disks at increasing pressure.
	for i := 0; i < 5; i++ {
		p := 0.2 + 0.2*float64(i)
		tap := []layer.StrokePoint{{X: 80 + float64(i)*120, Y: size * 0.75, Pressure: p}}
		playStroke(l, tap, colorutil.Green, 40, layer.ModeBrush)
	}
}

// playStroke feeds a point list through the layer's stroke API.
func playStroke(l *layer.CanvasLayer, pts []layer.StrokePoint, col color.RGBA, size float64, mode layer.StrokeMode) {
	if len(pts) == 0 {
		return
	}
	l.BeginStroke(pts[0].X, pts[0].Y)
	for _, p := range pts {
		l.Stroke(p.X, p.Y, col, size, p.Pressure, mode)
	}
	l.EndStroke()
}
