package layer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// BitmapLayer is a canvas layer whose raster is pre-filled from an
// image source. After construction it paints and undoes like any
// other canvas layer.
type BitmapLayer struct {
	CanvasLayer

	sourcePath string
}

// NewBitmapLayerFromFile decodes an image file (PNG, JPEG, TIFF, or
// WebP) into a new bitmap layer sized to the image.
func NewBitmapLayerFromFile(name, path string) (*BitmapLayer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	l, err := NewBitmapLayerFromReader(name, f)
	if err != nil {
		return nil, err
	}
	l.sourcePath = path
	return l, nil
}

// NewBitmapLayerFromReader decodes an image stream into a new bitmap
// layer sized to the image.
func NewBitmapLayerFromReader(name string, r io.Reader) (*BitmapLayer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	return NewBitmapLayerFromImage(name, img, bounds.Dx(), bounds.Dy())
}

// NewBitmapLayerFromImage creates a bitmap layer of the given pixel
// size and draws the decoded image into it, rescaling when the sizes
// differ.
func NewBitmapLayerFromImage(name string, img image.Image, width, height int) (*BitmapLayer, error) {
	if img == nil {
		return nil, fmt.Errorf("bitmap layer %q: nil source image", name)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bitmap layer %q: invalid raster size %dx%d", name, width, height)
	}
	l := &BitmapLayer{
		CanvasLayer: CanvasLayer{
			Base:   newBase(name, KindBitmap, SpaceWorld),
			raster: image.NewRGBA(image.Rect(0, 0, width, height)),
		},
	}
	l.DrawImage(img, 0, 0, float64(width), float64(height))
	return l, nil
}

// AsCanvas exposes the embedded canvas layer for stroke calls.
func (l *BitmapLayer) AsCanvas() (*CanvasLayer, bool) { return &l.CanvasLayer, true }

// SourcePath returns the file the layer was decoded from, if any.
func (l *BitmapLayer) SourcePath() string { return l.sourcePath }

// SetSource replaces both the raster dimensions and content from a
// new image source.
func (l *BitmapLayer) SetSource(img image.Image, width, height int) error {
	if img == nil {
		return fmt.Errorf("bitmap layer %q: nil source image", l.Name())
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("bitmap layer %q: invalid raster size %dx%d", l.Name(), width, height)
	}
	l.raster = image.NewRGBA(image.Rect(0, 0, width, height))
	l.DrawImage(img, 0, 0, float64(width), float64(height))
	return nil
}

// SetSourceFile decodes a file and replaces the raster with it.
func (l *BitmapLayer) SetSourceFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	if err := l.SetSource(img, bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}
	l.sourcePath = path
	return nil
}

// Destroy releases the raster and forgets the source.
func (l *BitmapLayer) Destroy() {
	l.sourcePath = ""
	l.CanvasLayer.Destroy()
}
