package layer

import (
	"image/color"
	"testing"
	"time"

	"paint-canvas/internal/history"
	"paint-canvas/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestStrokeCommandExecuteUndo(t *testing.T) {
	l := newTestLayer(t, 100, 100)
	pts := []StrokePoint{{X: 10, Y: 50, Pressure: 1}, {X: 90, Y: 50, Pressure: 1}}
	cmd := NewStrokeCommand(l, pts, red, 6, ModeBrush, t0)

	cmd.Execute()
	assert.Equal(t, red, l.Raster().RGBAAt(50, 50))

	// Second execute is a no-op.
	cmd.Execute()

	cmd.Undo()
	assert.Equal(t, color.RGBA{}, l.Raster().RGBAAt(50, 50))

	// Undo without execute is a no-op.
	cmd.Undo()
}

func TestStrokeCommandBounds(t *testing.T) {
	l := newTestLayer(t, 100, 100)
	pts := []StrokePoint{{X: 20, Y: 30, Pressure: 1}, {X: 40, Y: 30, Pressure: 1}}
	cmd := NewStrokeCommand(l, pts, red, 10, ModeBrush, t0)

	// Radius 5 plus 2px padding around the segment.
	b := cmd.Bounds()
	assert.Equal(t, geometry.RectInt{X: 13, Y: 23, Width: 34, Height: 14}, b)
}

func TestStrokeCommandBoundsClippedToRaster(t *testing.T) {
	l := newTestLayer(t, 100, 100)
	pts := []StrokePoint{{X: 2, Y: 2, Pressure: 1}}
	cmd := NewStrokeCommand(l, pts, red, 10, ModeBrush, t0)

	b := cmd.Bounds()
	assert.Equal(t, geometry.RectInt{X: 0, Y: 0, Width: 9, Height: 9}, b)
}

func TestStrokeCommandDegenerateFallsBackToFullLayer(t *testing.T) {
	l := newTestLayer(t, 100, 100)
	// Entirely outside the raster.
	pts := []StrokePoint{{X: -500, Y: -500, Pressure: 1}}
	cmd := NewStrokeCommand(l, pts, red, 4, ModeBrush, t0)

	assert.Equal(t, geometry.RectInt{Width: 100, Height: 100}, cmd.Bounds())

	// Execute/undo on the full-layer rectangle still round-trips.
	l.Fill(blue)
	cmd.snapshot = nil
	cmd.Execute()
	cmd.Undo()
	assert.Equal(t, blue, l.Raster().RGBAAt(50, 50))
}

func TestStrokeCommandNilSnapshotClearsOnUndo(t *testing.T) {
	l := newTestLayer(t, 100, 100)
	l.Fill(blue)
	pts := []StrokePoint{{X: 40, Y: 40, Pressure: 1}, {X: 60, Y: 60, Pressure: 1}}
	cmd := NewAppliedStrokeCommand(l, pts, red, 4, ModeBrush, nil, t0)

	// Capture failed: undo degrades to clearing the affected rect.
	cmd.Undo()
	assert.Equal(t, color.RGBA{}, l.Raster().RGBAAt(50, 50))
	// Pixels outside the rect are untouched.
	assert.Equal(t, blue, l.Raster().RGBAAt(5, 5))
}

func TestCanMergeRules(t *testing.T) {
	l := newTestLayer(t, 100, 100)
	l2 := newTestLayer(t, 100, 100)
	pts := []StrokePoint{{X: 10, Y: 10, Pressure: 1}}

	a := NewStrokeCommand(l, pts, red, 4, ModeBrush, t0)

	within := NewStrokeCommand(l, pts, red, 4, ModeBrush, t0.Add(80*time.Millisecond))
	assert.True(t, a.CanMerge(within))

	late := NewStrokeCommand(l, pts, red, 4, ModeBrush, t0.Add(150*time.Millisecond))
	assert.False(t, a.CanMerge(late))

	otherLayer := NewStrokeCommand(l2, pts, red, 4, ModeBrush, t0.Add(10*time.Millisecond))
	assert.False(t, a.CanMerge(otherLayer))

	otherColor := NewStrokeCommand(l, pts, blue, 4, ModeBrush, t0.Add(10*time.Millisecond))
	assert.False(t, a.CanMerge(otherColor))

	otherMode := NewStrokeCommand(l, pts, red, 4, ModeEraser, t0.Add(10*time.Millisecond))
	assert.False(t, a.CanMerge(otherMode))
}

// Merged undo must behave exactly like undoing both strokes: the
// canvas returns to the state before the first one.
func TestMergedCommandUndoMatchesSequential(t *testing.T) {
	l := newTestLayer(t, 100, 100)
	l.Fill(blue)
	h := history.NewManager(0)
	l.SetHistoryManager(h)

	// Two quick strokes with identical tool settings merge into one
	// history entry.
	l.BeginStroke(10, 20)
	l.Stroke(90, 20, red, 6, 1, ModeBrush)
	l.EndStroke()
	l.BeginStroke(10, 70)
	l.Stroke(90, 70, red, 6, 1, ModeBrush)
	l.EndStroke()

	require.Equal(t, 1, h.UndoDepth())
	assert.Equal(t, red, l.Raster().RGBAAt(50, 20))
	assert.Equal(t, red, l.Raster().RGBAAt(50, 70))

	l.Undo()
	assert.Equal(t, blue, l.Raster().RGBAAt(50, 20))
	assert.Equal(t, blue, l.Raster().RGBAAt(50, 70))
	// Every pixel restored, including the union-rect corners neither
	// stroke touched.
	for y := 0; y < 100; y += 7 {
		for x := 0; x < 100; x += 7 {
			require.Equal(t, blue, l.Raster().RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}

	l.Redo()
	assert.Equal(t, red, l.Raster().RGBAAt(50, 20))
	assert.Equal(t, red, l.Raster().RGBAAt(50, 70))
	// Replay must not draw a connecting segment between the strokes.
	assert.Equal(t, blue, l.Raster().RGBAAt(50, 45))
}
