// Package mainwindow provides the demo painter's main window: tool
// switching, brush settings, key bindings, and the stroke wiring
// between the viewport and the active canvas layer.
package mainwindow

import (
	"fmt"
	"image/color"

	"paint-canvas/internal/app"
	"paint-canvas/internal/camera"
	"paint-canvas/internal/history"
	"paint-canvas/internal/layer"
	"paint-canvas/internal/version"
	"paint-canvas/internal/view"
	"paint-canvas/pkg/colorutil"
	"paint-canvas/pkg/geometry"
	"paint-canvas/ui/prefs"
	"paint-canvas/ui/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyBrushSize  = "brushSize"
	prefKeyBrushColor = "brushColor"
	prefKeyWinWidth   = "windowWidth"
	prefKeyWinHeight  = "windowHeight"

	docWidth  = 1200
	docHeight = 800
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	viewport   *viewport.Viewport
	paintLayer *layer.CanvasLayer
	hist       *history.Manager

	brushRing *viewport.BrushRingLayer
	swatch    *viewport.ColorSwatchLayer

	statusBar  *widget.Label
	sizeLabel  *widget.Label
	toolLabel  *widget.Label
	savedSize  float64
	savedColor string
}

// New creates the main window and its canvas document.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) (*MainWindow, error) {
	win := fyneApp.NewWindow(fmt.Sprintf("Paint Canvas v%s", version.Version))

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
	}

	if err := mw.setupCanvas(); err != nil {
		return nil, err
	}
	mw.setupUI()
	mw.setupKeyBindings()
	mw.setupEventHandlers()
	mw.restorePreferences()

	win.Resize(fyne.NewSize(
		float32(appPrefs.FloatWithFallback(prefKeyWinWidth, 1280)),
		float32(appPrefs.FloatWithFallback(prefKeyWinHeight, 860)),
	))
	return mw, nil
}

// setupCanvas builds the viewport, the paint document, and the sample
// overlays.
func (mw *MainWindow) setupCanvas() error {
	opts := view.DefaultOptions()
	opts.Background = "#dddddd"
	opts.DrawDocBorder = true

	vp, err := viewport.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create viewport: %w", err)
	}
	mw.viewport = vp

	ctrl := vp.Controller()
	ctrl.SetDocumentRect(0, 0, docWidth, docHeight)
	ctrl.SetDocumentMargins(40, 40, 40, 40)

	// The document sheet: a white procedural layer under the paint
	// layer so erased strokes reveal paper, not background.
	sheet, err := layer.NewCanvasLayer("sheet", docWidth, docHeight, func(l *layer.CanvasLayer) {
		l.Fill(colorutil.White)
	})
	if err != nil {
		return err
	}
	ctrl.ContentLayers().AddLayer(sheet)

	paint, err := layer.NewCanvasLayer("paint", docWidth, docHeight, nil)
	if err != nil {
		return err
	}
	mw.hist = history.NewManager(0)
	paint.SetHistoryManager(mw.hist)
	ctrl.ContentLayers().AddLayer(paint)
	mw.paintLayer = paint
	mw.state.SetActiveLayerID(paint.ID())

	mw.brushRing = viewport.NewBrushRingLayer()
	ctrl.OverlayLayers().AddLayer(mw.brushRing)

	mw.swatch = viewport.NewColorSwatchLayer(12, 12, 28)
	mw.swatch.Color = mw.state.BrushColor()
	ctrl.OverlayLayers().AddLayer(mw.swatch)

	vp.OnPointerDown = mw.onPointerDown
	vp.OnPointerMove = mw.onPointerMove
	vp.OnPointerUp = mw.onPointerUp
	return nil
}

// setupUI creates the main layout: toolbar, viewport, status bar.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")
	mw.toolLabel = widget.NewLabel("Tool: Brush")
	mw.sizeLabel = widget.NewLabel("Size: 8")

	toolbar := container.NewHBox(
		widget.NewButton("Brush (B)", func() { mw.state.SetTool(app.ToolBrush) }),
		widget.NewButton("Eraser (E)", func() { mw.state.SetTool(app.ToolEraser) }),
		widget.NewButton("Pan (H)", func() { mw.state.SetTool(app.ToolPan) }),
		widget.NewButton("Zoom (Z)", func() { mw.state.SetTool(app.ToolZoom) }),
		widget.NewSeparator(),
		widget.NewButton("Undo", mw.onUndo),
		widget.NewButton("Redo", mw.onRedo),
		widget.NewSeparator(),
		widget.NewButton("Fit (Ctrl-0)", mw.onFitDocument),
		widget.NewButton("1:1", func() { mw.viewport.Controller().Camera().ResetSmooth() }),
		widget.NewSeparator(),
		mw.toolLabel,
		mw.sizeLabel,
	)

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.viewport,                       // center
	)
	mw.SetContent(content)
	mw.viewport.StartAnimation()
}

// setupKeyBindings installs the demo key map.
func (mw *MainWindow) setupKeyBindings() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyB:
			mw.state.SetTool(app.ToolBrush)
		case fyne.KeyE:
			mw.state.SetTool(app.ToolEraser)
		case fyne.KeyH, fyne.KeyV:
			mw.state.SetTool(app.ToolPan)
		case fyne.KeyZ:
			mw.state.SetTool(app.ToolZoom)
		case fyne.KeyA:
			mw.state.SetBrushSize(mw.state.BrushSize() + 10)
		case fyne.KeyS:
			mw.state.SetBrushSize(mw.state.BrushSize() - 10)
		case fyne.KeyD:
			mw.state.SetBrushColor(colorutil.Black)
		}
	})

	ctrl := fyne.KeyModifierControl
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.Key0, Modifier: ctrl}, func(fyne.Shortcut) {
		mw.onFitDocument()
	})
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: ctrl}, func(fyne.Shortcut) {
		mw.onUndo()
	})
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: ctrl}, func(fyne.Shortcut) {
		mw.onRedo()
	})
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: ctrl | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		mw.onRedo()
	})

	// Space held pans temporarily; Alt held picks colors.
	if deskCanvas, ok := mw.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			switch ev.Name {
			case fyne.KeySpace:
				mw.state.PushTemporaryTool(app.ToolPan)
			case desktop.KeyAltLeft, desktop.KeyAltRight:
				mw.state.PushTemporaryTool(app.ToolPicker)
			}
		})
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			switch ev.Name {
			case fyne.KeySpace, desktop.KeyAltLeft, desktop.KeyAltRight:
				mw.state.PopTemporaryTool()
			}
		})
	}
}

// setupEventHandlers subscribes the window to state and history
// changes.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventToolChanged, func(data interface{}) {
		tool := data.(app.Tool)
		mw.toolLabel.SetText("Tool: " + tool.String())
		mw.brushRing.SetVisible(tool == app.ToolBrush || tool == app.ToolEraser)
	})
	mw.state.On(app.EventBrushSizeChanged, func(data interface{}) {
		mw.sizeLabel.SetText(fmt.Sprintf("Size: %.0f", data.(float64)))
	})
	mw.state.On(app.EventBrushColorChanged, func(data interface{}) {
		mw.swatch.Color = data.(color.RGBA)
		mw.viewport.Refresh()
	})
	mw.hist.OnChange(func() {
		mw.state.Emit(app.EventHistoryChanged, nil)
		mw.updateStatus(fmt.Sprintf("Undo: %d  Redo: %d", mw.hist.UndoDepth(), mw.hist.RedoDepth()))
	})
	mw.viewport.Controller().On(view.EventZoomChanged, func(data interface{}) {
		mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", data.(float64)*100))
	})
}

// onPointerDown routes a press to the active tool. Returning true
// consumes the event so the viewport does not pan.
func (mw *MainWindow) onPointerDown(x, y float64) bool {
	ctrl := mw.viewport.Controller()
	switch mw.state.Tool() {
	case app.ToolBrush, app.ToolEraser:
		wx, wy := ctrl.ToWorld(x, y)
		mw.paintLayer.BeginStroke(wx, wy)
		mw.applyStroke(wx, wy)
		return true
	case app.ToolPicker:
		px := ctrl.GetPixelColorAtScreen(x, y)
		mw.state.SetBrushColor(color.RGBA{R: px.R, G: px.G, B: px.B, A: 255})
		mw.updateStatus("Picked " + px.Hex)
		return true
	case app.ToolZoom:
		ctrl.Camera().ZoomByFactorAtScreen(x, y, 1.5)
		return true
	default:
		return false
	}
}

// onPointerMove extends the stroke and keeps the brush ring under the
// cursor.
func (mw *MainWindow) onPointerMove(x, y float64) bool {
	ctrl := mw.viewport.Controller()
	wx, wy := ctrl.ToWorld(x, y)

	ringVisible := mw.brushRing.Visible()
	if ringVisible {
		mw.brushRing.Center = geometry.Point2D{X: wx, Y: wy}
		mw.brushRing.Radius = mw.state.BrushSize() / 2
	}

	if mw.paintLayer.Drawing() {
		mw.applyStroke(wx, wy)
		return true
	}
	return ringVisible
}

// onPointerUp commits the in-progress stroke.
func (mw *MainWindow) onPointerUp(x, y float64) bool {
	if mw.paintLayer.Drawing() {
		mw.paintLayer.EndStroke()
		return true
	}
	return false
}

// applyStroke paints one sample with the current tool settings.
func (mw *MainWindow) applyStroke(wx, wy float64) {
	mode := layer.ModeBrush
	if mw.state.Tool() == app.ToolEraser {
		mode = layer.ModeEraser
	}
	mw.paintLayer.Stroke(wx, wy, mw.state.BrushColor(), mw.state.BrushSize(), 1, mode)
}

func (mw *MainWindow) onUndo() {
	if mw.hist.CanUndo() {
		mw.hist.Undo()
		mw.viewport.Refresh()
	}
}

func (mw *MainWindow) onRedo() {
	if mw.hist.CanRedo() {
		mw.hist.Redo()
		mw.viewport.Refresh()
	}
}

func (mw *MainWindow) onFitDocument() {
	mw.viewport.Controller().Camera().FitDocument(camera.FitContain)
	mw.viewport.Refresh()
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// restorePreferences applies saved brush settings.
func (mw *MainWindow) restorePreferences() {
	if size := mw.prefs.Float(prefKeyBrushSize); size > 0 {
		mw.state.SetBrushSize(size)
	}
	if hex := mw.prefs.String(prefKeyBrushColor); hex != "" {
		if col, err := colorutil.ParseHex(hex); err == nil {
			mw.state.SetBrushColor(col)
		}
	}
	mw.savedSize = mw.state.BrushSize()
	mw.savedColor = colorutil.ToHex(mw.state.BrushColor())
}

// SavePreferences writes the current settings to disk.
func (mw *MainWindow) SavePreferences() {
	mw.prefs.SetFloat(prefKeyBrushSize, mw.state.BrushSize())
	mw.prefs.SetString(prefKeyBrushColor, colorutil.ToHex(mw.state.BrushColor()))
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefKeyWinWidth, float64(size.Width))
	mw.prefs.SetFloat(prefKeyWinHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
	}
	mw.savedSize = mw.state.BrushSize()
	mw.savedColor = colorutil.ToHex(mw.state.BrushColor())
}

// SavePreferencesIfChanged flushes preferences when the brush
// settings drifted from the last save.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if mw.state.BrushSize() != mw.savedSize || colorutil.ToHex(mw.state.BrushColor()) != mw.savedColor {
		mw.SavePreferences()
	}
}

// ShowAbout opens the about dialog.
func (mw *MainWindow) ShowAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("Paint Canvas v%s\nA layered raster painting demo.", version.Version), mw.Window)
}
