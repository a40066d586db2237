// Package app provides the demo painter's application state and
// events: active tool, brush settings, and the selected layer.
package app

import (
	"image/color"
	"sync"

	"paint-canvas/pkg/colorutil"
)

// Tool identifies the active interaction tool.
type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
	ToolPan
	ToolZoom
	ToolPicker
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "Brush"
	case ToolEraser:
		return "Eraser"
	case ToolPan:
		return "Pan"
	case ToolZoom:
		return "Zoom"
	case ToolPicker:
		return "Picker"
	default:
		return "Unknown"
	}
}

// Brush size limits for the demo UI.
const (
	MinBrushSize = 1
	MaxBrushSize = 200
)

// EventType identifies different application events.
type EventType int

const (
	EventToolChanged EventType = iota
	EventBrushColorChanged
	EventBrushSizeChanged
	EventActiveLayerChanged
	EventLayersChanged
	EventHistoryChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the painter's application state.
type State struct {
	mu sync.RWMutex

	tool       Tool
	prevTool   Tool // restored when a held-key temporary tool releases
	brushColor color.RGBA
	brushSize  float64

	activeLayerID int

	listeners map[EventType][]EventListener
}

// NewState creates the painter state: brush tool, black color, size 8.
func NewState() *State {
	return &State{
		tool:       ToolBrush,
		prevTool:   ToolBrush,
		brushColor: colorutil.Black,
		brushSize:  8,
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Tool returns the active tool.
func (s *State) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool switches the active tool.
func (s *State) SetTool(t Tool) {
	s.mu.Lock()
	if s.tool == t {
		s.mu.Unlock()
		return
	}
	s.tool = t
	s.prevTool = t
	s.mu.Unlock()
	s.Emit(EventToolChanged, t)
}

// PushTemporaryTool switches to a tool while a key is held, keeping
// the previous tool for the release.
func (s *State) PushTemporaryTool(t Tool) {
	s.mu.Lock()
	if s.tool == t {
		s.mu.Unlock()
		return
	}
	prev := s.tool
	s.tool = t
	s.prevTool = prev
	s.mu.Unlock()
	s.Emit(EventToolChanged, t)
}

// PopTemporaryTool restores the tool that was active before
// PushTemporaryTool.
func (s *State) PopTemporaryTool() {
	s.mu.Lock()
	if s.tool == s.prevTool {
		s.mu.Unlock()
		return
	}
	s.tool = s.prevTool
	t := s.tool
	s.mu.Unlock()
	s.Emit(EventToolChanged, t)
}

// BrushColor returns the active brush color.
func (s *State) BrushColor() color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brushColor
}

// SetBrushColor changes the brush color.
func (s *State) SetBrushColor(c color.RGBA) {
	s.mu.Lock()
	s.brushColor = c
	s.mu.Unlock()
	s.Emit(EventBrushColorChanged, c)
}

// BrushSize returns the brush diameter in CSS pixels.
func (s *State) BrushSize() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brushSize
}

// SetBrushSize changes the brush diameter, clamped to the UI limits.
func (s *State) SetBrushSize(size float64) {
	if size < MinBrushSize {
		size = MinBrushSize
	}
	if size > MaxBrushSize {
		size = MaxBrushSize
	}
	s.mu.Lock()
	s.brushSize = size
	s.mu.Unlock()
	s.Emit(EventBrushSizeChanged, size)
}

// ActiveLayerID returns the id of the layer strokes are painted on.
func (s *State) ActiveLayerID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLayerID
}

// SetActiveLayerID selects the stroke target layer.
func (s *State) SetActiveLayerID(id int) {
	s.mu.Lock()
	s.activeLayerID = id
	s.mu.Unlock()
	s.Emit(EventActiveLayerChanged, id)
}
