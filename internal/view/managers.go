package view

import (
	"paint-canvas/internal/layer"
	"paint-canvas/pkg/geometry"
)

// ContentLayerManager binds a layer manager to the controller's
// content plane: the world-space stack rendered under the camera
// transform.
type ContentLayerManager struct {
	*layer.Manager
	view *Controller
}

// OverlayLayerManager binds a layer manager to the controller's
// overlay plane: the screen-space stack rendered under the identity
// transform.
type OverlayLayerManager struct {
	*layer.Manager
	view *Controller
}

// NewContentLayerManager wraps the controller's content stack.
func NewContentLayerManager(c *Controller) *ContentLayerManager {
	return &ContentLayerManager{Manager: c.ContentLayers(), view: c}
}

// NewOverlayLayerManager wraps the controller's overlay stack.
func NewOverlayLayerManager(c *Controller) *OverlayLayerManager {
	return &OverlayLayerManager{Manager: c.OverlayLayers(), view: c}
}

// View returns the bound controller.
func (m *ContentLayerManager) View() *Controller { return m.view }

// View returns the bound controller.
func (m *OverlayLayerManager) View() *Controller { return m.view }

// Document region management, delegated to the camera with change
// notification for observing hosts.

// SetDocumentRect installs the document region in world coordinates.
func (c *Controller) SetDocumentRect(x, y, w, h float64) {
	c.cam.SetDocumentRect(x, y, w, h)
	c.Emit(EventDocumentChanged, geometry.NewRect(x, y, w, h))
}

// ClearDocumentRect removes the document region.
func (c *Controller) ClearDocumentRect() {
	c.cam.ClearDocumentRect()
	c.Emit(EventDocumentChanged, nil)
}

// SetDocumentMargins sets the screen-pixel margins; negative values
// leave the corresponding side unchanged.
func (c *Controller) SetDocumentMargins(left, right, top, bottom float64) {
	c.cam.SetDocumentMargins(left, right, top, bottom)
	c.Emit(EventDocumentChanged, c.cam.Margins())
}
