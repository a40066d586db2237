package view

// EventType identifies controller notifications a host can observe.
type EventType int

const (
	EventZoomChanged EventType = iota
	EventPanChanged
	EventDocumentChanged
	EventResized
	EventFrameRendered
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// On registers an event listener for the specified event type.
func (c *Controller) On(event EventType, listener EventListener) {
	c.eventMu.Lock()
	defer c.eventMu.Unlock()
	c.listeners[event] = append(c.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (c *Controller) Emit(event EventType, data interface{}) {
	c.eventMu.RLock()
	listeners := c.listeners[event]
	c.eventMu.RUnlock()

	for _, l := range listeners {
		l(data)
	}
}
