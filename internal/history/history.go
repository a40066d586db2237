// Package history implements the undo/redo command stacks shared by
// painting layers.
package history

// Command is a reversible action. Execute applies the effect, Undo
// reverts it. CanMerge/Merge let consecutive commands collapse into
// one history entry; implementations that never merge return false
// from CanMerge.
type Command interface {
	Execute()
	Undo()
	CanMerge(other Command) bool
	Merge(other Command) Command
}

// DefaultMaxSize is the undo stack cap used when none is given.
const DefaultMaxSize = 50

// Manager holds paired undo and redo stacks of bounded length. Both
// stacks only ever contain fully-formed commands; live, in-progress
// strokes are committed through AddCommand once finished.
type Manager struct {
	undo    []Command
	redo    []Command
	maxSize int

	// onChange fires after any mutation of the stacks. Used by host
	// UIs to refresh undo/redo affordances.
	onChange func()
}

// NewManager creates a history manager with the given stack cap.
// Values below 1 are raised to 1; zero selects DefaultMaxSize.
func NewManager(maxSize int) *Manager {
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}
	if maxSize < 1 {
		maxSize = 1
	}
	return &Manager{maxSize: maxSize}
}

// OnChange registers a callback invoked after every stack mutation.
func (m *Manager) OnChange(fn func()) {
	m.onChange = fn
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}

// ExecuteCommand applies the command and records it.
func (m *Manager) ExecuteCommand(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Execute()
	m.AddCommand(cmd)
}

// AddCommand records a command whose effect is already applied (the
// live-drawing path). The redo stack is emptied; if the top of the
// undo stack accepts a merge the two collapse into one entry,
// otherwise the command is pushed and the oldest entry evicted past
// the cap.
func (m *Manager) AddCommand(cmd Command) {
	if cmd == nil {
		return
	}
	m.redo = m.redo[:0]

	if n := len(m.undo); n > 0 && m.undo[n-1].CanMerge(cmd) {
		m.undo[n-1] = m.undo[n-1].Merge(cmd)
		m.notify()
		return
	}

	m.undo = append(m.undo, cmd)
	if len(m.undo) > m.maxSize {
		copy(m.undo, m.undo[1:])
		m.undo = m.undo[:len(m.undo)-1]
	}
	m.notify()
}

// Undo reverts the most recent command and moves it to the redo stack.
// Returns nil when there is nothing to undo.
func (m *Manager) Undo() Command {
	n := len(m.undo)
	if n == 0 {
		return nil
	}
	cmd := m.undo[n-1]
	m.undo = m.undo[:n-1]
	cmd.Undo()
	m.redo = append(m.redo, cmd)
	m.notify()
	return cmd
}

// Redo re-applies the most recently undone command and moves it back
// to the undo stack. Returns nil when there is nothing to redo.
func (m *Manager) Redo() Command {
	n := len(m.redo)
	if n == 0 {
		return nil
	}
	cmd := m.redo[n-1]
	m.redo = m.redo[:n-1]
	cmd.Execute()
	m.undo = append(m.undo, cmd)
	m.notify()
	return cmd
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool {
	return len(m.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool {
	return len(m.redo) > 0
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undo = m.undo[:0]
	m.redo = m.redo[:0]
	m.notify()
}

// SetMaxHistorySize changes the undo stack cap, trimming the oldest
// entries if the stack already exceeds it. Values below 1 become 1.
func (m *Manager) SetMaxHistorySize(n int) {
	if n < 1 {
		n = 1
	}
	m.maxSize = n
	if len(m.undo) > n {
		drop := len(m.undo) - n
		copy(m.undo, m.undo[drop:])
		m.undo = m.undo[:n]
		m.notify()
	}
}

// MaxHistorySize returns the current undo stack cap.
func (m *Manager) MaxHistorySize() int {
	return m.maxSize
}

// UndoDepth returns the number of undoable commands.
func (m *Manager) UndoDepth() int {
	return len(m.undo)
}

// RedoDepth returns the number of redoable commands.
func (m *Manager) RedoDepth() int {
	return len(m.redo)
}
