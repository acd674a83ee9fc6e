// Package history records reversible edits as labeled undo/redo pairs.
package history

import "log/slog"

// Entry is one reversible edit. Undo and Redo must stay valid across
// arbitrarily many cycles.
type Entry struct {
	Label string
	Undo  func() error
	Redo  func() error
}

// Manager holds the undo and redo stacks. Callback failures (e.g.
// re-insertion into a scene graph that has since been torn down) are
// logged, never propagated: an undo must not crash the gesture loop.
type Manager struct {
	undo []Entry
	redo []Entry
	max  int
}

// NewManager creates a history manager retaining up to max entries.
// max <= 0 means unbounded.
func NewManager(max int) *Manager {
	return &Manager{max: max}
}

// Push records a new edit and clears the redo stack.
func (m *Manager) Push(e Entry) {
	if e.Undo == nil || e.Redo == nil {
		return
	}
	m.undo = append(m.undo, e)
	if m.max > 0 && len(m.undo) > m.max {
		m.undo = m.undo[1:]
	}
	m.redo = m.redo[:0]
}

// Undo reverts the most recent edit. Returns false if there was nothing
// to undo.
func (m *Manager) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	e := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	if err := e.Undo(); err != nil {
		slog.Warn("undo failed", "label", e.Label, "error", err)
	}
	m.redo = append(m.redo, e)
	return true
}

// Redo re-applies the most recently undone edit. Returns false if there
// was nothing to redo.
func (m *Manager) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	if err := e.Redo(); err != nil {
		slog.Warn("redo failed", "label", e.Label, "error", err)
	}
	m.undo = append(m.undo, e)
	return true
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the undo stack depth.
func (m *Manager) Len() int { return len(m.undo) }

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}
