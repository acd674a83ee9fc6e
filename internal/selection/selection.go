// Package selection tracks the selected set of scene objects and the
// transform handles attached to it.
package selection

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

// Options controls how SetSelection merges with the current set.
type Options struct {
	// Additive adds the targets to the current selection.
	Additive bool
	// Toggle flips membership of each target.
	Toggle bool
}

// Manager owns the selected set. Targets whose backing object has left
// the scene graph are dropped on Refresh.
type Manager struct {
	graph   *scene.Graph
	targets []scene.Target
}

// NewManager creates a selection manager over the graph.
func NewManager(graph *scene.Graph) *Manager {
	return &Manager{graph: graph}
}

// SetSelection replaces, extends, or toggles the selection per opts.
func (m *Manager) SetSelection(targets []scene.Target, opts Options) {
	switch {
	case opts.Toggle:
		for _, t := range targets {
			if i := m.indexOf(t.ID); i >= 0 {
				m.targets = append(m.targets[:i], m.targets[i+1:]...)
			} else {
				m.targets = append(m.targets, t)
			}
		}
	case opts.Additive:
		for _, t := range targets {
			if m.indexOf(t.ID) < 0 {
				m.targets = append(m.targets, t)
			}
		}
	default:
		m.targets = append(m.targets[:0:0], targets...)
	}
}

// GetSelection returns the current selection.
func (m *Manager) GetSelection() []scene.Target {
	out := make([]scene.Target, len(m.targets))
	copy(out, m.targets)
	return out
}

// Contains reports whether id is selected.
func (m *Manager) Contains(id string) bool {
	return m.indexOf(id) >= 0
}

// Len returns the selection size.
func (m *Manager) Len() int {
	return len(m.targets)
}

// Clear empties the selection.
func (m *Manager) Clear() {
	m.targets = nil
}

// Refresh drops targets whose id is no longer registered in the graph.
// A target's id is only valid while its backing object remains in the
// scene graph.
func (m *Manager) Refresh() {
	kept := m.targets[:0]
	for _, t := range m.targets {
		if m.graph.Object(t.ID) != nil {
			kept = append(kept, t)
		}
	}
	m.targets = kept
}

// Bounds returns the union of the selected objects' world bounds.
func (m *Manager) Bounds() geom.Rect {
	var b geom.Rect
	for _, t := range m.targets {
		b = b.Union(t.Object.Bounds())
	}
	return b
}

func (m *Manager) indexOf(id string) int {
	for i, t := range m.targets {
		if t.ID == id {
			return i
		}
	}
	return -1
}
