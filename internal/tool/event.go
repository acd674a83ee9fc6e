package tool

import "github.com/neptino/neptino/editor-go/internal/geom"

// Modifiers are the modifier-key flags captured with an event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Meta  bool
	Alt   bool
}

// PointerEvent is an immutable pointer event record. World coordinates
// are derived from screen coordinates via the current viewport transform
// at dispatch time, never cached across frames.
type PointerEvent struct {
	World     geom.Point
	Screen    geom.Point
	PointerID int
	Buttons   int
	Modifiers
}

// KeyEvent is a keyboard event delivered to the active tool.
type KeyEvent struct {
	Key string // "ArrowLeft", "Delete", "Escape", "Enter", "a", ...
	Modifiers
}

// Rune returns the printable rune for single-character keys, or 0.
func (ev KeyEvent) Rune() rune {
	r := []rune(ev.Key)
	if len(r) == 1 {
		return r[0]
	}
	return 0
}
