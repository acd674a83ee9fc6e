// Package tool implements the pluggable canvas tool engine: the tool
// lifecycle contract, the runtime capability bundle injected into every
// tool, the host dispatcher, and the individual tools (select, pen,
// brush, eraser, text, table, generate).
package tool

// Tool is the lifecycle contract every canvas tool implements. The host
// dispatcher routes pointer and key events to exactly one active tool.
//
// Deactivate must be idempotent and must fully settle or discard any open
// gesture before returning: no dangling overlay nodes, no live window
// capture, no half-applied edits.
type Tool interface {
	// Name returns the tool's registration name.
	Name() string
	// Activate binds the tool to its runtime context.
	Activate(rt *Runtime)
	// Deactivate releases everything the tool holds. Safe to call twice.
	Deactivate()

	PointerDown(ev PointerEvent)
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent)
	// PointerCancel terminates the gesture without committing. Tools
	// tolerate a cancel with no prior down.
	PointerCancel(ev PointerEvent)

	// UpdateSetting notifies the tool of a live settings change. The
	// store already holds the new value when this is called.
	UpdateSetting(key string, value any)
}

// KeyHandler is implemented by tools that respond to keyboard input.
type KeyHandler interface {
	KeyDown(ev KeyEvent)
}
