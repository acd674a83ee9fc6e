package tool

import (
	"fmt"
	"log/slog"

	"github.com/neptino/neptino/editor-go/internal/geom"
)

// Host is the dispatcher that owns the registered tools and routes
// pointer and key events to the single active one. Events arrive in
// screen coordinates; the host derives world coordinates through the
// viewport at dispatch time.
type Host struct {
	rt     *Runtime
	tools  map[string]Tool
	active Tool
}

// NewHost creates a dispatcher over rt with no tools registered.
func NewHost(rt *Runtime) *Host {
	return &Host{rt: rt, tools: make(map[string]Tool)}
}

// Register adds a tool under its own name. Registering a second tool
// with the same name replaces the first.
func (h *Host) Register(t Tool) {
	h.tools[t.Name()] = t
}

// SetActiveTool deactivates the outgoing tool, then activates the named
// one. Switching to the already active tool is a no-op.
func (h *Host) SetActiveTool(name string) error {
	next, ok := h.tools[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	if h.active == next {
		return nil
	}
	if h.active != nil {
		h.active.Deactivate()
	}
	h.active = next
	next.Activate(h.rt)
	slog.Debug("tool activated", "tool", name)
	return nil
}

// ActiveToolName returns the active tool's name, or "".
func (h *Host) ActiveToolName() string {
	if h.active == nil {
		return ""
	}
	return h.active.Name()
}

// Runtime exposes the capability bundle (for hosts embedding the editor).
func (h *Host) Runtime() *Runtime {
	return h.rt
}

// PointerDown dispatches a pointer-down at the given screen position.
func (h *Host) PointerDown(screen geom.Point, pointerID, buttons int, mods Modifiers) {
	if h.active == nil {
		return
	}
	h.active.PointerDown(h.event(screen, pointerID, buttons, mods))
}

// PointerMove dispatches a pointer-move. While a window capture is live
// the event goes to the capture owner instead of the active tool.
func (h *Host) PointerMove(screen geom.Point, pointerID, buttons int, mods Modifiers) {
	ev := h.event(screen, pointerID, buttons, mods)
	if c := h.rt.capture; c != nil {
		if c.onMove != nil {
			c.onMove(ev)
		}
		return
	}
	if h.active != nil {
		h.active.PointerMove(ev)
	}
}

// PointerUp dispatches the terminating pointer-up.
func (h *Host) PointerUp(screen geom.Point, pointerID, buttons int, mods Modifiers) {
	ev := h.event(screen, pointerID, buttons, mods)
	if c := h.rt.capture; c != nil {
		if c.onUp != nil {
			c.onUp(ev)
		}
		return
	}
	if h.active != nil {
		h.active.PointerUp(ev)
	}
}

// PointerCancel dispatches a pointer-cancel.
func (h *Host) PointerCancel(screen geom.Point, pointerID int) {
	ev := h.event(screen, pointerID, 0, Modifiers{})
	if c := h.rt.capture; c != nil {
		if c.onCancel != nil {
			c.onCancel(ev)
		}
		return
	}
	if h.active != nil {
		h.active.PointerCancel(ev)
	}
}

// KeyDown dispatches a key event if the active tool handles keys.
func (h *Host) KeyDown(ev KeyEvent) {
	if kh, ok := h.active.(KeyHandler); ok {
		kh.KeyDown(ev)
	}
}

// UpdateSetting stores the value and notifies the active tool.
func (h *Host) UpdateSetting(key string, value any) {
	h.rt.Settings.Set(key, value)
	if h.active != nil {
		h.active.UpdateSetting(key, value)
	}
}

// Close deactivates the active tool. Safe to call twice.
func (h *Host) Close() {
	if h.active != nil {
		h.active.Deactivate()
		h.active = nil
	}
}

func (h *Host) event(screen geom.Point, pointerID, buttons int, mods Modifiers) PointerEvent {
	return PointerEvent{
		World:     h.rt.Viewport.ToWorld(screen),
		Screen:    screen,
		PointerID: pointerID,
		Buttons:   buttons,
		Modifiers: mods,
	}
}
