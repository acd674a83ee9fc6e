package tool

import (
	"github.com/neptino/neptino/editor-go/internal/history"
	"github.com/neptino/neptino/editor-go/internal/overlay"
	"github.com/neptino/neptino/editor-go/internal/scene"
	"github.com/neptino/neptino/editor-go/internal/selection"
	"github.com/neptino/neptino/editor-go/internal/settings"
	"github.com/neptino/neptino/editor-go/internal/viewport"
)

// Runtime is the capability bundle injected into every tool: scene-graph
// operations, viewport, overlay layer, selection manager, transform
// helper, settings reader, and the history manager.
//
// Tools mutate the scene only through Graph; that discipline is what
// keeps two tools from corrupting each other's in-flight gesture state
// when the host switches tools abruptly.
type Runtime struct {
	Graph     *scene.Graph
	Viewport  *viewport.Viewport
	Overlay   *overlay.Layer
	Selection *selection.Manager
	Transform *selection.TransformHelper
	Settings  *settings.Store
	History   *history.Manager

	// Post, when set, marshals a callback onto the goroutine that owns
	// the runtime. Tools that finish work asynchronously deliver their
	// results through it so the scene graph is only ever touched from
	// one goroutine. A nil Post runs the callback inline.
	Post func(fn func())

	capture *windowCapture
}

// Dispatch runs fn through Post when one is installed, inline otherwise.
func (rt *Runtime) Dispatch(fn func()) {
	if rt.Post != nil {
		rt.Post(fn)
		return
	}
	fn()
}

// windowCapture routes pointer move/up/cancel to one owner for the
// duration of exactly one interaction, even when the pointer leaves the
// canvas element.
type windowCapture struct {
	onMove   func(PointerEvent)
	onUp     func(PointerEvent)
	onCancel func(PointerEvent)
}

// CaptureWindow installs window-level pointer listeners for the current
// interaction. Capture is single-owner: a second capture while one is
// live is refused.
func (rt *Runtime) CaptureWindow(onMove, onUp, onCancel func(PointerEvent)) bool {
	if rt.capture != nil {
		return false
	}
	rt.capture = &windowCapture{onMove: onMove, onUp: onUp, onCancel: onCancel}
	return true
}

// ReleaseWindow unregisters the window-level listeners. Called
// unconditionally on release or cancel; releasing without a capture is a
// no-op.
func (rt *Runtime) ReleaseWindow() {
	rt.capture = nil
}

// Captured reports whether a window capture is live.
func (rt *Runtime) Captured() bool {
	return rt.capture != nil
}
