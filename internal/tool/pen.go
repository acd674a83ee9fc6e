package tool

// Shared pen settings keys and defaults.
const (
	penModeKey      = "pen.mode" // "freehand" | "vector"
	penSizeKey      = "pen.size"
	penColorKey     = "pen.color"
	penFillKey      = "pen.fill"
	penFillColorKey = "pen.fillColor"

	penDefaultSize  = 2.0
	penMinSize      = 0.5
	penMaxSize      = 64.0
	penDefaultColor = 0x000000
	penDefaultFill  = 0xcccccc
)

// penController is the internal contract shared by the pen tool's two
// controllers.
type penController interface {
	activate(rt *Runtime)
	deactivate()
	pointerDown(ev PointerEvent)
	pointerMove(ev PointerEvent)
	pointerUp(ev PointerEvent)
	pointerCancel(ev PointerEvent)
}

// PenTool is a thin dispatcher over the freehand and vector controllers.
// It forwards every lifecycle and event call to whichever controller is
// active; switching modes deactivates the outgoing controller before
// activating the incoming one. Stroke size/color/fill carry across
// because both controllers read them live from the shared settings store.
type PenTool struct {
	rt       *Runtime
	freehand *freehandController
	vector   *vectorController
	active   penController
}

// NewPenTool creates the pen tool with both controllers.
func NewPenTool() *PenTool {
	return &PenTool{
		freehand: &freehandController{},
		vector:   &vectorController{},
	}
}

func (t *PenTool) Name() string { return "pen" }

func (t *PenTool) Activate(rt *Runtime) {
	t.rt = rt
	t.active = t.controllerFor(rt.Settings.String(penModeKey, "freehand"))
	t.active.activate(rt)
}

func (t *PenTool) Deactivate() {
	if t.active != nil {
		t.active.deactivate()
		t.active = nil
	}
	t.rt = nil
}

func (t *PenTool) PointerDown(ev PointerEvent) {
	if t.active != nil {
		t.active.pointerDown(ev)
	}
}

func (t *PenTool) PointerMove(ev PointerEvent) {
	if t.active != nil {
		t.active.pointerMove(ev)
	}
}

func (t *PenTool) PointerUp(ev PointerEvent) {
	if t.active != nil {
		t.active.pointerUp(ev)
	}
}

func (t *PenTool) PointerCancel(ev PointerEvent) {
	if t.active != nil {
		t.active.pointerCancel(ev)
	}
}

func (t *PenTool) UpdateSetting(key string, value any) {
	if key != penModeKey || t.rt == nil {
		return
	}
	next := t.controllerFor(t.rt.Settings.String(penModeKey, "freehand"))
	if next == t.active {
		return
	}
	if t.active != nil {
		t.active.deactivate()
	}
	t.active = next
	next.activate(t.rt)
}

func (t *PenTool) controllerFor(mode string) penController {
	if mode == "vector" {
		return t.vector
	}
	return t.freehand
}
