package tool

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
	"github.com/neptino/neptino/editor-go/internal/selection"
)

const (
	// pointTolerance is the point-click pick slop in screen units.
	pointTolerance = 6.0
	// dragThreshold is the screen distance past which a press becomes a
	// marquee drag instead of a click.
	dragThreshold = 2.0

	nudgeStep      = 1.0
	nudgeStepShift = 10.0

	marqueeColor = 0x3b82f6
)

// SelectTool picks objects by click or marquee rectangle, nudges and
// deletes the selection, and keeps the transform handles attached to it.
type SelectTool struct {
	rt *Runtime

	pressed   bool
	dragging  bool
	start     geom.Point // world, at pointer-down
	startScr  geom.Point
	intersect bool // effective mode for the current gesture
	mods      Modifiers

	marquee *scene.Graphics
}

// NewSelectTool creates the select tool.
func NewSelectTool() *SelectTool {
	return &SelectTool{}
}

func (t *SelectTool) Name() string { return "select" }

func (t *SelectTool) Activate(rt *Runtime) {
	t.rt = rt
}

func (t *SelectTool) Deactivate() {
	if t.rt == nil {
		return
	}
	t.clearMarquee()
	t.pressed = false
	t.dragging = false
	t.rt.Selection.Clear()
	t.rt.Transform.Detach()
	t.rt = nil
}

func (t *SelectTool) PointerDown(ev PointerEvent) {
	if t.rt == nil {
		return
	}
	t.pressed = true
	t.dragging = false
	t.start = ev.World
	t.startScr = ev.Screen
	t.mods = ev.Modifiers
	// Alt forces intersection semantics for the duration of the gesture.
	t.intersect = ev.Alt || t.rt.Settings.String("select.mode", "contain") == "intersect"
}

func (t *SelectTool) PointerMove(ev PointerEvent) {
	if t.rt == nil || !t.pressed {
		return
	}
	if !t.dragging && ev.Screen.Distance(t.startScr) < dragThreshold {
		return
	}
	t.dragging = true
	t.drawMarquee(geom.FromPoints(t.start, ev.World))
}

func (t *SelectTool) PointerUp(ev PointerEvent) {
	if t.rt == nil || !t.pressed {
		return
	}
	t.pressed = false

	if t.dragging {
		t.dragging = false
		t.clearMarquee()
		t.applySelection(t.rectTargets(geom.FromPoints(t.start, ev.World)))
		return
	}

	if target, ok := t.hitTopAt(ev.World); ok {
		t.applySelection([]scene.Target{target})
	} else {
		t.applySelection(nil)
	}
}

func (t *SelectTool) PointerCancel(ev PointerEvent) {
	if t.rt == nil {
		return
	}
	t.pressed = false
	t.dragging = false
	t.clearMarquee()
}

func (t *SelectTool) UpdateSetting(key string, value any) {}

func (t *SelectTool) KeyDown(ev KeyEvent) {
	if t.rt == nil {
		return
	}
	step := nudgeStep
	if ev.Shift {
		step = nudgeStepShift
	}

	switch ev.Key {
	case "ArrowLeft":
		t.nudge(-step, 0)
	case "ArrowRight":
		t.nudge(step, 0)
	case "ArrowUp":
		t.nudge(0, -step)
	case "ArrowDown":
		t.nudge(0, step)
	case "Backspace", "Delete":
		t.deleteSelection()
	}
}

func (t *SelectTool) nudge(dx, dy float64) {
	if t.rt.Selection.Len() == 0 {
		return
	}
	t.rt.Transform.Translate(dx, dy)
	t.rt.Selection.Refresh()
}

func (t *SelectTool) deleteSelection() {
	for _, target := range t.rt.Selection.GetSelection() {
		if t.rt.Graph.RemoveObject(target.ID) {
			target.Object.Destroy()
		}
	}
	t.rt.Selection.Clear()
	t.rt.Transform.Detach()
}

// hitTopAt returns the top-most object under the world point. Each
// object is tried with its native containment test first, then with an
// axis-aligned bounds test widened by the pick tolerance.
func (t *SelectTool) hitTopAt(world geom.Point) (scene.Target, bool) {
	tol := pointTolerance / t.rt.Graph.CurrentZoom()
	snapshot := t.rt.Graph.ObjectsSnapshot()
	for i := len(snapshot) - 1; i >= 0; i-- {
		obj := snapshot[i].Object
		if obj.ContainsPoint(world) || obj.Bounds().Inflate(tol).ContainsPoint(world) {
			return snapshot[i], true
		}
	}
	return scene.Target{}, false
}

func (t *SelectTool) rectTargets(r geom.Rect) []scene.Target {
	var out []scene.Target
	for _, target := range t.rt.Graph.ObjectsSnapshot() {
		b := target.Object.Bounds()
		if t.intersect {
			if r.Intersects(b) {
				out = append(out, target)
			}
		} else if r.ContainsRect(b) {
			out = append(out, target)
		}
	}
	return out
}

// applySelection derives replace/add/toggle semantics from the gesture's
// modifier keys: plain replaces, Shift adds, Ctrl/Cmd toggles.
func (t *SelectTool) applySelection(targets []scene.Target) {
	t.rt.Selection.SetSelection(targets, selection.Options{
		Additive: t.mods.Shift,
		Toggle:   t.mods.Ctrl || t.mods.Meta,
	})
	sel := t.rt.Selection.GetSelection()
	if len(sel) > 0 {
		t.rt.Transform.Attach(sel)
	} else {
		t.rt.Transform.Detach()
	}
}

func (t *SelectTool) drawMarquee(r geom.Rect) {
	if t.marquee == nil {
		t.marquee = scene.NewGraphics()
		t.marquee.SetName("selection-marquee")
		t.rt.Overlay.Add(t.marquee)
	}
	t.marquee.Clear()
	t.marquee.SetStroke(1/t.rt.Graph.CurrentZoom(), marqueeColor, 0.9)
	t.marquee.DrawRect(r.X, r.Y, r.Width, r.Height)
}

func (t *SelectTool) clearMarquee() {
	if t.marquee != nil {
		t.rt.Overlay.Remove(t.marquee)
		t.marquee.Destroy()
		t.marquee = nil
	}
}
