package tool

import (
	"fmt"

	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/history"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

const (
	eraserModeKey = "eraser.mode" // "brush" | "object"
	eraserSizeKey = "eraser.size"

	eraserDefaultSize = 24.0
	eraserMinSize     = 4.0
	eraserMaxSize     = 256.0

	// sweepStep is the sampling interval along the swept path, in screen
	// pixels.
	sweepStep = 5.0

	// protectedPrefix / protectedTag mark objects the eraser must skip.
	protectedPrefix = "protected:"
	protectedTag    = "protected"

	previewAlpha = 0.35
)

// EraserTool removes objects under a circular cursor. Brush mode erases
// continuously along the swept path while the button is held; object
// mode erases one hit per click. Every removal is undoable: undo
// re-inserts the object at its original sibling index, redo re-removes
// it without destroying the resource.
type EraserTool struct {
	rt *Runtime

	erasing bool
	last    geom.Point // world position of the previous sample
	lastScr geom.Point

	preview *scene.Graphics
}

// NewEraserTool creates the eraser tool.
func NewEraserTool() *EraserTool {
	return &EraserTool{}
}

func (t *EraserTool) Name() string { return "eraser" }

func (t *EraserTool) Activate(rt *Runtime) {
	t.rt = rt
	// preview cursor is instance-owned and scoped to the activation
	t.preview = scene.NewGraphics()
	t.preview.SetName("eraser-preview")
}

func (t *EraserTool) Deactivate() {
	if t.rt == nil {
		return
	}
	t.erasing = false
	if t.preview != nil {
		t.rt.Overlay.Remove(t.preview)
		t.preview.Destroy()
		t.preview = nil
	}
	t.rt = nil
}

func (t *EraserTool) PointerDown(ev PointerEvent) {
	if t.rt == nil {
		return
	}
	if t.rt.Settings.String(eraserModeKey, "brush") == "object" {
		t.eraseAt(ev.World)
		return
	}
	t.erasing = true
	t.last = ev.World
	t.lastScr = ev.Screen
	t.eraseAt(ev.World)
}

func (t *EraserTool) PointerMove(ev PointerEvent) {
	if t.rt == nil {
		return
	}
	t.updatePreview(ev)

	if !t.erasing {
		return
	}
	// Sample the swept path since the last move every sweepStep pixels so
	// fast pointer movement leaves no gaps.
	dist := ev.Screen.Distance(t.lastScr)
	steps := int(dist / sweepStep)
	for i := 1; i <= steps; i++ {
		u := float64(i) / float64(steps)
		t.eraseAt(geom.Point{
			X: t.last.X + (ev.World.X-t.last.X)*u,
			Y: t.last.Y + (ev.World.Y-t.last.Y)*u,
		})
	}
	t.eraseAt(ev.World)
	t.last = ev.World
	t.lastScr = ev.Screen
}

func (t *EraserTool) PointerUp(ev PointerEvent) {
	t.erasing = false
}

func (t *EraserTool) PointerCancel(ev PointerEvent) {
	t.erasing = false
}

func (t *EraserTool) UpdateSetting(key string, value any) {}

// eraseAt removes every non-protected object whose bounds intersect the
// eraser circle at p, pushing one history entry per removal.
func (t *EraserTool) eraseAt(p geom.Point) {
	radius := t.rt.Settings.FloatIn(eraserSizeKey, eraserDefaultSize, eraserMinSize, eraserMaxSize) / 2

	snapshot := t.rt.Graph.ObjectsSnapshot()
	for i := len(snapshot) - 1; i >= 0; i-- {
		target := snapshot[i]
		if isProtected(target.Object) {
			continue
		}
		if !geom.CircleIntersectsRect(p.X, p.Y, radius, target.Object.Bounds()) {
			continue
		}
		t.remove(target)
	}
}

func (t *EraserTool) remove(target scene.Target) {
	graph := t.rt.Graph
	index := graph.IndexOf(target.ID)
	if index < 0 || !graph.RemoveObject(target.ID) {
		return
	}

	id, obj := target.ID, target.Object
	t.rt.History.Push(history.Entry{
		Label: "erase " + displayName(obj),
		Undo: func() error {
			graph.InsertObjectAt(id, obj, index)
			if graph.Object(id) == nil {
				return fmt.Errorf("restore %s: object not re-registered", id)
			}
			return nil
		},
		Redo: func() error {
			// re-remove without destroying, so further undos stay valid
			graph.RemoveObject(id)
			return nil
		},
	})
}

func (t *EraserTool) updatePreview(ev PointerEvent) {
	if t.preview == nil {
		return
	}
	// only shown while the pointer is over the canvas; canvas bounds
	// are in world space, so test the world-mapped pointer
	if !t.rt.Graph.CanvasBounds().ContainsPoint(ev.World) {
		t.rt.Overlay.Remove(t.preview)
		return
	}
	radius := t.rt.Settings.FloatIn(eraserSizeKey, eraserDefaultSize, eraserMinSize, eraserMaxSize) / 2

	t.preview.Clear()
	t.preview.SetFill(0xffffff, previewAlpha)
	t.preview.SetStroke(1/t.rt.Graph.CurrentZoom(), 0x475569, 0.8)
	t.preview.DrawCircle(ev.World.X, ev.World.Y, radius)
	t.rt.Overlay.Add(t.preview)
}

func isProtected(obj scene.DisplayObject) bool {
	if obj.Tag() == protectedTag {
		return true
	}
	name := obj.Name()
	return len(name) >= len(protectedPrefix) && name[:len(protectedPrefix)] == protectedPrefix
}

func displayName(obj scene.DisplayObject) string {
	if n := obj.Name(); n != "" {
		return n
	}
	return "object"
}
