package tool

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

const (
	textSizeKey  = "text.size"
	textColorKey = "text.color"

	textDefaultSize  = 16.0
	textMinSize      = 6.0
	textMaxSize      = 144.0
	textDefaultColor = 0x111111
)

// TextTool opens an in-place editing session on pointer-up. Escape
// discards; plain Enter commits a center-anchored text primitive at the
// original world point.
type TextTool struct {
	rt *Runtime

	editing bool
	world   geom.Point // insertion point, world space
	buffer  []rune
	caret   *scene.Graphics

	lastColor uint32
}

// NewTextTool creates the text tool.
func NewTextTool() *TextTool {
	return &TextTool{}
}

func (t *TextTool) Name() string { return "text" }

func (t *TextTool) Activate(rt *Runtime) {
	t.rt = rt
	if t.lastColor == 0 {
		t.lastColor = textDefaultColor
	}
}

func (t *TextTool) Deactivate() {
	if t.rt == nil {
		return
	}
	t.discardSession()
	t.rt = nil
}

func (t *TextTool) PointerDown(ev PointerEvent) {}

func (t *TextTool) PointerMove(ev PointerEvent) {}

func (t *TextTool) PointerUp(ev PointerEvent) {
	if t.rt == nil {
		return
	}
	if t.editing {
		// clicking elsewhere commits the current session first
		t.commit()
	}
	t.editing = true
	t.world = ev.World
	t.buffer = t.buffer[:0]
	t.drawCaret()
}

func (t *TextTool) PointerCancel(ev PointerEvent) {}

func (t *TextTool) UpdateSetting(key string, value any) {}

func (t *TextTool) KeyDown(ev KeyEvent) {
	if t.rt == nil || !t.editing {
		return
	}
	switch ev.Key {
	case "Escape":
		t.discardSession()
	case "Enter":
		if ev.Shift || ev.Ctrl || ev.Meta {
			t.buffer = append(t.buffer, '\n')
			return
		}
		t.commit()
	case "Backspace":
		if len(t.buffer) > 0 {
			t.buffer = t.buffer[:len(t.buffer)-1]
		}
	default:
		if r := ev.Rune(); r != 0 {
			t.buffer = append(t.buffer, r)
		}
	}
}

// Editing reports whether a session is open (the host shows the DOM
// editor overlay while this is true).
func (t *TextTool) Editing() bool {
	return t.editing
}

// EditorAnchor returns the screen position of the open editor overlay,
// projected through the current viewport transform.
func (t *TextTool) EditorAnchor() geom.Point {
	return t.rt.Viewport.ToScreen(t.world)
}

func (t *TextTool) commit() {
	content := string(t.buffer)
	t.discardSession()
	if content == "" {
		return
	}
	size := t.rt.Settings.FloatIn(textSizeKey, textDefaultSize, textMinSize, textMaxSize)
	color := t.rt.Settings.Color(textColorKey, t.lastColor)
	t.lastColor = color

	txt := scene.NewText(content, t.world, size, color)
	txt.SetName("text-block")
	id := t.rt.Graph.AddDisplayObject(txt)
	if id == "" {
		txt.Destroy()
		return
	}
	recordInsert(t.rt, id, txt, "text block")
}

func (t *TextTool) discardSession() {
	t.editing = false
	t.buffer = t.buffer[:0]
	if t.caret != nil {
		t.rt.Overlay.Remove(t.caret)
		t.caret.Destroy()
		t.caret = nil
	}
}

func (t *TextTool) drawCaret() {
	if t.caret == nil {
		t.caret = scene.NewGraphics()
		t.caret.SetName("text-caret")
		t.rt.Overlay.Add(t.caret)
	}
	size := t.rt.Settings.FloatIn(textSizeKey, textDefaultSize, textMinSize, textMaxSize)
	zoom := t.rt.Graph.CurrentZoom()

	t.caret.Clear()
	t.caret.SetStroke(1/zoom, 0x475569, 1)
	t.caret.MoveTo(t.world.X, t.world.Y-size/2)
	t.caret.LineTo(t.world.X, t.world.Y+size/2)
}
