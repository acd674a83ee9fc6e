//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/neptino/neptino/editor-go/internal/document"
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/history"
	"github.com/neptino/neptino/editor-go/internal/overlay"
	"github.com/neptino/neptino/editor-go/internal/scene"
	"github.com/neptino/neptino/editor-go/internal/selection"
	"github.com/neptino/neptino/editor-go/internal/settings"
	"github.com/neptino/neptino/editor-go/internal/tool"
	"github.com/neptino/neptino/editor-go/internal/typeid"
	"github.com/neptino/neptino/editor-go/internal/viewport"
)

const historyDepth = 100

// editor is the embedded tool engine driven from JavaScript. Single
// goroutine: the browser event loop serializes every call.
type editor struct {
	rt       *tool.Runtime
	host     *tool.Host
	textTool *tool.TextTool
	page     document.Page
}

var ed *editor

func main() {
	ed = newEditor(document.NewStarterDocument(typeid.NewPageID(), "Untitled page"))

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	api.Set("newDocument", js.FuncOf(newDocument))
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("updateSetting", js.FuncOf(updateSetting))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("pointerCancel", js.FuncOf(pointerCancel))
	api.Set("keyDown", js.FuncOf(keyDown))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("setZoom", js.FuncOf(setZoom))
	api.Set("setPan", js.FuncOf(setPan))

	// --- Queries (frontend ← engine) ---
	api.Set("render", js.FuncOf(render))
	api.Set("saveDocument", js.FuncOf(saveDocument))
	api.Set("activeTool", js.FuncOf(activeTool))
	api.Set("getViewport", js.FuncOf(getViewport))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("canUndo", js.FuncOf(canUndo))
	api.Set("canRedo", js.FuncOf(canRedo))
	api.Set("isEditingText", js.FuncOf(isEditingText))
	api.Set("editorAnchor", js.FuncOf(editorAnchor))

	js.Global().Set("neptinoEditor", api)

	// Signal that WASM is ready
	js.Global().Set("neptinoEditorReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func newEditor(doc *document.PageDocument) *editor {
	graph, err := document.Restore(doc)
	if err != nil {
		// A bad document falls back to an empty page of the same size.
		graph = scene.NewGraph(geom.Rect{
			Width:  float64(doc.Page.Width),
			Height: float64(doc.Page.Height),
		})
	}

	layer := overlay.NewLayer()
	rt := &tool.Runtime{
		Graph:     graph,
		Viewport:  viewport.New(),
		Overlay:   layer,
		Selection: selection.NewManager(graph),
		Transform: selection.NewTransformHelper(layer),
		Settings:  settings.NewStore(),
		History:   history.NewManager(historyDepth),
	}

	textTool := tool.NewTextTool()

	host := tool.NewHost(rt)
	host.Register(tool.NewSelectTool())
	host.Register(tool.NewPenTool())
	host.Register(tool.NewBrushTool())
	host.Register(tool.NewEraserTool())
	host.Register(textTool)
	host.Register(tool.NewTableTool())
	host.Register(tool.NewGenerateTool(nil))
	host.SetActiveTool("select")

	return &editor{rt: rt, host: host, textTool: textTool, page: doc.Page}
}

// replace tears down the current host and installs a fresh editor.
func replace(doc *document.PageDocument) {
	ed.host.Close()
	ed = newEditor(doc)
}

// --- Command Handlers ---

func newDocument(this js.Value, args []js.Value) interface{} {
	title := "Untitled page"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		title = args[0].String()
	}
	replace(document.NewStarterDocument(typeid.NewPageID(), title))
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	var doc document.PageDocument
	if err := json.Unmarshal([]byte(args[0].String()), &doc); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	replace(&doc)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing tool name"})
	}
	if err := ed.host.SetActiveTool(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func updateSetting(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	key := args[0].String()
	var value any
	switch args[1].Type() {
	case js.TypeNumber:
		value = args[1].Float()
	case js.TypeBoolean:
		value = args[1].Bool()
	case js.TypeString:
		value = args[1].String()
	default:
		return nil
	}
	ed.host.UpdateSetting(key, value)
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	screen, pointerID, buttons, mods, ok := pointerArgs(args)
	if !ok {
		return nil
	}
	ed.host.PointerDown(screen, pointerID, buttons, mods)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	screen, pointerID, buttons, mods, ok := pointerArgs(args)
	if !ok {
		return nil
	}
	ed.host.PointerMove(screen, pointerID, buttons, mods)
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	screen, pointerID, buttons, mods, ok := pointerArgs(args)
	if !ok {
		return nil
	}
	ed.host.PointerUp(screen, pointerID, buttons, mods)
	return nil
}

func pointerCancel(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	screen := geom.Pt(args[0].Float(), args[1].Float())
	pointerID := 0
	if len(args) > 2 {
		pointerID = args[2].Int()
	}
	ed.host.PointerCancel(screen, pointerID)
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.host.KeyDown(tool.KeyEvent{
		Key:       args[0].String(),
		Modifiers: modifierArgs(args, 1),
	})
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.rt.History.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.rt.History.Redo())
}

func setZoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	z := args[0].Float()
	ed.rt.Viewport.SetZoom(z)
	// tools read the graph zoom to keep pick radii screen-constant
	ed.rt.Graph.SetZoom(z)
	return nil
}

func setPan(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.rt.Viewport.SetPan(geom.Pt(args[0].Float(), args[1].Float()))
	return nil
}

// --- Query Handlers ---

// render returns the scene's draw commands followed by overlay feedback,
// both in painter's order, as a JSON string.
func render(this js.Value, args []js.Value) interface{} {
	commands := scene.CompileDrawCommands(ed.rt.Graph)
	commands = append(commands, compileOverlay(ed.rt.Overlay)...)
	out, err := scene.DrawCommandsToJSON(commands)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func saveDocument(this js.Value, args []js.Value) interface{} {
	doc := document.Serialize(ed.page, ed.rt.Graph)
	data, err := json.Marshal(doc)
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func activeTool(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.host.ActiveToolName())
}

func getViewport(this js.Value, args []js.Value) interface{} {
	pan := ed.rt.Viewport.Pan()
	return js.ValueOf(map[string]interface{}{
		"zoom": ed.rt.Viewport.Zoom(),
		"panX": pan.X,
		"panY": pan.Y,
	})
}

func getSelection(this js.Value, args []js.Value) interface{} {
	targets := ed.rt.Selection.GetSelection()
	ids := make([]interface{}, len(targets))
	for i, t := range targets {
		ids[i] = t.ID
	}
	return js.ValueOf(ids)
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	b := ed.rt.Selection.Bounds()
	return js.ValueOf(map[string]interface{}{
		"x":      b.X,
		"y":      b.Y,
		"width":  b.Width,
		"height": b.Height,
	})
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.rt.History.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.rt.History.CanRedo())
}

// isEditingText tells the frontend when to mount the DOM text input.
func isEditingText(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.textTool.Editing())
}

// editorAnchor is the screen position for the DOM text input overlay.
func editorAnchor(this js.Value, args []js.Value) interface{} {
	p := ed.textTool.EditorAnchor()
	return js.ValueOf(map[string]interface{}{"x": p.X, "y": p.Y})
}

// --- Helpers ---

func pointerArgs(args []js.Value) (geom.Point, int, int, tool.Modifiers, bool) {
	if len(args) < 2 {
		return geom.Point{}, 0, 0, tool.Modifiers{}, false
	}
	screen := geom.Pt(args[0].Float(), args[1].Float())
	pointerID, buttons := 0, 1
	if len(args) > 2 {
		pointerID = args[2].Int()
	}
	if len(args) > 3 {
		buttons = args[3].Int()
	}
	return screen, pointerID, buttons, modifierArgs(args, 4), true
}

func modifierArgs(args []js.Value, start int) tool.Modifiers {
	var mods tool.Modifiers
	flag := func(i int) bool {
		return len(args) > i && args[i].Type() == js.TypeBoolean && args[i].Bool()
	}
	mods.Shift = flag(start)
	mods.Ctrl = flag(start + 1)
	mods.Alt = flag(start + 2)
	mods.Meta = flag(start + 3)
	return mods
}

func compileOverlay(layer *overlay.Layer) []scene.DrawCommand {
	var commands []scene.DrawCommand
	for _, obj := range layer.Children() {
		switch o := obj.(type) {
		case *scene.Graphics:
			if o.Empty() {
				continue
			}
			cmd := scene.DrawCommand{Op: "path", Path: o.Commands()}
			if off := o.Offset(); off.X != 0 || off.Y != 0 {
				cmd.Offset = []float64{off.X, off.Y}
			}
			commands = append(commands, cmd)
		case *scene.Text:
			c := o.Center()
			commands = append(commands, scene.DrawCommand{
				Op:       "text",
				Text:     o.Content(),
				Center:   []float64{c.X, c.Y},
				FontSize: o.FontSize(),
				Color:    o.Color(),
			})
		}
	}
	return commands
}
