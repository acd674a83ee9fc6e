package tool

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/history"
	"github.com/neptino/neptino/editor-go/internal/overlay"
	"github.com/neptino/neptino/editor-go/internal/scene"
	"github.com/neptino/neptino/editor-go/internal/selection"
	"github.com/neptino/neptino/editor-go/internal/settings"
	"github.com/neptino/neptino/editor-go/internal/viewport"
)

func newTestRuntime() *Runtime {
	layer := overlay.NewLayer()
	graph := scene.NewGraph(geom.Rect{Width: 800, Height: 600})
	return &Runtime{
		Graph:     graph,
		Viewport:  viewport.New(),
		Overlay:   layer,
		Selection: selection.NewManager(graph),
		Transform: selection.NewTransformHelper(layer),
		Settings:  settings.NewStore(),
		History:   history.NewManager(64),
	}
}

// evAt builds an event with identical world and screen coordinates,
// matching the identity viewport of the test runtime.
func evAt(x, y float64) PointerEvent {
	p := geom.Pt(x, y)
	return PointerEvent{World: p, Screen: p}
}

func evAtMods(x, y float64, mods Modifiers) PointerEvent {
	ev := evAt(x, y)
	ev.Modifiers = mods
	return ev
}

// addRect inserts a stroked rectangle into the graph and returns its
// target. The name keeps failures readable.
func addRect(rt *Runtime, name string, x, y, w, h float64) scene.Target {
	gfx := scene.NewGraphics()
	gfx.SetName(name)
	gfx.SetStroke(1, 0x000000, 1)
	gfx.DrawRect(x, y, w, h)
	id := rt.Graph.AddDisplayObject(gfx)
	return scene.Target{ID: id, Object: gfx}
}

// commandTags extracts the leading opcode of each compiled path command.
func commandTags(gfx *scene.Graphics) []string {
	var tags []string
	for _, cmd := range gfx.Commands() {
		tags = append(tags, cmd[0].(string))
	}
	return tags
}
