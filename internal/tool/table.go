package tool

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

const (
	tableRowsKey  = "table.rows"
	tableColsKey  = "table.cols"
	tableColorKey = "table.color"

	tableDefaultRows  = 3
	tableDefaultCols  = 3
	tableMaxDim       = 20
	tableDefaultColor = 0x334155

	// tableMinSize is the smallest table edge in world units; smaller
	// drags are normalized up to it.
	tableMinSize = 48.0
)

// TableTool drags out a bounding rectangle and, on release, draws a grid
// of the configured row/column count inside it.
type TableTool struct {
	rt *Runtime

	dragging bool
	start    geom.Point
	rubber   *scene.Graphics

	lastColor uint32
}

// NewTableTool creates the table tool.
func NewTableTool() *TableTool {
	return &TableTool{}
}

func (t *TableTool) Name() string { return "table" }

func (t *TableTool) Activate(rt *Runtime) {
	t.rt = rt
	if t.lastColor == 0 {
		t.lastColor = tableDefaultColor
	}
}

func (t *TableTool) Deactivate() {
	if t.rt == nil {
		return
	}
	t.dragging = false
	t.clearRubber()
	t.rt = nil
}

func (t *TableTool) PointerDown(ev PointerEvent) {
	if t.rt == nil {
		return
	}
	t.dragging = true
	t.start = ev.World
}

func (t *TableTool) PointerMove(ev PointerEvent) {
	if t.rt == nil || !t.dragging {
		return
	}
	r := geom.FromPoints(t.start, ev.World)
	if t.rubber == nil {
		t.rubber = scene.NewGraphics()
		t.rubber.SetName("table-rubber")
		t.rt.Overlay.Add(t.rubber)
	}
	t.rubber.Clear()
	t.rubber.SetStroke(1/t.rt.Graph.CurrentZoom(), tableDefaultColor, 0.7)
	t.rubber.DrawRect(r.X, r.Y, r.Width, r.Height)
}

func (t *TableTool) PointerUp(ev PointerEvent) {
	if t.rt == nil || !t.dragging {
		return
	}
	t.dragging = false
	t.clearRubber()

	r := geom.FromPoints(t.start, ev.World)
	// degenerate drags are normalized to the documented minimum
	if r.Width < tableMinSize {
		r.Width = tableMinSize
	}
	if r.Height < tableMinSize {
		r.Height = tableMinSize
	}
	t.drawTable(r)
}

func (t *TableTool) PointerCancel(ev PointerEvent) {
	if t.rt == nil {
		return
	}
	t.dragging = false
	t.clearRubber()
}

func (t *TableTool) UpdateSetting(key string, value any) {}

func (t *TableTool) drawTable(r geom.Rect) {
	rows := t.rt.Settings.IntIn(tableRowsKey, tableDefaultRows, 1, tableMaxDim)
	cols := t.rt.Settings.IntIn(tableColsKey, tableDefaultCols, 1, tableMaxDim)
	color := t.rt.Settings.Color(tableColorKey, t.lastColor)
	t.lastColor = color

	gfx := scene.NewGraphics()
	gfx.SetName("table")
	gfx.SetStroke(1, color, 1)
	gfx.DrawRect(r.X, r.Y, r.Width, r.Height)

	rowH := r.Height / float64(rows)
	for i := 1; i < rows; i++ {
		y := r.Y + float64(i)*rowH
		gfx.MoveTo(r.X, y)
		gfx.LineTo(r.X+r.Width, y)
	}
	colW := r.Width / float64(cols)
	for i := 1; i < cols; i++ {
		x := r.X + float64(i)*colW
		gfx.MoveTo(x, r.Y)
		gfx.LineTo(x, r.Y+r.Height)
	}

	id := t.rt.Graph.AddDisplayObject(gfx)
	if id == "" {
		gfx.Destroy()
		return
	}
	recordInsert(t.rt, id, gfx, "table")
}

func (t *TableTool) clearRubber() {
	if t.rubber != nil {
		t.rt.Overlay.Remove(t.rubber)
		t.rubber.Destroy()
		t.rubber = nil
	}
}
