package tool

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

const (
	// coalesceDistance drops pointer samples closer than this to the last
	// recorded point, in world units.
	coalesceDistance = 1.0
	// closeRadius is the auto-close pick radius in screen units, scaled by
	// the current zoom so it stays constant on screen.
	closeRadius = 16.0
)

// freehandController draws raw strokes: points are coalesced while the
// pointer moves, and on release the stroke is discarded (<2 points),
// auto-closed and filled (ends within the close radius, ≥3 points), or
// left as an open stroke.
type freehandController struct {
	rt     *Runtime
	points []geom.Point
	gfx    *scene.Graphics
	id     string

	lastColor uint32
}

func (c *freehandController) activate(rt *Runtime) {
	c.rt = rt
	if c.lastColor == 0 {
		c.lastColor = penDefaultColor
	}
}

func (c *freehandController) deactivate() {
	if c.rt == nil {
		return
	}
	c.discard()
	c.rt = nil
}

func (c *freehandController) pointerDown(ev PointerEvent) {
	if c.rt == nil || c.gfx != nil {
		return
	}
	gfx := scene.NewGraphics()
	gfx.SetName("freehand-stroke")
	id := c.rt.Graph.AddDisplayObject(gfx)
	if id == "" {
		// scene insertion failed: abort the gesture silently
		gfx.Destroy()
		return
	}
	c.gfx = gfx
	c.id = id
	c.points = append(c.points[:0], ev.World)
	c.redraw(false)
}

func (c *freehandController) pointerMove(ev PointerEvent) {
	if c.rt == nil || c.gfx == nil {
		return
	}
	if ev.World.Distance(c.points[len(c.points)-1]) < coalesceDistance {
		return
	}
	c.points = append(c.points, ev.World)
	c.redraw(false)
}

func (c *freehandController) pointerUp(ev PointerEvent) {
	if c.rt == nil || c.gfx == nil {
		return
	}
	if len(c.points) < 2 {
		c.discard()
		return
	}

	closeR := closeRadius / c.rt.Graph.CurrentZoom()
	closed := len(c.points) >= 3 && c.points[0].Distance(c.points[len(c.points)-1]) <= closeR
	c.redraw(closed)
	recordInsert(c.rt, c.id, c.gfx, "pen stroke")

	c.gfx = nil
	c.id = ""
	c.points = c.points[:0]
}

func (c *freehandController) pointerCancel(ev PointerEvent) {
	if c.rt == nil {
		return
	}
	c.discard()
}

func (c *freehandController) redraw(closed bool) {
	size := c.rt.Settings.FloatIn(penSizeKey, penDefaultSize, penMinSize, penMaxSize)
	color := c.rt.Settings.Color(penColorKey, c.lastColor)
	c.lastColor = color

	c.gfx.Clear()
	if closed {
		c.gfx.SetFill(c.rt.Settings.Color(penFillColorKey, penDefaultFill), 1)
	}
	c.gfx.SetStroke(size, color, 1)
	c.gfx.MoveTo(c.points[0].X, c.points[0].Y)
	for _, p := range c.points[1:] {
		c.gfx.LineTo(p.X, p.Y)
	}
	if closed {
		c.gfx.ClosePath()
	}
}

func (c *freehandController) discard() {
	if c.gfx == nil {
		return
	}
	c.rt.Graph.RemoveObject(c.id)
	c.gfx.Destroy()
	c.gfx = nil
	c.id = ""
	c.points = c.points[:0]
}
