package tool

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

const (
	// dragEstablish is the world-unit movement past which a gesture counts
	// as a drag (establishing handles, or keeping a handle edit).
	dragEstablish = 0.75
	// anchorRadius / handleRadius are pick radii in screen units.
	anchorRadius = 8.0
	handleRadius = 6.0

	anchorColor  = 0x1d4ed8
	handleColor  = 0x60a5fa
	previewColor = 0x94a3b8
)

// pathNode is one anchor of a vector path. A node with both handles nil
// renders as a straight corner; a node with one or both handles set
// renders a cubic Bezier segment to/from its neighbors.
type pathNode struct {
	pos       geom.Point
	handleIn  *geom.Point
	handleOut *geom.Point
}

// translate moves the anchor and both its handles rigidly.
func (n *pathNode) translate(d geom.Point) {
	n.pos = n.pos.Add(d)
	if n.handleIn != nil {
		*n.handleIn = n.handleIn.Add(d)
	}
	if n.handleOut != nil {
		*n.handleOut = n.handleOut.Add(d)
	}
}

// clearHandles drops both handles (sharp corner).
func (n *pathNode) clearHandles() {
	n.handleIn = nil
	n.handleOut = nil
}

// nodePath owns its nodes and its renderable graphics primitive; when
// removed, both are released together. Once closed a path is never
// reopened (except by deleting down to a single node).
type nodePath struct {
	id     string
	gfx    *scene.Graphics
	nodes  []*pathNode
	closed bool
}

// --- Interaction state (tagged union) ---

// interaction is the per-gesture state of the vector controller. At most
// one interaction exists at a time; pointer capture is single-owner.
type interaction interface{ isInteraction() }

// addNodeDrag follows a freshly placed node: dragging past the threshold
// establishes symmetric handles.
type addNodeDrag struct {
	index       int
	start       geom.Point
	established bool
	prevSmooth  bool // previous node had no handleOut when the gesture began
}

// anchorDrag translates an anchor and both its handles rigidly.
type anchorDrag struct {
	index int
	last  geom.Point
}

type handleSide uint8

const (
	handleInSide handleSide = iota
	handleOutSide
)

// handleDrag edits a single control handle, mirroring the opposite one
// unless the gesture started with Alt/Meta held.
type handleDrag struct {
	index  int
	side   handleSide
	start  geom.Point
	moved  bool
	mirror bool
}

func (addNodeDrag) isInteraction() {}
func (anchorDrag) isInteraction()  {}
func (handleDrag) isInteraction()  {}

// vectorController is the anchor/handle path editor. One path at a time
// is selected (its overlay visible); clicking a path's stroke selects it.
type vectorController struct {
	rt    *Runtime
	paths map[string]*nodePath // every path created this session, by scene id
	path  *nodePath            // selected path, nil if none

	inter interaction

	handlesGfx *scene.Graphics
	preview    *scene.Graphics

	lastColor uint32
}

func (c *vectorController) activate(rt *Runtime) {
	c.rt = rt
	if c.paths == nil {
		c.paths = make(map[string]*nodePath)
	}
	if c.lastColor == 0 {
		c.lastColor = penDefaultColor
	}
}

func (c *vectorController) deactivate() {
	if c.rt == nil {
		return
	}
	if c.inter != nil {
		c.endDrag(PointerEvent{}, true)
	}
	c.clearPreview()
	c.clearHandlesOverlay()
	c.path = nil
	c.rt = nil
}

func (c *vectorController) pointerDown(ev PointerEvent) {
	if c.rt == nil || c.inter != nil {
		return
	}
	zoom := c.rt.Graph.CurrentZoom()

	if c.path != nil {
		// Handle knobs take priority over anchors.
		if idx, side, ok := c.hitHandle(ev.World, handleRadius/zoom); ok {
			c.clearPreview()
			c.startDrag(handleDrag{
				index:  idx,
				side:   side,
				start:  ev.World,
				mirror: !ev.Alt && !ev.Meta,
			})
			return
		}
		if idx, ok := c.hitAnchor(ev.World, anchorRadius/zoom); ok {
			if ev.Shift {
				c.deleteNode(idx)
				return
			}
			c.clearPreview()
			c.startDrag(anchorDrag{index: idx, last: ev.World})
			return
		}
	}

	if c.path != nil && !c.path.closed {
		// Near the first node with ≥2 nodes: close instead of adding.
		if len(c.path.nodes) >= 2 && ev.World.Distance(c.path.nodes[0].pos) <= closeRadius/zoom {
			c.closePath()
			return
		}
		c.appendNode(ev.World)
		return
	}

	// No open path: clicking another path's stroke selects it.
	for _, p := range c.paths {
		if p.gfx.ContainsPoint(ev.World) {
			c.selectPath(p)
			return
		}
	}

	c.startPath(ev.World)
}

func (c *vectorController) pointerMove(ev PointerEvent) {
	if c.rt == nil || c.inter != nil {
		return
	}
	// Hover: live preview segment from the last node to the cursor.
	if c.path != nil && !c.path.closed && len(c.path.nodes) > 0 {
		c.drawPreview(ev.World)
	}
}

func (c *vectorController) pointerUp(ev PointerEvent)     {}
func (c *vectorController) pointerCancel(ev PointerEvent) {}

// --- Gesture plumbing ---

func (c *vectorController) startDrag(i interaction) {
	if !c.rt.CaptureWindow(c.dragMove, c.dragUp, c.dragCancel) {
		return
	}
	c.inter = i
}

func (c *vectorController) dragMove(ev PointerEvent) {
	if c.path == nil || c.inter == nil {
		return
	}
	switch i := c.inter.(type) {
	case addNodeDrag:
		node := c.path.nodes[i.index]
		delta := ev.World.Sub(i.start)
		if !i.established && delta.Length() >= dragEstablish {
			i.established = true
		}
		if i.established {
			out := node.pos.Add(delta)
			in := node.pos.Sub(delta)
			node.handleOut = &out
			node.handleIn = &in
			// Retroactively smooth the join: the previous node gets an
			// outgoing handle at half the drag magnitude if it had none
			// when this gesture began.
			if i.prevSmooth && i.index > 0 {
				prev := c.path.nodes[i.index-1]
				half := prev.pos.Add(delta.Scale(0.5))
				prev.handleOut = &half
			}
		}
		c.inter = i
	case anchorDrag:
		delta := ev.World.Sub(i.last)
		i.last = ev.World
		c.path.nodes[i.index].translate(delta)
		c.inter = i
	case handleDrag:
		node := c.path.nodes[i.index]
		if !i.moved && ev.World.Distance(i.start) >= dragEstablish {
			i.moved = true
		}
		h := ev.World
		if i.side == handleOutSide {
			node.handleOut = &h
		} else {
			node.handleIn = &h
		}
		if i.mirror {
			m := node.pos.Add(node.pos.Sub(h))
			if i.side == handleOutSide {
				node.handleIn = &m
			} else {
				node.handleOut = &m
			}
		}
		c.inter = i
	}
	c.redrawPath(c.path)
	c.rebuildHandles()
}

func (c *vectorController) dragUp(ev PointerEvent) {
	c.endDrag(ev, false)
}

func (c *vectorController) dragCancel(ev PointerEvent) {
	c.endDrag(ev, true)
}

func (c *vectorController) endDrag(ev PointerEvent, cancelled bool) {
	i := c.inter
	c.inter = nil
	c.rt.ReleaseWindow()
	if c.path == nil || i == nil {
		return
	}

	switch i := i.(type) {
	case addNodeDrag:
		// A sub-threshold drag leaves a sharp corner.
		if !i.established || cancelled {
			c.path.nodes[i.index].clearHandles()
		}
	case handleDrag:
		// A near-zero handle drag on the last node undoes the implicit
		// smoothing from node placement.
		if !i.moved && i.index == len(c.path.nodes)-1 {
			c.path.nodes[i.index].clearHandles()
		}
	case anchorDrag:
		// nothing to settle
		_ = i
	}

	c.redrawPath(c.path)
	c.rebuildHandles()
}

// --- Path operations ---

func (c *vectorController) startPath(p geom.Point) {
	gfx := scene.NewGraphics()
	gfx.SetName("vector-path")
	id := c.rt.Graph.AddDisplayObject(gfx)
	if id == "" {
		gfx.Destroy()
		return
	}
	recordInsert(c.rt, id, gfx, "vector path")
	path := &nodePath{id: id, gfx: gfx, nodes: []*pathNode{{pos: p}}}
	c.paths[id] = path
	c.path = path
	c.redrawPath(path)
	c.rebuildHandles()
	c.startDrag(addNodeDrag{index: 0, start: p})
}

func (c *vectorController) appendNode(p geom.Point) {
	prev := c.path.nodes[len(c.path.nodes)-1]
	c.path.nodes = append(c.path.nodes, &pathNode{pos: p})
	c.clearPreview()
	c.redrawPath(c.path)
	c.rebuildHandles()
	c.startDrag(addNodeDrag{
		index:      len(c.path.nodes) - 1,
		start:      p,
		prevSmooth: prev.handleOut == nil,
	})
}

func (c *vectorController) closePath() {
	c.path.closed = true
	c.clearPreview()
	c.redrawPath(c.path)
	c.rebuildHandles()
}

func (c *vectorController) deleteNode(idx int) {
	p := c.path
	p.nodes = append(p.nodes[:idx], p.nodes[idx+1:]...)

	switch len(p.nodes) {
	case 0:
		c.removePath(p)
		return
	case 1:
		p.nodes[0].clearHandles()
		p.closed = false
	}
	c.redrawPath(p)
	c.rebuildHandles()
}

func (c *vectorController) removePath(p *nodePath) {
	c.rt.Graph.RemoveObject(p.id)
	p.gfx.Destroy()
	delete(c.paths, p.id)
	if c.path == p {
		c.path = nil
		c.clearPreview()
		c.clearHandlesOverlay()
	}
}

func (c *vectorController) selectPath(p *nodePath) {
	c.clearPreview()
	c.path = p
	c.rebuildHandles()
}

// --- Hit testing ---

func (c *vectorController) hitAnchor(p geom.Point, r float64) (int, bool) {
	for i, n := range c.path.nodes {
		if p.Distance(n.pos) <= r {
			return i, true
		}
	}
	return 0, false
}

func (c *vectorController) hitHandle(p geom.Point, r float64) (int, handleSide, bool) {
	for i, n := range c.path.nodes {
		if n.handleOut != nil && p.Distance(*n.handleOut) <= r {
			return i, handleOutSide, true
		}
		if n.handleIn != nil && p.Distance(*n.handleIn) <= r {
			return i, handleInSide, true
		}
	}
	return 0, 0, false
}

// --- Rendering ---

func (c *vectorController) redrawPath(p *nodePath) {
	size := c.rt.Settings.FloatIn(penSizeKey, penDefaultSize, penMinSize, penMaxSize)
	color := c.rt.Settings.Color(penColorKey, c.lastColor)
	c.lastColor = color

	p.gfx.Clear()
	if p.closed && c.rt.Settings.Bool(penFillKey, false) {
		p.gfx.SetFill(c.rt.Settings.Color(penFillColorKey, penDefaultFill), 1)
	}
	p.gfx.SetStroke(size, color, 1)

	if len(p.nodes) == 0 {
		return
	}
	first := p.nodes[0]
	p.gfx.MoveTo(first.pos.X, first.pos.Y)
	for i := 1; i < len(p.nodes); i++ {
		segmentTo(p.gfx, p.nodes[i-1], p.nodes[i])
	}
	if p.closed && len(p.nodes) >= 2 {
		segmentTo(p.gfx, p.nodes[len(p.nodes)-1], first)
		p.gfx.ClosePath()
	}
}

// segmentTo emits a straight or cubic segment from a to b depending on
// which control handles exist.
func segmentTo(gfx *scene.Graphics, a, b *pathNode) {
	if a.handleOut == nil && b.handleIn == nil {
		gfx.LineTo(b.pos.X, b.pos.Y)
		return
	}
	c1 := a.pos
	if a.handleOut != nil {
		c1 = *a.handleOut
	}
	c2 := b.pos
	if b.handleIn != nil {
		c2 = *b.handleIn
	}
	gfx.BezierCurveTo(c1.X, c1.Y, c2.X, c2.Y, b.pos.X, b.pos.Y)
}

// rebuildHandles redraws the anchor/handle overlay. Handle sizes scale
// inversely with zoom so their on-screen size stays constant.
func (c *vectorController) rebuildHandles() {
	if c.path == nil {
		c.clearHandlesOverlay()
		return
	}
	if c.handlesGfx == nil {
		c.handlesGfx = scene.NewGraphics()
		c.handlesGfx.SetName("vector-handles")
		c.rt.Overlay.Add(c.handlesGfx)
	}

	zoom := c.rt.Graph.CurrentZoom()
	anchorR := 4 / zoom
	knobR := 3 / zoom

	g := c.handlesGfx
	g.Clear()
	g.SetStroke(1/zoom, handleColor, 1)
	for _, n := range c.path.nodes {
		for _, h := range []*geom.Point{n.handleIn, n.handleOut} {
			if h == nil {
				continue
			}
			g.MoveTo(n.pos.X, n.pos.Y)
			g.LineTo(h.X, h.Y)
			g.DrawCircle(h.X, h.Y, knobR)
		}
	}
	g.SetStroke(1/zoom, anchorColor, 1)
	for _, n := range c.path.nodes {
		g.DrawCircle(n.pos.X, n.pos.Y, anchorR)
	}
}

func (c *vectorController) clearHandlesOverlay() {
	if c.handlesGfx != nil {
		c.rt.Overlay.Remove(c.handlesGfx)
		c.handlesGfx.Destroy()
		c.handlesGfx = nil
	}
}

func (c *vectorController) drawPreview(hover geom.Point) {
	if c.preview == nil {
		c.preview = scene.NewGraphics()
		c.preview.SetName("vector-preview")
		c.rt.Overlay.Add(c.preview)
	}
	last := c.path.nodes[len(c.path.nodes)-1]

	zoom := c.rt.Graph.CurrentZoom()
	c.preview.Clear()
	c.preview.SetStroke(1/zoom, previewColor, 0.7)
	c.preview.MoveTo(last.pos.X, last.pos.Y)
	if last.handleOut != nil {
		c.preview.BezierCurveTo(last.handleOut.X, last.handleOut.Y, hover.X, hover.Y, hover.X, hover.Y)
	} else {
		c.preview.LineTo(hover.X, hover.Y)
	}
}

func (c *vectorController) clearPreview() {
	if c.preview != nil {
		c.rt.Overlay.Remove(c.preview)
		c.preview.Destroy()
		c.preview = nil
	}
}
