package scene

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
)

// curveSteps is the flattening resolution used for hit testing and bounds
// of curved segments. Rendering fidelity is the renderer's business; this
// only has to be good enough for picking.
const curveSteps = 8

type opKind uint8

const (
	opStroke opKind = iota // set stroke style for subsequent segments
	opFill                 // set fill style for subsequent subpaths
	opMoveTo
	opLineTo
	opQuadTo
	opCubicTo
	opCircle
	opRect
	opClose
)

type op struct {
	kind  opKind
	pts   [6]float64
	width float64
	color uint32
	alpha float64
}

type hitSeg struct {
	a, b geom.Point
	pad  float64 // half stroke width plus pick slop
}

type hitCircle struct {
	c geom.Point
	r float64
}

// pickSlop widens stroke hit testing by a couple of units so thin strokes
// remain clickable.
const pickSlop = 2.0

// Graphics is a retained vector drawing primitive: an ordered list of
// style and path operations, mirroring what the renderer's graphics
// object records. It keeps a flattened copy of its geometry for hit
// testing and bounds.
type Graphics struct {
	name string
	tag  string

	ops []op

	// builder state
	cur         geom.Point
	subStart    geom.Point
	strokeWidth float64
	filling     bool
	subBounds   geom.Rect
	subSet      bool

	// world-space offset applied by Translate
	offset geom.Point

	// flattened geometry for picking
	segs      []hitSeg
	circles   []hitCircle
	rects     []geom.Rect
	bounds    geom.Rect
	boundsSet bool

	destroyed bool
}

// NewGraphics creates an empty graphics primitive.
func NewGraphics() *Graphics {
	return &Graphics{strokeWidth: 1}
}

// SetName sets the object's display name.
func (gr *Graphics) SetName(name string) { gr.name = name }

// SetTag sets the object's freeform tag.
func (gr *Graphics) SetTag(tag string) { gr.tag = tag }

func (gr *Graphics) Name() string { return gr.name }
func (gr *Graphics) Tag() string  { return gr.tag }

// SetStroke sets the stroke style for subsequent path segments.
func (gr *Graphics) SetStroke(width float64, color uint32, alpha float64) {
	if width < 0 {
		width = 0
	}
	gr.strokeWidth = width
	gr.ops = append(gr.ops, op{kind: opStroke, width: width, color: color, alpha: alpha})
}

// SetFill enables filling for subsequent subpaths.
func (gr *Graphics) SetFill(color uint32, alpha float64) {
	gr.filling = true
	gr.ops = append(gr.ops, op{kind: opFill, color: color, alpha: alpha})
}

// MoveTo starts a new subpath at (x, y).
func (gr *Graphics) MoveTo(x, y float64) {
	gr.cur = geom.Pt(x, y)
	gr.subStart = gr.cur
	gr.subBounds = geom.Rect{X: x, Y: y}
	gr.subSet = true
	gr.ops = append(gr.ops, op{kind: opMoveTo, pts: [6]float64{x, y}})
	gr.growBounds(gr.cur, gr.pad())
}

// LineTo draws a straight segment to (x, y).
func (gr *Graphics) LineTo(x, y float64) {
	to := geom.Pt(x, y)
	gr.ops = append(gr.ops, op{kind: opLineTo, pts: [6]float64{x, y}})
	gr.addSeg(gr.cur, to)
	gr.cur = to
}

// QuadraticCurveTo draws a quadratic Bezier to (x, y) with control (cx, cy).
func (gr *Graphics) QuadraticCurveTo(cx, cy, x, y float64) {
	gr.ops = append(gr.ops, op{kind: opQuadTo, pts: [6]float64{cx, cy, x, y}})
	p0, c, p1 := gr.cur, geom.Pt(cx, cy), geom.Pt(x, y)
	prev := p0
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		pt := quadAt(p0, c, p1, t)
		gr.addSeg(prev, pt)
		prev = pt
	}
	gr.cur = p1
}

// BezierCurveTo draws a cubic Bezier to (x, y) with controls (c1x, c1y)
// and (c2x, c2y).
func (gr *Graphics) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	gr.ops = append(gr.ops, op{kind: opCubicTo, pts: [6]float64{c1x, c1y, c2x, c2y, x, y}})
	p0, c1, c2, p1 := gr.cur, geom.Pt(c1x, c1y), geom.Pt(c2x, c2y), geom.Pt(x, y)
	prev := p0
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		pt := cubicAt(p0, c1, c2, p1, t)
		gr.addSeg(prev, pt)
		prev = pt
	}
	gr.cur = p1
}

// DrawCircle draws a circle centered at (cx, cy).
func (gr *Graphics) DrawCircle(cx, cy, r float64) {
	if r < 0 {
		r = 0
	}
	gr.ops = append(gr.ops, op{kind: opCircle, pts: [6]float64{cx, cy, r}})
	gr.circles = append(gr.circles, hitCircle{c: geom.Pt(cx, cy), r: r})
	gr.growBounds(geom.Pt(cx-r, cy-r), 0)
	gr.growBounds(geom.Pt(cx+r, cy+r), 0)
}

// DrawRect draws an axis-aligned rectangle.
func (gr *Graphics) DrawRect(x, y, w, h float64) {
	gr.ops = append(gr.ops, op{kind: opRect, pts: [6]float64{x, y, w, h}})
	r := geom.Rect{X: x, Y: y, Width: w, Height: h}
	gr.rects = append(gr.rects, r)
	gr.growBounds(geom.Pt(x, y), gr.pad())
	gr.growBounds(geom.Pt(x+w, y+h), gr.pad())
}

// ClosePath closes the current subpath back to its starting point.
func (gr *Graphics) ClosePath() {
	gr.ops = append(gr.ops, op{kind: opClose})
	gr.addSeg(gr.cur, gr.subStart)
	if gr.filling && gr.subSet {
		// closed filled subpaths pick by their bounding area
		gr.rects = append(gr.rects, gr.subBounds)
	}
	gr.cur = gr.subStart
}

// Clear discards all recorded operations and geometry.
func (gr *Graphics) Clear() {
	gr.ops = gr.ops[:0]
	gr.segs = gr.segs[:0]
	gr.circles = gr.circles[:0]
	gr.rects = gr.rects[:0]
	gr.bounds = geom.Rect{}
	gr.boundsSet = false
	gr.filling = false
	gr.strokeWidth = 1
	gr.cur = geom.Point{}
	gr.subStart = geom.Point{}
	gr.subBounds = geom.Rect{}
	gr.subSet = false
}

// Empty reports whether the primitive has no recorded path operations.
func (gr *Graphics) Empty() bool {
	for _, o := range gr.ops {
		switch o.kind {
		case opStroke, opFill:
		default:
			return false
		}
	}
	return true
}

// Bounds implements DisplayObject.
func (gr *Graphics) Bounds() geom.Rect {
	if !gr.boundsSet {
		return geom.Rect{X: gr.offset.X, Y: gr.offset.Y}
	}
	b := gr.bounds
	b.X += gr.offset.X
	b.Y += gr.offset.Y
	return b
}

// ContainsPoint implements DisplayObject. It tests the flattened stroke
// geometry, circles, and filled areas against the world point.
func (gr *Graphics) ContainsPoint(p geom.Point) bool {
	local := p.Sub(gr.offset)
	for _, c := range gr.circles {
		if local.DistanceSq(c.c) <= c.r*c.r {
			return true
		}
	}
	for _, r := range gr.rects {
		if r.ContainsPoint(local) {
			return true
		}
	}
	for _, s := range gr.segs {
		if distToSegmentSq(local, s.a, s.b) <= s.pad*s.pad {
			return true
		}
	}
	return false
}

// Translate implements DisplayObject.
func (gr *Graphics) Translate(dx, dy float64) {
	gr.offset.X += dx
	gr.offset.Y += dy
}

// Destroy implements DisplayObject.
func (gr *Graphics) Destroy() {
	gr.Clear()
	gr.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (gr *Graphics) Destroyed() bool {
	return gr.destroyed
}

// Offset returns the accumulated world-space translation.
func (gr *Graphics) Offset() geom.Point {
	return gr.offset
}

func (gr *Graphics) pad() float64 {
	return gr.strokeWidth/2 + pickSlop
}

func (gr *Graphics) addSeg(a, b geom.Point) {
	pad := gr.pad()
	gr.segs = append(gr.segs, hitSeg{a: a, b: b, pad: pad})
	gr.growBounds(a, pad)
	gr.growBounds(b, pad)
	if gr.subSet {
		gr.subBounds = gr.subBounds.Union(geom.FromPoints(a, b))
	}
}

func (gr *Graphics) growBounds(p geom.Point, pad float64) {
	r := geom.Rect{X: p.X - pad, Y: p.Y - pad, Width: 2 * pad, Height: 2 * pad}
	if !gr.boundsSet {
		gr.bounds = r
		gr.boundsSet = true
		return
	}
	gr.bounds = gr.bounds.Union(r)
}

func quadAt(p0, c, p1 geom.Point, t float64) geom.Point {
	u := 1 - t
	return geom.Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

func cubicAt(p0, c1, c2, p1 geom.Point, t float64) geom.Point {
	u := 1 - t
	return geom.Point{
		X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
		Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
	}
}

// distToSegmentSq returns the squared distance from p to segment ab.
func distToSegmentSq(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.DistanceSq(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceSq(geom.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y})
}
