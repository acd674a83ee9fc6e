package tool

import (
	"math"
	"math/rand"
	"time"

	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

const (
	brushStyleKey = "brush.style"
	brushSizeKey  = "brush.size"
	brushColorKey = "brush.color"

	brushDefaultSize  = 8.0
	brushMinSize      = 1.0
	brushMaxSize      = 128.0
	brushDefaultColor = 0x000000
)

// Brush stroke styles. Solid-round and solid-flat share the smoothed
// single-stroke renderer; the randomized styles (scatter, art, bristle,
// textured, spray) draw from the injected random source.
const (
	StyleSolidRound   = "solid-round"
	StyleSolidFlat    = "solid-flat"
	StyleCalligraphic = "calligraphic"
	StyleScatter      = "scatter"
	StyleArt          = "art"
	StyleBristle      = "bristle"
	StylePattern      = "pattern"
	StyleTextured     = "textured"
	StyleSpray        = "spray"
)

// BrushTool accumulates a point list per gesture and renders the entire
// list through the selected stroke algorithm on every update.
type BrushTool struct {
	rt     *Runtime
	rng    *rand.Rand
	points []geom.Point
	gfx    *scene.Graphics
	id     string

	lastColor uint32
}

// NewBrushTool creates the brush tool with a time-seeded random source.
func NewBrushTool() *BrushTool {
	return &BrushTool{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// SetRandom replaces the random source; tests supply a seeded generator
// and assert structural properties instead of exact output.
func (t *BrushTool) SetRandom(rng *rand.Rand) {
	t.rng = rng
}

func (t *BrushTool) Name() string { return "brush" }

func (t *BrushTool) Activate(rt *Runtime) {
	t.rt = rt
	if t.lastColor == 0 {
		t.lastColor = brushDefaultColor
	}
}

func (t *BrushTool) Deactivate() {
	if t.rt == nil {
		return
	}
	t.discard()
	t.rt = nil
}

func (t *BrushTool) PointerDown(ev PointerEvent) {
	if t.rt == nil || t.gfx != nil {
		return
	}
	gfx := scene.NewGraphics()
	gfx.SetName("brush-stroke")
	id := t.rt.Graph.AddDisplayObject(gfx)
	if id == "" {
		gfx.Destroy()
		return
	}
	t.gfx = gfx
	t.id = id
	t.points = append(t.points[:0], ev.World)
	t.render()
}

func (t *BrushTool) PointerMove(ev PointerEvent) {
	if t.rt == nil || t.gfx == nil {
		return
	}
	if ev.World.Distance(t.points[len(t.points)-1]) < coalesceDistance {
		return
	}
	t.points = append(t.points, ev.World)
	t.render()
}

func (t *BrushTool) PointerUp(ev PointerEvent) {
	if t.rt == nil || t.gfx == nil {
		return
	}
	t.render()
	recordInsert(t.rt, t.id, t.gfx, "brush stroke")
	t.gfx = nil
	t.id = ""
	t.points = t.points[:0]
}

func (t *BrushTool) PointerCancel(ev PointerEvent) {
	if t.rt == nil {
		return
	}
	t.discard()
}

func (t *BrushTool) UpdateSetting(key string, value any) {
	if t.gfx != nil {
		t.render()
	}
}

func (t *BrushTool) discard() {
	if t.gfx == nil {
		return
	}
	t.rt.Graph.RemoveObject(t.id)
	t.gfx.Destroy()
	t.gfx = nil
	t.id = ""
	t.points = t.points[:0]
}

// render replays the whole point list through the active algorithm.
func (t *BrushTool) render() {
	size := t.rt.Settings.FloatIn(brushSizeKey, brushDefaultSize, brushMinSize, brushMaxSize)
	color := t.rt.Settings.Color(brushColorKey, t.lastColor)
	t.lastColor = color
	style := t.rt.Settings.String(brushStyleKey, StyleSolidRound)

	t.gfx.Clear()

	// A single-point stroke degenerates to a filled dot.
	if len(t.points) == 1 {
		p := t.points[0]
		t.gfx.SetFill(color, 1)
		t.gfx.DrawCircle(p.X, p.Y, size/2)
		return
	}

	switch style {
	case StyleSolidFlat:
		renderSolid(t.gfx, t.points, size, color)
	case StyleCalligraphic:
		renderCalligraphic(t.gfx, t.points, size, color)
	case StyleScatter:
		renderScatter(t.gfx, t.points, size, color, t.rng)
	case StyleArt:
		renderArt(t.gfx, t.points, size, color, t.rng)
	case StyleBristle:
		renderBristle(t.gfx, t.points, size, color, t.rng)
	case StylePattern:
		renderPattern(t.gfx, t.points, size, color)
	case StyleTextured:
		renderTextured(t.gfx, t.points, size, color, t.rng)
	case StyleSpray:
		renderSpray(t.gfx, t.points, size, color, t.rng)
	default: // solid-round
		renderSolid(t.gfx, t.points, size, color)
	}
}

// --- Stroke algorithms ---

// smoothStroke emits a midpoint-smoothed stroke through pts: each sample
// becomes the control point of a quadratic segment ending at the midpoint
// to the next sample.
func smoothStroke(gfx *scene.Graphics, pts []geom.Point) {
	gfx.MoveTo(pts[0].X, pts[0].Y)
	if len(pts) == 2 {
		gfx.LineTo(pts[1].X, pts[1].Y)
		return
	}
	for i := 1; i < len(pts)-1; i++ {
		mid := pts[i].Mid(pts[i+1])
		gfx.QuadraticCurveTo(pts[i].X, pts[i].Y, mid.X, mid.Y)
	}
	last := pts[len(pts)-1]
	gfx.LineTo(last.X, last.Y)
}

func renderSolid(gfx *scene.Graphics, pts []geom.Point, size float64, color uint32) {
	gfx.SetStroke(size, color, 1)
	smoothStroke(gfx, pts)
}

// renderCalligraphic lays two overlapping strokes of different width,
// the thinner one offset along the nib diagonal.
func renderCalligraphic(gfx *scene.Graphics, pts []geom.Point, size float64, color uint32) {
	gfx.SetStroke(size, color, 0.85)
	smoothStroke(gfx, pts)

	off := size * 0.25
	gfx.SetStroke(size*0.45, color, 1)
	gfx.MoveTo(pts[0].X+off, pts[0].Y-off)
	for _, p := range pts[1:] {
		gfx.LineTo(p.X+off, p.Y-off)
	}
}

// renderScatter draws a thin spine plus randomized dot jitter per point.
func renderScatter(gfx *scene.Graphics, pts []geom.Point, size float64, color uint32, rng *rand.Rand) {
	gfx.SetStroke(size*0.2, color, 0.6)
	smoothStroke(gfx, pts)

	gfx.SetFill(color, 0.8)
	for _, p := range pts {
		n := 2 + rng.Intn(3)
		for j := 0; j < n; j++ {
			dx := (rng.Float64() - 0.5) * size * 2
			dy := (rng.Float64() - 0.5) * size * 2
			gfx.DrawCircle(p.X+dx, p.Y+dy, size*0.12+rng.Float64()*size*0.1)
		}
	}
}

// renderArt simulates pressure: segment width follows a sine envelope
// along the path, alpha is randomized per segment.
func renderArt(gfx *scene.Graphics, pts []geom.Point, size float64, color uint32, rng *rand.Rand) {
	for i := 1; i < len(pts); i++ {
		u := float64(i) / float64(len(pts)-1)
		w := size * (0.35 + 0.65*math.Sin(u*math.Pi))
		alpha := 0.55 + rng.Float64()*0.45
		gfx.SetStroke(w, color, alpha)
		gfx.MoveTo(pts[i-1].X, pts[i-1].Y)
		gfx.LineTo(pts[i].X, pts[i].Y)
	}
}

// renderBristle draws several offset parallel strands with jitter.
func renderBristle(gfx *scene.Graphics, pts []geom.Point, size float64, color uint32, rng *rand.Rand) {
	const strands = 5
	for s := 0; s < strands; s++ {
		off := (float64(s)/(strands-1) - 0.5) * size
		gfx.SetStroke(size*0.18, color, 0.5+rng.Float64()*0.5)
		gfx.MoveTo(pts[0].X, pts[0].Y+off)
		for _, p := range pts[1:] {
			jx := (rng.Float64() - 0.5) * size * 0.15
			jy := (rng.Float64() - 0.5) * size * 0.15
			gfx.LineTo(p.X+jx, p.Y+off+jy)
		}
	}
}

// patternUnit is the dash/gap length of the pattern style in world units.
const patternUnit = 6.0

// renderPattern walks segment lengths, flipping a drawing flag every
// fixed distance to alternate dash and gap.
func renderPattern(gfx *scene.Graphics, pts []geom.Point, size float64, color uint32) {
	gfx.SetStroke(size, color, 1)

	drawing := true
	budget := patternUnit
	cur := pts[0]
	gfx.MoveTo(cur.X, cur.Y)

	for i := 1; i < len(pts); i++ {
		target := pts[i]
		for {
			d := cur.Distance(target)
			if d < 1e-9 {
				break
			}
			if d <= budget {
				budget -= d
				if drawing {
					gfx.LineTo(target.X, target.Y)
				} else {
					gfx.MoveTo(target.X, target.Y)
				}
				cur = target
				break
			}
			// step to the flip point inside this segment
			step := target.Sub(cur).Scale(budget / d)
			cur = cur.Add(step)
			if drawing {
				gfx.LineTo(cur.X, cur.Y)
			} else {
				gfx.MoveTo(cur.X, cur.Y)
			}
			drawing = !drawing
			budget = patternUnit
		}
	}
}

// renderTextured lays the base stroke plus a few randomly-jittered thin
// overlays.
func renderTextured(gfx *scene.Graphics, pts []geom.Point, size float64, color uint32, rng *rand.Rand) {
	renderSolid(gfx, pts, size, color)

	const overlays = 3
	for o := 0; o < overlays; o++ {
		gfx.SetStroke(size*0.15, color, 0.35)
		dx := (rng.Float64() - 0.5) * size * 0.5
		dy := (rng.Float64() - 0.5) * size * 0.5
		gfx.MoveTo(pts[0].X+dx, pts[0].Y+dy)
		for _, p := range pts[1:] {
			gfx.LineTo(p.X+dx, p.Y+dy)
		}
	}
}

// renderSpray draws a thin base stroke plus a cloud of random dots per
// sampled point.
func renderSpray(gfx *scene.Graphics, pts []geom.Point, size float64, color uint32, rng *rand.Rand) {
	gfx.SetStroke(size*0.15, color, 0.4)
	smoothStroke(gfx, pts)

	gfx.SetFill(color, 0.5)
	for _, p := range pts {
		n := 4 + rng.Intn(4)
		for j := 0; j < n; j++ {
			ang := rng.Float64() * 2 * math.Pi
			r := rng.Float64() * size * 1.5
			gfx.DrawCircle(p.X+math.Cos(ang)*r, p.Y+math.Sin(ang)*r, size*0.08)
		}
	}
}
