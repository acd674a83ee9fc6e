package scene

import (
	"strings"

	"github.com/neptino/neptino/editor-go/internal/geom"
)

// Glyph metrics used to approximate text bounds without a font engine.
// The renderer measures for real; the graph only needs a pickable box.
const (
	glyphAdvance = 0.6
	lineHeight   = 1.2
)

// Text is a styled text block anchored at its center.
type Text struct {
	name string
	tag  string

	content  string
	center   geom.Point
	fontSize float64
	color    uint32

	destroyed bool
}

// NewText creates a text block centered at p.
func NewText(content string, p geom.Point, fontSize float64, color uint32) *Text {
	if fontSize <= 0 {
		fontSize = 16
	}
	return &Text{content: content, center: p, fontSize: fontSize, color: color}
}

// SetName sets the object's display name.
func (t *Text) SetName(name string) { t.name = name }

// SetTag sets the object's freeform tag.
func (t *Text) SetTag(tag string) { t.tag = tag }

func (t *Text) Name() string { return t.name }
func (t *Text) Tag() string  { return t.tag }

// Content returns the text content.
func (t *Text) Content() string { return t.content }

// Center returns the anchor point.
func (t *Text) Center() geom.Point { return t.center }

// FontSize returns the font size in world units.
func (t *Text) FontSize() float64 { return t.fontSize }

// Color returns the packed text color.
func (t *Text) Color() uint32 { return t.color }

// Bounds implements DisplayObject.
func (t *Text) Bounds() geom.Rect {
	lines := strings.Split(t.content, "\n")
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	w := float64(longest) * t.fontSize * glyphAdvance
	h := float64(len(lines)) * t.fontSize * lineHeight
	return geom.Rect{X: t.center.X - w/2, Y: t.center.Y - h/2, Width: w, Height: h}
}

// ContainsPoint implements DisplayObject.
func (t *Text) ContainsPoint(p geom.Point) bool {
	return t.Bounds().ContainsPoint(p)
}

// Translate implements DisplayObject.
func (t *Text) Translate(dx, dy float64) {
	t.center.X += dx
	t.center.Y += dy
}

// Destroy implements DisplayObject.
func (t *Text) Destroy() {
	t.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (t *Text) Destroyed() bool {
	return t.destroyed
}
