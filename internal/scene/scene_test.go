package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptino/neptino/editor-go/internal/geom"
)

func TestGraphAddRemove(t *testing.T) {
	g := NewGraph(geom.Rect{Width: 800, Height: 600})

	a := NewGraphics()
	a.MoveTo(0, 0)
	a.LineTo(10, 0)
	idA := g.AddDisplayObject(a)
	require.NotEmpty(t, idA)

	b := NewGraphics()
	b.DrawCircle(50, 50, 5)
	idB := g.AddDisplayObject(b)
	require.NotEmpty(t, idB)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 0, g.IndexOf(idA))
	assert.Equal(t, 1, g.IndexOf(idB))

	require.True(t, g.RemoveObject(idA))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, -1, g.IndexOf(idA))
	assert.Nil(t, g.Object(idA))
	assert.False(t, g.RemoveObject(idA))
}

func TestGraphAddNilFails(t *testing.T) {
	g := NewGraph(geom.Rect{})
	assert.Equal(t, "", g.AddDisplayObject(nil))
}

func TestGraphInsertObjectAtRestoresOrder(t *testing.T) {
	g := NewGraph(geom.Rect{})

	ids := make([]string, 3)
	for i := range ids {
		gr := NewGraphics()
		gr.DrawCircle(float64(i*10), 0, 2)
		ids[i] = g.AddDisplayObject(gr)
	}

	middle := g.Object(ids[1])
	require.True(t, g.RemoveObject(ids[1]))

	g.InsertObjectAt(ids[1], middle, 1)
	assert.Equal(t, 1, g.IndexOf(ids[1]))
	assert.Equal(t, ids[1], g.ObjectsSnapshot()[1].ID)
	assert.Same(t, middle, g.Object(ids[1]))

	// double insert under the same id is a no-op
	g.InsertObjectAt(ids[1], middle, 0)
	assert.Equal(t, 3, g.Len())
}

func TestGraphicsStrokeHit(t *testing.T) {
	gr := NewGraphics()
	gr.SetStroke(8, 0xff0000, 1)
	gr.MoveTo(0, 0)
	gr.LineTo(100, 0)

	// on the stroke
	assert.True(t, gr.ContainsPoint(geom.Pt(50, 0)))
	// within half width plus slop
	assert.True(t, gr.ContainsPoint(geom.Pt(50, 5)))
	// well off the stroke
	assert.False(t, gr.ContainsPoint(geom.Pt(50, 30)))
}

func TestGraphicsCircleHit(t *testing.T) {
	gr := NewGraphics()
	gr.DrawCircle(10, 10, 5)

	assert.True(t, gr.ContainsPoint(geom.Pt(12, 12)))
	assert.False(t, gr.ContainsPoint(geom.Pt(20, 20)))
}

func TestGraphicsTranslateMovesBoundsAndHits(t *testing.T) {
	gr := NewGraphics()
	gr.DrawCircle(0, 0, 5)

	gr.Translate(100, 100)
	assert.True(t, gr.ContainsPoint(geom.Pt(100, 100)))
	assert.False(t, gr.ContainsPoint(geom.Pt(0, 0)))

	b := gr.Bounds()
	assert.InDelta(t, 95, b.X, 1e-9)
	assert.InDelta(t, 95, b.Y, 1e-9)
}

func TestGraphicsClear(t *testing.T) {
	gr := NewGraphics()
	gr.MoveTo(0, 0)
	gr.LineTo(10, 10)
	require.False(t, gr.Empty())

	gr.Clear()
	assert.True(t, gr.Empty())
	assert.False(t, gr.ContainsPoint(geom.Pt(5, 5)))
}

func TestTextBoundsCentered(t *testing.T) {
	txt := NewText("hi", geom.Pt(100, 100), 20, 0xffffff)

	b := txt.Bounds()
	c := b.Center()
	assert.InDelta(t, 100, c.X, 1e-9)
	assert.InDelta(t, 100, c.Y, 1e-9)
	assert.True(t, txt.ContainsPoint(geom.Pt(100, 100)))
}

func TestCompileDrawCommands(t *testing.T) {
	g := NewGraph(geom.Rect{})

	gr := NewGraphics()
	gr.SetStroke(2, 0x00ff00, 1)
	gr.MoveTo(0, 0)
	gr.QuadraticCurveTo(5, 5, 10, 0)
	g.AddDisplayObject(gr)

	g.AddDisplayObject(NewText("label", geom.Pt(4, 4), 14, 0x333333))

	cmds := CompileDrawCommands(g)
	require.Len(t, cmds, 2)
	assert.Equal(t, "path", cmds[0].Op)
	assert.Equal(t, "text", cmds[1].Op)
	require.Len(t, cmds[0].Path, 3)
	assert.Equal(t, "S", cmds[0].Path[0][0])
	assert.Equal(t, "M", cmds[0].Path[1][0])
	assert.Equal(t, "Q", cmds[0].Path[2][0])

	out, err := DrawCommandsToJSON(cmds)
	require.NoError(t, err)
	assert.Contains(t, out, `"op":"path"`)
}
