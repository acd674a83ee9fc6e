package tool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptino/neptino/editor-go/internal/scene"
)

func activeBrush(t *testing.T, rt *Runtime) *BrushTool {
	t.Helper()
	b := NewBrushTool()
	b.SetRandom(rand.New(rand.NewSource(1)))
	b.Activate(rt)
	return b
}

func brushStroke(rt *Runtime) *scene.Graphics {
	return rt.Graph.ObjectsSnapshot()[0].Object.(*scene.Graphics)
}

func TestBrushSinglePointIsDot(t *testing.T) {
	rt := newTestRuntime()
	b := activeBrush(t, rt)
	defer b.Deactivate()

	b.PointerDown(evAt(10, 10))
	b.PointerUp(evAt(10, 10))

	require.Equal(t, 1, rt.Graph.Len())
	assert.Equal(t, []string{"F", "O"}, commandTags(brushStroke(rt)))
}

func TestBrushSolidRoundTwoPoints(t *testing.T) {
	rt := newTestRuntime()
	b := activeBrush(t, rt)
	defer b.Deactivate()

	b.PointerDown(evAt(0, 0))
	b.PointerMove(evAt(100, 0))
	b.PointerUp(evAt(100, 0))

	gfx := brushStroke(rt)
	// two samples degenerate to a straight segment at the default width
	assert.Equal(t, []string{"S", "M", "L"}, commandTags(gfx))
	cmd := gfx.Commands()[0]
	assert.Equal(t, brushDefaultSize, cmd[1].(float64))
}

func TestBrushSolidRoundSmoothsMidpoints(t *testing.T) {
	rt := newTestRuntime()
	b := activeBrush(t, rt)
	defer b.Deactivate()

	b.PointerDown(evAt(0, 0))
	b.PointerMove(evAt(50, 0))
	b.PointerMove(evAt(50, 50))
	b.PointerUp(evAt(50, 50))

	// interior samples become quadratic control points
	assert.Equal(t, []string{"S", "M", "Q", "L"}, commandTags(brushStroke(rt)))
}

func TestBrushStylesProduceGeometry(t *testing.T) {
	styles := []string{
		StyleSolidRound, StyleSolidFlat, StyleCalligraphic, StyleScatter,
		StyleArt, StyleBristle, StylePattern, StyleTextured, StyleSpray,
	}
	for _, style := range styles {
		t.Run(style, func(t *testing.T) {
			rt := newTestRuntime()
			rt.Settings.Set(brushStyleKey, style)
			b := activeBrush(t, rt)
			defer b.Deactivate()

			b.PointerDown(evAt(0, 0))
			b.PointerMove(evAt(40, 0))
			b.PointerMove(evAt(80, 20))
			b.PointerUp(evAt(80, 20))

			require.Equal(t, 1, rt.Graph.Len())
			assert.False(t, brushStroke(rt).Empty())
		})
	}
}

func TestBrushSeededScatterIsReproducible(t *testing.T) {
	render := func() []string {
		rt := newTestRuntime()
		rt.Settings.Set(brushStyleKey, StyleScatter)
		b := activeBrush(t, rt)
		defer b.Deactivate()
		b.PointerDown(evAt(0, 0))
		b.PointerMove(evAt(40, 0))
		b.PointerUp(evAt(40, 0))
		return commandTags(brushStroke(rt))
	}

	first := render()
	assert.Equal(t, first, render())
	// scatter adds dot geometry on top of the spine
	assert.Contains(t, first, "O")
}

func TestBrushPatternAlternatesDashAndGap(t *testing.T) {
	rt := newTestRuntime()
	rt.Settings.Set(brushStyleKey, StylePattern)
	b := activeBrush(t, rt)
	defer b.Deactivate()

	b.PointerDown(evAt(0, 0))
	b.PointerMove(evAt(30, 0))
	b.PointerUp(evAt(30, 0))

	// a 30-unit run at a 6-unit dash length flips the pen several times
	tags := commandTags(brushStroke(rt))
	moves := 0
	for _, tag := range tags {
		if tag == "M" {
			moves++
		}
	}
	assert.GreaterOrEqual(t, moves, 3)
}

func TestBrushSizeClamped(t *testing.T) {
	rt := newTestRuntime()
	rt.Settings.Set(brushSizeKey, 10000.0)
	b := activeBrush(t, rt)
	defer b.Deactivate()

	b.PointerDown(evAt(0, 0))
	b.PointerMove(evAt(50, 0))
	b.PointerUp(evAt(50, 0))

	cmd := brushStroke(rt).Commands()[0]
	assert.Equal(t, brushMaxSize, cmd[1].(float64))
}

func TestBrushCancelDiscards(t *testing.T) {
	rt := newTestRuntime()
	b := activeBrush(t, rt)

	b.PointerDown(evAt(0, 0))
	b.PointerMove(evAt(50, 0))
	b.PointerCancel(evAt(50, 0))
	assert.Equal(t, 0, rt.Graph.Len())

	b.Deactivate()
	b.Deactivate()
}

func TestBrushStrokeUndoRedo(t *testing.T) {
	rt := newTestRuntime()
	addRect(rt, "under", 0, 0, 10, 10)
	b := NewBrushTool()
	b.Activate(rt)
	defer b.Deactivate()

	b.PointerDown(evAt(10, 10))
	b.PointerMove(evAt(40, 20))
	b.PointerUp(evAt(40, 20))

	require.Equal(t, 2, rt.Graph.Len())
	require.Equal(t, 1, rt.History.Len())
	stroke := rt.Graph.ObjectsSnapshot()[1]

	require.True(t, rt.History.Undo())
	assert.Equal(t, -1, rt.Graph.IndexOf(stroke.ID))

	require.True(t, rt.History.Redo())
	assert.Equal(t, 1, rt.Graph.IndexOf(stroke.ID))

	// a cancelled gesture leaves no entry behind
	b.PointerDown(evAt(0, 0))
	b.PointerCancel(evAt(0, 0))
	assert.Equal(t, 1, rt.History.Len())
}
