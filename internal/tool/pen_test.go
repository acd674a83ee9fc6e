package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

func activePen(t *testing.T, rt *Runtime, mode string) *PenTool {
	t.Helper()
	rt.Settings.Set(penModeKey, mode)
	pen := NewPenTool()
	pen.Activate(rt)
	return pen
}

func TestFreehandStrokeCoalescesSamples(t *testing.T) {
	rt := newTestRuntime()
	pen := activePen(t, rt, "freehand")
	defer pen.Deactivate()

	pen.PointerDown(evAt(0, 0))
	pen.PointerMove(evAt(0.4, 0)) // below the coalesce distance, dropped
	pen.PointerMove(evAt(10, 0))
	pen.PointerMove(evAt(10.2, 0)) // dropped
	pen.PointerMove(evAt(20, 0))

	require.Len(t, pen.freehand.points, 3)
	pen.PointerUp(evAt(20, 0))

	require.Equal(t, 1, rt.Graph.Len())
	gfx := rt.Graph.ObjectsSnapshot()[0].Object.(*scene.Graphics)
	assert.Equal(t, []string{"S", "M", "L", "L"}, commandTags(gfx))
}

func TestFreehandSinglePointDiscarded(t *testing.T) {
	rt := newTestRuntime()
	pen := activePen(t, rt, "freehand")
	defer pen.Deactivate()

	pen.PointerDown(evAt(0, 0))
	pen.PointerUp(evAt(0, 0))
	assert.Equal(t, 0, rt.Graph.Len())
}

func TestFreehandAutoCloseAndFill(t *testing.T) {
	rt := newTestRuntime()
	pen := activePen(t, rt, "freehand")
	defer pen.Deactivate()

	pen.PointerDown(evAt(0, 0))
	pen.PointerMove(evAt(30, 0))
	pen.PointerMove(evAt(30, 30))
	pen.PointerMove(evAt(3, 3)) // ends within the close radius of the start
	pen.PointerUp(evAt(3, 3))

	require.Equal(t, 1, rt.Graph.Len())
	gfx := rt.Graph.ObjectsSnapshot()[0].Object.(*scene.Graphics)
	tags := commandTags(gfx)
	assert.Equal(t, "F", tags[0], "closed stroke should carry a fill")
	assert.Equal(t, "Z", tags[len(tags)-1])
}

func TestFreehandFarEndsStayOpen(t *testing.T) {
	rt := newTestRuntime()
	pen := activePen(t, rt, "freehand")
	defer pen.Deactivate()

	pen.PointerDown(evAt(0, 0))
	pen.PointerMove(evAt(50, 0))
	pen.PointerMove(evAt(100, 0))
	pen.PointerUp(evAt(100, 0))

	gfx := rt.Graph.ObjectsSnapshot()[0].Object.(*scene.Graphics)
	assert.NotContains(t, commandTags(gfx), "Z")
}

func TestFreehandCancelDiscardsStroke(t *testing.T) {
	rt := newTestRuntime()
	pen := activePen(t, rt, "freehand")
	defer pen.Deactivate()

	pen.PointerDown(evAt(0, 0))
	pen.PointerMove(evAt(50, 0))
	pen.PointerCancel(evAt(50, 0))
	assert.Equal(t, 0, rt.Graph.Len())
}

func TestPenModeSwitchDeactivatesOutgoingController(t *testing.T) {
	rt := newTestRuntime()
	pen := activePen(t, rt, "freehand")
	defer pen.Deactivate()

	pen.PointerDown(evAt(0, 0))
	pen.PointerMove(evAt(50, 0))

	// switching mid-gesture discards the unfinished stroke
	rt.Settings.Set(penModeKey, "vector")
	pen.UpdateSetting(penModeKey, "vector")
	assert.Equal(t, 0, rt.Graph.Len())
	assert.Same(t, pen.vector, pen.active.(*vectorController))
}

// --- Vector controller ---

// vectorHost wires a pen tool in vector mode through a host, so window
// capture routes drag events the way the browser would.
func vectorHost(t *testing.T) (*Host, *PenTool, *Runtime) {
	t.Helper()
	rt := newTestRuntime()
	rt.Settings.Set(penModeKey, "vector")
	pen := NewPenTool()
	h := NewHost(rt)
	h.Register(pen)
	require.NoError(t, h.SetActiveTool("pen"))
	return h, pen, rt
}

func click(h *Host, x, y float64) {
	h.PointerDown(geom.Pt(x, y), 1, 1, Modifiers{})
	h.PointerUp(geom.Pt(x, y), 1, 0, Modifiers{})
}

func TestVectorClickPlacesSharpCorners(t *testing.T) {
	h, pen, rt := vectorHost(t)
	defer h.Close()

	click(h, 0, 0)
	click(h, 100, 0)
	click(h, 50, 80)

	path := pen.vector.path
	require.NotNil(t, path)
	require.Len(t, path.nodes, 3)
	for _, n := range path.nodes {
		assert.Nil(t, n.handleIn)
		assert.Nil(t, n.handleOut)
	}
	assert.Equal(t, 1, rt.Graph.Len())
	assert.False(t, path.closed)
}

func TestVectorDragEstablishesSymmetricHandles(t *testing.T) {
	h, pen, _ := vectorHost(t)
	defer h.Close()

	h.PointerDown(geom.Pt(0, 0), 1, 1, Modifiers{})
	h.PointerMove(geom.Pt(20, 10), 1, 1, Modifiers{})
	h.PointerUp(geom.Pt(20, 10), 1, 0, Modifiers{})

	node := pen.vector.path.nodes[0]
	require.NotNil(t, node.handleOut)
	require.NotNil(t, node.handleIn)

	// handles mirror through the anchor
	out := node.handleOut.Sub(node.pos)
	in := node.handleIn.Sub(node.pos)
	assert.InDelta(t, -out.X, in.X, 1e-9)
	assert.InDelta(t, -out.Y, in.Y, 1e-9)
	assert.InDelta(t, 20.0, out.X, 1e-9)
	assert.InDelta(t, 10.0, out.Y, 1e-9)
}

func TestVectorSubThresholdDragStaysSharp(t *testing.T) {
	h, pen, _ := vectorHost(t)
	defer h.Close()

	h.PointerDown(geom.Pt(0, 0), 1, 1, Modifiers{})
	h.PointerMove(geom.Pt(0.5, 0), 1, 1, Modifiers{}) // below the establish threshold
	h.PointerUp(geom.Pt(0.5, 0), 1, 0, Modifiers{})

	node := pen.vector.path.nodes[0]
	assert.Nil(t, node.handleOut)
	assert.Nil(t, node.handleIn)
}

func TestVectorCloseNearFirstNode(t *testing.T) {
	h, pen, _ := vectorHost(t)
	defer h.Close()

	click(h, 0, 0)
	click(h, 100, 0)
	click(h, 50, 80)

	// outside the anchor radius but inside the close radius
	click(h, 12, 0)

	path := pen.vector.path
	assert.True(t, path.closed)
	require.Len(t, path.nodes, 3)
	assert.Contains(t, commandTags(path.gfx), "Z")
}

func TestVectorShiftClickDeletesNode(t *testing.T) {
	h, pen, rt := vectorHost(t)
	defer h.Close()

	click(h, 0, 0)
	click(h, 100, 0)
	click(h, 50, 80)

	h.PointerDown(geom.Pt(100, 0), 1, 1, Modifiers{Shift: true})
	h.PointerUp(geom.Pt(100, 0), 1, 0, Modifiers{Shift: true})
	require.Len(t, pen.vector.path.nodes, 2)

	// deleting down to nothing removes the path from the scene
	h.PointerDown(geom.Pt(50, 80), 1, 1, Modifiers{Shift: true})
	h.PointerUp(geom.Pt(50, 80), 1, 0, Modifiers{Shift: true})
	h.PointerDown(geom.Pt(0, 0), 1, 1, Modifiers{Shift: true})
	h.PointerUp(geom.Pt(0, 0), 1, 0, Modifiers{Shift: true})

	assert.Nil(t, pen.vector.path)
	assert.Equal(t, 0, rt.Graph.Len())
}

func TestVectorDeactivateReleasesEverything(t *testing.T) {
	h, pen, rt := vectorHost(t)

	h.PointerDown(geom.Pt(0, 0), 1, 1, Modifiers{})
	h.PointerMove(geom.Pt(30, 0), 1, 1, Modifiers{}) // drag in flight

	pen.Deactivate()
	pen.Deactivate()
	assert.False(t, rt.Captured())
	assert.Equal(t, 0, rt.Overlay.Len())
}
