package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

func TestEraserObjectModeRemovesHit(t *testing.T) {
	rt := newTestRuntime()
	rt.Settings.Set(eraserModeKey, "object")
	keep := addRect(rt, "keep", 200, 200, 20, 20)
	addRect(rt, "gone", 0, 0, 20, 20)

	e := NewEraserTool()
	e.Activate(rt)
	defer e.Deactivate()

	e.PointerDown(evAt(10, 10))
	require.Equal(t, 1, rt.Graph.Len())
	assert.Equal(t, keep.ID, rt.Graph.ObjectsSnapshot()[0].ID)
	assert.True(t, rt.History.CanUndo())
}

func TestEraserBrushModeSweeps(t *testing.T) {
	rt := newTestRuntime()
	addRect(rt, "a", 0, 0, 10, 10)
	addRect(rt, "b", 100, 0, 10, 10)
	addRect(rt, "c", 200, 0, 10, 10)

	e := NewEraserTool()
	e.Activate(rt)
	defer e.Deactivate()

	// a fast swipe across all three; intermediate samples fill the gaps
	e.PointerDown(evAt(-20, 5))
	e.PointerMove(evAt(230, 5))
	e.PointerUp(evAt(230, 5))

	assert.Equal(t, 0, rt.Graph.Len())
	assert.Equal(t, 3, rt.History.Len())
}

func TestEraserSkipsProtectedObjects(t *testing.T) {
	rt := newTestRuntime()
	byName := addRect(rt, "protected:page-frame", 0, 0, 20, 20)
	byTag := addRect(rt, "grid", 0, 40, 20, 20)
	byTag.Object.(*scene.Graphics).SetTag("protected")
	addRect(rt, "ink", 0, 80, 20, 20)

	e := NewEraserTool()
	e.Activate(rt)
	defer e.Deactivate()

	e.PointerDown(evAt(10, 10))
	e.PointerMove(evAt(10, 90))
	e.PointerUp(evAt(10, 90))

	require.Equal(t, 2, rt.Graph.Len())
	assert.NotNil(t, rt.Graph.Object(byName.ID))
	assert.NotNil(t, rt.Graph.Object(byTag.ID))
}

func TestEraserUndoRestoresSiblingOrder(t *testing.T) {
	rt := newTestRuntime()
	rt.Settings.Set(eraserModeKey, "object")
	a := addRect(rt, "a", 0, 0, 10, 10)
	mid := addRect(rt, "mid", 100, 0, 10, 10)
	c := addRect(rt, "c", 200, 0, 10, 10)

	e := NewEraserTool()
	e.Activate(rt)
	defer e.Deactivate()

	e.PointerDown(evAt(105, 5))
	require.Equal(t, 2, rt.Graph.Len())

	// undo puts the object back between its original neighbors
	require.True(t, rt.History.Undo())
	require.Equal(t, 3, rt.Graph.Len())
	assert.Equal(t, 0, rt.Graph.IndexOf(a.ID))
	assert.Equal(t, 1, rt.Graph.IndexOf(mid.ID))
	assert.Equal(t, 2, rt.Graph.IndexOf(c.ID))

	// the cycle stays stable across repeated redo/undo
	for i := 0; i < 3; i++ {
		require.True(t, rt.History.Redo())
		assert.Equal(t, -1, rt.Graph.IndexOf(mid.ID))
		require.True(t, rt.History.Undo())
		assert.Equal(t, 1, rt.Graph.IndexOf(mid.ID))
	}
}

func TestEraserPreviewFollowsCanvasBounds(t *testing.T) {
	rt := newTestRuntime()
	e := NewEraserTool()
	e.Activate(rt)

	// inside the canvas the preview circle is in the overlay
	e.PointerMove(evAt(100, 100))
	assert.Equal(t, 1, rt.Overlay.Len())

	// leaving the canvas hides it
	e.PointerMove(evAt(1000, 100))
	assert.Equal(t, 0, rt.Overlay.Len())

	e.PointerMove(evAt(100, 100))
	assert.Equal(t, 1, rt.Overlay.Len())

	e.Deactivate()
	e.Deactivate()
	assert.Equal(t, 0, rt.Overlay.Len())
}

func TestEraserSizeSetsReach(t *testing.T) {
	rt := newTestRuntime()
	rt.Settings.Set(eraserModeKey, "object")
	rt.Settings.Set(eraserSizeKey, 4.0) // radius 2
	addRect(rt, "box", 0, 0, 10, 10)

	e := NewEraserTool()
	e.Activate(rt)
	defer e.Deactivate()

	// bounds carry stroke padding, so stay well clear of them
	e.PointerDown(PointerEvent{World: geom.Pt(30, 5), Screen: geom.Pt(30, 5)})
	assert.Equal(t, 1, rt.Graph.Len())

	e.PointerDown(evAt(11, 5))
	assert.Equal(t, 0, rt.Graph.Len())
}

func TestEraserPreviewTracksWorldSpace(t *testing.T) {
	rt := newTestRuntime()
	e := NewEraserTool()
	e.Activate(rt)
	defer e.Deactivate()

	// zoomed in: the screen position overshoots the 800x600 page but
	// the world point is still on it
	e.PointerMove(PointerEvent{World: geom.Pt(700, 500), Screen: geom.Pt(1400, 1000)})
	assert.Equal(t, 1, rt.Overlay.Len())

	// zoomed out: the pointer sits inside the viewport but past the
	// page edge in world space
	e.PointerMove(PointerEvent{World: geom.Pt(900, 100), Screen: geom.Pt(450, 50)})
	assert.Equal(t, 0, rt.Overlay.Len())
}
