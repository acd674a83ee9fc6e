package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/overlay"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

func addCircle(g *scene.Graph, cx, cy float64) scene.Target {
	gr := scene.NewGraphics()
	gr.DrawCircle(cx, cy, 5)
	id := g.AddDisplayObject(gr)
	return scene.Target{ID: id, Object: gr}
}

func TestSetSelectionModes(t *testing.T) {
	g := scene.NewGraph(geom.Rect{})
	m := NewManager(g)

	a := addCircle(g, 0, 0)
	b := addCircle(g, 50, 0)

	m.SetSelection([]scene.Target{a}, Options{})
	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Contains(a.ID))

	// replace
	m.SetSelection([]scene.Target{b}, Options{})
	assert.False(t, m.Contains(a.ID))
	assert.True(t, m.Contains(b.ID))

	// additive
	m.SetSelection([]scene.Target{a}, Options{Additive: true})
	assert.Equal(t, 2, m.Len())

	// additive does not duplicate
	m.SetSelection([]scene.Target{a}, Options{Additive: true})
	assert.Equal(t, 2, m.Len())

	// toggle removes a present member and adds an absent one
	m.SetSelection([]scene.Target{a}, Options{Toggle: true})
	assert.False(t, m.Contains(a.ID))
	m.SetSelection([]scene.Target{a}, Options{Toggle: true})
	assert.True(t, m.Contains(a.ID))
}

func TestRefreshDropsRemovedObjects(t *testing.T) {
	g := scene.NewGraph(geom.Rect{})
	m := NewManager(g)

	a := addCircle(g, 0, 0)
	b := addCircle(g, 50, 0)
	m.SetSelection([]scene.Target{a, b}, Options{})

	require.True(t, g.RemoveObject(a.ID))
	m.Refresh()

	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Contains(b.ID))
}

func TestTransformHelperAttachDetach(t *testing.T) {
	g := scene.NewGraph(geom.Rect{})
	layer := overlay.NewLayer()
	h := NewTransformHelper(layer)

	a := addCircle(g, 10, 10)
	h.Attach([]scene.Target{a})
	assert.True(t, h.Attached())
	assert.Equal(t, 1, layer.Len())

	h.Detach()
	assert.False(t, h.Attached())
	assert.Equal(t, 0, layer.Len())

	// detach twice is a no-op
	h.Detach()
	assert.Equal(t, 0, layer.Len())
}

func TestTransformHelperTranslate(t *testing.T) {
	g := scene.NewGraph(geom.Rect{})
	layer := overlay.NewLayer()
	h := NewTransformHelper(layer)

	a := addCircle(g, 10, 10)
	h.Attach([]scene.Target{a})

	before := a.Object.Bounds()
	h.Translate(5, -3)
	after := a.Object.Bounds()

	assert.InDelta(t, before.X+5, after.X, 1e-9)
	assert.InDelta(t, before.Y-3, after.Y, 1e-9)
}

func TestAttachEmptyDetaches(t *testing.T) {
	g := scene.NewGraph(geom.Rect{})
	layer := overlay.NewLayer()
	h := NewTransformHelper(layer)

	a := addCircle(g, 10, 10)
	h.Attach([]scene.Target{a})
	h.Attach(nil)
	assert.False(t, h.Attached())
	assert.Equal(t, 0, layer.Len())
}
