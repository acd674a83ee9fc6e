package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptino/neptino/editor-go/internal/geom"
)

// recorderTool captures every dispatched event for assertions.
type recorderTool struct {
	name        string
	activations int
	deactivated int
	downs       []PointerEvent
	moves       []PointerEvent
	ups         []PointerEvent
	settings    []string
}

func (r *recorderTool) Name() string                    { return r.name }
func (r *recorderTool) Activate(rt *Runtime)            { r.activations++ }
func (r *recorderTool) Deactivate()                     { r.deactivated++ }
func (r *recorderTool) PointerDown(ev PointerEvent)     { r.downs = append(r.downs, ev) }
func (r *recorderTool) PointerMove(ev PointerEvent)     { r.moves = append(r.moves, ev) }
func (r *recorderTool) PointerUp(ev PointerEvent)       { r.ups = append(r.ups, ev) }
func (r *recorderTool) PointerCancel(ev PointerEvent)   {}
func (r *recorderTool) UpdateSetting(key string, v any) { r.settings = append(r.settings, key) }

func TestHostSwitchDeactivatesOutgoingTool(t *testing.T) {
	h := NewHost(newTestRuntime())
	a := &recorderTool{name: "a"}
	b := &recorderTool{name: "b"}
	h.Register(a)
	h.Register(b)

	require.NoError(t, h.SetActiveTool("a"))
	assert.Equal(t, 1, a.activations)

	require.NoError(t, h.SetActiveTool("b"))
	assert.Equal(t, 1, a.deactivated)
	assert.Equal(t, 1, b.activations)
	assert.Equal(t, "b", h.ActiveToolName())

	// re-selecting the active tool is a no-op
	require.NoError(t, h.SetActiveTool("b"))
	assert.Equal(t, 1, b.activations)

	assert.Error(t, h.SetActiveTool("does-not-exist"))
}

func TestHostDerivesWorldAtDispatchTime(t *testing.T) {
	rt := newTestRuntime()
	h := NewHost(rt)
	rec := &recorderTool{name: "rec"}
	h.Register(rec)
	require.NoError(t, h.SetActiveTool("rec"))

	rt.Viewport.SetPan(geom.Pt(100, 50))
	rt.Viewport.SetZoom(2)

	h.PointerDown(geom.Pt(300, 250), 1, 1, Modifiers{})
	require.Len(t, rec.downs, 1)
	assert.Equal(t, geom.Pt(300, 250), rec.downs[0].Screen)
	assert.InDelta(t, 100.0, rec.downs[0].World.X, 1e-9)
	assert.InDelta(t, 100.0, rec.downs[0].World.Y, 1e-9)

	// the same screen point maps differently after the viewport moves
	rt.Viewport.SetPan(geom.Pt(0, 0))
	h.PointerUp(geom.Pt(300, 250), 1, 0, Modifiers{})
	require.Len(t, rec.ups, 1)
	assert.InDelta(t, 150.0, rec.ups[0].World.X, 1e-9)
	assert.InDelta(t, 125.0, rec.ups[0].World.Y, 1e-9)
}

func TestHostRoutesToCaptureOwner(t *testing.T) {
	rt := newTestRuntime()
	h := NewHost(rt)
	rec := &recorderTool{name: "rec"}
	h.Register(rec)
	require.NoError(t, h.SetActiveTool("rec"))

	var captured []PointerEvent
	ok := rt.CaptureWindow(
		func(ev PointerEvent) { captured = append(captured, ev) },
		func(ev PointerEvent) { rt.ReleaseWindow() },
		nil,
	)
	require.True(t, ok)

	// a second capture while one is live is refused
	assert.False(t, rt.CaptureWindow(nil, nil, nil))

	h.PointerMove(geom.Pt(10, 10), 1, 1, Modifiers{})
	assert.Empty(t, rec.moves, "capture owner should receive moves, not the tool")
	assert.Len(t, captured, 1)

	h.PointerUp(geom.Pt(10, 10), 1, 0, Modifiers{})
	assert.Empty(t, rec.ups)
	assert.False(t, rt.Captured())

	// after release, events flow to the active tool again
	h.PointerMove(geom.Pt(20, 20), 1, 0, Modifiers{})
	assert.Len(t, rec.moves, 1)
}

func TestHostUpdateSettingStoresThenNotifies(t *testing.T) {
	rt := newTestRuntime()
	h := NewHost(rt)
	rec := &recorderTool{name: "rec"}
	h.Register(rec)
	require.NoError(t, h.SetActiveTool("rec"))

	h.UpdateSetting("brush.size", 12.0)
	assert.Equal(t, 12.0, rt.Settings.Float("brush.size", 0))
	assert.Equal(t, []string{"brush.size"}, rec.settings)
}

func TestHostCloseDeactivates(t *testing.T) {
	h := NewHost(newTestRuntime())
	rec := &recorderTool{name: "rec"}
	h.Register(rec)
	require.NoError(t, h.SetActiveTool("rec"))

	h.Close()
	h.Close()
	assert.Equal(t, 1, rec.deactivated)
	assert.Equal(t, "", h.ActiveToolName())
}
