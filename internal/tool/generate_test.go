package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptino/neptino/editor-go/internal/scene"
)

// gateSynth blocks each synthesis until the test releases a result, and
// records every request it receives.
type gateSynth struct {
	calls   chan GenerateRequest
	results chan GenerateResult
	obeyCtx bool
}

func newGateSynth() *gateSynth {
	return &gateSynth{
		calls:   make(chan GenerateRequest, 8),
		results: make(chan GenerateResult, 8),
		obeyCtx: true,
	}
}

func (s *gateSynth) Synthesize(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	s.calls <- req
	if s.obeyCtx {
		select {
		case res := <-s.results:
			return res, nil
		case <-ctx.Done():
			return GenerateResult{}, ctx.Err()
		}
	}
	return <-s.results, nil
}

func dragRegion(g *GenerateTool, x0, y0, x1, y1 float64) {
	g.PointerDown(evAt(x0, y0))
	g.PointerMove(evAt(x1, y1))
	g.PointerUp(evAt(x1, y1))
}

func sendToken(rt *Runtime, g *GenerateTool, token int) {
	rt.Settings.Set(generateSendKey, token)
	g.UpdateSetting(generateSendKey, token)
}

func TestGenerateSendIsEdgeTriggered(t *testing.T) {
	rt := newTestRuntime()
	synth := newGateSynth()
	g := NewGenerateTool(synth)
	g.Activate(rt)
	defer g.Deactivate()

	dragRegion(g, 0, 0, 200, 100)

	sendToken(rt, g, 1)
	select {
	case <-synth.calls:
	case <-time.After(time.Second):
		t.Fatal("synthesis never started")
	}

	// the same token again, and a stale lower one, must not re-fire
	sendToken(rt, g, 1)
	sendToken(rt, g, 0)
	select {
	case <-synth.calls:
		t.Fatal("repeated token re-triggered synthesis")
	case <-time.After(50 * time.Millisecond):
	}

	sendToken(rt, g, 2)
	select {
	case <-synth.calls:
	case <-time.After(time.Second):
		t.Fatal("advanced token did not trigger")
	}
}

func TestGenerateTextBlockAttachesToSelection(t *testing.T) {
	rt := newTestRuntime()
	rt.Settings.Set(generatePromptKey, "a short summary")
	synth := newGateSynth()
	g := NewGenerateTool(synth)
	g.Activate(rt)
	defer g.Deactivate()

	dragRegion(g, 0, 0, 200, 100)
	sendToken(rt, g, 1)

	req := <-synth.calls
	assert.Equal(t, "text", req.Kind)
	assert.Equal(t, "a short summary", req.Prompt)
	assert.Equal(t, 200.0, req.Region.Width)

	synth.results <- GenerateResult{Kind: "text", Text: "generated body"}
	require.Eventually(t, func() bool { return rt.Graph.Len() == 1 }, time.Second, time.Millisecond)

	txt := rt.Graph.ObjectsSnapshot()[0].Object.(*scene.Text)
	assert.Equal(t, "generated body", txt.Content())
	assert.Equal(t, req.Region.Center(), txt.Center())
	assert.Equal(t, 1, rt.Selection.Len())
	assert.True(t, rt.Transform.Attached())
}

func TestGenerateImagePlaceholderFillsRegion(t *testing.T) {
	rt := newTestRuntime()
	rt.Settings.Set(generateKindKey, "image")
	synth := newGateSynth()
	g := NewGenerateTool(synth)
	g.Activate(rt)
	defer g.Deactivate()

	dragRegion(g, 10, 20, 110, 220)
	sendToken(rt, g, 1)
	<-synth.calls
	synth.results <- GenerateResult{Kind: "image"}

	require.Eventually(t, func() bool { return rt.Graph.Len() == 1 }, time.Second, time.Millisecond)
	gfx := rt.Graph.ObjectsSnapshot()[0].Object.(*scene.Graphics)
	b := gfx.Bounds()
	assert.LessOrEqual(t, b.X, 10.0)
	assert.GreaterOrEqual(t, b.Width, 100.0)
	assert.GreaterOrEqual(t, b.Height, 200.0)
}

func TestGenerateRegionMinimumSize(t *testing.T) {
	rt := newTestRuntime()
	synth := newGateSynth()
	g := NewGenerateTool(synth)
	g.Activate(rt)
	defer g.Deactivate()

	dragRegion(g, 0, 0, 5, 5)
	sendToken(rt, g, 1)

	req := <-synth.calls
	assert.Equal(t, 32.0, req.Region.Width)
	assert.Equal(t, 32.0, req.Region.Height)
	synth.results <- GenerateResult{Kind: "text", Text: "x"}
}

func TestGenerateDeactivateCancelsSynthesis(t *testing.T) {
	rt := newTestRuntime()
	synth := newGateSynth()
	g := NewGenerateTool(synth)
	g.Activate(rt)

	dragRegion(g, 0, 0, 100, 100)
	sendToken(rt, g, 1)
	<-synth.calls

	g.Deactivate()
	g.Deactivate()

	// the blocked synthesizer observes cancellation and nothing lands
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rt.Graph.Len())
}

func TestGenerateLateResultDiscarded(t *testing.T) {
	rt := newTestRuntime()
	synth := newGateSynth()
	synth.obeyCtx = false // simulate a synthesizer that ignores cancellation
	g := NewGenerateTool(synth)
	g.Activate(rt)

	dragRegion(g, 0, 0, 100, 100)
	sendToken(rt, g, 1)
	<-synth.calls

	g.Deactivate()
	synth.results <- GenerateResult{Kind: "text", Text: "too late"}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rt.Graph.Len())
	assert.Equal(t, 0, rt.Selection.Len())
}

func TestGenerateSendWithoutRegionIsIgnored(t *testing.T) {
	rt := newTestRuntime()
	synth := newGateSynth()
	g := NewGenerateTool(synth)
	g.Activate(rt)
	defer g.Deactivate()

	sendToken(rt, g, 1)
	select {
	case <-synth.calls:
		t.Fatal("synthesis fired with no region")
	case <-time.After(50 * time.Millisecond):
	}
}
