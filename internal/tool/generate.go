package tool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
	"github.com/neptino/neptino/editor-go/internal/selection"
)

const (
	generateKindKey   = "generate.kind" // "text" | "image"
	generatePromptKey = "generate.prompt"
	generateSendKey   = "generate.send"

	generateMinSize = 32.0
	generateColor   = 0x64748b
)

// GenerateRequest describes one synthesis job.
type GenerateRequest struct {
	Kind   string // "text" or "image"
	Prompt string
	Region geom.Rect
}

// GenerateResult is what the synthesizer produced.
type GenerateResult struct {
	Kind string
	Text string
}

// Synthesizer produces generated content for a placeholder region. The
// context is cancelled when the tool deactivates; implementations should
// return promptly on cancellation.
type Synthesizer interface {
	Synthesize(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// SynthesizerFunc adapts a function to the Synthesizer interface.
type SynthesizerFunc func(ctx context.Context, req GenerateRequest) (GenerateResult, error)

func (f SynthesizerFunc) Synthesize(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	return f(ctx, req)
}

// GenerateTool drags out a placeholder region and synthesizes a text
// block or image placeholder into it when the send token advances. The
// send trigger is edge-triggered by a monotonically increasing token, so
// repeated identical values are ignored. Synthesis is cancellable:
// deactivating the tool cancels the context and late results are
// discarded.
type GenerateTool struct {
	synth Synthesizer

	mu     sync.Mutex
	rt     *Runtime
	epoch  uint64
	cancel context.CancelFunc
	ctx    context.Context

	dragging  bool
	start     geom.Point
	region    geom.Rect
	hasRegion bool
	rubber    *scene.Graphics

	lastToken int
}

// NewGenerateTool creates the generate tool. A nil synthesizer falls
// back to a local stub that echoes the prompt.
func NewGenerateTool(synth Synthesizer) *GenerateTool {
	if synth == nil {
		synth = SynthesizerFunc(func(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
			return GenerateResult{Kind: req.Kind, Text: req.Prompt}, nil
		})
	}
	return &GenerateTool{synth: synth, lastToken: -1}
}

func (t *GenerateTool) Name() string { return "generate" }

func (t *GenerateTool) Activate(rt *Runtime) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rt = rt
	t.epoch++
	t.ctx, t.cancel = context.WithCancel(context.Background())
}

func (t *GenerateTool) Deactivate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rt == nil {
		return
	}
	t.epoch++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.dragging = false
	t.hasRegion = false
	t.clearRubberLocked()
	t.rt = nil
}

func (t *GenerateTool) PointerDown(ev PointerEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rt == nil {
		return
	}
	t.dragging = true
	t.start = ev.World
}

func (t *GenerateTool) PointerMove(ev PointerEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rt == nil || !t.dragging {
		return
	}
	t.drawRubberLocked(geom.FromPoints(t.start, ev.World))
}

func (t *GenerateTool) PointerUp(ev PointerEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rt == nil || !t.dragging {
		return
	}
	t.dragging = false

	r := geom.FromPoints(t.start, ev.World)
	if r.Width < generateMinSize {
		r.Width = generateMinSize
	}
	if r.Height < generateMinSize {
		r.Height = generateMinSize
	}
	t.region = r
	t.hasRegion = true
	t.drawRubberLocked(r)
}

func (t *GenerateTool) PointerCancel(ev PointerEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rt == nil {
		return
	}
	t.dragging = false
	if !t.hasRegion {
		t.clearRubberLocked()
	}
}

func (t *GenerateTool) UpdateSetting(key string, value any) {
	if key != generateSendKey {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rt == nil {
		return
	}
	token := t.rt.Settings.Int(generateSendKey, t.lastToken)
	if token <= t.lastToken {
		return
	}
	t.lastToken = token
	t.launchLocked()
}

func (t *GenerateTool) launchLocked() {
	if !t.hasRegion {
		return
	}
	req := GenerateRequest{
		Kind:   t.rt.Settings.String(generateKindKey, "text"),
		Prompt: t.rt.Settings.String(generatePromptKey, ""),
		Region: t.region,
	}
	epoch := t.epoch
	ctx := t.ctx
	rt := t.rt

	go func() {
		res, err := t.synth.Synthesize(ctx, req)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("generate synthesis failed", "error", err)
			}
			return
		}
		// deliver on the runtime owner's goroutine so the graph is
		// never written concurrently with a render
		rt.Dispatch(func() {
			t.apply(res, req.Region, epoch)
		})
	}()
}

// apply inserts the synthesized block, unless the tool has deactivated
// (or re-activated) since the job started.
func (t *GenerateTool) apply(res GenerateResult, region geom.Rect, epoch uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rt == nil || epoch != t.epoch {
		return // late result, discard
	}

	var obj scene.DisplayObject
	if res.Kind == "image" {
		obj = imagePlaceholder(region)
	} else {
		fontSize := geom.Clamp(region.Height*0.15, 10, 48)
		txt := scene.NewText(res.Text, region.Center(), fontSize, 0x111111)
		txt.SetName("generated-text")
		obj = txt
	}

	id := t.rt.Graph.AddDisplayObject(obj)
	if id == "" {
		obj.Destroy()
		return
	}
	recordInsert(t.rt, id, obj, "generated block")
	t.hasRegion = false
	t.clearRubberLocked()

	// hand the fresh block straight to selection and transform
	target := scene.Target{ID: id, Object: obj}
	t.rt.Selection.SetSelection([]scene.Target{target}, selection.Options{})
	t.rt.Transform.Attach([]scene.Target{target})
}

func imagePlaceholder(r geom.Rect) *scene.Graphics {
	gfx := scene.NewGraphics()
	gfx.SetName(fmt.Sprintf("generated-image %dx%d", int(r.Width), int(r.Height)))
	gfx.SetStroke(1, generateColor, 1)
	gfx.DrawRect(r.X, r.Y, r.Width, r.Height)
	gfx.MoveTo(r.X, r.Y)
	gfx.LineTo(r.X+r.Width, r.Y+r.Height)
	gfx.MoveTo(r.X+r.Width, r.Y)
	gfx.LineTo(r.X, r.Y+r.Height)
	return gfx
}

func (t *GenerateTool) drawRubberLocked(r geom.Rect) {
	if t.rubber == nil {
		t.rubber = scene.NewGraphics()
		t.rubber.SetName("generate-rubber")
		t.rt.Overlay.Add(t.rubber)
	}
	t.rubber.Clear()
	t.rubber.SetStroke(1/t.rt.Graph.CurrentZoom(), generateColor, 0.7)
	t.rubber.DrawRect(r.X, r.Y, r.Width, r.Height)
}

func (t *GenerateTool) clearRubberLocked() {
	if t.rubber != nil {
		t.rt.Overlay.Remove(t.rubber)
		t.rubber.Destroy()
		t.rubber = nil
	}
}
