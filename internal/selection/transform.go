package selection

import (
	"github.com/neptino/neptino/editor-go/internal/overlay"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

const handleColor = 0x3b82f6

// TransformHelper attaches translate handles to a set of targets and
// draws their combined bounds into the overlay layer. Detach is safe to
// call when nothing is attached.
type TransformHelper struct {
	layer    *overlay.Layer
	attached []scene.Target
	frame    *scene.Graphics
}

// NewTransformHelper creates a helper drawing into layer.
func NewTransformHelper(layer *overlay.Layer) *TransformHelper {
	return &TransformHelper{layer: layer}
}

// Attach replaces the attached set and redraws the bounds frame.
// Attaching an empty set is equivalent to Detach.
func (h *TransformHelper) Attach(targets []scene.Target) {
	if len(targets) == 0 {
		h.Detach()
		return
	}
	h.attached = append(h.attached[:0:0], targets...)
	h.redraw()
}

// Detach removes the handles and forgets the attached set.
func (h *TransformHelper) Detach() {
	h.attached = nil
	if h.frame != nil {
		h.layer.Remove(h.frame)
		h.frame.Destroy()
		h.frame = nil
	}
}

// Attached reports whether any targets are currently attached.
func (h *TransformHelper) Attached() bool {
	return len(h.attached) > 0
}

// Translate moves every attached object by (dx, dy) world units and
// redraws the frame.
func (h *TransformHelper) Translate(dx, dy float64) {
	for _, t := range h.attached {
		t.Object.Translate(dx, dy)
	}
	if len(h.attached) > 0 {
		h.redraw()
	}
}

func (h *TransformHelper) redraw() {
	if h.frame == nil {
		h.frame = scene.NewGraphics()
		h.frame.SetName("transform-frame")
		h.layer.Add(h.frame)
	}
	h.frame.Clear()

	var bounds = h.attached[0].Object.Bounds()
	for _, t := range h.attached[1:] {
		bounds = bounds.Union(t.Object.Bounds())
	}

	h.frame.SetStroke(1, handleColor, 1)
	h.frame.DrawRect(bounds.X, bounds.Y, bounds.Width, bounds.Height)

	// corner grips
	const grip = 3.0
	for _, c := range []struct{ x, y float64 }{
		{bounds.X, bounds.Y},
		{bounds.X + bounds.Width, bounds.Y},
		{bounds.X, bounds.Y + bounds.Height},
		{bounds.X + bounds.Width, bounds.Y + bounds.Height},
	} {
		h.frame.DrawCircle(c.x, c.y, grip)
	}
}
