// Package viewport converts between world coordinates (the canvas's
// logical, zoom/pan-independent space) and screen coordinates (pixels in
// the viewport as currently zoomed and panned).
package viewport

import "github.com/neptino/neptino/editor-go/internal/geom"

// Viewport holds the current pan offset and zoom factor.
// screen = world*zoom + pan.
type Viewport struct {
	pan  geom.Point
	zoom float64
}

// New creates a viewport at zoom 1 with no pan.
func New() *Viewport {
	return &Viewport{zoom: 1}
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// SetZoom updates the zoom factor. Non-positive values are ignored.
func (v *Viewport) SetZoom(z float64) {
	if z > 0 {
		v.zoom = z
	}
}

// Pan returns the current pan offset in screen units.
func (v *Viewport) Pan() geom.Point {
	return v.pan
}

// SetPan updates the pan offset.
func (v *Viewport) SetPan(p geom.Point) {
	v.pan = p
}

// Matrix returns the world→screen transform.
func (v *Viewport) Matrix() geom.Matrix2D {
	return geom.Translation(v.pan.X, v.pan.Y).Multiply(geom.Scaling(v.zoom, v.zoom))
}

// ToScreen converts a world point to screen coordinates.
func (v *Viewport) ToScreen(world geom.Point) geom.Point {
	return v.Matrix().Apply(world)
}

// ToWorld converts a screen point to world coordinates.
func (v *Viewport) ToWorld(screen geom.Point) geom.Point {
	return v.Matrix().Invert().Apply(screen)
}
