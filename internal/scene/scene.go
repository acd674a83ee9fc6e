// Package scene is the retained tree of renderable objects the canvas
// tools mutate. Draw order is sibling order: later children render on
// top of earlier ones.
package scene

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/typeid"
)

// DisplayObject is anything the graph can hold: a vector graphics
// primitive, a text block, an image placeholder.
type DisplayObject interface {
	// Bounds returns the object's axis-aligned bounding box in world space.
	Bounds() geom.Rect
	// ContainsPoint is the object's native point-containment test. It may
	// be stricter than Bounds; callers that need a looser answer fall back
	// to a bounds test themselves.
	ContainsPoint(p geom.Point) bool
	// Translate moves the object by (dx, dy) in world units.
	Translate(dx, dy float64)
	// Name returns the object's display name ("" if unnamed).
	Name() string
	// Tag returns the object's freeform tag ("" if untagged).
	Tag() string
	// Destroy releases the object's renderable resources. After Destroy
	// the object must not be re-inserted into a graph.
	Destroy()
}

// Target pairs a scene-graph handle with its logical identifier. The id
// is only valid while the backing object remains in the graph.
type Target struct {
	ID     string
	Object DisplayObject
}

// Graph owns the ordered list of display objects and their id registry.
type Graph struct {
	children []Target
	byID     map[string]DisplayObject

	zoom   float64
	canvas geom.Rect // canvas element bounds in screen space
}

// NewGraph creates an empty scene graph with zoom 1 and the given canvas
// bounds.
func NewGraph(canvas geom.Rect) *Graph {
	return &Graph{
		byID:   make(map[string]DisplayObject),
		zoom:   1,
		canvas: canvas,
	}
}

// AddDisplayObject appends obj as the top-most child and returns its new
// id. A nil object returns "" — callers treat that as a creation failure
// and abort their gesture.
func (g *Graph) AddDisplayObject(obj DisplayObject) string {
	if obj == nil {
		return ""
	}
	id := typeid.NewObjectID()
	g.children = append(g.children, Target{ID: id, Object: obj})
	g.byID[id] = obj
	return id
}

// InsertObjectAt re-inserts an object under a previously issued id at the
// given sibling index, re-registering it with the id registry. Used by
// undo to restore an erased object exactly where it was. The index is
// clamped to the current child count.
func (g *Graph) InsertObjectAt(id string, obj DisplayObject, index int) {
	if obj == nil || id == "" {
		return
	}
	if _, exists := g.byID[id]; exists {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(g.children) {
		index = len(g.children)
	}
	g.children = append(g.children, Target{})
	copy(g.children[index+1:], g.children[index:])
	g.children[index] = Target{ID: id, Object: obj}
	g.byID[id] = obj
}

// RemoveObject detaches the object from the graph without destroying it.
// Returns false if the id is unknown.
func (g *Graph) RemoveObject(id string) bool {
	if _, ok := g.byID[id]; !ok {
		return false
	}
	delete(g.byID, id)
	for i, c := range g.children {
		if c.ID == id {
			g.children = append(g.children[:i], g.children[i+1:]...)
			break
		}
	}
	return true
}

// IndexOf returns the sibling index of id, or -1 if absent.
func (g *Graph) IndexOf(id string) int {
	for i, c := range g.children {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Object returns the object registered under id, or nil.
func (g *Graph) Object(id string) DisplayObject {
	return g.byID[id]
}

// ObjectsSnapshot returns the children in draw order (back to front).
// The slice is a copy; the targets are live references.
func (g *Graph) ObjectsSnapshot() []Target {
	out := make([]Target, len(g.children))
	copy(out, g.children)
	return out
}

// Len returns the number of objects in the graph.
func (g *Graph) Len() int {
	return len(g.children)
}

// CurrentZoom returns the current zoom factor.
func (g *Graph) CurrentZoom() float64 {
	return g.zoom
}

// SetZoom updates the zoom factor. Non-positive values are ignored.
func (g *Graph) SetZoom(z float64) {
	if z > 0 {
		g.zoom = z
	}
}

// CanvasBounds returns the canvas element bounds in screen space.
func (g *Graph) CanvasBounds() geom.Rect {
	return g.canvas
}

// SetCanvasBounds updates the canvas element bounds.
func (g *Graph) SetCanvasBounds(r geom.Rect) {
	g.canvas = r
}
