// Package overlay holds transient visual feedback — selection rectangles,
// path handles, previews — that tools add and remove freely without
// affecting the persisted scene.
package overlay

import "github.com/neptino/neptino/editor-go/internal/scene"

// Layer is an ordered container of display objects drawn above the scene.
type Layer struct {
	children []scene.DisplayObject
}

// NewLayer creates an empty overlay layer.
func NewLayer() *Layer {
	return &Layer{}
}

// Add appends obj on top of the layer. Adding the same object twice is a
// no-op.
func (l *Layer) Add(obj scene.DisplayObject) {
	if obj == nil || l.Has(obj) {
		return
	}
	l.children = append(l.children, obj)
}

// Remove detaches obj from the layer. Removing an absent object is a
// no-op, so teardown paths may run more than once.
func (l *Layer) Remove(obj scene.DisplayObject) {
	for i, c := range l.children {
		if c == obj {
			l.children = append(l.children[:i], l.children[i+1:]...)
			return
		}
	}
}

// Has reports whether obj is currently attached.
func (l *Layer) Has(obj scene.DisplayObject) bool {
	for _, c := range l.children {
		if c == obj {
			return true
		}
	}
	return false
}

// Children returns the attached objects in draw order.
func (l *Layer) Children() []scene.DisplayObject {
	out := make([]scene.DisplayObject, len(l.children))
	copy(out, l.children)
	return out
}

// Len returns the number of attached objects.
func (l *Layer) Len() int {
	return len(l.children)
}

// Clear detaches everything.
func (l *Layer) Clear() {
	l.children = nil
}
