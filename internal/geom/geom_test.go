package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectContainsRectImpliesIntersects(t *testing.T) {
	outer := Rect{X: 0, Y: 0, Width: 50, Height: 50}
	inner := Rect{X: 10, Y: 10, Width: 20, Height: 20}

	require.True(t, outer.ContainsRect(inner))
	assert.True(t, outer.Intersects(inner))

	// containment is not symmetric
	assert.False(t, inner.ContainsRect(outer))
	assert.True(t, inner.Intersects(outer))
}

func TestRectIntersectsWithoutContainment(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 50, Height: 50}
	b := Rect{X: 40, Y: 40, Width: 40, Height: 40}

	assert.True(t, a.Intersects(b))
	assert.False(t, a.ContainsRect(b))
}

func TestRectDisjoint(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 20, Width: 10, Height: 10}

	assert.False(t, a.Intersects(b))
	assert.False(t, a.ContainsRect(b))
}

func TestCircleIntersectsRect(t *testing.T) {
	rect := Rect{X: 10, Y: 10, Width: 20, Height: 20}

	tests := []struct {
		name    string
		cx, cy  float64
		r       float64
		wantHit bool
	}{
		{"circle fully inside rect", 20, 20, 2, true},
		{"circle fully outside", 50, 50, 5, false},
		{"circle overlapping left edge", 8, 20, 3, true},
		{"tangent to right edge", 35, 20, 5, true},
		{"just past tangent", 35.01, 20, 5, false},
		{"corner diagonal miss", 34, 34, 5, false},
		{"corner diagonal hit", 32, 32, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantHit, CircleIntersectsRect(tt.cx, tt.cy, tt.r, rect))
		})
	}
}

func TestFromPointsNormalizesDirection(t *testing.T) {
	r := FromPoints(Pt(50, 60), Pt(10, 20))
	assert.Equal(t, Rect{X: 10, Y: 20, Width: 40, Height: 40}, r)
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 10}

	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 30, Height: 15}, u)

	// union with an empty rect is the other operand
	assert.Equal(t, a, a.Union(Rect{}))
	assert.Equal(t, a, Rect{}.Union(a))
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translation(10, 20).Multiply(Scaling(2, 2))
	inv := m.Invert()

	p := Pt(7, -3)
	back := inv.Apply(m.Apply(p))

	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.True(t, m.Multiply(inv).IsIdentity())
}

func TestMatrixApplyRect(t *testing.T) {
	m := Scaling(2, 3)
	r := m.ApplyRect(Rect{X: 1, Y: 1, Width: 2, Height: 2})
	assert.Equal(t, Rect{X: 2, Y: 3, Width: 4, Height: 6}, r)
}
