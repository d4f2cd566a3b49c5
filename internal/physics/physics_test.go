package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectIsInvolution(t *testing.T) {
	cases := []struct {
		name string
		v, n Vec2
	}{
		{"axis aligned", V(5, 0), V(1, 0)},
		{"diagonal normal", V(3, -4), V(1, 1)},
		{"unnormalized normal", V(-2, 7), V(40, -10)},
		{"parallel to surface", V(0, 5), V(1, 0)},
		{"zero velocity", V(0, 0), V(3, 3)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.v.Reflect(tc.n).Reflect(tc.n)
			assert.InDelta(t, tc.v.X, got.X, 1e-9)
			assert.InDelta(t, tc.v.Y, got.Y, 1e-9)
		})
	}
}

func TestReflectPreservesSpeed(t *testing.T) {
	v := V(3, -4)
	r := v.Reflect(V(2, 1))
	assert.InDelta(t, v.Len(), r.Len(), 1e-9)
}

func TestReflectAboutNormalFlipsNormalComponent(t *testing.T) {
	r := V(5, 2).Reflect(V(-100, 0))
	assert.InDelta(t, -5, r.X, 1e-9)
	assert.InDelta(t, 2, r.Y, 1e-9)
}

func TestReflectZeroNormalIsIdentity(t *testing.T) {
	v := V(1, 2)
	assert.Equal(t, v, v.Reflect(Vec2{}))
}

func TestCircleDistances(t *testing.T) {
	a := NewCircle(V(0, 0), 10)
	b := NewCircle(V(3, 4), 10)

	assert.InDelta(t, 5, a.DistanceTo(&b), 1e-9)
	assert.InDelta(t, 25, a.SquaredDistanceTo(&b), 1e-9)
	assert.True(t, a.Touches(&b))
}

func TestCircleTangencyCounts(t *testing.T) {
	a := NewCircle(V(0, 0), 25)
	b := NewCircle(V(50, 0), 25)
	c := NewCircle(V(50.001, 0), 25)

	assert.True(t, a.Touches(&b))
	assert.False(t, a.Touches(&c))
}

func TestCircleMoveAndBoundingBox(t *testing.T) {
	c := NewCircle(V(100, 50), 25)
	c.MoveBy(-5, 10)

	assert.Equal(t, V(95, 60), c.Center())
	assert.Equal(t, 25.0, c.Radius())
	assert.Equal(t, Rect{X: 70, Y: 35, Width: 50, Height: 50}, c.BoundingBox())
}

func TestNewCirclePanicsOnNonPositiveRadius(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN()} {
		require.Panics(t, func() { NewCircle(V(0, 0), r) }, "radius %v", r)
	}
}

func TestRectContains(t *testing.T) {
	arena := NewRect(0, 0, 800, 800)

	assert.True(t, arena.Contains(Rect{X: 0, Y: 0, Width: 50, Height: 50}))
	assert.True(t, arena.Contains(Rect{X: 750, Y: 750, Width: 50, Height: 50}))
	assert.False(t, arena.Contains(Rect{X: -1, Y: 10, Width: 50, Height: 50}))
	assert.False(t, arena.Contains(Rect{X: 10, Y: 751, Width: 50, Height: 50}))
}

func TestRectOvershoot(t *testing.T) {
	arena := NewRect(0, 0, 800, 800)

	dx, dy := arena.Overshoot(Rect{X: -3, Y: 760, Width: 50, Height: 50})
	assert.InDelta(t, 3, dx, 1e-9)
	assert.InDelta(t, 10, dy, 1e-9)

	dx, dy = arena.Overshoot(Rect{X: 10, Y: 10, Width: 50, Height: 50})
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestCoincident(t *testing.T) {
	assert.True(t, Coincident(V(1, 1), V(1, 1)))
	assert.False(t, Coincident(V(1, 1), V(1, 1.001)))
}
