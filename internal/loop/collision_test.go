package loop

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/bounce/internal/event"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/physics"
)

const eps = 1e-6

var policies = []Policy{PolicyLegacy, PolicySymmetric}

type recorder struct {
	events []event.Event
}

func (r *recorder) Emit(e event.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(k event.Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func body(id int, x, y, vx, vy float64, threshold int) object.BallSpec {
	return object.BallSpec{
		ID:        id,
		Center:    physics.V(x, y),
		Velocity:  physics.V(vx, vy),
		Threshold: threshold,
	}
}

func newTestWorld(t *testing.T, policy Policy, bodies ...object.BallSpec) *World {
	t.Helper()
	w, err := NewWorld(Options{Policy: policy, Bodies: bodies, Explosions: true})
	require.NoError(t, err)
	return w
}

func distance(a, b *object.Ball) float64 {
	ca, cb := a.Center(), b.Center()
	return physics.Distance(ca.X, ca.Y, cb.X, cb.Y)
}

func TestHeadOnPairSeparatesAndFlips(t *testing.T) {
	for _, p := range policies {
		t.Run(p.String(), func(t *testing.T) {
			w := newTestWorld(t, p,
				body(1, 300, 400, 5, 0, 10),
				body(2, 340, 400, -5, 0, 10),
			)
			a, b := w.Balls[0], w.Balls[1]

			w.resolve(a, b, w.UpdateContext())

			assert.GreaterOrEqual(t, distance(a, b), 50.0-eps)
			assert.Less(t, a.Velocity().X, 0.0)
			assert.Greater(t, b.Velocity().X, 0.0)
			assert.Equal(t, 1, a.Collisions())
			assert.Equal(t, 1, b.Collisions())
		})
	}
}

func TestDeathFiresOnceForBothOrderings(t *testing.T) {
	for _, p := range policies {
		t.Run(p.String(), func(t *testing.T) {
			w := newTestWorld(t, p,
				body(1, 300, 400, 5, 0, 1),
				body(2, 340, 400, -5, 0, 10),
			)
			a, b := w.Balls[0], w.Balls[1]
			rec := &recorder{}
			ctx := w.UpdateContext()
			ctx.Events = rec

			require.Equal(t, a.Threshold()-1, a.Collisions())
			w.resolve(a, b, ctx)
			w.resolve(b, a, ctx)
			w.resolve(a, b, ctx)

			assert.False(t, a.IsAlive())
			assert.Equal(t, physics.V(0, 0), a.Velocity())
			assert.Equal(t, object.DeadColor, a.Color())
			assert.Equal(t, 1, rec.count(event.Explosion))
			assert.Equal(t, 1, w.Deaths())
			assert.True(t, b.IsAlive())
		})
	}
}

func TestRestingAgainstDeadBodyCountsNothing(t *testing.T) {
	// b is dead and a rests against it, so the pair keeps colliding
	w := newTestWorld(t, PolicyLegacy,
		body(1, 300, 400, 0, 0, 1),
		body(2, 350, 400, 0, 0, 10),
	)
	a, b := w.Balls[0], w.Balls[1]
	b.Stop()
	rec := &recorder{}
	ctx := w.UpdateContext()
	ctx.Events = rec

	for i := 0; i < 3; i++ {
		w.resolve(a, b, ctx)
		w.resolve(b, a, ctx)
	}
	assert.True(t, a.IsAlive())
	assert.Zero(t, a.Collisions())
	assert.Zero(t, rec.count(event.Explosion))
}

func TestDeadBodyIsStaticObstacle(t *testing.T) {
	for _, p := range policies {
		for _, deadFirst := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/deadFirst=%v", p, deadFirst), func(t *testing.T) {
				w := newTestWorld(t, p,
					body(1, 400, 400, 0, 0, 10),
					body(2, 440, 400, -3, 0, 10),
				)
				dead, live := w.Balls[0], w.Balls[1]
				dead.Stop()
				deadAt := dead.Center()

				if deadFirst {
					w.resolve(dead, live, w.UpdateContext())
				} else {
					w.resolve(live, dead, w.UpdateContext())
				}

				assert.Equal(t, deadAt, dead.Center())
				assert.Equal(t, physics.V(0, 0), dead.Velocity())
				assert.Zero(t, dead.Collisions())
				assert.Zero(t, live.Collisions())
				assert.Greater(t, live.Velocity().X, 0.0)
				assert.GreaterOrEqual(t, distance(dead, live), 50.0-eps)
			})
		}
	}
}

func TestTwoDeadBodiesAreSkipped(t *testing.T) {
	w := newTestWorld(t, PolicyLegacy,
		body(1, 400, 400, 0, 0, 10),
		body(2, 420, 400, 0, 0, 10),
	)
	a, b := w.Balls[0], w.Balls[1]
	a.Stop()
	b.Stop()
	rec := &recorder{}
	ctx := w.UpdateContext()
	ctx.Events = rec

	w.resolve(a, b, ctx)
	assert.Empty(t, rec.events)
	assert.Equal(t, physics.V(400, 400), a.Center())
	assert.Equal(t, physics.V(420, 400), b.Center())
}

func TestNoOverlapAfterResolvingPair(t *testing.T) {
	pairs := []struct {
		name string
		a, b object.BallSpec
	}{
		{"head on", body(1, 300, 300, 5, 0, 10), body(2, 330, 300, -5, 0, 10)},
		{"chasing", body(1, 300, 300, 5, 0, 10), body(2, 320, 300, 2, 0, 10)},
		{"same velocity", body(1, 300, 300, 3, 3, 10), body(2, 310, 305, 3, 3, 10)},
		{"coincident", body(1, 400, 400, 2, 1, 10), body(2, 400, 400, 2, 1, 10)},
		{"diagonal", body(1, 200, 200, 4, -1, 10), body(2, 230, 230, -2, -5, 10)},
		{"glancing", body(1, 500, 500, 1, 5, 10), body(2, 549, 505, -1, 1, 10)},
	}

	for _, p := range policies {
		for _, tt := range pairs {
			t.Run(p.String()+"/"+tt.name, func(t *testing.T) {
				w := newTestWorld(t, p, tt.a, tt.b)
				a, b := w.Balls[0], w.Balls[1]

				w.resolve(a, b, w.UpdateContext())

				assert.GreaterOrEqual(t, distance(a, b), a.Radius()+b.Radius()-eps)
				assert.True(t, w.Arena.Contains(a.BoundingBox()))
				assert.True(t, w.Arena.Contains(b.BoundingBox()))
			})
		}
	}
}

func TestRelaxSeparatesChainedBalls(t *testing.T) {
	w := newTestWorld(t, PolicyLegacy,
		body(1, 300, 300, 1, 2, 10),
		body(2, 340, 300, -3, 1, 10),
		body(3, 380, 300, 2, -2, 10),
		body(4, 360, 330, 0, 0, 10),
	)
	w.Balls[3].Stop()
	deadAt := w.Balls[3].Center()
	rec := &recorder{}
	w.Subscribe(rec)
	velocities := make([]physics.Vec2, len(w.Balls))
	hits := make([]int, len(w.Balls))
	for i, b := range w.Balls {
		velocities[i] = b.Velocity()
		hits[i] = b.Collisions()
	}

	w.relax()

	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			a, b := w.Balls[i], w.Balls[j]
			assert.GreaterOrEqual(t, distance(a, b), a.Radius()+b.Radius()-eps, "balls %d and %d", a.ID(), b.ID())
		}
	}
	for i, b := range w.Balls {
		assert.Equal(t, velocities[i], b.Velocity())
		assert.Equal(t, hits[i], b.Collisions())
	}
	assert.Equal(t, deadAt, w.Balls[3].Center())
	w.queue.Flush(&w.bus)
	assert.Empty(t, rec.events)
}

func TestRelaxAgainstWall(t *testing.T) {
	w := newTestWorld(t, PolicySymmetric,
		body(1, 25, 400, -1, 0, 10),
		body(2, 45, 400, -1, 0, 10),
	)
	a, b := w.Balls[0], w.Balls[1]

	w.relax()

	assert.Equal(t, physics.V(25, 400), a.Center())
	assert.InDelta(t, 75.0, b.Center().X, eps)
	assert.True(t, w.Arena.Contains(a.BoundingBox()))
}

func TestLegacyResolutionDependsOnOrder(t *testing.T) {
	// Near the left wall the first ball of the pair cannot retreat
	build := func() *World {
		return newTestWorld(t, PolicyLegacy,
			body(1, 26, 400, 2, 0, 10),
			body(2, 66, 400, -2, 0, 10),
		)
	}
	w1, w2 := build(), build()

	w1.resolve(w1.Balls[0], w1.Balls[1], w1.UpdateContext())
	w2.resolve(w2.Balls[1], w2.Balls[0], w2.UpdateContext())

	assert.NotEqual(t, w1.Balls[0].Center(), w2.Balls[0].Center())
}

func TestSymmetricResolutionIgnoresOrder(t *testing.T) {
	build := func() *World {
		return newTestWorld(t, PolicySymmetric,
			body(1, 300, 300, 3, 1, 10),
			body(2, 330, 310, -2, -4, 10),
		)
	}
	w1, w2 := build(), build()

	w1.resolve(w1.Balls[0], w1.Balls[1], w1.UpdateContext())
	w2.resolve(w2.Balls[1], w2.Balls[0], w2.UpdateContext())

	for i := range w1.Balls {
		c1, c2 := w1.Balls[i].Center(), w2.Balls[i].Center()
		v1, v2 := w1.Balls[i].Velocity(), w2.Balls[i].Velocity()
		assert.InDelta(t, c1.X, c2.X, eps)
		assert.InDelta(t, c1.Y, c2.Y, eps)
		assert.InDelta(t, v1.X, v2.X, eps)
		assert.InDelta(t, v1.Y, v2.Y, eps)
	}
}

func TestSymmetricExchangeConservesMomentum(t *testing.T) {
	w := newTestWorld(t, PolicySymmetric,
		body(1, 300, 300, 4, 1, 10),
		body(2, 340, 320, -3, -2, 10),
	)
	a, b := w.Balls[0], w.Balls[1]
	before := a.Velocity().Add(b.Velocity())
	energy := a.Velocity().LenSq() + b.Velocity().LenSq()

	w.resolve(a, b, w.UpdateContext())

	after := a.Velocity().Add(b.Velocity())
	assert.InDelta(t, before.X, after.X, eps)
	assert.InDelta(t, before.Y, after.Y, eps)
	assert.InDelta(t, energy, a.Velocity().LenSq()+b.Velocity().LenSq(), eps)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: PolicyLegacy},
		{in: "legacy", want: PolicyLegacy},
		{in: " Symmetric ", want: PolicySymmetric},
		{in: "elastic", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "Policy(9)", Policy(9).String())
}
