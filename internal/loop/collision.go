package loop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomz197/bounce/internal/loop/config"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/physics"
)

// ErrUnknownPolicy is returned for a resolution policy name that is not recognized.
var ErrUnknownPolicy = errors.New("unknown collision policy")

// Policy selects how an overlapping pair is pulled apart and bounced.
type Policy uint8

const (
	// PolicyLegacy retreats each ball along its own velocity and reflects
	// each velocity about the line of centers, one ball after the other.
	// The outcome depends on which ball of the pair comes first.
	PolicyLegacy Policy = iota
	// PolicySymmetric splits the overlap along the line of centers and
	// exchanges the normal velocity components of an approaching pair.
	PolicySymmetric
)

func (p Policy) String() string {
	switch p {
	case PolicyLegacy:
		return "legacy"
	case PolicySymmetric:
		return "symmetric"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy converts a policy name into a Policy. An empty name selects
// PolicyLegacy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "legacy":
		return PolicyLegacy, nil
	case "symmetric":
		return PolicySymmetric, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownPolicy)
	}
}

// settleRounds bounds the push-apart/clamp alternation in settle.
const settleRounds = 4

// relaxRounds bounds the whole-set passes made by relax. A pair overlapping by
// no more than contactSlack counts as touching.
const (
	relaxRounds  = 64
	contactSlack = 1e-9
)

// sweep resolves every unordered pair once, in spawn order.
func (w *World) sweep(ctx object.UpdateContext) {
	for i := 0; i < len(w.Balls); i++ {
		for j := i + 1; j < len(w.Balls); j++ {
			w.resolve(w.Balls[i], w.Balls[j], ctx)
		}
	}
}

// resolve handles one pair: test, separate, settle, reflect, count, check deaths.
func (w *World) resolve(a, b *object.Ball, ctx object.UpdateContext) {
	if !a.IsAlive() && !b.IsAlive() {
		return
	}
	if !a.CollidesWith(b) {
		return
	}

	switch w.Policy {
	case PolicySymmetric:
		separateSymmetric(a, b)
	default:
		a.SeparateFrom(b, w.Arena)
	}
	w.settle(a, b)

	switch w.Policy {
	case PolicySymmetric:
		bounceSymmetric(a, b, ctx)
	default:
		a.Bounce(b, ctx)
		b.Bounce(a, ctx)
	}

	for _, ball := range [2]*object.Ball{a, b} {
		if ball.CheckDeath(ctx) {
			w.deaths++
			w.logger.Debug("ball died", "id", ball.ID(), "tick", ctx.Tick, "collisions", ball.Collisions())
		}
	}
}

// settle keeps live balls inside the arena and removes whatever overlap the
// policy left behind by pushing live balls apart along the line of centers.
// It always finishes with a clamp, so containment wins over separation when a
// pair is wedged against a wall.
func (w *World) settle(a, b *object.Ball) {
	for round := 0; round < settleRounds; round++ {
		a.ClampInto(w.Arena)
		b.ClampInto(w.Arena)
		if !pushApart(a, b, 0) {
			return
		}
	}
	a.ClampInto(w.Arena)
	b.ClampInto(w.Arena)
}

// relax separates live balls that earlier pairs in the sweep pushed back into
// each other. It moves positions only and stops after a pass that moved
// nothing.
func (w *World) relax() {
	for round := 0; round < relaxRounds; round++ {
		moved := false
		for i := 0; i < len(w.Balls); i++ {
			a := w.Balls[i]
			if !a.IsAlive() {
				continue
			}
			for j := i + 1; j < len(w.Balls); j++ {
				b := w.Balls[j]
				if b.IsAlive() && w.unstack(a, b) {
					moved = true
				}
			}
		}
		if !moved {
			return
		}
	}
}

// unstack pushes two overlapping live balls apart and clamps both back into
// the arena. When only one of them hit a wall the other takes the rest of
// the overlap.
func (w *World) unstack(a, b *object.Ball) bool {
	if _, overlap := contact(a, b); overlap <= contactSlack {
		return false
	}
	pushApart(a, b, 0)
	ca, cb := a.ClampInto(w.Arena), b.ClampInto(w.Arena)
	if ca == cb {
		return true
	}
	n, overlap := contact(a, b)
	if overlap <= 0 {
		return true
	}
	if ca {
		b.Nudge(n.Scale(overlap))
		b.ClampInto(w.Arena)
	} else {
		a.Nudge(n.Scale(-overlap))
		a.ClampInto(w.Arena)
	}
	return true
}

// pushApart moves the live balls of an overlapping pair apart along the line
// of centers until they are pad apart. Dead balls never move. Returns false
// when the pair did not overlap.
func pushApart(a, b *object.Ball, pad float64) bool {
	n, overlap := contact(a, b)
	if overlap <= 0 {
		return false
	}
	d := overlap + pad
	switch {
	case a.IsAlive() && b.IsAlive():
		a.Nudge(n.Scale(-d / 2))
		b.Nudge(n.Scale(d / 2))
	case a.IsAlive():
		a.Nudge(n.Scale(-d))
	case b.IsAlive():
		b.Nudge(n.Scale(d))
	}
	return true
}

// contact returns the unit normal pointing from a to b and the overlap depth.
// Coincident centers use a fixed normal so the pair can still be separated.
func contact(a, b *object.Ball) (physics.Vec2, float64) {
	ca, cb := a.Center(), b.Center()
	overlap := a.Radius() + b.Radius() - physics.Distance(ca.X, ca.Y, cb.X, cb.Y)
	if physics.Coincident(ca, cb) {
		return physics.V(1, 0), overlap
	}
	return cb.Sub(ca).Normalize(), overlap
}

// separateSymmetric moves each live ball half the overlap plus half the
// padding along the line of centers.
func separateSymmetric(a, b *object.Ball) {
	pushApart(a, b, config.SeparationPadding)
}

// bounceSymmetric exchanges the normal velocity components of two live balls
// heading into each other. A live ball heading into a dead one reflects about
// the normal. Both balls then record the hit.
func bounceSymmetric(a, b *object.Ball, ctx object.UpdateContext) {
	n, _ := contact(a, b)
	va, vb := a.Velocity(), b.Velocity()
	approaching := va.Sub(vb).Dot(n) > 0

	if approaching {
		switch {
		case a.IsAlive() && b.IsAlive():
			an, bn := va.Dot(n), vb.Dot(n)
			a.SetVelocity(va.Add(n.Scale(bn - an)))
			b.SetVelocity(vb.Add(n.Scale(an - bn)))
		case a.IsAlive():
			a.SetVelocity(va.Reflect(n))
		case b.IsAlive():
			b.SetVelocity(vb.Reflect(n))
		}
	}

	a.Strike(b, ctx)
	b.Strike(a, ctx)
}
