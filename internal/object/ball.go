package object

import (
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/event"
	"github.com/tomz197/bounce/internal/loop/config"
	"github.com/tomz197/bounce/internal/physics"
)

// BallSpec describes a ball explicitly. Zero fields fall back to defaults:
// radius to config.BallRadius, threshold to 1, name to the ID, color to a
// palette entry.
type BallSpec struct {
	ID        int
	Name      string
	Center    physics.Vec2
	Velocity  physics.Vec2
	Radius    float64
	Threshold int
	Color     colorful.Color
	SoundOn   bool
}

// Ball is a circular body that moves at constant velocity, reflects off the
// arena walls and dies after colliding often enough.
type Ball struct {
	id        int
	name      string
	circle    physics.Circle
	velocity  physics.Vec2
	color     colorful.Color
	alive     bool
	hits      int // Collisions counted against this ball
	threshold int // Death threshold, fixed at construction
	soundOn   bool
	showLabel bool
}

// NewBall creates a live ball at center with a random velocity, color and
// death threshold drawn from rng.
func NewBall(id int, center physics.Vec2, soundOn bool, rng RandSource) *Ball {
	return NewBallFromSpec(BallSpec{
		ID:        id,
		Center:    center,
		Velocity:  RandomVelocity(rng, config.MinBallSpeed, config.MaxBallSpeed),
		Threshold: RandomInt(rng, config.MinLives, config.MaxLives),
		Color:     RandomColor(rng),
		SoundOn:   soundOn,
	})
}

// NewBallFromSpec creates a live ball from an explicit description.
func NewBallFromSpec(s BallSpec) *Ball {
	if s.Radius == 0 {
		s.Radius = config.BallRadius
	}
	if s.Threshold < 1 {
		s.Threshold = 1
	}
	if s.Name == "" {
		s.Name = strconv.Itoa(s.ID)
	}
	if s.Color == (colorful.Color{}) {
		s.Color = paletteColor(s.ID)
	}
	return &Ball{
		id:        s.ID,
		name:      s.Name,
		circle:    physics.NewCircle(s.Center, s.Radius),
		velocity:  s.Velocity,
		color:     s.Color,
		alive:     true,
		threshold: s.Threshold,
		soundOn:   s.SoundOn,
	}
}

func (b *Ball) ID() int                      { return b.id }
func (b *Ball) Name() string                 { return b.name }
func (b *Ball) Center() physics.Vec2         { return b.circle.Center() }
func (b *Ball) Radius() float64              { return b.circle.Radius() }
func (b *Ball) Velocity() physics.Vec2       { return b.velocity }
func (b *Ball) Color() colorful.Color        { return b.color }
func (b *Ball) IsAlive() bool                { return b.alive }
func (b *Ball) Collisions() int              { return b.hits }
func (b *Ball) Threshold() int               { return b.threshold }
func (b *Ball) SoundOn() bool                { return b.soundOn }
func (b *Ball) LabelVisible() bool           { return b.showLabel }
func (b *Ball) BoundingBox() physics.Rect    { return b.circle.BoundingBox() }
func (b *Ball) SetVelocity(v physics.Vec2)   { b.velocity = v }
func (b *Ball) SetSound(on bool)             { b.soundOn = on }
func (b *Ball) SetLabelVisible(visible bool) { b.showLabel = visible }

// Update advances the ball by one tick: move by velocity, then reflect off
// any wall it has crossed. Dead balls do nothing. Balls are never removed.
func (b *Ball) Update(ctx UpdateContext) (bool, error) {
	if !b.alive {
		return false, nil
	}
	b.circle.MoveBy(b.velocity.X, b.velocity.Y)
	if b.WallReflect(ctx.Arena) {
		ctx.emit(event.Event{
			Kind:     event.Reflect,
			BodyID:   b.id,
			Position: b.Center(),
			SoundOn:  b.soundOn,
		})
	}
	return false, nil
}

// WallReflect flips each velocity component whose axis has left the arena
// while still heading outward. A component already pointing back inside is
// left alone, so a ball that is still out of bounds on the next tick keeps
// returning instead of flipping back and forth.
func (b *Ball) WallReflect(arena physics.Rect) bool {
	if !b.alive {
		return false
	}
	box := b.circle.BoundingBox()
	reflected := false
	if (box.Left() < arena.Left() && b.velocity.X < 0) || (box.Right() > arena.Right() && b.velocity.X > 0) {
		b.velocity.X = -b.velocity.X
		reflected = true
	}
	if (box.Top() < arena.Top() && b.velocity.Y < 0) || (box.Bottom() > arena.Bottom() && b.velocity.Y > 0) {
		b.velocity.Y = -b.velocity.Y
		reflected = true
	}
	return reflected
}

// CollidesWith reports whether the two balls overlap or touch.
func (b *Ball) CollidesWith(o *Ball) bool {
	return b.circle.Touches(&o.circle)
}

// SeparateFrom pulls an overlapping pair apart by stepping backwards along
// each ball's own velocity. b retreats first; if that would leave b partly
// outside arena, b stays put and o retreats an extra step instead. o always
// retreats once more afterwards. The result depends on which ball is b.
func (b *Ball) SeparateFrom(o *Ball, arena physics.Rect) {
	overlap := b.Radius() + o.Radius() - b.circle.DistanceTo(&o.circle)
	step := config.SeparationPadding + overlap/2

	back := b.velocity.Scale(-step)
	b.circle.MoveBy(back.X, back.Y)
	if !arena.Contains(b.circle.BoundingBox()) {
		b.circle.MoveBy(-back.X, -back.Y)
		o.retreat(step)
	}
	o.retreat(step)
}

func (b *Ball) retreat(dist float64) {
	back := b.velocity.Scale(-dist)
	b.circle.MoveBy(back.X, back.Y)
}

// Bounce reflects b's velocity about the line joining the two centers and
// records the collision against o.
func (b *Ball) Bounce(o *Ball, ctx UpdateContext) {
	if !b.alive {
		return
	}
	b.velocity = b.velocity.Reflect(o.Center().Sub(b.Center()))
	b.Strike(o, ctx)
}

// Strike records that b hit o: o's counter grows if o is alive, and a bounce
// event is emitted for b. Dead balls strike nothing.
func (b *Ball) Strike(o *Ball, ctx UpdateContext) {
	if !b.alive {
		return
	}
	if o.alive {
		o.hits++
	}
	ctx.emit(event.Event{
		Kind:     event.Bounce,
		BodyID:   b.id,
		Position: b.Center(),
		SoundOn:  b.soundOn,
	})
}

// CheckDeath kills the ball once its counter reaches the threshold. It returns
// true only on the tick the ball dies, which is also the only time an
// explosion is requested.
func (b *Ball) CheckDeath(ctx UpdateContext) bool {
	if !b.alive || b.hits < b.threshold {
		return false
	}
	b.Stop()
	if ctx.Explosions {
		ctx.emit(event.Event{
			Kind:     event.Explosion,
			BodyID:   b.id,
			Position: b.Center(),
			SoundOn:  b.soundOn,
		})
	}
	return true
}

// Stop kills the ball: it stops, turns white and never moves again.
func (b *Ball) Stop() {
	b.velocity = physics.Vec2{}
	b.color = DeadColor
	b.alive = false
}

// Nudge moves a live ball by d. Dead balls are fixed in place.
func (b *Ball) Nudge(d physics.Vec2) {
	if !b.alive {
		return
	}
	b.circle.MoveBy(d.X, d.Y)
}

// ClampInto shifts a live ball so its bounding box lies inside arena. Axes on
// which the ball is larger than the arena are left alone. Returns whether the
// ball moved.
func (b *Ball) ClampInto(arena physics.Rect) bool {
	if !b.alive {
		return false
	}
	box := b.circle.BoundingBox()
	var dx, dy float64
	if box.Width <= arena.Width {
		if box.Left() < arena.Left() {
			dx = arena.Left() - box.Left()
		} else if box.Right() > arena.Right() {
			dx = arena.Right() - box.Right()
		}
	}
	if box.Height <= arena.Height {
		if box.Top() < arena.Top() {
			dy = arena.Top() - box.Top()
		} else if box.Bottom() > arena.Bottom() {
			dy = arena.Bottom() - box.Bottom()
		}
	}
	if dx == 0 && dy == 0 {
		return false
	}
	b.circle.MoveBy(dx, dy)
	return true
}

// Draw fills the ball on the canvas and, when enabled, writes its name and
// remaining lives over it.
func (b *Ball) Draw(ctx DrawContext) error {
	c := b.Center()
	ctx.Canvas.FillCircle(draw.Point{X: c.X, Y: c.Y}, b.Radius(), b.color)

	if !b.showLabel || ctx.Text == nil {
		return nil
	}
	col, row := ctx.Canvas.LogicalToTerminal(c.X, c.Y)
	style := draw.Style{FG: labelColor, BG: b.color, HasBG: true}
	return Label{Col: col, Row: row, Value: b.labelText(), Centered: true, Style: &style}.Draw(ctx)
}

func (b *Ball) labelText() string {
	if !b.alive {
		return b.name
	}
	return b.name + ":" + strconv.Itoa(b.threshold-b.hits)
}
