package object

import (
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/loop/config"
	"github.com/tomz197/bounce/internal/physics"
)

// explosionPool reuses Explosion objects to reduce allocations.
var explosionPool = sync.Pool{
	New: func() any {
		return &Explosion{}
	},
}

var (
	explosionOuter = colorful.Color{R: 1, G: 0.55, B: 0.1}
	explosionInner = colorful.Color{R: 1, G: 0.9, B: 0.3}
)

// Explosion is a short two-frame animation played where a ball died.
type Explosion struct {
	Pos    physics.Vec2
	Radius float64
	Life   int // Ticks remaining
}

// NewExplosion creates an explosion from the pool.
func NewExplosion(pos physics.Vec2) *Explosion {
	e := explosionPool.Get().(*Explosion)
	e.Pos = pos
	e.Radius = config.ExplosionRadius
	e.Life = config.ExplosionLife
	return e
}

// Release returns the explosion to the pool for reuse.
// Should be called when the explosion is removed from the scene.
func (e *Explosion) Release() {
	explosionPool.Put(e)
}

// Frame returns which of the two images is showing. It flips every
// config.ExplosionAnimCycle ticks.
func (e *Explosion) Frame() int {
	return (e.Life / config.ExplosionAnimCycle) % 2
}

// Update counts down the remaining life.
func (e *Explosion) Update(ctx UpdateContext) (bool, error) {
	e.Life--
	return e.Life <= 0, nil
}

// Draw renders the current frame: a ring with spokes, colors swapped between
// frames.
func (e *Explosion) Draw(ctx DrawContext) error {
	ring, core := explosionOuter, explosionInner
	if e.Frame() == 1 {
		ring, core = core, ring
	}
	center := draw.Point{X: e.Pos.X, Y: e.Pos.Y}
	ctx.Canvas.StrokeCircle(center, e.Radius, ring)
	ctx.Canvas.FillCircle(center, e.Radius*0.3, core)

	const spokes = 8
	for i := 0; i < spokes; i++ {
		a := 2*math.Pi*float64(i)/spokes + float64(e.Frame())*math.Pi/spokes
		from := draw.Point{X: e.Pos.X + e.Radius*0.45*math.Cos(a), Y: e.Pos.Y + e.Radius*0.45*math.Sin(a)}
		to := draw.Point{X: e.Pos.X + e.Radius*0.85*math.Cos(a), Y: e.Pos.Y + e.Radius*0.85*math.Sin(a)}
		ctx.Canvas.DrawLine(from, to, core)
	}
	return nil
}
