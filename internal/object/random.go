package object

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/bounce/internal/physics"
)

// RandSource is the randomness a ball needs at construction.
// *math/rand/v2.Rand satisfies it; tests pass scripted sources.
type RandSource interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// DeadColor is the color every ball takes when it dies.
var DeadColor = colorful.Color{R: 1, G: 1, B: 1}

// labelColor is the text color of ball labels.
var labelColor = colorful.Color{}

// RandomVelocity returns a velocity whose axes are drawn independently from
// [lo, hi] with a random sign. With lo >= 1 neither axis is ever zero.
func RandomVelocity(rng RandSource, lo, hi int) physics.Vec2 {
	return physics.Vec2{
		X: randomSigned(rng, lo, hi),
		Y: randomSigned(rng, lo, hi),
	}
}

func randomSigned(rng RandSource, lo, hi int) float64 {
	v := float64(RandomInt(rng, lo, hi))
	if rng.IntN(2) == 1 {
		v = -v
	}
	return v
}

// RandomInt returns an integer in [lo, hi].
func RandomInt(rng RandSource, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// RandomColor returns a saturated, bright color so balls stay visible on a
// dark background and never look like DeadColor.
func RandomColor(rng RandSource) colorful.Color {
	h := rng.Float64() * 360
	s := 0.55 + 0.45*rng.Float64()
	v := 0.75 + 0.25*rng.Float64()
	return colorful.Hsv(h, s, v).Clamped()
}

// paletteColor picks a stable color for a ball ID when none was given.
func paletteColor(id int) colorful.Color {
	return colorful.Hsv(float64((id*47)%360), 0.7, 0.95).Clamped()
}
