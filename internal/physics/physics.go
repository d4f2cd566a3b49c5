// Package physics provides the geometry primitives used by the simulation:
// vectors, circles, axis-aligned rectangles and distance utilities.
package physics

import "math"

// coincidentEpsilon is the distance below which two centers are treated as
// the same point.
const coincidentEpsilon = 1e-9

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CirclesTouch reports whether two circles overlap or are tangent.
// The comparison is closed: touching edges count as a collision.
func CirclesTouch(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) <= minDist*minDist
}

// Coincident reports whether two points are close enough that no direction
// can be derived from them.
func Coincident(a, b Vec2) bool {
	return a.Sub(b).LenSq() < coincidentEpsilon*coincidentEpsilon
}
