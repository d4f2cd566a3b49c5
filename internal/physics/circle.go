package physics

import "fmt"

// Circle is a circle with a mutable center and a fixed radius.
type Circle struct {
	center Vec2
	radius float64
}

// NewCircle creates a circle. It panics if radius is not positive.
func NewCircle(center Vec2, radius float64) Circle {
	if !(radius > 0) {
		panic(fmt.Sprintf("physics: circle radius must be positive, got %v", radius))
	}
	return Circle{center: center, radius: radius}
}

// Center returns the circle's center.
func (c *Circle) Center() Vec2 {
	return c.center
}

// Radius returns the circle's radius.
func (c *Circle) Radius() float64 {
	return c.radius
}

// DistanceTo returns the distance between the centers of c and o.
func (c *Circle) DistanceTo(o *Circle) float64 {
	return Distance(c.center.X, c.center.Y, o.center.X, o.center.Y)
}

// SquaredDistanceTo returns the squared distance between the centers.
func (c *Circle) SquaredDistanceTo(o *Circle) float64 {
	return DistanceSquared(c.center.X, c.center.Y, o.center.X, o.center.Y)
}

// Touches reports whether c and o overlap or are tangent.
func (c *Circle) Touches(o *Circle) bool {
	return CirclesTouch(c.center.X, c.center.Y, c.radius, o.center.X, o.center.Y, o.radius)
}

// MoveBy translates the center in place.
func (c *Circle) MoveBy(dx, dy float64) {
	c.center.X += dx
	c.center.Y += dy
}

// BoundingBox returns the axis-aligned box around the circle.
func (c *Circle) BoundingBox() Rect {
	d := c.radius * 2
	return Rect{X: c.center.X - c.radius, Y: c.center.Y - c.radius, Width: d, Height: d}
}
