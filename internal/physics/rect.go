package physics

// Rect is an axis-aligned rectangle given by its top-left corner and size.
// Y grows downwards, as on screen.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect builds a rectangle spanning [minX,maxX]×[minY,maxY].
func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether o lies completely inside r (edges inclusive).
func (r Rect) Contains(o Rect) bool {
	return o.Left() >= r.Left() && o.Top() >= r.Top() &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies inside r (edges inclusive).
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Inset shrinks the rectangle by m on every side.
func (r Rect) Inset(m float64) Rect {
	return Rect{X: r.X + m, Y: r.Y + m, Width: r.Width - 2*m, Height: r.Height - 2*m}
}

// Overshoot returns how far o sticks out of r on each axis (0 when inside).
func (r Rect) Overshoot(o Rect) (dx, dy float64) {
	if d := r.Left() - o.Left(); d > dx {
		dx = d
	}
	if d := o.Right() - r.Right(); d > dx {
		dx = d
	}
	if d := r.Top() - o.Top(); d > dy {
		dy = d
	}
	if d := o.Bottom() - r.Bottom(); d > dy {
		dy = d
	}
	return dx, dy
}
