// Package physics provides collision detection for axis-aligned boxes.
package physics

// Point is a position in arena units.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned bounding box. X, Y is the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// At returns a copy of r moved to p.
func (r Rect) At(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether r and o share any area.
// Touching edges do not count, matching System.Drawing semantics.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}
