// Package geom provides the small amount of 2D math shared by the world,
// camera, entity and collision packages.
package geom

import "math"

// Point represents a 2D point in world or screen space
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Max returns the bottom-right corner (exclusive).
func (r Rect) Max() Point {
	return Point{X: r.X + r.W, Y: r.Y + r.H}
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Overlap returns the penetration depth of r and o along each axis.
// A value <= 0 on either axis means the rectangles are separated.
func (r Rect) Overlap(o Rect) (ox, oy float64) {
	ox = math.Min(r.X+r.W, o.X+o.W) - math.Max(r.X, o.X)
	oy = math.Min(r.Y+r.H, o.Y+o.H) - math.Max(r.Y, o.Y)
	return ox, oy
}

// Intersects reports whether r and o share any area. Rectangles that only
// touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	ox, oy := r.Overlap(o)
	return ox > 0 && oy > 0
}

// Contains reports whether p lies inside r (right and bottom edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}
