package model

import "math"

// Vec2 is a point or direction on the plane.
// Value type, passed by value (immutable).
type Vec2 struct {
	X float64
	Y float64
}

// NewVec2 creates a Vec2 with the given coordinates.
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// LenSquared returns the squared length (no sqrt on the hot path).
func (v Vec2) LenSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalized returns the unit vector in the direction of v.
// The zero vector stays zero.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// DistanceTo returns the distance between two points.
func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Sub(o).Len()
}

// DistanceSquared returns the squared distance to o.
func (v Vec2) DistanceSquared(o Vec2) float64 {
	return v.Sub(o).LenSquared()
}

// ApproxEqual reports whether both components differ by at most eps.
func (v Vec2) ApproxEqual(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}
