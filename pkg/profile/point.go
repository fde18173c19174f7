package profile

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a position in sketch space.
type Point struct {
	X, Y, Z float64
}

// Vector is a direction in sketch space, e.g. a plane normal.
type Vector struct {
	X, Y, Z float64
}

// ZAxis is the canonical sketch normal.
var ZAxis = Vector{Z: 1}

func (p Point) vec() r3.Vec  { return r3.Vec(p) }
func (v Vector) vec() r3.Vec { return r3.Vec(v) }

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the componentwise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale multiplies all components by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return r3.Norm(r3.Sub(p.vec(), q.vec()))
}

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2, Z: (p.Z + q.Z) / 2}
}

// IsFinite reports whether no component is NaN or infinite.
func (p Point) IsFinite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

// Near reports whether p and q are within eps of each other.
func (p Point) Near(q Point, eps float64) bool {
	return p.Dist(q) <= eps
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
