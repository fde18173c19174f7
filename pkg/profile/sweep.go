package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SweepAngle returns the angle swept from start to end about center, measured
// in the positive rotational sense about normal. The result lies in [0, 2π).
//
// The normal must be the true normal of the sketch plane the points lie in;
// a wrong normal flips the sweep direction of every arc.
func SweepAngle(center, start, end Point, normal Vector) (float64, error) {
	vs := r3.Sub(start.vec(), center.vec())
	ve := r3.Sub(end.vec(), center.vec())
	if r3.Norm(vs) == 0 {
		return 0, fmt.Errorf("profile: sweep angle: center coincides with start: %w", ErrInvalidGeometry)
	}
	if r3.Norm(ve) == 0 {
		return 0, fmt.Errorf("profile: sweep angle: center coincides with end: %w", ErrInvalidGeometry)
	}
	if !finite(normal.X) || !finite(normal.Y) || !finite(normal.Z) {
		return 0, fmt.Errorf("profile: sweep angle: non-finite plane normal: %w", ErrInvalidGeometry)
	}
	if r3.Norm(normal.vec()) == 0 {
		return 0, fmt.Errorf("profile: sweep angle: zero plane normal: %w", ErrInvalidGeometry)
	}
	if !center.IsFinite() || !start.IsFinite() || !end.IsFinite() {
		return 0, fmt.Errorf("profile: sweep angle: non-finite coordinate: %w", ErrInvalidGeometry)
	}

	us, ue := r3.Unit(vs), r3.Unit(ve)
	angle := math.Acos(clamp(r3.Dot(us, ue), -1, 1))

	if r3.Dot(r3.Cross(us, ue), normal.vec()) < 0 {
		angle = 2*math.Pi - angle
	}
	if angle >= 2*math.Pi {
		angle = 0
	}
	return angle, nil
}

// ArcThrough builds an Arc from its center, start and end points, turning
// from start to end in the positive sense about normal.
//
// Arcs are stored in the sketch convention (counter-clockwise about +Z), so
// the normal must be parallel to Z. For a -Z normal the clockwise arc from
// start to end is stored as the counter-clockwise arc from end to start,
// which traces the same curve. The angle is measured in the plane of start,
// so start and end may sit at a different z than center.
func ArcThrough(center, start, end Point, normal Vector) (Arc, error) {
	n := normal.vec()
	if !finite(normal.X) || !finite(normal.Y) || !finite(normal.Z) || r3.Norm(n) == 0 {
		return Arc{}, fmt.Errorf("profile: arc through: bad plane normal %v: %w", normal, ErrInvalidGeometry)
	}
	if math.Hypot(normal.X, normal.Y) > normalTolerance*r3.Norm(n) {
		return Arc{}, fmt.Errorf("profile: arc through: normal %v is not parallel to Z: %w", normal, ErrInvalidGeometry)
	}
	c := Point{X: center.X, Y: center.Y, Z: start.Z}
	e := Point{X: end.X, Y: end.Y, Z: start.Z}
	sweep, err := SweepAngle(c, start, e, normal)
	if err != nil {
		return Arc{}, err
	}
	if normal.Z < 0 {
		return Arc{Center: center, Start: e, Sweep: sweep}, nil
	}
	return Arc{Center: center, Start: start, Sweep: sweep}, nil
}

// normalTolerance bounds the in-plane part of a sketch normal relative to
// its length.
const normalTolerance = 1e-9

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
