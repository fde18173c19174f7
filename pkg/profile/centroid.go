package profile

import (
	"fmt"
	"math"
)

type centroidConfig struct {
	trueArcCentroid bool
}

// CentroidOption adjusts how Centroid weighs primitives.
type CentroidOption func(*centroidConfig)

// WithTrueArcCentroid positions each arc at the exact centroid of the
// circular arc instead of the midpoint of its chord.
func WithTrueArcCentroid() CentroidOption {
	return func(c *centroidConfig) { c.trueArcCentroid = true }
}

// Centroid returns the length-weighted centroid of p. Lines weigh their
// length at their midpoint, arcs their arc length at their chord midpoint,
// circles their circumference at their center, and splines the length of
// each fit-point chord at that chord's midpoint.
//
// A primitive with a negative or non-finite weight or position, such as a
// negative circle radius or an arc sweep outside [0, 2π), fails with a
// *PrimitiveError wrapping ErrInvalidGeometry. A profile with zero total
// weight fails with ErrEmptyOrDegenerateProfile.
func Centroid(p Profile, opts ...CentroidOption) (Point, error) {
	var cfg centroidConfig
	for _, o := range opts {
		o(&cfg)
	}

	type weighted struct {
		pos Point
		w   float64
	}
	var (
		terms []weighted
		total float64
	)
	add := func(pos Point, w float64) bool {
		if w < 0 || !finite(w) || !pos.IsFinite() {
			return false
		}
		terms = append(terms, weighted{pos, w})
		total += w
		return true
	}

	for i, prim := range p {
		ok := true
		switch v := prim.(type) {
		case Line:
			ok = add(v.Start.Midpoint(v.End), v.Length())
		case Arc:
			if v.Sweep < 0 || v.Sweep >= 2*math.Pi {
				ok = false
				break
			}
			w := v.Length()
			if cfg.trueArcCentroid {
				ok = add(arcCentroid(v), w)
			} else {
				ok = add(v.Start.Midpoint(v.End()), w)
			}
		case Circle:
			ok = add(v.Center, v.Circumference())
		case Spline:
			for j := 1; j < len(v.FitPoints) && ok; j++ {
				a, b := v.FitPoints[j-1], v.FitPoints[j]
				ok = add(a.Midpoint(b), a.Dist(b))
			}
		default:
			return Point{}, &PrimitiveError{Index: i, Kind: kindOf(prim), Err: ErrUnsupportedPrimitive}
		}
		if !ok {
			return Point{}, &PrimitiveError{Index: i, Kind: kindOf(prim), Err: ErrInvalidGeometry}
		}
	}

	if total == 0 || math.IsNaN(total) {
		return Point{}, fmt.Errorf("profile: centroid of %d primitives: %w", len(p), ErrEmptyOrDegenerateProfile)
	}
	// Normalizing each weight first keeps a lone contributor's position exact.
	var c Point
	for _, t := range terms {
		c = c.Add(t.pos.Scale(t.w / total))
	}
	return c, nil
}

// arcCentroid returns the centroid of the arc curve itself: it lies on the
// bisector at distance r·sin(θ/2)/(θ/2) from the center.
func arcCentroid(a Arc) Point {
	half := a.Sweep / 2
	if half == 0 {
		return a.Start
	}
	r := a.Radius()
	d := r * math.Sin(half) / half
	bisector := a.StartAngle() + half
	return Point{
		X: a.Center.X + d*math.Cos(bisector),
		Y: a.Center.Y + d*math.Sin(bisector),
		Z: a.Start.Z,
	}
}

// MeanCenter returns the unweighted mean of line midpoints and arc/circle
// centers. Splines contribute the mean of their fit points. It is the
// direction point used when offsetting a profile.
func MeanCenter(p Profile) (Point, error) {
	var sum Point
	n := 0
	for _, prim := range p {
		switch v := prim.(type) {
		case Line:
			sum = sum.Add(v.Start.Midpoint(v.End))
		case Arc:
			sum = sum.Add(v.Center)
		case Circle:
			sum = sum.Add(v.Center)
		case Spline:
			if len(v.FitPoints) == 0 {
				continue
			}
			var s Point
			for _, fp := range v.FitPoints {
				s = s.Add(fp)
			}
			sum = sum.Add(s.Scale(1 / float64(len(v.FitPoints))))
		default:
			continue
		}
		n++
	}
	if n == 0 {
		return Point{}, fmt.Errorf("profile: mean center: %w", ErrEmptyOrDegenerateProfile)
	}
	return sum.Scale(1 / float64(n)), nil
}
