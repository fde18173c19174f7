package profile

import (
	"fmt"
	"math"
)

// Kind enumerates the primitive curve types.
type Kind int

const (
	KindLine Kind = iota
	KindArc
	KindCircle
	KindSpline
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArc:
		return "arc"
	case KindCircle:
		return "circle"
	case KindSpline:
		return "spline"
	default:
		return "unknown"
	}
}

// ParseKind converts the textual kind name used in profile tables.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "line":
		return KindLine, nil
	case "arc":
		return KindArc, nil
	case "circle":
		return KindCircle, nil
	case "spline":
		return KindSpline, nil
	}
	return 0, fmt.Errorf("profile: unknown primitive kind %q", s)
}

// Primitive is one curve of a profile. The set of implementations is closed:
// Line, Arc, Circle and Spline.
type Primitive interface {
	Kind() Kind
	primitive() // marker method restricting implementations to this package
}

// kindOf is Kind that tolerates nil entries.
func kindOf(prim Primitive) Kind {
	if prim == nil {
		return Kind(-1)
	}
	return prim.Kind()
}

// Line is a straight segment.
type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func (Line) Kind() Kind  { return KindLine }
func (Line) primitive() {}

// Length returns the segment length.
func (l Line) Length() float64 { return l.Start.Dist(l.End) }

// Arc is a circular arc given by its center, start point and
// counter-clockwise sweep in radians, measured in the sketch plane (+Z normal).
// The arc lies in the plane z = Start.Z; Center.Z does not affect its shape.
type Arc struct {
	Center Point   `json:"center"`
	Start  Point   `json:"start"`
	Sweep  float64 `json:"sweep"` // radians, [0, 2π)
}

func (Arc) Kind() Kind  { return KindArc }
func (Arc) primitive() {}

// Radius returns the in-plane distance from center to start.
func (a Arc) Radius() float64 {
	return math.Hypot(a.Start.X-a.Center.X, a.Start.Y-a.Center.Y)
}

// Length returns the arc length.
func (a Arc) Length() float64 { return a.Radius() * a.Sweep }

// StartAngle returns the polar angle of the start point about the center.
func (a Arc) StartAngle() float64 {
	return math.Atan2(a.Start.Y-a.Center.Y, a.Start.X-a.Center.X)
}

// PointAt returns the point on the arc at angle t (radians) past the start.
func (a Arc) PointAt(t float64) Point {
	r := a.Radius()
	theta := a.StartAngle() + t
	return Point{
		X: a.Center.X + r*math.Cos(theta),
		Y: a.Center.Y + r*math.Sin(theta),
		Z: a.Start.Z,
	}
}

// End returns the implicit end point: Start rotated by Sweep about Center.
func (a Arc) End() Point { return a.PointAt(a.Sweep) }

// Circle is a full circle.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

func (Circle) Kind() Kind  { return KindCircle }
func (Circle) primitive() {}

// Circumference returns 2πr.
func (c Circle) Circumference() float64 { return 2 * math.Pi * c.Radius }

// Spline is a fit-point spline. Tangency and degree are not retained.
type Spline struct {
	FitPoints []Point `json:"fit_points"`
}

func (Spline) Kind() Kind  { return KindSpline }
func (Spline) primitive() {}

// PolylineLength returns the length of the polyline through the fit points.
func (s Spline) PolylineLength() float64 {
	var total float64
	for i := 1; i < len(s.FitPoints); i++ {
		total += s.FitPoints[i-1].Dist(s.FitPoints[i])
	}
	return total
}

// Profile is an ordered sequence of primitives. Order is significant and is
// preserved by every transform in this package.
type Profile []Primitive

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	out := make(Profile, len(p))
	for i, prim := range p {
		if s, ok := prim.(Spline); ok {
			pts := make([]Point, len(s.FitPoints))
			copy(pts, s.FitPoints)
			prim = Spline{FitPoints: pts}
		}
		out[i] = prim
	}
	return out
}

// Count returns the number of primitives of each kind.
func (p Profile) Count() map[Kind]int {
	counts := make(map[Kind]int)
	for _, prim := range p {
		counts[kindOf(prim)]++
	}
	return counts
}

// Endpoints returns the start and end of an open primitive; ok is false for
// circles and empty splines.
func Endpoints(prim Primitive) (start, end Point, ok bool) {
	switch v := prim.(type) {
	case Line:
		return v.Start, v.End, true
	case Arc:
		return v.Start, v.End(), true
	case Spline:
		if len(v.FitPoints) == 0 {
			return Point{}, Point{}, false
		}
		return v.FitPoints[0], v.FitPoints[len(v.FitPoints)-1], true
	}
	return Point{}, Point{}, false
}
