// Package tessellate turns profiles into polylines, closed loops and
// extruded preview meshes built through a geometry kernel.
package tessellate

import (
	"math"

	"github.com/chazu/flexure/pkg/profile"
)

// Options controls how curves are approximated by straight segments.
type Options struct {
	// MaxAngleStep is the largest angle in radians a single segment may
	// subtend on an arc or circle.
	MaxAngleStep float64 `yaml:"max_angle_step"`
	// SplineSegments is the number of segments per span between two fit
	// points.
	SplineSegments int `yaml:"spline_segments"`
	// Epsilon is the distance under which two endpoints are treated as
	// the same point when chaining loops.
	Epsilon float64 `yaml:"epsilon"`
}

// DefaultOptions returns the options used for previews.
func DefaultOptions() Options {
	return Options{
		MaxAngleStep:   math.Pi / 36,
		SplineSegments: 8,
		Epsilon:        1e-6,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if !(o.MaxAngleStep > 0) {
		o.MaxAngleStep = d.MaxAngleStep
	}
	if o.SplineSegments < 1 {
		o.SplineSegments = d.SplineSegments
	}
	if !(o.Epsilon > 0) {
		o.Epsilon = d.Epsilon
	}
	return o
}

// Flatten approximates prim by a polyline. Lines yield their two
// endpoints, arcs start at Start and end at End(), circles are closed with
// the last point equal to the first, and splines pass through every fit
// point. A nil primitive yields nil.
func Flatten(prim profile.Primitive, opts Options) []profile.Point {
	opts = opts.normalized()
	switch v := prim.(type) {
	case profile.Line:
		return []profile.Point{v.Start, v.End}
	case profile.Arc:
		return flattenArc(v, opts)
	case profile.Circle:
		return flattenCircle(v, opts)
	case profile.Spline:
		return flattenSpline(v, opts)
	}
	return nil
}

func segmentsFor(angle, step float64) int {
	n := int(math.Ceil(angle / step))
	if n < 1 {
		n = 1
	}
	return n
}

func flattenArc(a profile.Arc, opts Options) []profile.Point {
	n := segmentsFor(a.Sweep, opts.MaxAngleStep)
	pts := make([]profile.Point, n+1)
	for i := 0; i < n; i++ {
		pts[i] = a.PointAt(a.Sweep * float64(i) / float64(n))
	}
	pts[n] = a.End()
	pts[0] = a.Start
	return pts
}

func flattenCircle(c profile.Circle, opts Options) []profile.Point {
	// A triangle is the coarsest closed approximation.
	n := segmentsFor(2*math.Pi, opts.MaxAngleStep)
	if n < 3 {
		n = 3
	}
	pts := make([]profile.Point, n+1)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = profile.Point{
			X: c.Center.X + c.Radius*math.Cos(theta),
			Y: c.Center.Y + c.Radius*math.Sin(theta),
			Z: c.Center.Z,
		}
	}
	pts[n] = pts[0]
	return pts
}

// flattenSpline samples a uniform Catmull-Rom curve through the fit points.
// The end tangents come from mirrored phantom points.
func flattenSpline(s profile.Spline, opts Options) []profile.Point {
	fp := s.FitPoints
	if len(fp) < 3 {
		out := make([]profile.Point, len(fp))
		copy(out, fp)
		return out
	}
	at := func(i int) profile.Point {
		switch {
		case i < 0:
			return fp[0].Scale(2).Sub(fp[1])
		case i >= len(fp):
			return fp[len(fp)-1].Scale(2).Sub(fp[len(fp)-2])
		}
		return fp[i]
	}

	n := opts.SplineSegments
	out := make([]profile.Point, 0, (len(fp)-1)*n+1)
	for i := 0; i+1 < len(fp); i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		out = append(out, p1)
		for j := 1; j < n; j++ {
			out = append(out, catmullRom(p0, p1, p2, p3, float64(j)/float64(n)))
		}
	}
	return append(out, fp[len(fp)-1])
}

func catmullRom(p0, p1, p2, p3 profile.Point, t float64) profile.Point {
	t2 := t * t
	t3 := t2 * t
	c0 := -0.5*t3 + t2 - 0.5*t
	c1 := 1.5*t3 - 2.5*t2 + 1
	c2 := -1.5*t3 + 2*t2 + 0.5*t
	c3 := 0.5*t3 - 0.5*t2
	return p0.Scale(c0).Add(p1.Scale(c1)).Add(p2.Scale(c2)).Add(p3.Scale(c3))
}
