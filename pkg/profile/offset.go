package profile

import (
	"fmt"
	"math"
)

// Offset moves every primitive of p by distance toward the point toward;
// a negative distance moves away from it. Circles and arcs grow or shrink
// concentrically (arcs keep their start angle and sweep), lines shift along
// their normal. Corners between neighbours are not trimmed or extended.
//
// Splines are not supported. An offset that collapses a radius to zero or
// below fails with ErrInvalidGeometry.
func Offset(p Profile, toward Point, distance float64) (Profile, error) {
	if !finite(distance) {
		return nil, fmt.Errorf("profile: offset by %v: %w", distance, ErrInvalidGeometry)
	}

	out := make(Profile, 0, len(p))
	for i, prim := range p {
		var (
			moved Primitive
			err   error
		)
		switch v := prim.(type) {
		case Line:
			moved, err = offsetLine(v, toward, distance)
		case Arc:
			moved, err = offsetArc(v, toward, distance)
		case Circle:
			r, rerr := offsetRadius(v.Center, v.Radius, toward, distance)
			moved, err = Circle{Center: v.Center, Radius: r}, rerr
		default:
			err = ErrUnsupportedPrimitive
		}
		if err != nil {
			return nil, &PrimitiveError{Index: i, Kind: kindOf(prim), Err: err}
		}
		out = append(out, moved)
	}
	return out, nil
}

// Offsets returns n successive offsets of p at distance, 2·distance, ...
func Offsets(p Profile, toward Point, distance float64, n int) ([]Profile, error) {
	out := make([]Profile, 0, n)
	for k := 1; k <= n; k++ {
		o, err := Offset(p, toward, distance*float64(k))
		if err != nil {
			return nil, fmt.Errorf("profile: offset %d of %d: %w", k, n, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// offsetRadius returns the radius after moving a circle of radius r by d
// toward the point t. Inside the circle "toward" means shrinking.
func offsetRadius(center Point, r float64, t Point, d float64) (float64, error) {
	inside := math.Hypot(t.X-center.X, t.Y-center.Y) < r
	nr := r + d
	if inside {
		nr = r - d
	}
	if nr <= 0 {
		return 0, fmt.Errorf("radius %v offset by %v collapses: %w", r, d, ErrInvalidGeometry)
	}
	return nr, nil
}

func offsetArc(a Arc, t Point, d float64) (Primitive, error) {
	r := a.Radius()
	nr, err := offsetRadius(a.Center, r, t, d)
	if err != nil {
		return nil, err
	}
	theta := a.StartAngle()
	return Arc{
		Center: a.Center,
		Start: Point{
			X: a.Center.X + nr*math.Cos(theta),
			Y: a.Center.Y + nr*math.Sin(theta),
			Z: a.Start.Z,
		},
		Sweep: a.Sweep,
	}, nil
}

func offsetLine(l Line, t Point, d float64) (Primitive, error) {
	dx, dy := l.End.X-l.Start.X, l.End.Y-l.Start.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil, fmt.Errorf("zero-length line has no normal: %w", ErrInvalidGeometry)
	}
	nx, ny := -dy/length, dx/length
	// Orient the normal toward t.
	if (t.X-l.Start.X)*nx+(t.Y-l.Start.Y)*ny < 0 {
		nx, ny = -nx, -ny
	}
	shift := Point{X: nx * d, Y: ny * d}
	return Line{Start: l.Start.Add(shift), End: l.End.Add(shift)}, nil
}
