package profile

import (
	"fmt"
	"math"
)

// Scale returns a new profile with every primitive scaled about the origin
// by factor and then translated by offset. Only x and y are transformed; z
// is carried unchanged. Arc start points keep their original polar angle
// about the center and only their radial distance is rescaled. Sweeps are
// unchanged.
//
// factor must be positive and finite, otherwise ErrInvalidScaleFactor.
func Scale(p Profile, factor float64, offset Point) (Profile, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("profile: scale by %v: %w", factor, ErrInvalidScaleFactor)
	}

	tr := func(pt Point) Point {
		return Point{
			X: pt.X*factor + offset.X,
			Y: pt.Y*factor + offset.Y,
			Z: pt.Z,
		}
	}

	out := make(Profile, 0, len(p))
	for i, prim := range p {
		switch v := prim.(type) {
		case Line:
			out = append(out, Line{Start: tr(v.Start), End: tr(v.End)})
		case Circle:
			out = append(out, Circle{Center: tr(v.Center), Radius: v.Radius * factor})
		case Arc:
			r := v.Radius() * factor
			theta := v.StartAngle()
			c := tr(v.Center)
			out = append(out, Arc{
				Center: c,
				Start: Point{
					X: c.X + r*math.Cos(theta),
					Y: c.Y + r*math.Sin(theta),
					Z: v.Start.Z,
				},
				Sweep: v.Sweep,
			})
		case Spline:
			pts := make([]Point, len(v.FitPoints))
			for j, fp := range v.FitPoints {
				pts[j] = tr(fp)
			}
			out = append(out, Spline{FitPoints: pts})
		default:
			return nil, &PrimitiveError{Index: i, Kind: kindOf(prim), Err: ErrUnsupportedPrimitive}
		}
	}
	return out, nil
}
