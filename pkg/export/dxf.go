package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"github.com/chazu/flexure/pkg/profile"
	"github.com/chazu/flexure/pkg/tessellate"
)

// WriteDXF writes p to a DXF file at path. Lines, arcs and circles map to
// the matching DXF entities; arcs run counter-clockwise from their start
// angle in degrees. Splines are written as the line segments of their
// flattened polyline.
func WriteDXF(path string, p profile.Profile, opts Options) error {
	opts = opts.normalized()
	if err := checkPrimitives(p); err != nil {
		return fmt.Errorf("export: dxf: %w", err)
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(opts.Layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("export: dxf: layer %q: %w", opts.Layer, err)
	}

	for i, prim := range p {
		var err error
		switch v := prim.(type) {
		case profile.Line:
			_, err = d.Line(v.Start.X, v.Start.Y, v.Start.Z, v.End.X, v.End.Y, v.End.Z)
		case profile.Arc:
			start := degrees(v.StartAngle())
			_, err = d.Arc(v.Center.X, v.Center.Y, v.Center.Z, v.Radius(), start, start+degrees(v.Sweep))
		case profile.Circle:
			_, err = d.Circle(v.Center.X, v.Center.Y, v.Center.Z, v.Radius)
		case profile.Spline:
			pts := tessellate.Flatten(v, opts.Tessellation)
			for j := 1; j < len(pts) && err == nil; j++ {
				a, b := pts[j-1], pts[j]
				_, err = d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z)
			}
		}
		if err != nil {
			return fmt.Errorf("export: dxf: %w", &profile.PrimitiveError{Index: i, Kind: prim.Kind(), Err: err})
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export: dxf: save %s: %w", path, err)
	}
	return nil
}
