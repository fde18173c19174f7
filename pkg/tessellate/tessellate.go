package tessellate

import (
	"fmt"
	"sort"

	"github.com/chazu/flexure/pkg/kernel"
	"github.com/chazu/flexure/pkg/profile"
)

// Tessellate extrudes the closed loops of p by thickness and returns the
// resulting triangle mesh named name. Loops nested inside an odd number of
// other loops are cut out as holes. Open chains are ignored; a profile
// without any closed loop is rejected.
//
// The solid sits on the sketch plane of the first closed loop. The
// tessellator is read-only and never mutates p.
func Tessellate(name string, p profile.Profile, k kernel.Kernel, thickness float64, opts Options) (*kernel.Mesh, error) {
	var closed []Loop
	for _, l := range Loops(p, opts) {
		if l.Closed {
			closed = append(closed, l)
		}
	}
	if len(closed) == 0 {
		return nil, fmt.Errorf("tessellate: %s: no closed loops: %w", name, profile.ErrEmptyOrDegenerateProfile)
	}

	region, err := buildRegion(k, closed)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", name, err)
	}
	solid, err := k.Extrude(region, thickness)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", name, err)
	}
	if z := closed[0].Points[0].Z; z != 0 {
		solid = k.Translate(solid, 0, 0, z)
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", name, err)
	}
	mesh.Name = name
	return mesh, nil
}

// buildRegion combines loops by nesting depth: even depths are added,
// odd depths subtracted. Shallow loops are applied first so a hole is
// always cut from the region that surrounds it.
func buildRegion(k kernel.Kernel, loops []Loop) (kernel.Region, error) {
	depth := make([]int, len(loops))
	for i, l := range loops {
		x, y := l.Points[0].X, l.Points[0].Y
		for j, other := range loops {
			if i != j && other.contains(x, y) {
				depth[i]++
			}
		}
	}
	order := make([]int, len(loops))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return depth[order[a]] < depth[order[b]] })

	var out kernel.Region
	for _, i := range order {
		r, err := loopRegion(k, loops[i])
		if err != nil {
			return nil, fmt.Errorf("loop of primitives %v: %w", loops[i].Primitives, err)
		}
		switch {
		case out == nil:
			out = r
		case depth[i]%2 == 0:
			out = k.Union(out, r)
		default:
			out = k.Difference(out, r)
		}
	}
	return out, nil
}

func loopRegion(k kernel.Kernel, l Loop) (kernel.Region, error) {
	if l.disc != nil {
		return k.Disc(l.disc.Center.X, l.disc.Center.Y, l.disc.Radius)
	}
	verts := make([][2]float64, len(l.Points))
	for i, p := range l.Points {
		verts[i] = [2]float64{p.X, p.Y}
	}
	return k.Polygon(verts)
}
