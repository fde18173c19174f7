// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/chazu/flexure/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution along
// the longest bounding box axis.
const DefaultMeshCells = 200

type sdfxRegion struct {
	s sdf.SDF2
}

func (r *sdfxRegion) Bounds() (min, max [2]float64) {
	bb := r.s.BoundingBox()
	return [2]float64{bb.Min.X, bb.Min.Y}, [2]float64{bb.Max.X, bb.Max.Y}
}

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution. Values below 1 are
// ignored.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// MeshCells returns the marching cubes resolution.
func (k *SdfxKernel) MeshCells() int { return k.cells }

func unwrapRegion(r kernel.Region) sdf.SDF2 {
	return r.(*sdfxRegion).s
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Polygon builds the region enclosed by a closed polyline. The closing
// edge from the last vertex back to the first is implied.
func (k *SdfxKernel) Polygon(vertices [][2]float64) (kernel.Region, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: polygon with %d vertices", kernel.ErrDegenerate, len(vertices))
	}
	pts := make([]v2.Vec, len(vertices))
	for i, v := range vertices {
		pts[i] = v2.Vec{X: v[0], Y: v[1]}
	}
	s, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return &sdfxRegion{s: s}, nil
}

// Disc builds a filled circle.
func (k *SdfxKernel) Disc(cx, cy, radius float64) (kernel.Region, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: disc radius %v", kernel.ErrDegenerate, radius)
	}
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Circle2D: %w", err)
	}
	if cx != 0 || cy != 0 {
		s = sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: cx, Y: cy}))
	}
	return &sdfxRegion{s: s}, nil
}

// Union returns the union of two regions.
func (k *SdfxKernel) Union(a, b kernel.Region) kernel.Region {
	return &sdfxRegion{s: sdf.Union2D(unwrapRegion(a), unwrapRegion(b))}
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Region) kernel.Region {
	return &sdfxRegion{s: sdf.Difference2D(unwrapRegion(a), unwrapRegion(b))}
}

// Extrude lifts r into a prism spanning z=0 to z=height.
// sdf.Extrude3D centers the prism on z=0, so the result is shifted up.
func (k *SdfxKernel) Extrude(r kernel.Region, height float64) (kernel.Solid, error) {
	if !(height > 0) {
		return nil, fmt.Errorf("%w: extrusion height %v", kernel.ErrDegenerate, height)
	}
	s := sdf.Extrude3D(unwrapRegion(r), height)
	return wrap(sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2}))), nil
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numVerts := len(triangles) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
