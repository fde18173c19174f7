// Package kernel defines the abstract geometry kernel interface.
// A kernel builds planar regions from closed loops, extrudes them into
// solids and renders solids to triangle meshes. The abstraction allows
// swapping backends without changing the rest of the system.
package kernel

import "errors"

// ErrDegenerate reports a region that cannot be built, such as a polygon
// with fewer than three vertices or a disc with a non-positive radius.
var ErrDegenerate = errors.New("kernel: degenerate region")

// Region is an opaque handle to a planar region in the XY plane.
type Region interface {
	// Bounds returns the axis-aligned bounding rectangle.
	Bounds() (min, max [2]float64)
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Regions
	Polygon(vertices [][2]float64) (Region, error)
	Disc(cx, cy, radius float64) (Region, error)

	// Boolean operations on regions
	Union(a, b Region) Region
	Difference(a, b Region) Region

	// Solids
	Extrude(r Region, height float64) (Solid, error) // from z=0 to z=height
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
