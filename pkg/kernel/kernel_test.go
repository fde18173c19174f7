package kernel

import "testing"

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, -2, 0, 3, 4, 0.5, -1, 0, 2}}
	min, max := m.Bounds()
	if min != [3]float64{-1, -2, 0} {
		t.Errorf("min = %v, want [-1 -2 0]", min)
	}
	if max != [3]float64{3, 4, 2} {
		t.Errorf("max = %v, want [3 4 2]", max)
	}

	min, max = (&Mesh{}).Bounds()
	if min != ([3]float64{}) || max != ([3]float64{}) {
		t.Errorf("empty mesh bounds = %v %v, want zeros", min, max)
	}
}

// --- Compile-time interface check with a stub kernel ---

type stubRegion struct {
	min, max [2]float64
}

func (r *stubRegion) Bounds() (min, max [2]float64) { return r.min, r.max }

type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel proves the interface is satisfiable. Regions carry bounds
// only.
type stubKernel struct{}

func (k *stubKernel) Polygon(vertices [][2]float64) (Region, error) {
	if len(vertices) < 3 {
		return nil, ErrDegenerate
	}
	r := &stubRegion{min: vertices[0], max: vertices[0]}
	for _, v := range vertices[1:] {
		for i := range v {
			if v[i] < r.min[i] {
				r.min[i] = v[i]
			}
			if v[i] > r.max[i] {
				r.max[i] = v[i]
			}
		}
	}
	return r, nil
}

func (k *stubKernel) Disc(cx, cy, radius float64) (Region, error) {
	if radius <= 0 {
		return nil, ErrDegenerate
	}
	return &stubRegion{min: [2]float64{cx - radius, cy - radius}, max: [2]float64{cx + radius, cy + radius}}, nil
}

func (k *stubKernel) Union(a, _ Region) Region      { return a }
func (k *stubKernel) Difference(a, _ Region) Region { return a }

func (k *stubKernel) Extrude(r Region, height float64) (Solid, error) {
	min, max := r.Bounds()
	return &stubSolid{
		minBB: [3]float64{min[0], min[1], 0},
		maxBB: [3]float64{max[0], max[1], height},
	}, nil
}

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Region = (*stubRegion)(nil)
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelExtrudeBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	r, err := k.Polygon([][2]float64{{0, 0}, {10, 0}, {10, 20}})
	if err != nil {
		t.Fatalf("Polygon() error = %v", err)
	}
	s, err := k.Extrude(r, 30)
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("max = %v, want [10 20 30]", max)
	}
}

func TestStubKernelDegenerate(t *testing.T) {
	var k Kernel = &stubKernel{}
	if _, err := k.Polygon([][2]float64{{0, 0}, {1, 1}}); err != ErrDegenerate {
		t.Errorf("Polygon() error = %v, want ErrDegenerate", err)
	}
	if _, err := k.Disc(0, 0, 0); err != ErrDegenerate {
		t.Errorf("Disc() error = %v, want ErrDegenerate", err)
	}
}
