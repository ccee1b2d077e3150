// Package scene holds the in-memory scene model: imported geometries and
// the instancing container that references them.
package scene

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min r3.Vec `json:"min"`
	Max r3.Vec `json:"max"`
}

// EmptyBox returns a box that unions as the identity element.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to contain p.
func (b Box) Extend(p r3.Vec) Box {
	return Box{
		Min: r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Size returns the box extents per axis, or the zero vector for an empty box.
func (b Box) Size() r3.Vec {
	if b.IsEmpty() {
		return r3.Vec{}
	}
	return r3.Sub(b.Max, b.Min)
}

// Geometry is one independent mesh produced by an import.
type Geometry struct {
	Name      string   `json:"name"`
	Positions []r3.Vec `json:"-"`
	Normals   []r3.Vec `json:"-"`
	// Faces index into Positions; polygons are kept as read, not
	// triangulated.
	Faces [][]int `json:"-"`
	// Materials lists material names referenced by usemtl lines, in first
	// use order.
	Materials []string `json:"materials,omitempty"`
}

// VertexCount returns the number of positions.
func (g *Geometry) VertexCount() int { return len(g.Positions) }

// FaceCount returns the number of polygons.
func (g *Geometry) FaceCount() int { return len(g.Faces) }

// TriangleCount returns the triangle count after fan triangulation.
func (g *Geometry) TriangleCount() int {
	n := 0
	for _, f := range g.Faces {
		if len(f) >= 3 {
			n += len(f) - 2
		}
	}
	return n
}

// BoundingBox returns the box enclosing all positions.
func (g *Geometry) BoundingBox() Box {
	box := EmptyBox()
	for _, p := range g.Positions {
		box = box.Extend(p)
	}
	return box
}

// InstanceReference names a geometry that instances can point at.
type InstanceReference struct {
	Name     string
	Geometry *Geometry
}

// Instance places one reference in the scene under a transform.
type Instance struct {
	// Reference is the handle returned by AddReference.
	Reference int
	// Transform is a 4x4 homogeneous matrix.
	Transform *mat.Dense
}

// Instances is the generic instancing container: an ordered set of
// references plus the instances pointing at them by handle.
type Instances struct {
	references []InstanceReference
	instances  []Instance
}

// NewInstances returns an empty container.
func NewInstances() *Instances {
	return &Instances{}
}

// AddReference appends a reference and returns its handle.
func (s *Instances) AddReference(ref InstanceReference) int {
	s.references = append(s.references, ref)
	return len(s.references) - 1
}

// AddInstance appends an instance of the referenced geometry. The handle
// must come from AddReference on the same container.
func (s *Instances) AddInstance(handle int, transform *mat.Dense) {
	s.instances = append(s.instances, Instance{Reference: handle, Transform: transform})
}

// References returns the references in handle order.
func (s *Instances) References() []InstanceReference {
	return s.references
}

// All returns the instances in insertion order.
func (s *Instances) All() []Instance {
	return s.instances
}

// Len returns the number of instances.
func (s *Instances) Len() int {
	return len(s.instances)
}

// Reference resolves an instance's handle.
func (s *Instances) Reference(handle int) InstanceReference {
	return s.references[handle]
}

// IdentityTransform returns a fresh 4x4 identity matrix.
func IdentityTransform() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// IsIdentity reports whether m is the 4x4 identity.
func IsIdentity(m *mat.Dense) bool {
	if m == nil {
		return false
	}
	r, c := m.Dims()
	if r != 4 || c != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if m.At(i, j) != want {
				return false
			}
		}
	}
	return true
}

// Scene binds a set of instances to the file they were imported from.
type Scene struct {
	Name       string
	Source     string
	Instances  *Instances
	ImportedAt time.Time
}

// BoundingBox returns the union of all instanced geometry boxes. Transforms
// are applied to the box corners.
func (s *Scene) BoundingBox() Box {
	box := EmptyBox()
	if s.Instances == nil {
		return box
	}
	for _, inst := range s.Instances.All() {
		ref := s.Instances.Reference(inst.Reference)
		if ref.Geometry == nil {
			continue
		}
		gb := ref.Geometry.BoundingBox()
		if gb.IsEmpty() {
			continue
		}
		box = box.Union(transformBox(gb, inst.Transform))
	}
	return box
}

// ObjectNames returns the referenced geometry names in handle order.
func (s *Scene) ObjectNames() []string {
	if s.Instances == nil {
		return nil
	}
	names := make([]string, 0, len(s.Instances.References()))
	for _, ref := range s.Instances.References() {
		names = append(names, ref.Name)
	}
	return names
}

// TransformPoint applies a 4x4 homogeneous transform to a point. A nil
// or identity matrix returns the point unchanged.
func TransformPoint(m *mat.Dense, p r3.Vec) r3.Vec {
	if m == nil || IsIdentity(m) {
		return p
	}
	v := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var dst mat.VecDense
	dst.MulVec(m, v)
	return r3.Vec{X: dst.AtVec(0), Y: dst.AtVec(1), Z: dst.AtVec(2)}
}

func transformBox(b Box, m *mat.Dense) Box {
	if m == nil || IsIdentity(m) {
		return b
	}
	out := EmptyBox()
	for _, x := range []float64{b.Min.X, b.Max.X} {
		for _, y := range []float64{b.Min.Y, b.Max.Y} {
			for _, z := range []float64{b.Min.Z, b.Max.Z} {
				out = out.Extend(TransformPoint(m, r3.Vec{X: x, Y: y, Z: z}))
			}
		}
	}
	return out
}
