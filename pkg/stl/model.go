package stl

import (
	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
)

// Model is a flat triangle soup as stored in STL files
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates an empty model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// FromMesh triangulates every face of m as a fan in world space. Faces
// with fewer than three distinct corners are skipped.
func FromMesh(name string, m *mesh.Mesh) *Model {
	model := NewModel(name)
	for _, ref := range m.FaceRefs() {
		face, err := m.Face(ref)
		if err != nil || len(face.DistinctIndexes()) < 3 {
			continue
		}
		normal, _ := m.WorldNormal(ref)
		first := m.WorldPosition(face.Indexes[0])
		for k := 1; k+1 < len(face.Indexes); k++ {
			b := m.WorldPosition(face.Indexes[k])
			c := m.WorldPosition(face.Indexes[k+1])
			if first == b || b == c || c == first {
				continue
			}
			model.AddTriangle(geometry.NewTriangle(normal, first, b, c))
		}
	}
	return model
}

// ToMesh turns every triangle into a face with its own three vertex slots.
// Slots at the same position share a group, so the result edits like a
// welded surface.
func (m *Model) ToMesh() (*mesh.Mesh, error) {
	positions := make([]geometry.Vector3, 0, 3*len(m.Triangles))
	faces := make([][]int, 0, len(m.Triangles))
	groupAt := make(map[geometry.Vector3]int)
	var groups [][]int

	for _, t := range m.Triangles {
		face := make([]int, 3)
		for k, p := range []geometry.Vector3{t.V1, t.V2, t.V3} {
			i := len(positions)
			positions = append(positions, p)
			face[k] = i

			g, ok := groupAt[p]
			if !ok {
				g = len(groups)
				groupAt[p] = g
				groups = append(groups, nil)
			}
			groups[g] = append(groups[g], i)
		}
		faces = append(faces, face)
	}
	return mesh.New(positions, faces, groups)
}
