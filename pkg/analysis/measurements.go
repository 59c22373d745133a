package analysis

import (
	"fmt"
	"math"
	"slices"

	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/philipparndt/boxmod/pkg/stl"
)

// EdgeInfo is one logical edge of the mesh in world space
type EdgeInfo struct {
	Edge   mesh.Edge
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
	Faces  int
}

// Boundary reports whether only one face uses the edge
func (e EdgeInfo) Boundary() bool {
	return e.Faces == 1
}

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	FaceCount     int
	QuadCount     int
	VertexCount   int
	GroupCount    int
	TriangleCount int
	EdgeCount     int
	BoundaryEdges int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo
}

// Closed reports whether every edge is shared by two or more faces
func (r *MeasurementResult) Closed() bool {
	return r.EdgeCount > 0 && r.BoundaryEdges == 0
}

// AnalyzeMesh measures m in world space. The volume is only meaningful for
// closed meshes.
func AnalyzeMesh(m *mesh.Mesh) *MeasurementResult {
	model := stl.FromMesh("", m)
	result := &MeasurementResult{
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		FaceCount:     m.FaceCount(),
		VertexCount:   m.VertexCount(),
		GroupCount:    len(m.SharedVertices()),
		TriangleCount: model.TriangleCount(),
	}
	if m.FaceCount() > 0 {
		result.Dimensions = result.BoundingBox.Size()
	}

	for _, t := range model.Triangles {
		result.Volume += t.V1.Dot(t.V2.Cross(t.V3)) / 6
	}

	for _, ref := range m.FaceRefs() {
		if f, err := m.Face(ref); err == nil && f.IsQuad() {
			result.QuadCount++
		}
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, e := range mesh.UniqueEdges(m) {
		start, end := m.WorldPosition(e.Edge.A), m.WorldPosition(e.Edge.B)
		info := EdgeInfo{
			Edge:   e.Edge,
			Start:  start,
			End:    end,
			Length: start.Distance(end),
			Faces:  len(e.Faces),
		}
		result.AllEdges = append(result.AllEdges, info)
		if info.Boundary() {
			result.BoundaryEdges++
		}

		totalLength += info.Length
		minLength = math.Min(minLength, info.Length)
		maxLength = math.Max(maxLength, info.Length)
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) int { return cmpFloat(b.Length, a.Length) })
}

// FindShortestEdges returns the N shortest edges
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) int { return cmpFloat(a.Length, b.Length) })
}

func sortedEdges(result *MeasurementResult, count int, cmp func(a, b EdgeInfo) int) []EdgeInfo {
	edges := slices.Clone(result.AllEdges)
	slices.SortStableFunc(edges, cmp)
	return edges[:min(count, len(edges))]
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
