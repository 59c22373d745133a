package analysis

import (
	"testing"

	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCube(t *testing.T) {
	r := AnalyzeMesh(mesh.NewCube(2))

	assert.Equal(t, 6, r.FaceCount)
	assert.Equal(t, 6, r.QuadCount)
	assert.Equal(t, 24, r.VertexCount)
	assert.Equal(t, 8, r.GroupCount)
	assert.Equal(t, 12, r.TriangleCount)
	assert.Equal(t, 12, r.EdgeCount)
	assert.True(t, r.Closed())

	assert.InDelta(t, 8.0, r.Volume, 1e-9)
	assert.InDelta(t, 24.0, r.SurfaceArea, 1e-9)
	assert.Equal(t, geometry.NewVector3(2, 2, 2), r.Dimensions)
	assert.InDelta(t, 2.0, r.MinEdgeLength, 1e-12)
	assert.InDelta(t, 2.0, r.AvgEdgeLength, 1e-12)
}

func TestAnalyzeExtrudedCube(t *testing.T) {
	m := mesh.NewCube(1)
	_, err := mesh.Extrude(m, []mesh.FaceRef{m.Ref(0)}, 0.5)
	require.NoError(t, err)

	r := AnalyzeMesh(m)
	assert.Equal(t, 10, r.FaceCount)
	assert.Equal(t, 20, r.EdgeCount)
	assert.True(t, r.Closed())
	assert.InDelta(t, 1.5, r.Volume, 1e-9)

	shortest := FindShortestEdges(r, 4)
	require.Len(t, shortest, 4)
	for _, e := range shortest {
		assert.InDelta(t, 0.5, e.Length, 1e-12)
	}
	assert.InDelta(t, 1.0, FindLongestEdges(r, 1)[0].Length, 1e-12)
	assert.Len(t, FindEdgesByLength(r, 0.9, 1.1), 16)
}

func TestAnalyzeOpenMesh(t *testing.T) {
	s := mesh.NewCube(1).Snapshot()
	m, err := mesh.New(s.Positions, s.Faces[1:], s.SharedVertices)
	require.NoError(t, err)

	r := AnalyzeMesh(m)
	assert.Equal(t, 4, r.BoundaryEdges)
	assert.False(t, r.Closed())
}

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "(1.000000, -2.500000, 0.000000)", FormatVector(geometry.NewVector3(1, -2.5, 0)))
	assert.Equal(t, "1.500000 mm", FormatMeasurement(1.5, "mm"))
	assert.Equal(t, "1.500000 units", FormatMeasurement(1.5, ""))
}
