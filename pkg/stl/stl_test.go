package stl

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMeshTriangulatesQuads(t *testing.T) {
	model := FromMesh("box", mesh.NewCube(2))

	assert.Equal(t, 12, model.TriangleCount())
	assert.InDelta(t, 24.0, model.SurfaceArea(), 1e-9)

	bbox := model.BoundingBox()
	assert.Equal(t, geometry.NewVector3(2, 2, 2), bbox.Size())

	// Fan triangles keep the face winding
	for _, tri := range model.Triangles {
		assert.True(t, tri.CalculateNormal().ApproxEqual(tri.Normal, 1e-12))
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	model := FromMesh("box", mesh.NewCube(1))

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, model))
	assert.Equal(t, 84+50*12, buf.Len())

	back, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "box", back.Name)
	assert.Equal(t, model.Triangles, back.Triangles)
}

func TestASCIIRoundTrip(t *testing.T) {
	model := FromMesh("box", mesh.NewCube(1))

	var buf bytes.Buffer
	require.NoError(t, WriteASCII(&buf, model))
	require.True(t, strings.HasPrefix(buf.String(), "solid box\n"))

	back, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "box", back.Name)
	assert.Equal(t, model.Triangles, back.Triangles)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.stl")
	require.NoError(t, WriteFile(path, FromMesh("box", mesh.NewCube(1)), false))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 12, model.TriangleCount())
}

func TestBadVertexIsReported(t *testing.T) {
	in := "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 nope\n"

	_, err := Read(strings.NewReader(in))
	assert.ErrorContains(t, err, "line 4")
}

func TestToMeshSharesCorners(t *testing.T) {
	m, err := FromMesh("box", mesh.NewCube(1)).ToMesh()
	require.NoError(t, err)

	assert.Equal(t, 12, m.FaceCount())
	assert.Equal(t, 36, m.VertexCount())
	assert.Len(t, m.SharedVertices(), 8)
	for _, e := range mesh.UniqueEdges(m) {
		assert.False(t, e.Boundary())
	}
}
