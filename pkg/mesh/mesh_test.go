package mesh

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requirePartition checks that every vertex sits in exactly one shared group
func requirePartition(t *testing.T, m *Mesh) {
	t.Helper()
	require.NoError(t, m.Validate())

	var all []int
	for _, g := range m.SharedVertices() {
		all = append(all, g...)
	}
	slices.Sort(all)
	require.Len(t, all, m.VertexCount())
	for i, v := range all {
		require.Equal(t, i, v, "shared groups must cover every vertex once")
	}
}

// openBox returns a cube without its +Z face
func openBox() *Mesh {
	s := NewCube(1).Snapshot()
	s.Faces = s.Faces[1:]
	s = compact(s)
	m, err := New(s.Positions, s.Faces, s.SharedVertices)
	if err != nil {
		panic(err)
	}
	return m
}

func TestCubeLayout(t *testing.T) {
	m := NewCube(1)

	assert.Equal(t, 24, m.VertexCount())
	assert.Equal(t, 6, m.FaceCount())
	assert.Len(t, m.SharedVertices(), 8)
	requirePartition(t, m)

	for _, g := range m.SharedVertices() {
		assert.Len(t, g, 3)
	}
}

func TestCubeNormalsPointOutward(t *testing.T) {
	m := NewCube(2)

	for _, ref := range m.FaceRefs() {
		c, err := m.FaceCenter(ref)
		require.NoError(t, err)
		n, err := m.FaceNormal(ref)
		require.NoError(t, err)

		if !n.ApproxEqual(c.Normalize(), 1e-12) {
			t.Errorf("Face %d normal %v does not point away from the center %v", ref.Index, n, c)
		}
	}
}

func TestFaceEdgesWrap(t *testing.T) {
	f := NewFace(4, 5, 6, 7)
	want := []Edge{{4, 5}, {5, 6}, {6, 7}, {7, 4}}

	assert.Equal(t, want, f.Edges())
	assert.Equal(t, []int{1, 2, 3}, NewFace(1, 2, 2, 3).DistinctIndexes())
}

func TestRebuildIsIdempotent(t *testing.T) {
	m := NewCube(1)
	m.SetPosition(0, geometry.NewVector3(-0.7, -0.5, 0.5))
	m.Rebuild()

	var centers, normals []geometry.Vector3
	for _, ref := range m.FaceRefs() {
		c, _ := m.FaceCenter(ref)
		n, _ := m.FaceNormal(ref)
		centers = append(centers, c)
		normals = append(normals, n)
	}

	gen := m.Generation()
	m.Rebuild()

	assert.Equal(t, gen, m.Generation())
	for i, ref := range m.FaceRefs() {
		c, _ := m.FaceCenter(ref)
		n, _ := m.FaceNormal(ref)
		assert.Equal(t, centers[i], c)
		assert.Equal(t, normals[i], n)
	}
}

func TestReadsAreStaleUntilRebuild(t *testing.T) {
	m := NewCube(1)
	ref := m.Ref(0)
	before, err := m.FaceCenter(ref)
	require.NoError(t, err)

	for _, i := range m.faces[0].Indexes {
		m.SetPosition(i, m.Position(i).Add(geometry.NewVector3(0, 0, 1)))
	}

	require.True(t, m.Dirty())
	stale, err := m.FaceCenter(ref)
	require.NoError(t, err)
	assert.Equal(t, before, stale, "derived data must not change before Rebuild")

	m.Rebuild()

	require.False(t, m.Dirty())
	after, err := m.FaceCenter(ref)
	require.NoError(t, err)
	assert.InDelta(t, before.Z+1, after.Z, 1e-12)
}

func TestPositionEditsKeepGeneration(t *testing.T) {
	m := NewCube(1)
	ref := m.Ref(2)

	m.SetPosition(0, geometry.NewVector3(0, 0, 0))
	m.Rebuild()

	_, err := m.FaceCenter(ref)
	assert.NoError(t, err)
}

func TestSetSharedVerticesRejectsBrokenPartition(t *testing.T) {
	m := NewCube(1)
	groups := m.SharedVertices()
	groups[0] = append(groups[0], groups[1][0])

	err := m.SetSharedVertices(groups)
	assert.Error(t, err)
	assert.False(t, m.Dirty())
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	m := NewCube(1)
	snap := m.Snapshot()

	snap.Positions[0] = geometry.NewVector3(9, 9, 9)
	snap.Faces[0][0] = 5
	snap.SharedVertices[0][0] = 7

	assert.NotEqual(t, geometry.NewVector3(9, 9, 9), m.Position(0))
	face, err := m.Face(m.Ref(0))
	require.NoError(t, err)
	assert.Equal(t, 0, face.Indexes[0])
	assert.Equal(t, 0, m.SharedVertices()[0][0])
}

func TestWorldTransformApplies(t *testing.T) {
	m := NewCube(1)
	m.SetTransform(geometry.NewTransform(
		geometry.NewVector3(0, 5, 0),
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
		geometry.NewVector3(1, 1, 1),
	))
	m.Rebuild()

	// +Z face turns to +X after a quarter turn around Y
	n, err := m.WorldNormal(m.Ref(0))
	require.NoError(t, err)
	assert.True(t, n.ApproxEqual(geometry.NewVector3(1, 0, 0), 1e-12), "got %v", n)

	c, err := m.FaceCenter(m.Ref(0))
	require.NoError(t, err)
	assert.True(t, c.ApproxEqual(geometry.NewVector3(0.5, 5, 0), 1e-12), "got %v", c)
}

func TestClosestFace(t *testing.T) {
	m := NewCube(1)

	ref, ok := ClosestFace(m, geometry.NewVector3(0, 0, 0.6), 0.2)
	require.True(t, ok)
	assert.Equal(t, 0, ref.Index)

	_, ok = ClosestFace(m, geometry.NewVector3(0, 0, 2), 0.2)
	assert.False(t, ok)
}

func TestClosestFaceTieGoesToLowestIndex(t *testing.T) {
	m := NewCube(1)

	// Equidistant from the +Z (0) and +X (2) face centers
	ref, ok := ClosestFace(m, geometry.NewVector3(0.5, 0, 0.5), 1)
	require.True(t, ok)
	assert.Equal(t, 0, ref.Index)
}

func TestClosestVertexHasNoCutoff(t *testing.T) {
	m := NewCube(1)

	i, ok := ClosestVertex(m, geometry.NewVector3(100, 100, 100))
	require.True(t, ok)
	assert.Equal(t, geometry.NewVector3(0.5, 0.5, 0.5), m.WorldPosition(i))

	// All three slots of the corner tie; the lowest index wins
	assert.Equal(t, m.Group(i)[0], i)
}

func TestCoincidentVertices(t *testing.T) {
	m := NewCube(1)

	got := CoincidentVertices(m, 0, 1e-4)
	assert.Equal(t, m.Group(0), got)
}

func TestShortestAndLongestEdge(t *testing.T) {
	m := NewCube(1)
	m.SetPosition(1, geometry.NewVector3(1.5, -0.5, 0.5))
	m.Rebuild()

	e, l, err := LongestEdge(m, m.Ref(0))
	require.NoError(t, err)
	assert.Equal(t, Edge{0, 1}, e)
	assert.InDelta(t, 2.0, l, 1e-12)

	_, l, err = ShortestEdge(m, m.Ref(0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, l, 1e-12)
}

func TestUniqueEdgesOfCube(t *testing.T) {
	edges := UniqueEdges(NewCube(1))

	assert.Len(t, edges, 12)
	for _, e := range edges {
		assert.False(t, e.Boundary())
		assert.Len(t, e.Faces, 2)
	}
}

func TestEdgeRingAroundCube(t *testing.T) {
	m := NewCube(1)

	ring, err := EdgeRing(m, Edge{0, 1})
	require.NoError(t, err)
	require.Len(t, ring, 4)
	assert.Equal(t, Edge{0, 1}, ring[0])

	// Every ring edge runs along X
	for _, e := range ring {
		d := m.WorldPosition(e.B).Sub(m.WorldPosition(e.A))
		assert.InDelta(t, 1.0, math.Abs(d.X), 1e-12)
	}
}

func TestEdgeRingStopsAtBoundary(t *testing.T) {
	m := openBox()

	seed := bottomFrontEdge(m)

	ring, err := EdgeRing(m, seed)
	require.NoError(t, err)
	require.Len(t, ring, 4)
	assert.Equal(t, seed, ring[1])

	// Both ends stop at the open rim
	for _, e := range []Edge{ring[0], ring[3]} {
		assert.Equal(t, 0.5, m.WorldPosition(e.A).Z)
		assert.Equal(t, 0.5, m.WorldPosition(e.B).Z)
	}
}

// bottomFrontEdge finds the X-aligned edge at y=-0.5, z=-0.5
func bottomFrontEdge(m *Mesh) Edge {
	for _, info := range UniqueEdges(m) {
		a, b := m.WorldPosition(info.Edge.A), m.WorldPosition(info.Edge.B)
		if a.Y == -0.5 && b.Y == -0.5 && a.Z == -0.5 && b.Z == -0.5 {
			return info.Edge
		}
	}
	panic("no bottom front edge")
}

func TestEdgeRingUnknownSeed(t *testing.T) {
	m := NewCube(1)

	_, err := EdgeRing(m, Edge{0, 2})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = EdgeRing(m, Edge{0, 99})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestExtrudeSingleFace(t *testing.T) {
	m := NewCube(1)
	old := m.Ref(0)

	refs, err := Extrude(m, []FaceRef{old}, 0.5)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	requirePartition(t, m)

	assert.Equal(t, 10, m.FaceCount())
	assert.Equal(t, 24+16, m.VertexCount())
	assert.Len(t, m.SharedVertices(), 12)

	c, err := m.FaceCenter(refs[0])
	require.NoError(t, err)
	assert.True(t, c.ApproxEqual(geometry.NewVector3(0, 0, 1), 1e-12), "got %v", c)

	_, err = m.FaceCenter(old)
	assert.ErrorIs(t, err, ErrStaleReference)
}

func TestExtrudeWallsFaceOutward(t *testing.T) {
	m := NewCube(1)
	_, err := Extrude(m, []FaceRef{m.Ref(0)}, 1)
	require.NoError(t, err)

	for _, ref := range m.FaceRefs()[6:] {
		c, _ := m.FaceCenter(ref)
		n, _ := m.FaceNormal(ref)
		radial := geometry.NewVector3(c.X, c.Y, 0).Normalize()
		assert.True(t, n.ApproxEqual(radial, 1e-12), "wall %d normal %v, want %v", ref.Index, n, radial)
	}
}

func TestExtrudeBatch(t *testing.T) {
	m := NewCube(1)

	refs, err := Extrude(m, []FaceRef{m.Ref(0), m.Ref(2), m.Ref(0)}, 0.25)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	requirePartition(t, m)
	assert.Equal(t, 14, m.FaceCount())

	n, _ := m.FaceNormal(refs[1])
	c, _ := m.FaceCenter(refs[1])
	assert.True(t, c.ApproxEqual(n.Mul(0.75), 1e-12), "got %v", c)
}

func TestExtrudeStaleRefLeavesMesh(t *testing.T) {
	m := NewCube(1)
	stale := m.Ref(0)
	_, err := Extrude(m, []FaceRef{stale}, 0.1)
	require.NoError(t, err)
	before := m.Snapshot()

	_, err = Extrude(m, []FaceRef{m.Ref(1), stale}, 0.1)
	assert.ErrorIs(t, err, ErrStaleReference)
	assert.Equal(t, before, m.Snapshot())
}

func TestConnectLoopCut(t *testing.T) {
	m := NewCube(1)

	require.NoError(t, LoopCut(m, Edge{0, 1}))
	requirePartition(t, m)

	assert.Equal(t, 10, m.FaceCount())
	assert.Equal(t, 24+16, m.VertexCount())
	assert.Len(t, m.SharedVertices(), 12)

	// Each new corner sits at x=0 and is shared by the four slots around it
	for _, g := range m.SharedVertices()[8:] {
		assert.Len(t, g, 4)
		for _, i := range g {
			assert.InDelta(t, 0.0, m.WorldPosition(i).X, 1e-12)
		}
	}
	assert.Len(t, UniqueEdges(m), 20)
}

func TestConnectOnBoundaryFails(t *testing.T) {
	m := openBox()
	before := m.Snapshot()
	gen := m.Generation()

	var seed Edge
	for _, info := range UniqueEdges(m) {
		if info.Boundary() {
			seed = info.Edge
			break
		}
	}

	err := Connect(m, []Edge{seed})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTopologyPrecondition)

	var topoErr *TopologyError
	require.True(t, errors.As(err, &topoErr))
	assert.Equal(t, "connect", topoErr.Op)

	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, gen, m.Generation())
}

func TestConnectOpenRingFails(t *testing.T) {
	m := openBox()
	before := m.Snapshot()

	// The ring ends on the open rim
	err := LoopCut(m, bottomFrontEdge(m))
	assert.ErrorIs(t, err, ErrTopologyPrecondition)
	assert.Equal(t, before, m.Snapshot())
}

func TestConnectRejectsNonQuad(t *testing.T) {
	positions := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(0, -1, 0),
	}
	m, err := New(positions, [][]int{{0, 1, 2}, {3, 4, 5}}, [][]int{{0, 4}, {1, 3}, {2}, {5}})
	require.NoError(t, err)

	err = Connect(m, []Edge{{0, 1}})
	assert.ErrorIs(t, err, ErrTopologyPrecondition)
}

// stackedCubes returns two unit cubes, the second one shifted along Z so
// its -Z face lies on the first one's +Z face.
func stackedCubes(shift float64) *Mesh {
	a := NewCube(1).Snapshot()
	b := NewCube(1).Snapshot()
	n := len(a.Positions)

	s := a
	for _, p := range b.Positions {
		s.Positions = append(s.Positions, p.Add(geometry.NewVector3(0, 0, shift)))
	}
	for _, f := range b.Faces {
		g := make([]int, len(f))
		for k, i := range f {
			g[k] = i + n
		}
		s.Faces = append(s.Faces, g)
	}
	for _, grp := range b.SharedVertices {
		g := make([]int, len(grp))
		for k, i := range grp {
			g[k] = i + n
		}
		s.SharedVertices = append(s.SharedVertices, g)
	}

	m, err := New(s.Positions, s.Faces, s.SharedVertices)
	if err != nil {
		panic(err)
	}
	return m
}

func TestWeldMergesCoincidentFaces(t *testing.T) {
	m := stackedCubes(1)
	// Nudge each corner of the upper cube's bottom face by less than 1e-4
	for k, i := range m.faces[7].Indexes {
		d := 0.00005 * float64(k%2*2-1)
		m.SetPosition(i, m.Position(i).Add(geometry.NewVector3(d, d, d)))
	}
	m.Rebuild()

	merged, err := WeldAndMerge(m, m.Ref(0), m.Ref(7), 0.001)
	require.NoError(t, err)
	require.True(t, merged)
	requirePartition(t, m)

	assert.Equal(t, 10, m.FaceCount())
	assert.Equal(t, 40, m.VertexCount())
	assert.Len(t, m.SharedVertices(), 12)
	for _, info := range UniqueEdges(m) {
		assert.False(t, info.Boundary(), "merged solid must stay closed")
	}
}

func TestWeldRejectsOneFarCorner(t *testing.T) {
	m := stackedCubes(1)
	i := m.faces[7].Indexes[2]
	m.SetPosition(i, m.Position(i).Add(geometry.NewVector3(0.02, 0, 0)))
	m.Rebuild()
	before := m.Snapshot()

	merged, err := WeldAndMerge(m, m.Ref(0), m.Ref(7), 0.001)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, before, m.Snapshot())
}

func TestWeldNeedsEqualCornerCounts(t *testing.T) {
	m := stackedCubes(1)
	_, ok, err := MatchFaces(m, m.Ref(0), m.Ref(0), 1)
	require.NoError(t, err)
	assert.False(t, ok, "a face never merges with itself")

	// Faces far apart share no corners
	_, ok, err = MatchFaces(m, m.Ref(0), m.Ref(1), 0.001)
	require.NoError(t, err)
	assert.False(t, ok)

	// A quad and a triangle lying on three of its corners
	positions := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, 0), geometry.NewVector3(0, 1, 0),
		geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, 0),
	}
	m, err = New(positions, [][]int{{0, 1, 2, 3}, {4, 5, 6}}, nil)
	require.NoError(t, err)
	before := m.Snapshot()

	_, ok, err = MatchFaces(m, m.Ref(0), m.Ref(1), 0.001)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = MatchFaces(m, m.Ref(1), m.Ref(0), 0.001)
	require.NoError(t, err)
	assert.False(t, ok)

	merged, err := WeldAndMerge(m, m.Ref(0), m.Ref(1), 0.001)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, before, m.Snapshot())
}

func TestMergeCoincidentFaces(t *testing.T) {
	m := stackedCubes(1)

	n, err := MergeCoincidentFaces(m, 0.001)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	requirePartition(t, m)

	n, err = MergeCoincidentFaces(m, 0.001)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMergeSeparatedCubesIsNoop(t *testing.T) {
	m := stackedCubes(1.5)

	n, err := MergeCoincidentFaces(m, 0.001)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 12, m.FaceCount())
}

func TestTopologyChangesInvalidateRefs(t *testing.T) {
	ops := map[string]func(m *Mesh) error{
		"extrude": func(m *Mesh) error {
			_, err := Extrude(m, []FaceRef{m.Ref(0)}, 0.25)
			return err
		},
		"connect": func(m *Mesh) error {
			ring, err := EdgeRing(m, Edge{0, 1})
			if err != nil {
				return err
			}
			return Connect(m, ring)
		},
		"loop cut": func(m *Mesh) error {
			return LoopCut(m, Edge{0, 1})
		},
		"weld": func(m *Mesh) error {
			merged, err := WeldAndMerge(m, m.Ref(0), m.Ref(7), 0.001)
			if err == nil && !merged {
				return errors.New("faces did not merge")
			}
			return err
		},
		"merge pass": func(m *Mesh) error {
			_, err := MergeCoincidentFaces(m, 0.001)
			return err
		},
	}

	for name, op := range ops {
		m := stackedCubes(1)
		refs := m.FaceRefs()
		require.NoError(t, op(m), name)

		for _, ref := range refs {
			_, err := m.FaceCenter(ref)
			assert.ErrorIs(t, err, ErrStaleReference, "%s: face %d", name, ref.Index)
			_, err = m.Face(ref)
			assert.ErrorIs(t, err, ErrStaleReference, "%s: face %d", name, ref.Index)
		}
		_, err := m.FaceCenter(m.Ref(0))
		assert.NoError(t, err, name)
	}
}

func TestRestoreInvalidatesRefs(t *testing.T) {
	m := NewCube(1)
	snap := m.Snapshot()
	ref := m.Ref(0)

	require.NoError(t, m.Restore(snap))
	_, err := m.FaceNormal(ref)
	assert.ErrorIs(t, err, ErrStaleReference)
}
