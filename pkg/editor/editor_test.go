package editor

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHands struct {
	poses map[Hand]Pose
}

func newHands() *fakeHands {
	far := geometry.NewVector3(100, 100, 100)
	return &fakeHands{poses: map[Hand]Pose{
		Left:  {Position: far},
		Right: {Position: far},
	}}
}

func (h *fakeHands) Pose(hand Hand) Pose {
	return h.poses[hand]
}

func (h *fakeHands) put(hand Hand, x, y, z float64) {
	h.poses[hand] = Pose{Position: geometry.NewVector3(x, y, z)}
}

type recorder struct {
	topology int
	moved    [][]int
}

func (r *recorder) OnMeshTopologyChanged(*mesh.Mesh) {
	r.topology++
}

func (r *recorder) OnMeshGeometryChanged(_ *mesh.Mesh, moved []int) {
	r.moved = append(r.moved, moved)
}

func newEditor(m *mesh.Mesh, opts ...Option) (*Editor, *fakeHands, *recorder) {
	hands := newHands()
	rec := &recorder{}
	opts = append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithListener(rec),
	}, opts...)
	return New(m, hands, opts...), hands, rec
}

// twoCubes returns a unit cube at the origin and a second one shifted by offset
func twoCubes(offset geometry.Vector3) *mesh.Mesh {
	s := mesh.NewCube(1).Snapshot()
	n := len(s.Positions)

	positions := slices.Clone(s.Positions)
	for _, p := range s.Positions {
		positions = append(positions, p.Add(offset))
	}
	shift := func(lists [][]int) [][]int {
		out := slices.Clone(lists)
		for _, l := range lists {
			moved := make([]int, len(l))
			for k, i := range l {
				moved[k] = i + n
			}
			out = append(out, moved)
		}
		return out
	}

	m, err := mesh.New(positions, shift(s.Faces), shift(s.SharedVertices))
	if err != nil {
		panic(err)
	}
	return m
}

func center(t *testing.T, m *mesh.Mesh, face int) geometry.Vector3 {
	t.Helper()
	c, err := m.FaceCenter(m.Ref(face))
	require.NoError(t, err)
	return c
}

func TestConstrain(t *testing.T) {
	n := geometry.NewVector3(0, 0, 1)

	got := Constrain(geometry.NewVector3(0.01, 0, 1), n, 0.025)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), got)

	free := geometry.NewVector3(0.1, 0, 1)
	assert.Equal(t, free, Constrain(free, n, 0.025))
}

func TestDragFaceAlongNormal(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, _ := newEditor(m)

	hands.put(Right, 0, 0, 0.55)
	ok, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Dragging, e.State(Right))

	// Small sideways wobble stays on the normal axis
	hands.put(Right, 0.01, 0, 0.85)
	e.Tick()

	c := center(t, m, 0)
	assert.InDelta(t, 0, c.X, 1e-12)
	assert.InDelta(t, 0.8, c.Z, 1e-9)

	// The neighbouring slots of each corner follow
	for _, i := range m.Group(0) {
		assert.InDelta(t, 0.8, m.WorldPosition(i).Z, 1e-9)
	}
	assert.Equal(t, 24, m.VertexCount())

	require.NoError(t, e.TriggerUp(Right))
	assert.Equal(t, Idle, e.State(Right))
	assert.Equal(t, 1, e.History().UndoLen())
}

func TestDragFaceBeyondThresholdMovesFreely(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, _ := newEditor(m)

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)

	hands.put(Right, 0.05, 0, 0.85)
	e.Tick()

	c := center(t, m, 0)
	assert.InDelta(t, 0.05, c.X, 1e-9)
	assert.InDelta(t, 0.8, c.Z, 1e-9)
}

func TestFramesDoNotAccumulate(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, _ := newEditor(m)

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)

	hands.put(Right, 0, 0, 0.75)
	e.Tick()
	e.Tick()
	e.Tick()

	assert.InDelta(t, 0.7, center(t, m, 0).Z, 1e-9)
}

func TestSecondTriggerIsRejected(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, _ := newEditor(m)

	hands.put(Right, 0, 0, 0.55)
	hands.put(Left, 0, 0, -0.55)
	_, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)

	_, err = e.TriggerDown(Left, ActionDragFace)
	assert.ErrorIs(t, err, ErrSessionActive)

	_, err = e.TriggerDown(Right, ActionDragFace)
	assert.ErrorIs(t, err, ErrSessionActive)

	err = e.LoopCut(mesh.Edge{A: 0, B: 1})
	assert.ErrorIs(t, err, ErrSessionActive)

	hand, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, Right, hand)
	assert.Equal(t, Idle, e.State(Left))
}

func TestMissLeavesHandIdle(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, _ := newEditor(m)

	hands.put(Right, 5, 5, 5)
	ok, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.TriggerDown(Right, ActionDragVertex)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, Idle, e.State(Right))
	assert.Equal(t, 0, e.History().UndoLen())
	assert.NoError(t, e.TriggerUp(Right))
}

func TestVertexDragMovesWholeGroup(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, rec := newEditor(m)

	hands.put(Right, 0.52, 0.52, 0.52)
	ok, err := e.TriggerDown(Right, ActionDragVertex)
	require.NoError(t, err)
	require.True(t, ok)

	hands.put(Right, 0.62, 0.72, 0.82)
	e.Tick()

	idx, _ := mesh.ClosestVertex(m, geometry.NewVector3(0.6, 0.7, 0.8))
	group := m.Group(idx)
	require.Len(t, group, 3)
	for _, i := range group {
		assert.True(t, m.WorldPosition(i).ApproxEqual(geometry.NewVector3(0.6, 0.7, 0.8), 1e-9))
	}

	// Only the dragged corner moved
	require.Len(t, rec.moved, 1)
	assert.Equal(t, group, rec.moved[0])
	assert.Equal(t, geometry.NewVector3(-0.5, -0.5, 0.5), m.WorldPosition(0))
}

func TestGeometryListenerGetsMovedSet(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, rec := newEditor(m)

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)

	hands.put(Right, 0, 0, 0.65)
	e.Tick()

	require.Len(t, rec.moved, 1)
	assert.Len(t, rec.moved[0], 12)
	assert.Equal(t, 0, rec.topology)
}

func TestShortExtrudeIsDiscarded(t *testing.T) {
	m := mesh.NewCube(1)
	before := m.Snapshot()
	e, hands, rec := newEditor(m)

	hands.put(Right, 0, 0, 0.55)
	ok, err := e.TriggerDown(Right, ActionExtrude)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 10, m.FaceCount())

	hands.put(Right, 0, 0, 0.555)
	e.Tick()
	require.NoError(t, e.TriggerUp(Right))

	assert.Equal(t, 6, m.FaceCount())
	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, 0, e.History().UndoLen())
	assert.Equal(t, 0, e.History().RedoLen())
	assert.Equal(t, 2, rec.topology)
}

func TestExtrudeKeepsWalls(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, _ := newEditor(m)

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionExtrude)
	require.NoError(t, err)

	hands.put(Right, 0, 0, 0.85)
	e.Tick()
	require.NoError(t, e.TriggerUp(Right))

	assert.Equal(t, 10, m.FaceCount())
	assert.InDelta(t, 0.801, center(t, m, 0).Z, 1e-9)
	require.NoError(t, m.Validate())

	ok, err := e.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6, m.FaceCount())
}

func TestLockedFacesExtrudeTogether(t *testing.T) {
	m := mesh.NewCube(1)
	locks := NewLocks()
	require.True(t, locks.ToggleFace(center(t, m, 2)))
	e, hands, _ := newEditor(m, WithLocks(locks))

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionExtrude)
	require.NoError(t, err)
	assert.Equal(t, 14, m.FaceCount())

	hands.put(Right, 0, 0, 0.75)
	e.Tick()
	require.NoError(t, e.TriggerUp(Right))

	// The locked +X face went out along its own normal, then followed the hand
	c := center(t, m, 2)
	assert.True(t, c.ApproxEqual(geometry.NewVector3(0.501, 0, 0.2), 1e-9), "got %v", c)

	anchors := locks.LockedFaceAnchors()
	require.Len(t, anchors, 1)
	assert.True(t, anchors[0].ApproxEqual(c, 1e-12))
}

func TestMergeOnRelease(t *testing.T) {
	// The second cube's bottom face sits at z=0.8
	m := twoCubes(geometry.NewVector3(0, 0, 1.3))
	locks := NewLocks()
	locks.ToggleVertex(geometry.NewVector3(9, 9, 9))
	e, hands, rec := newEditor(m, WithLocks(locks))

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)

	hands.put(Right, 0, 0, 0.85)
	e.Tick()
	require.NoError(t, e.TriggerUp(Right))

	assert.Equal(t, 10, m.FaceCount())
	assert.Equal(t, 1, rec.topology)
	assert.Equal(t, 0, locks.Len())
	require.NoError(t, m.Validate())

	for _, info := range mesh.UniqueEdges(m) {
		assert.False(t, info.Boundary())
	}
}

func TestMergeCanBeDisabled(t *testing.T) {
	m := twoCubes(geometry.NewVector3(0, 0, 1.3))
	s := DefaultSettings()
	s.MergeOnRelease = false
	e, hands, _ := newEditor(m, WithSettings(s))

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)
	hands.put(Right, 0, 0, 0.85)
	e.Tick()
	require.NoError(t, e.TriggerUp(Right))

	assert.Equal(t, 12, m.FaceCount())
}

func TestPlaneSnapToOtherHandFace(t *testing.T) {
	// The second cube's top face sits at z=1.2
	m := twoCubes(geometry.NewVector3(3, 0, 0.7))
	e, hands, _ := newEditor(m)

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)

	hands.put(Left, 3, 0, 1.25)
	hands.put(Right, 0, 0, 1.23)
	e.Tick()
	assert.InDelta(t, 1.2, center(t, m, 0).Z, 1e-9)

	// Out of reach the snap lets go
	hands.put(Left, 3, 0, 1.5)
	e.Tick()
	assert.InDelta(t, 1.18, center(t, m, 0).Z, 1e-9)
}

func TestUndoClearsSelection(t *testing.T) {
	m := mesh.NewCube(1)
	before := m.Snapshot()
	locks := NewLocks()
	e, hands, rec := newEditor(m, WithLocks(locks))

	hands.put(Right, 0, 0, 0.55)
	_, err := e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)
	hands.put(Right, 0, 0, 0.75)
	e.Tick()
	require.NoError(t, e.TriggerUp(Right))
	after := m.Snapshot()

	locks.ToggleFace(center(t, m, 2))
	_, err = e.TriggerDown(Right, ActionDragFace)
	require.NoError(t, err)

	// The abandoned second drag recorded a step of its own
	ok, err := e.Undo()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, Idle, e.State(Right))
	assert.Equal(t, 0, locks.Len())
	assert.Equal(t, after, m.Snapshot())
	assert.Equal(t, 1, rec.topology)

	ok, err = e.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, before, m.Snapshot())

	ok, err = e.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, after, m.Snapshot())
	assert.Equal(t, 3, rec.topology)
}

func TestLoopCutRecordsUndoOnlyOnSuccess(t *testing.T) {
	s := mesh.NewCube(1).Snapshot()
	open, err := mesh.New(s.Positions, s.Faces[1:], s.SharedVertices)
	require.NoError(t, err)
	e, _, rec := newEditor(open)

	// The ring through the bottom edge runs into the open top
	err = e.LoopCut(mesh.Edge{A: 4, B: 5})
	assert.ErrorIs(t, err, mesh.ErrTopologyPrecondition)
	assert.Equal(t, 0, e.History().UndoLen())
	assert.Equal(t, 0, rec.topology)

	cube := mesh.NewCube(1)
	e, _, rec = newEditor(cube)
	require.NoError(t, e.LoopCut(mesh.Edge{A: 0, B: 1}))
	assert.Equal(t, 10, cube.FaceCount())
	assert.Equal(t, 1, e.History().UndoLen())
	assert.Equal(t, 1, rec.topology)
}

func TestLoopCutAtHand(t *testing.T) {
	m := mesh.NewCube(1)
	e, hands, _ := newEditor(m)

	hands.put(Right, 0, -0.5, 0.52)
	ok, err := e.LoopCutAt(Right)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10, m.FaceCount())

	hands.put(Right, 5, 5, 5)
	ok, err = e.LoopCutAt(Right)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEdgeMarkers(t *testing.T) {
	m := mesh.NewCube(1)
	markers := EdgeMarkers(m)
	require.Len(t, markers, 12)

	for _, marker := range markers {
		assert.False(t, marker.Boundary)
		p := marker.Midpoint
		zeros := 0
		for _, v := range []float64{p.X, p.Y, p.Z} {
			if v == 0 {
				zeros++
			}
		}
		assert.Equal(t, 1, zeros, "midpoint %v", p)
	}

	marker, ok := ClosestEdgeMarker(m, geometry.NewVector3(0, -0.5, 0.5), 0.1)
	require.True(t, ok)
	assert.Equal(t, mesh.Edge{A: 0, B: 1}, marker.Edge)
}

func TestLocksToggle(t *testing.T) {
	l := NewLocks()
	p := geometry.NewVector3(1, 2, 3)

	assert.True(t, l.ToggleFace(p))
	assert.True(t, l.ToggleVertex(p))
	assert.Equal(t, 2, l.Len())

	assert.False(t, l.ToggleFace(p))
	assert.Equal(t, 1, l.Len())

	l.Clear()
	assert.Equal(t, 0, l.Len())
}
