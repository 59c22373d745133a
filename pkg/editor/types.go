package editor

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
)

// ErrSessionActive is returned when a hand triggers while another session
// is still running on the mesh.
var ErrSessionActive = errors.New("an edit session is already active")

// Hand identifies a controller
type Hand int

const (
	Left Hand = iota
	Right
)

func (h Hand) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

// Other returns the opposite hand
func (h Hand) Other() Hand {
	if h == Left {
		return Right
	}
	return Left
}

// Action is what a trigger press does with the element under the hand
type Action int

const (
	ActionDragFace Action = iota
	ActionDragVertex
	ActionExtrude
)

func (a Action) String() string {
	switch a {
	case ActionDragFace:
		return "drag-face"
	case ActionDragVertex:
		return "drag-vertex"
	case ActionExtrude:
		return "extrude"
	}
	return "unknown"
}

// State of one hand's session
type State int

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	}
	return "idle"
}

// Pose is a controller position and orientation in world space
type Pose struct {
	Position geometry.Vector3
	Rotation mgl64.Quat
}

// Controllers samples hand poses. It is read once per frame while dragging.
type Controllers interface {
	Pose(hand Hand) Pose
}

// LockSource exposes the locked faces and vertices that move along with a
// drag. Anchors are world points; the editor resolves them against the
// current mesh each time a drag starts.
type LockSource interface {
	LockedFaceAnchors() []geometry.Vector3
	LockedVertexAnchors() []geometry.Vector3
	Clear()
}

// Reanchorer is implemented by lock sources whose anchors follow the
// geometry they were resolved to. Both slices line up with the anchors
// returned when the drag started.
type Reanchorer interface {
	Reanchor(faces, vertices []geometry.Vector3)
}

// Listener is told whenever faces or shared groups were replaced, so
// anything keyed by face or group identity has to be rebuilt.
type Listener interface {
	OnMeshTopologyChanged(m *mesh.Mesh)
}

// GeometryListener is an optional extension of Listener that receives the
// vertices moved by a drag frame.
type GeometryListener interface {
	OnMeshGeometryChanged(m *mesh.Mesh, moved []int)
}
