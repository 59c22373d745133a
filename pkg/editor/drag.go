package editor

import (
	"fmt"
	"math"
	"slices"

	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
)

// session is one hand's selection and drag
type session struct {
	hand   Hand
	action Action
	state  State
	start  Pose

	primary mesh.FaceRef
	vertex  int
	normal  geometry.Vector3
	center  geometry.Vector3

	// Lock anchors as they were when the drag started, and the face or
	// vertex index each one resolved to (-1 when none did).
	faceAnchors    []geometry.Vector3
	vertexAnchors  []geometry.Vector3
	lockedFaces    []int
	lockedVertices []int

	moved    []int
	inDrag   map[int]bool
	origin   []geometry.Vector3
	movement geometry.Vector3
}

// TriggerDown starts a session for hand on the element under it. It reports
// false when nothing is within reach; the hand then stays idle. A hit
// records an undo step and moves straight on to dragging.
func (e *Editor) TriggerDown(hand Hand, action Action) (bool, error) {
	if s := e.active(); s != nil {
		return false, fmt.Errorf("%w: %s hand is %s", ErrSessionActive, s.hand, s.state)
	}
	if e.mesh.Dirty() {
		e.mesh.Rebuild()
	}

	pose := e.controllers.Pose(hand)
	s := &session{hand: hand, action: action, start: pose, vertex: -1}

	if action == ActionDragVertex {
		i, ok := mesh.ClosestVertex(e.mesh, pose.Position)
		if !ok || e.mesh.WorldPosition(i).Distance(pose.Position) > e.settings.SelectionRadius {
			return false, nil
		}
		s.vertex = i
		s.center = e.mesh.WorldPosition(i)
	} else {
		ref, ok := mesh.ClosestFace(e.mesh, pose.Position, e.settings.SelectionRadius)
		if !ok {
			return false, nil
		}
		s.primary = ref
		s.center, _ = e.mesh.FaceCenter(ref)
		s.normal, _ = e.mesh.WorldNormal(ref)
	}
	s.state = Selected

	e.history.Save(e.mesh)
	e.resolveLocks(s)

	if action == ActionExtrude {
		if err := e.extrude(s); err != nil {
			e.history.Pop()
			return false, err
		}
	}

	e.collect(s)
	s.state = Dragging
	e.sessions[hand] = s
	e.log.Debug("drag started", "hand", hand, "action", action, "vertices", len(s.moved))
	return true, nil
}

// resolveLocks maps lock anchors onto the current mesh
func (e *Editor) resolveLocks(s *session) {
	tol := e.settings.CoincidentTolerance

	s.faceAnchors = e.locks.LockedFaceAnchors()
	s.lockedFaces = make([]int, len(s.faceAnchors))
	for i, a := range s.faceAnchors {
		s.lockedFaces[i] = -1
		if ref, ok := mesh.ClosestFace(e.mesh, a, tol); ok {
			s.lockedFaces[i] = ref.Index
		}
	}

	s.vertexAnchors = e.locks.LockedVertexAnchors()
	s.lockedVertices = make([]int, len(s.vertexAnchors))
	for i, a := range s.vertexAnchors {
		s.lockedVertices[i] = -1
		if v, ok := mesh.ClosestVertex(e.mesh, a); ok && e.mesh.WorldPosition(v).Distance(a) <= tol {
			s.lockedVertices[i] = v
		}
	}
}

// extrude pushes the primary face and every locked face out by the initial
// amount in one batch, so the drag starts on fresh geometry.
func (e *Editor) extrude(s *session) error {
	refs := []mesh.FaceRef{s.primary}
	for _, fi := range s.lockedFaces {
		if fi >= 0 && fi != s.primary.Index {
			refs = append(refs, e.mesh.Ref(fi))
		}
	}

	out, err := mesh.Extrude(e.mesh, refs, e.settings.InitialExtrude)
	if err != nil {
		return err
	}
	s.primary = out[0]
	s.center, _ = e.mesh.FaceCenter(s.primary)
	e.log.Debug("extruded", "faces", len(out))
	e.notifyTopology()
	return nil
}

// collect builds the drag-along set: the primary element, locked faces and
// locked vertices, grown to whole shared groups and coincident vertices.
func (e *Editor) collect(s *session) {
	s.inDrag = make(map[int]bool)
	var queue []int
	add := func(i int) {
		if !s.inDrag[i] {
			s.inDrag[i] = true
			queue = append(queue, i)
		}
	}
	addFace := func(fi int) {
		f, err := e.mesh.Face(e.mesh.Ref(fi))
		if err != nil {
			return
		}
		for _, i := range f.Indexes {
			add(i)
		}
	}

	if s.vertex >= 0 {
		add(s.vertex)
	} else {
		addFace(s.primary.Index)
	}
	for _, fi := range s.lockedFaces {
		if fi >= 0 {
			addFace(fi)
		}
	}
	for _, v := range s.lockedVertices {
		if v >= 0 {
			add(v)
		}
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, j := range e.mesh.Group(i) {
			add(j)
		}
		for _, j := range mesh.CoincidentVertices(e.mesh, i, e.settings.CoincidentTolerance) {
			add(j)
		}
	}

	s.moved = make([]int, 0, len(s.inDrag))
	for i := range s.inDrag {
		s.moved = append(s.moved, i)
	}
	slices.Sort(s.moved)
	s.origin = make([]geometry.Vector3, len(s.moved))
	for k, i := range s.moved {
		s.origin[k] = e.mesh.WorldPosition(i)
	}
}

// Tick samples the active hand and moves the drag set. Every frame places
// the vertices at their start position plus the current movement, so
// nothing accumulates between frames.
func (e *Editor) Tick() {
	s := e.active()
	if s == nil || s.state != Dragging {
		return
	}

	delta := e.controllers.Pose(s.hand).Position.Sub(s.start.Position)
	movement := delta
	switch {
	case s.action == ActionDragVertex:
	case s.action == ActionExtrude && e.settings.ExtrudeFreeMovement:
	default:
		movement = Constrain(delta, s.normal, e.settings.SnapThreshold)
	}
	if s.action != ActionDragVertex {
		movement = e.planeSnap(s, movement)
	}
	s.movement = movement

	for k, i := range s.moved {
		e.mesh.SetWorldPosition(i, s.origin[k].Add(movement))
	}
	e.mesh.Rebuild()
	e.notifyGeometry(s.moved)
}

// Constrain returns the part of delta along normal while delta stays within
// threshold of that axis, and delta unchanged once it strays further.
func Constrain(delta, normal geometry.Vector3, threshold float64) geometry.Vector3 {
	along := delta.Project(normal.Normalize())
	if delta.Sub(along).Length() < threshold {
		return along
	}
	return delta
}

// planeSnap corrects movement so the dragged face lands on the plane of the
// face the other hand is hovering, when both faces are close to parallel.
func (e *Editor) planeSnap(s *session, movement geometry.Vector3) geometry.Vector3 {
	other := e.controllers.Pose(s.hand.Other()).Position
	target, ok := e.snapTarget(s, other)
	if !ok {
		return movement
	}
	tc, _ := e.mesh.FaceCenter(target)
	tn, _ := e.mesh.WorldNormal(target)

	angle := s.normal.Angle(tn)
	angle = math.Min(angle, math.Pi-angle)
	if angle > e.settings.PlaneSnapAngle*math.Pi/180 {
		return movement
	}

	d := s.center.Add(movement).Sub(tc).Dot(tn)
	return movement.Sub(tn.Mul(d))
}

// snapTarget finds the face nearest to p within snapping distance that
// shares no vertex with the drag set
func (e *Editor) snapTarget(s *session, p geometry.Vector3) (mesh.FaceRef, bool) {
	var best mesh.FaceRef
	found := false
	bestDist := math.MaxFloat64
	for _, ref := range e.mesh.FaceRefs() {
		f, err := e.mesh.Face(ref)
		if err != nil || slices.ContainsFunc(f.Indexes, func(i int) bool { return s.inDrag[i] }) {
			continue
		}
		c, _ := e.mesh.FaceCenter(ref)
		if d := p.Distance(c); d <= e.settings.PlaneSnapDistance && d < bestDist {
			best, bestDist, found = ref, d, true
		}
	}
	return best, found
}

// TriggerUp ends the session of hand. A too-short extrude is rolled back
// without a redo step. Otherwise coincident faces are merged when enabled.
func (e *Editor) TriggerUp(hand Hand) error {
	s, ok := e.sessions[hand]
	if !ok {
		return nil
	}
	delete(e.sessions, hand)

	if s.action == ActionExtrude && s.movement.Length() < e.settings.MinExtrudeDistance {
		if _, err := e.history.Discard(e.mesh); err != nil {
			return err
		}
		e.log.Debug("extrude discarded", "hand", hand, "distance", s.movement.Length())
		e.notifyTopology()
		return nil
	}

	e.reanchor(s)

	if e.settings.MergeOnRelease {
		n, err := mesh.MergeCoincidentFaces(e.mesh, e.settings.WeldTolerance)
		if err != nil {
			return fmt.Errorf("merge: %w", err)
		}
		if n > 0 {
			e.locks.Clear()
			e.log.Info("merged coincident faces", "pairs", n)
			e.notifyTopology()
		}
	}

	e.log.Debug("drag ended", "hand", hand, "action", s.action, "movement", s.movement)
	return nil
}

// reanchor moves lock anchors along with the geometry they resolved to
func (e *Editor) reanchor(s *session) {
	r, ok := e.locks.(Reanchorer)
	if !ok {
		return
	}

	faces := slices.Clone(s.faceAnchors)
	for i, fi := range s.lockedFaces {
		if fi < 0 {
			continue
		}
		if c, err := e.mesh.FaceCenter(e.mesh.Ref(fi)); err == nil {
			faces[i] = c
		}
	}
	vertices := slices.Clone(s.vertexAnchors)
	for i, v := range s.lockedVertices {
		if v >= 0 {
			vertices[i] = e.mesh.WorldPosition(v)
		}
	}
	r.Reanchor(faces, vertices)
}
