package editor

import (
	"slices"

	"github.com/philipparndt/boxmod/pkg/geometry"
)

const anchorTolerance = 1e-6

// Locks is the default LockSource. Faces are anchored at their center,
// vertices at their position.
type Locks struct {
	faces    []geometry.Vector3
	vertices []geometry.Vector3
}

// NewLocks returns an empty lock set
func NewLocks() *Locks {
	return &Locks{}
}

// ToggleFace locks the face anchored at p, or unlocks it when it already is.
// It reports whether the face is locked afterwards.
func (l *Locks) ToggleFace(p geometry.Vector3) bool {
	return toggle(&l.faces, p)
}

// ToggleVertex works like ToggleFace for vertex anchors
func (l *Locks) ToggleVertex(p geometry.Vector3) bool {
	return toggle(&l.vertices, p)
}

func toggle(anchors *[]geometry.Vector3, p geometry.Vector3) bool {
	i := slices.IndexFunc(*anchors, func(a geometry.Vector3) bool {
		return a.Distance(p) <= anchorTolerance
	})
	if i >= 0 {
		*anchors = slices.Delete(*anchors, i, i+1)
		return false
	}
	*anchors = append(*anchors, p)
	return true
}

// LockedFaceAnchors returns a copy of the locked face centers
func (l *Locks) LockedFaceAnchors() []geometry.Vector3 {
	return slices.Clone(l.faces)
}

// LockedVertexAnchors returns a copy of the locked vertex positions
func (l *Locks) LockedVertexAnchors() []geometry.Vector3 {
	return slices.Clone(l.vertices)
}

// Reanchor moves the anchors after an edit. A list whose length
// differs from the current one is ignored.
func (l *Locks) Reanchor(faces, vertices []geometry.Vector3) {
	if len(faces) == len(l.faces) {
		l.faces = slices.Clone(faces)
	}
	if len(vertices) == len(l.vertices) {
		l.vertices = slices.Clone(vertices)
	}
}

// Clear unlocks everything
func (l *Locks) Clear() {
	l.faces = nil
	l.vertices = nil
}

// Len returns the number of locked faces and vertices
func (l *Locks) Len() int {
	return len(l.faces) + len(l.vertices)
}
