// Package signifier keeps the visual handles of an edited mesh: one per
// face, one per shared vertex group and one per logical edge. Handles are
// recreated on topology changes and moved in place on geometry changes.
package signifier

import (
	"log/slog"
	"slices"

	"github.com/philipparndt/boxmod/pkg/editor"
	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
)

// lockTolerance is how close a handle must be to a lock anchor to show as locked
const lockTolerance = 1e-4

// FaceHandle sits at the center of a face
type FaceHandle struct {
	Ref    mesh.FaceRef
	Center geometry.Vector3
	Normal geometry.Vector3
	Locked bool
}

// VertexHandle stands for a whole shared vertex group
type VertexHandle struct {
	Vertex   int
	Members  []int
	Position geometry.Vector3
	Locked   bool
}

// Set holds the handles for the current mesh state
type Set struct {
	locks    editor.LockSource
	log      *slog.Logger
	faces    []FaceHandle
	vertices []VertexHandle
	edges    []editor.EdgeMarker

	rebuilds int
}

// New creates an empty set. Locks may be nil.
func New(locks editor.LockSource, log *slog.Logger) *Set {
	if log == nil {
		log = slog.Default()
	}
	return &Set{locks: locks, log: log}
}

// Faces returns the current face handles
func (s *Set) Faces() []FaceHandle { return s.faces }

// Vertices returns the current vertex handles
func (s *Set) Vertices() []VertexHandle { return s.vertices }

// Edges returns one marker per logical edge
func (s *Set) Edges() []editor.EdgeMarker { return s.edges }

// Rebuilds counts how often the handles were recreated
func (s *Set) Rebuilds() int { return s.rebuilds }

// OnMeshTopologyChanged drops every handle and creates new ones
func (s *Set) OnMeshTopologyChanged(m *mesh.Mesh) {
	s.faces = s.faces[:0]
	for _, ref := range m.FaceRefs() {
		c, _ := m.FaceCenter(ref)
		n, _ := m.WorldNormal(ref)
		s.faces = append(s.faces, FaceHandle{Ref: ref, Center: c, Normal: n})
	}

	s.vertices = s.vertices[:0]
	for _, group := range m.SharedVertices() {
		if len(group) == 0 {
			continue
		}
		s.vertices = append(s.vertices, VertexHandle{
			Vertex:   group[0],
			Members:  slices.Clone(group),
			Position: m.WorldPosition(group[0]),
		})
	}

	s.edges = editor.EdgeMarkers(m)
	s.rebuilds++
	s.RefreshLocks()
	s.log.Debug("signifiers rebuilt", "faces", len(s.faces), "vertices", len(s.vertices), "edges", len(s.edges))
}

// OnMeshGeometryChanged moves the handles touching a moved vertex
func (s *Set) OnMeshGeometryChanged(m *mesh.Mesh, moved []int) {
	touched := make(map[int]bool, len(moved))
	for _, i := range moved {
		touched[i] = true
	}

	for k := range s.faces {
		h := &s.faces[k]
		f, err := m.Face(h.Ref)
		if err != nil || !slices.ContainsFunc(f.Indexes, func(i int) bool { return touched[i] }) {
			continue
		}
		h.Center, _ = m.FaceCenter(h.Ref)
		h.Normal, _ = m.WorldNormal(h.Ref)
	}
	for k := range s.vertices {
		h := &s.vertices[k]
		if slices.ContainsFunc(h.Members, func(i int) bool { return touched[i] }) {
			h.Position = m.WorldPosition(h.Vertex)
		}
	}
	for k := range s.edges {
		e := &s.edges[k]
		if touched[e.Edge.A] || touched[e.Edge.B] {
			e.Midpoint = m.WorldPosition(e.Edge.A).Lerp(m.WorldPosition(e.Edge.B), 0.5)
		}
	}
	s.RefreshLocks()
}

// RefreshLocks marks the handles that sit on a lock anchor
func (s *Set) RefreshLocks() {
	var faceAnchors, vertexAnchors []geometry.Vector3
	if s.locks != nil {
		faceAnchors = s.locks.LockedFaceAnchors()
		vertexAnchors = s.locks.LockedVertexAnchors()
	}
	for k := range s.faces {
		s.faces[k].Locked = near(faceAnchors, s.faces[k].Center)
	}
	for k := range s.vertices {
		s.vertices[k].Locked = near(vertexAnchors, s.vertices[k].Position)
	}
}

func near(anchors []geometry.Vector3, p geometry.Vector3) bool {
	return slices.ContainsFunc(anchors, func(a geometry.Vector3) bool {
		return a.Distance(p) <= lockTolerance
	})
}
