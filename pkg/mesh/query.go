package mesh

import (
	"fmt"
	"math"
	"slices"

	"github.com/philipparndt/boxmod/pkg/geometry"
)

// ClosestFace returns the face whose world center is nearest to point, as
// long as it lies within maxDistance. Exact ties go to the lowest face index.
func ClosestFace(m *Mesh, point geometry.Vector3, maxDistance float64) (FaceRef, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i, c := range m.centers {
		d := point.Distance(c)
		if d <= maxDistance && d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return FaceRef{}, false
	}
	return m.Ref(best), true
}

// ClosestVertex returns the vertex nearest to point in world space. There is
// no distance cutoff; callers apply their own selection radius. Exact ties go
// to the lowest index.
func ClosestVertex(m *Mesh, point geometry.Vector3) (int, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i, p := range m.world {
		d := point.Distance(p)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, best >= 0
}

// CoincidentVertices returns every vertex within tolerance (world distance)
// of vertex index, including index itself, in ascending order.
func CoincidentVertices(m *Mesh, index int, tolerance float64) []int {
	origin := m.world[index]
	var out []int
	for i, p := range m.world {
		if i == index || origin.Distance(p) <= tolerance {
			out = append(out, i)
		}
	}
	return out
}

// ShortestEdge returns the face edge with the smallest world length
func ShortestEdge(m *Mesh, ref FaceRef) (Edge, float64, error) {
	return extremeEdge(m, ref, func(a, b float64) bool { return a < b })
}

// LongestEdge returns the face edge with the largest world length
func LongestEdge(m *Mesh, ref FaceRef) (Edge, float64, error) {
	return extremeEdge(m, ref, func(a, b float64) bool { return a > b })
}

func extremeEdge(m *Mesh, ref FaceRef, better func(a, b float64) bool) (Edge, float64, error) {
	if err := m.check(ref); err != nil {
		return Edge{}, 0, err
	}
	var best Edge
	bestLen := math.NaN()
	for _, e := range m.faces[ref.Index].Edges() {
		l := m.world[e.A].Distance(m.world[e.B])
		if math.IsNaN(bestLen) || better(l, bestLen) {
			best, bestLen = e, l
		}
	}
	return best, bestLen, nil
}

// EdgeInfo describes one logical edge: the raw edge of the first face that
// uses it and every face sharing it.
type EdgeInfo struct {
	Edge  Edge
	Faces []FaceRef
}

// Boundary reports whether only one face uses the edge
func (e EdgeInfo) Boundary() bool {
	return len(e.Faces) == 1
}

// UniqueEdges returns each logical edge once. Edges are logical when their
// endpoints are compared by shared group, so seams between faces that own
// separate vertex slots count as one edge.
func UniqueEdges(m *Mesh) []EdgeInfo {
	adj := buildAdjacency(m)
	out := make([]EdgeInfo, 0, len(adj.order))
	for _, k := range adj.order {
		uses := adj.uses[k]
		info := EdgeInfo{Faces: make([]FaceRef, len(uses))}
		first := m.faces[uses[0].face]
		info.Edge = Edge{A: first.Indexes[uses[0].pos], B: first.Indexes[(uses[0].pos+1)%len(first.Indexes)]}
		for i, u := range uses {
			info.Faces[i] = m.Ref(u.face)
		}
		out = append(out, info)
	}
	return out
}

// edgeKey identifies a logical edge by its endpoint groups, low group first
type edgeKey struct {
	a, b int
}

// edgeUse is one face's side on a logical edge
type edgeUse struct {
	face int
	pos  int
}

type adjacency struct {
	uses  map[edgeKey][]edgeUse
	order []edgeKey
}

func (m *Mesh) edgeKey(e Edge) edgeKey {
	ga, gb := m.groupOf[e.A], m.groupOf[e.B]
	if ga > gb {
		ga, gb = gb, ga
	}
	return edgeKey{a: ga, b: gb}
}

func buildAdjacency(m *Mesh) adjacency {
	adj := adjacency{uses: make(map[edgeKey][]edgeUse)}
	for fi, f := range m.faces {
		for pos, e := range f.Edges() {
			k := m.edgeKey(e)
			if _, ok := adj.uses[k]; !ok {
				adj.order = append(adj.order, k)
			}
			adj.uses[k] = append(adj.uses[k], edgeUse{face: fi, pos: pos})
		}
	}
	return adj
}

func (m *Mesh) edgeAt(u edgeUse) Edge {
	f := m.faces[u.face]
	return Edge{A: f.Indexes[u.pos], B: f.Indexes[(u.pos+1)%len(f.Indexes)]}
}

func (m *Mesh) checkEdge(e Edge) error {
	n := len(m.positions)
	if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
		return fmt.Errorf("%w: edge (%d,%d) out of range", ErrInvalidSelection, e.A, e.B)
	}
	return nil
}

// EdgeRing walks from seed across quads, stepping to the opposite edge of
// each quad, in both directions. The walk stops at a boundary, a non-quad or
// a non-manifold edge, or when it comes back to the seed. The result is
// ordered along the ring and starts at one open end, or at the seed when
// the ring is closed.
func EdgeRing(m *Mesh, seed Edge) ([]Edge, error) {
	if err := m.checkEdge(seed); err != nil {
		return nil, err
	}
	adj := buildAdjacency(m)
	seedKey := m.edgeKey(seed)
	uses := adj.uses[seedKey]
	if len(uses) == 0 {
		return nil, fmt.Errorf("%w: (%d,%d) is not an edge of any face", ErrInvalidSelection, seed.A, seed.B)
	}

	visited := make(map[int]bool)
	walk := func(start edgeUse) (edges []Edge, closed bool) {
		cur := start
		for {
			f := m.faces[cur.face]
			if !f.IsQuad() || visited[cur.face] {
				return edges, false
			}
			visited[cur.face] = true

			next := edgeUse{face: cur.face, pos: (cur.pos + 2) % 4}
			k := m.edgeKey(m.edgeAt(next))
			if k == seedKey {
				return edges, true
			}
			edges = append(edges, m.edgeAt(next))

			others := adj.uses[k]
			if len(others) != 2 {
				return edges, false
			}
			if others[0].face == cur.face {
				cur = others[1]
			} else {
				cur = others[0]
			}
		}
	}

	forward, closed := walk(uses[0])
	ring := append([]Edge{seed}, forward...)
	if closed || len(uses) != 2 {
		return ring, nil
	}

	backward, _ := walk(uses[1])
	slices.Reverse(backward)
	return append(backward, ring...), nil
}
