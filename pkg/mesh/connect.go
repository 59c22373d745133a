package mesh

import (
	"fmt"
	"slices"
)

// Connect cuts a loop through the quads crossed by ring by joining the
// midpoints of their two ring edges. Every ring edge must join exactly two
// quads, and every quad touched must carry exactly two ring edges on
// opposite sides. Anything else fails with a *TopologyError and the mesh
// is left as it was.
func Connect(m *Mesh, ring []Edge) error {
	if len(ring) == 0 {
		return topologyErrorf("connect", "empty edge ring")
	}

	adj := buildAdjacency(m)
	onRing := make(map[edgeKey]bool)
	crossed := make(map[int][]int)
	for _, e := range ring {
		if err := m.checkEdge(e); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		k := m.edgeKey(e)
		if onRing[k] {
			continue
		}
		onRing[k] = true

		uses := adj.uses[k]
		switch {
		case len(uses) == 0:
			return topologyErrorf("connect", "(%d,%d) is not an edge of any face", e.A, e.B)
		case len(uses) == 1:
			return topologyErrorf("connect", "edge (%d,%d) lies on the mesh boundary", e.A, e.B)
		case len(uses) > 2:
			return topologyErrorf("connect", "edge (%d,%d) is shared by %d faces", e.A, e.B, len(uses))
		}
		for _, u := range uses {
			if !m.faces[u.face].IsQuad() {
				return topologyErrorf("connect", "face %d is not a quad", u.face)
			}
			crossed[u.face] = append(crossed[u.face], u.pos)
		}
	}

	order := make([]int, 0, len(crossed))
	for fi, sides := range crossed {
		if len(sides) != 2 || (sides[0]+2)%4 != sides[1] {
			return topologyErrorf("connect", "face %d is not crossed on opposite sides", fi)
		}
		order = append(order, fi)
	}
	slices.Sort(order)

	snap := m.Snapshot()
	positions := snap.Positions
	faces := snap.Faces
	groups := snap.SharedVertices
	cutGroup := make(map[edgeKey]int)

	midpoint := func(e Edge) int {
		k := m.edgeKey(e)
		g, ok := cutGroup[k]
		if !ok {
			g = len(groups)
			groups = append(groups, nil)
			cutGroup[k] = g
		}
		i := len(positions)
		positions = append(positions, positions[e.A].Lerp(positions[e.B], 0.5))
		groups[g] = append(groups[g], i)
		return i
	}

	for _, fi := range order {
		k := min(crossed[fi][0], crossed[fi][1])
		loop := faces[fi]
		v0, v1, v2, v3 := loop[k], loop[(k+1)%4], loop[(k+2)%4], loop[(k+3)%4]
		first := Edge{A: v0, B: v1}
		second := Edge{A: v2, B: v3}

		a01, a23 := midpoint(first), midpoint(second)
		b01, b23 := midpoint(first), midpoint(second)

		faces[fi] = []int{v0, a01, a23, v3}
		faces = append(faces, []int{b01, v1, v2, b23})
	}

	if err := m.Restore(Snapshot{Positions: positions, Faces: faces, SharedVertices: groups}); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

// LoopCut connects the edge ring grown from seed.
func LoopCut(m *Mesh, seed Edge) error {
	ring, err := EdgeRing(m, seed)
	if err != nil {
		return fmt.Errorf("loop cut: %w", err)
	}
	return Connect(m, ring)
}
