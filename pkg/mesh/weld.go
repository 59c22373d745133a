package mesh

import (
	"fmt"
	"slices"

	"github.com/philipparndt/boxmod/pkg/geometry"
)

// MatchFaces pairs every distinct vertex of a with a distinct vertex of b
// lying within tolerance in world space. Both faces need the same number of
// distinct vertices and every vertex must find a partner; a partial match
// is no match. The pairs are (vertex of a, vertex of b).
func MatchFaces(m *Mesh, a, b FaceRef, tolerance float64) ([][2]int, bool, error) {
	if err := m.check(a); err != nil {
		return nil, false, err
	}
	if err := m.check(b); err != nil {
		return nil, false, err
	}
	if a.Index == b.Index {
		return nil, false, nil
	}

	va := m.faces[a.Index].DistinctIndexes()
	vb := m.faces[b.Index].DistinctIndexes()
	if len(va) != len(vb) {
		return nil, false, nil
	}

	near := make([][]int, len(va))
	for i, x := range va {
		for j, y := range vb {
			if m.world[x].Distance(m.world[y]) <= tolerance {
				near[i] = append(near[i], j)
			}
		}
		if len(near[i]) == 0 {
			return nil, false, nil
		}
	}

	partner := bipartiteMatch(near, len(vb))
	pairs := make([][2]int, 0, len(va))
	for j, i := range partner {
		if i < 0 {
			return nil, false, nil
		}
		pairs = append(pairs, [2]int{va[i], vb[j]})
	}
	return pairs, true, nil
}

// bipartiteMatch finds a maximum matching with augmenting paths. It returns,
// for every right-hand node, the matched left-hand node or -1.
func bipartiteMatch(adj [][]int, right int) []int {
	partner := make([]int, right)
	for j := range partner {
		partner[j] = -1
	}
	var try func(i int, seen []bool) bool
	try = func(i int, seen []bool) bool {
		for _, j := range adj[i] {
			if seen[j] {
				continue
			}
			seen[j] = true
			if partner[j] < 0 || try(partner[j], seen) {
				partner[j] = i
				return true
			}
		}
		return false
	}
	for i := range adj {
		try(i, make([]bool, right))
	}
	return partner
}

// WeldAndMerge fuses two coincident faces. When every corner of a has a
// partner in b within tolerance, the matched corners are welded into one
// shared group at their midpoint, both faces are removed and vertex slots no
// face uses any more are dropped. Vertex indices are renumbered. It reports
// whether the faces merged; ineligible pairs leave the mesh untouched.
func WeldAndMerge(m *Mesh, a, b FaceRef, tolerance float64) (bool, error) {
	pairs, ok, err := MatchFaces(m, a, b, tolerance)
	if err != nil {
		return false, fmt.Errorf("weld: %w", err)
	}
	if !ok {
		return false, nil
	}

	snap := m.Snapshot()
	positions := snap.Positions

	root := make([]int, len(snap.SharedVertices))
	for g := range root {
		root[g] = g
	}
	var find func(g int) int
	find = func(g int) int {
		if root[g] != g {
			root[g] = find(root[g])
		}
		return root[g]
	}

	for _, p := range pairs {
		mid := m.world[p[0]].Lerp(m.world[p[1]], 0.5)
		local := m.transform.InverseTransformPoint(mid)

		ga, gb := find(m.groupOf[p[0]]), find(m.groupOf[p[1]])
		if ga != gb {
			root[gb] = ga
		}
		for _, g := range []int{m.groupOf[p[0]], m.groupOf[p[1]]} {
			for _, i := range snap.SharedVertices[g] {
				positions[i] = local
			}
		}
	}

	// Faces are dropped by identity, not by comparing geometry.
	removed := []*Face{m.faces[a.Index], m.faces[b.Index]}
	var faces [][]int
	for _, f := range m.faces {
		if !slices.Contains(removed, f) {
			faces = append(faces, slices.Clone(f.Indexes))
		}
	}

	merged := make(map[int][]int)
	var roots []int
	for g, members := range snap.SharedVertices {
		r := find(g)
		if _, ok := merged[r]; !ok {
			roots = append(roots, r)
		}
		merged[r] = append(merged[r], members...)
	}
	groups := make([][]int, 0, len(roots))
	for _, r := range roots {
		groups = append(groups, merged[r])
	}

	compacted := compact(Snapshot{Positions: positions, Faces: faces, SharedVertices: groups})
	if err := m.Restore(compacted); err != nil {
		return false, fmt.Errorf("weld: %w", err)
	}
	return true, nil
}

// MergeCoincidentFaces welds face pairs until no eligible pair remains and
// returns how many pairs merged.
func MergeCoincidentFaces(m *Mesh, tolerance float64) (int, error) {
	merged := 0
	for {
		a, b, ok, err := findMergePair(m, tolerance)
		if err != nil {
			return merged, err
		}
		if !ok {
			return merged, nil
		}
		if _, err := WeldAndMerge(m, a, b, tolerance); err != nil {
			return merged, err
		}
		merged++
	}
}

func findMergePair(m *Mesh, tolerance float64) (FaceRef, FaceRef, bool, error) {
	refs := m.FaceRefs()
	for i := range refs {
		for j := i + 1; j < len(refs); j++ {
			_, ok, err := MatchFaces(m, refs[i], refs[j], tolerance)
			if err != nil {
				return FaceRef{}, FaceRef{}, false, err
			}
			if ok {
				return refs[i], refs[j], true, nil
			}
		}
	}
	return FaceRef{}, FaceRef{}, false, nil
}

// compact drops vertex slots no face references and renumbers the rest in
// their original order. Groups left empty disappear.
func compact(s Snapshot) Snapshot {
	used := make([]bool, len(s.Positions))
	for _, f := range s.Faces {
		for _, i := range f {
			used[i] = true
		}
	}

	remap := make([]int, len(s.Positions))
	var positions []geometry.Vector3
	for i, p := range s.Positions {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(positions)
		positions = append(positions, p)
	}

	faces := make([][]int, len(s.Faces))
	for fi, f := range s.Faces {
		faces[fi] = make([]int, len(f))
		for k, i := range f {
			faces[fi][k] = remap[i]
		}
	}

	var groups [][]int
	for _, members := range s.SharedVertices {
		var g []int
		for _, i := range members {
			if remap[i] >= 0 {
				g = append(g, remap[i])
			}
		}
		if len(g) > 0 {
			slices.Sort(g)
			groups = append(groups, g)
		}
	}

	return Snapshot{Positions: positions, Faces: faces, SharedVertices: groups}
}
