package mesh

import (
	"fmt"
	"slices"
)

// Extrude pushes each face out along its own local normal by amount and
// stitches the gap with one side quad per boundary edge. Faces are extruded
// individually, so adjacent selected faces get separate walls.
//
// The extruded faces keep their indices. The returned refs belong to the new
// generation; refs taken before the call are stale afterwards.
func Extrude(m *Mesh, refs []FaceRef, amount float64) ([]FaceRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	var order []int
	for _, ref := range refs {
		if err := m.check(ref); err != nil {
			return nil, fmt.Errorf("extrude: %w", err)
		}
		if len(m.faces[ref.Index].DistinctIndexes()) < 3 {
			return nil, topologyErrorf("extrude", "face %d is degenerate", ref.Index)
		}
		if !slices.Contains(order, ref.Index) {
			order = append(order, ref.Index)
		}
	}

	snap := m.Snapshot()
	positions := snap.Positions
	faces := snap.Faces
	groups := snap.SharedVertices
	groupOf := slices.Clone(m.groupOf)

	for _, fi := range order {
		loop := slices.Clone(faces[fi])
		offset := m.normals[fi].Mul(amount)
		count := len(loop)

		base := make([]int, count)
		top := make([]int, count)
		for k, v := range loop {
			base[k] = groupOf[v]
		}
		// A corner may repeat within the loop; each slot leaves its group once.
		moved := make(map[int]int)
		for k, v := range loop {
			if g, ok := moved[v]; ok {
				top[k] = g
				continue
			}
			old := groupOf[v]
			groups[old] = slices.DeleteFunc(groups[old], func(i int) bool { return i == v })

			g := len(groups)
			groups = append(groups, []int{v})
			groupOf[v] = g
			top[k] = g
			moved[v] = g
		}

		wall := func(from int, group int) int {
			i := len(positions)
			positions = append(positions, positions[from])
			groupOf = append(groupOf, group)
			groups[group] = append(groups[group], i)
			return i
		}

		// Side walls copy the corner positions before the face moves.
		for k := 0; k < count; k++ {
			j := (k + 1) % count
			a, b := loop[k], loop[j]
			s0 := wall(a, base[k])
			s1 := wall(b, base[j])
			s2 := wall(b, top[j])
			s3 := wall(a, top[k])
			positions[s2] = positions[s2].Add(offset)
			positions[s3] = positions[s3].Add(offset)
			faces = append(faces, []int{s0, s1, s2, s3})
		}

		for v := range moved {
			positions[v] = positions[v].Add(offset)
		}
	}

	groups = slices.DeleteFunc(groups, func(g []int) bool { return len(g) == 0 })
	if err := m.Restore(Snapshot{Positions: positions, Faces: faces, SharedVertices: groups}); err != nil {
		return nil, fmt.Errorf("extrude: %w", err)
	}

	out := make([]FaceRef, len(order))
	for i, fi := range order {
		out[i] = m.Ref(fi)
	}
	return out, nil
}
