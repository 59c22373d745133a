package mesh

import "github.com/philipparndt/boxmod/pkg/geometry"

// cubeFaces lists each side as four corner sign triples, counter-clockwise
// when seen from outside.
var cubeFaces = [6][4][3]float64{
	{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},     // +Z
	{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}, // -Z
	{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},     // +X
	{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}, // -X
	{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}},     // +Y
	{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}, // -Y
}

// NewCube creates an axis-aligned cube centered on the origin. Every face
// owns four vertex slots; the three slots at each corner share a group.
func NewCube(size float64) *Mesh {
	h := size / 2
	positions := make([]geometry.Vector3, 0, 24)
	faces := make([][]int, 0, 6)
	groups := make([][]int, 0, 8)
	corner := make(map[[3]float64]int)

	for _, side := range cubeFaces {
		face := make([]int, 4)
		for k, c := range side {
			i := len(positions)
			positions = append(positions, geometry.NewVector3(c[0]*h, c[1]*h, c[2]*h))
			face[k] = i

			g, ok := corner[c]
			if !ok {
				g = len(groups)
				corner[c] = g
				groups = append(groups, nil)
			}
			groups[g] = append(groups[g], i)
		}
		faces = append(faces, face)
	}

	m, err := New(positions, faces, groups)
	if err != nil {
		panic(err)
	}
	return m
}
