package mesh

import (
	"fmt"
	"slices"

	"github.com/jinzhu/copier"
	"github.com/philipparndt/boxmod/pkg/geometry"
)

// Edge is a pair of raw vertex indices
type Edge struct {
	A, B int
}

// Normalized returns the edge with A <= B
func (e Edge) Normalized() Edge {
	if e.A > e.B {
		return Edge{A: e.B, B: e.A}
	}
	return e
}

// Face is an ordered polygon loop of raw vertex indices
type Face struct {
	Indexes []int
}

// NewFace creates a face from a vertex loop
func NewFace(indexes ...int) *Face {
	return &Face{Indexes: slices.Clone(indexes)}
}

// DistinctIndexes returns the loop indices without repeats, in loop order
func (f *Face) DistinctIndexes() []int {
	out := make([]int, 0, len(f.Indexes))
	for _, i := range f.Indexes {
		if !slices.Contains(out, i) {
			out = append(out, i)
		}
	}
	return out
}

// Edges returns consecutive index pairs, wrapping from last to first
func (f *Face) Edges() []Edge {
	n := len(f.Indexes)
	edges := make([]Edge, n)
	for i := 0; i < n; i++ {
		edges[i] = Edge{A: f.Indexes[i], B: f.Indexes[(i+1)%n]}
	}
	return edges
}

// IsQuad reports whether the face has exactly four corners
func (f *Face) IsQuad() bool {
	return len(f.Indexes) == 4
}

func (f *Face) clone() *Face {
	return &Face{Indexes: slices.Clone(f.Indexes)}
}

// FaceRef is a handle to a face valid for one topology generation.
type FaceRef struct {
	Index      int
	Generation uint64
}

// Snapshot is a value copy of the three mesh arrays.
type Snapshot struct {
	Positions      []geometry.Vector3
	Faces          [][]int
	SharedVertices [][]int
}

// Clone returns a deep copy that shares no memory with s
func (s Snapshot) Clone() Snapshot {
	var out Snapshot
	if err := copier.CopyWithOption(&out, &s, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("mesh: snapshot copy failed: %v", err))
	}
	return out
}

// Mesh is an indexed polygon mesh with shared-vertex groups and a
// local-to-world transform.
//
// Every write marks the mesh dirty. Derived data (world positions, face
// centers, normals, group lookup) is only recomputed by Rebuild; reads in
// between return the values of the previous rebuild.
type Mesh struct {
	transform geometry.Transform
	positions []geometry.Vector3
	faces     []*Face
	shared    [][]int

	generation    uint64
	dirty         bool
	topologyDirty bool

	groupOf []int
	world   []geometry.Vector3
	centers []geometry.Vector3
	normals []geometry.Vector3
}

// New creates a mesh from raw arrays. When shared is empty every vertex
// gets its own group. The mesh is validated and rebuilt before returning.
func New(positions []geometry.Vector3, faces [][]int, shared [][]int) (*Mesh, error) {
	if len(shared) == 0 {
		shared = make([][]int, len(positions))
		for i := range positions {
			shared[i] = []int{i}
		}
	}
	snap := Snapshot{Positions: positions, Faces: faces, SharedVertices: shared}.Clone()
	if err := validate(snap); err != nil {
		return nil, err
	}

	m := &Mesh{transform: geometry.IdentityTransform()}
	m.adopt(snap)
	m.Rebuild()
	return m, nil
}

// Generation returns the topology generation. It increases on every rebuild
// that follows a face or shared-vertex change.
func (m *Mesh) Generation() uint64 {
	return m.generation
}

// Dirty reports whether a write happened since the last Rebuild
func (m *Mesh) Dirty() bool {
	return m.dirty
}

// Transform returns the local-to-world transform
func (m *Mesh) Transform() geometry.Transform {
	return m.transform
}

// SetTransform replaces the local-to-world transform
func (m *Mesh) SetTransform(t geometry.Transform) {
	m.transform = t
	m.dirty = true
}

// VertexCount returns the number of raw vertex slots
func (m *Mesh) VertexCount() int {
	return len(m.positions)
}

// FaceCount returns the number of faces
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// Position returns the local position of vertex i
func (m *Mesh) Position(i int) geometry.Vector3 {
	return m.positions[i]
}

// Positions returns a copy of all local positions
func (m *Mesh) Positions() []geometry.Vector3 {
	return slices.Clone(m.positions)
}

// SetPosition writes the local position of vertex i
func (m *Mesh) SetPosition(i int, p geometry.Vector3) {
	m.positions[i] = p
	m.dirty = true
}

// SetWorldPosition writes vertex i from a world-space point
func (m *Mesh) SetWorldPosition(i int, p geometry.Vector3) {
	m.SetPosition(i, m.transform.InverseTransformPoint(p))
}

// SetPositions replaces all local positions. The vertex count must not change.
func (m *Mesh) SetPositions(positions []geometry.Vector3) error {
	if len(positions) != len(m.positions) {
		return fmt.Errorf("set positions: got %d positions, mesh has %d vertices", len(positions), len(m.positions))
	}
	m.positions = slices.Clone(positions)
	m.dirty = true
	return nil
}

// SetFaces replaces the face list
func (m *Mesh) SetFaces(faces [][]int) error {
	snap := Snapshot{Positions: m.positions, Faces: faces, SharedVertices: m.shared}
	if err := validate(snap); err != nil {
		return fmt.Errorf("set faces: %w", err)
	}
	m.faces = toFaces(faces)
	m.markTopology()
	return nil
}

// SetSharedVertices replaces the shared-vertex groups
func (m *Mesh) SetSharedVertices(groups [][]int) error {
	snap := Snapshot{Positions: m.positions, Faces: m.faceIndexes(), SharedVertices: groups}
	if err := validate(snap); err != nil {
		return fmt.Errorf("set shared vertices: %w", err)
	}
	m.shared = Snapshot{SharedVertices: groups}.Clone().SharedVertices
	m.markTopology()
	return nil
}

// FaceRefs returns handles to every face in the current generation
func (m *Mesh) FaceRefs() []FaceRef {
	refs := make([]FaceRef, len(m.faces))
	for i := range m.faces {
		refs[i] = FaceRef{Index: i, Generation: m.generation}
	}
	return refs
}

// Ref returns the handle for face index i in the current generation
func (m *Mesh) Ref(i int) FaceRef {
	return FaceRef{Index: i, Generation: m.generation}
}

// Face resolves a handle to a copy of the face
func (m *Mesh) Face(ref FaceRef) (Face, error) {
	if err := m.check(ref); err != nil {
		return Face{}, err
	}
	return *m.faces[ref.Index].clone(), nil
}

func (m *Mesh) check(ref FaceRef) error {
	if ref.Generation != m.generation {
		return fmt.Errorf("%w: face %d from generation %d, mesh is at %d",
			ErrStaleReference, ref.Index, ref.Generation, m.generation)
	}
	if ref.Index < 0 || ref.Index >= len(m.faces) {
		return fmt.Errorf("%w: face index %d out of range", ErrStaleReference, ref.Index)
	}
	return nil
}

// FaceCenter returns the world-space mean of the face's vertices
func (m *Mesh) FaceCenter(ref FaceRef) (geometry.Vector3, error) {
	if err := m.check(ref); err != nil {
		return geometry.Vector3{}, err
	}
	return m.centers[ref.Index], nil
}

// FaceNormal returns the local-space unit normal from the face winding
func (m *Mesh) FaceNormal(ref FaceRef) (geometry.Vector3, error) {
	if err := m.check(ref); err != nil {
		return geometry.Vector3{}, err
	}
	return m.normals[ref.Index], nil
}

// WorldNormal returns the face normal rotated into world space
func (m *Mesh) WorldNormal(ref FaceRef) (geometry.Vector3, error) {
	n, err := m.FaceNormal(ref)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return m.transform.TransformDirection(n).Normalize(), nil
}

// WorldPosition returns the world-space position of vertex i
func (m *Mesh) WorldPosition(i int) geometry.Vector3 {
	return m.world[i]
}

// GroupOf returns the index of the shared-vertex group containing vertex i
func (m *Mesh) GroupOf(i int) int {
	return m.groupOf[i]
}

// Group returns a copy of the shared-vertex group containing vertex i
func (m *Mesh) Group(i int) []int {
	return slices.Clone(m.shared[m.groupOf[i]])
}

// SharedVertices returns a copy of all shared-vertex groups
func (m *Mesh) SharedVertices() [][]int {
	return Snapshot{SharedVertices: m.shared}.Clone().SharedVertices
}

// Snapshot returns a deep copy of positions, faces and shared groups
func (m *Mesh) Snapshot() Snapshot {
	return Snapshot{
		Positions:      m.positions,
		Faces:          m.faceIndexes(),
		SharedVertices: m.shared,
	}.Clone()
}

// Restore replaces all three arrays with a copy of s and rebuilds.
// Every outstanding FaceRef becomes stale.
func (m *Mesh) Restore(s Snapshot) error {
	snap := s.Clone()
	if err := validate(snap); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	m.adopt(snap)
	m.Rebuild()
	return nil
}

// Validate checks index ranges and that shared groups partition the vertices
func (m *Mesh) Validate() error {
	return validate(Snapshot{Positions: m.positions, Faces: m.faceIndexes(), SharedVertices: m.shared})
}

// Rebuild recomputes all derived data. It must run after any write before
// the mesh is queried again.
func (m *Mesh) Rebuild() {
	if m.topologyDirty {
		m.generation++
		m.topologyDirty = false
	}

	m.groupOf = make([]int, len(m.positions))
	for g, members := range m.shared {
		for _, i := range members {
			m.groupOf[i] = g
		}
	}

	m.world = make([]geometry.Vector3, len(m.positions))
	for i, p := range m.positions {
		m.world[i] = m.transform.TransformPoint(p)
	}

	m.centers = make([]geometry.Vector3, len(m.faces))
	m.normals = make([]geometry.Vector3, len(m.faces))
	for fi, f := range m.faces {
		world := make([]geometry.Vector3, len(f.Indexes))
		local := make([]geometry.Vector3, len(f.Indexes))
		for k, i := range f.Indexes {
			world[k] = m.world[i]
			local[k] = m.positions[i]
		}
		m.centers[fi] = geometry.Centroid(world)
		m.normals[fi] = geometry.PolygonNormal(local)
	}

	m.dirty = false
}

func (m *Mesh) adopt(s Snapshot) {
	m.positions = s.Positions
	m.faces = toFaces(s.Faces)
	m.shared = s.SharedVertices
	m.markTopology()
}

func (m *Mesh) markTopology() {
	m.dirty = true
	m.topologyDirty = true
}

func (m *Mesh) faceIndexes() [][]int {
	out := make([][]int, len(m.faces))
	for i, f := range m.faces {
		out[i] = f.Indexes
	}
	return out
}

func toFaces(indexes [][]int) []*Face {
	faces := make([]*Face, len(indexes))
	for i, idx := range indexes {
		faces[i] = NewFace(idx...)
	}
	return faces
}

func validate(s Snapshot) error {
	n := len(s.Positions)
	for fi, f := range s.Faces {
		if len(f) < 3 {
			return fmt.Errorf("face %d has %d indices, need at least 3", fi, len(f))
		}
		for _, i := range f {
			if i < 0 || i >= n {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", fi, i, n)
			}
		}
	}

	seen := make([]bool, n)
	for g, members := range s.SharedVertices {
		if len(members) == 0 {
			return fmt.Errorf("shared group %d is empty", g)
		}
		for _, i := range members {
			if i < 0 || i >= n {
				return fmt.Errorf("shared group %d references vertex %d, mesh has %d vertices", g, i, n)
			}
			if seen[i] {
				return fmt.Errorf("vertex %d belongs to more than one shared group", i)
			}
			seen[i] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("vertex %d belongs to no shared group", i)
		}
	}
	return nil
}
