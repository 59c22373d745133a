package store

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/philipparndt/boxmod/pkg/mesh"
)

// Op names the kind of background job
type Op int

const (
	OpLoad Op = iota
	OpSave
)

func (o Op) String() string {
	if o == OpSave {
		return "save"
	}
	return "load"
}

// Result is a finished background job. Mesh is only set for loads.
type Result struct {
	Op      Op
	Path    string
	Mesh    *mesh.Mesh
	Err     error
	Elapsed time.Duration
}

// Background runs loads and saves on their own goroutines. The frame loop
// starts jobs and collects results with Poll; it never touches the disk.
type Background struct {
	results chan Result
	pending atomic.Int32
}

// NewBackground creates a worker with room for a few unpolled results
func NewBackground() *Background {
	return &Background{results: make(chan Result, 8)}
}

// Busy reports whether a job has not been polled yet
func (b *Background) Busy() bool {
	return b.pending.Load() > 0
}

// Load reads path in the background
func (b *Background) Load(path string) {
	b.run(OpLoad, path, func() (*mesh.Mesh, error) {
		return Load(path)
	})
}

// Save writes the current state of m to path in the background. The mesh
// is copied before Save returns, so m may be edited right away.
func (b *Background) Save(path string, m *mesh.Mesh) {
	snap := m.Snapshot()
	transform := m.Transform()
	b.run(OpSave, path, func() (*mesh.Mesh, error) {
		c, err := mesh.New(snap.Positions, snap.Faces, snap.SharedVertices)
		if err != nil {
			return nil, fmt.Errorf("failed to copy mesh: %w", err)
		}
		c.SetTransform(transform)
		c.Rebuild()
		return nil, Save(path, c)
	})
}

func (b *Background) run(op Op, path string, job func() (*mesh.Mesh, error)) {
	b.pending.Add(1)
	go func() {
		start := time.Now()
		m, err := job()
		b.results <- Result{Op: op, Path: path, Mesh: m, Err: err, Elapsed: time.Since(start)}
	}()
}

// Poll returns a finished job without blocking
func (b *Background) Poll() (Result, bool) {
	select {
	case r := <-b.results:
		b.pending.Add(-1)
		return r, true
	default:
		return Result{}, false
	}
}
