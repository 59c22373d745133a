package editor

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/philipparndt/boxmod/pkg/undo"
)

// Editor drives interactive edits of one mesh: hand sessions, the undo
// history, locked elements and change notifications. It is not safe for
// concurrent use; all calls are expected from the frame loop.
type Editor struct {
	mesh        *mesh.Mesh
	controllers Controllers
	history     *undo.Stack
	locks       LockSource
	listeners   []Listener
	settings    Settings
	log         *slog.Logger
	sessions    map[Hand]*session
}

// Option configures an Editor
type Option func(*Editor)

// WithLocks replaces the default lock set
func WithLocks(l LockSource) Option {
	return func(e *Editor) { e.locks = l }
}

// WithListener registers a change listener
func WithListener(l Listener) Option {
	return func(e *Editor) { e.listeners = append(e.listeners, l) }
}

// WithSettings replaces the default tuning values
func WithSettings(s Settings) Option {
	return func(e *Editor) { e.settings = s }
}

// WithLogger sets the logger used for operator and session events
func WithLogger(log *slog.Logger) Option {
	return func(e *Editor) { e.log = log }
}

// New creates an editor for m that samples hand poses from controllers
func New(m *mesh.Mesh, controllers Controllers, opts ...Option) *Editor {
	e := &Editor{
		mesh:        m,
		controllers: controllers,
		locks:       NewLocks(),
		settings:    DefaultSettings(),
		log:         slog.Default(),
		sessions:    make(map[Hand]*session),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = undo.New(e.settings.MaxUndoSteps)
	return e
}

// Mesh returns the mesh being edited
func (e *Editor) Mesh() *mesh.Mesh { return e.mesh }

// History returns the undo stack
func (e *Editor) History() *undo.Stack { return e.history }

// Locks returns the lock source consulted by the operators
func (e *Editor) Locks() LockSource { return e.locks }

// Settings returns the active settings
func (e *Editor) Settings() Settings { return e.settings }

// AddListener registers a change listener
func (e *Editor) AddListener(l Listener) {
	e.listeners = append(e.listeners, l)
}

// State returns the session state of hand
func (e *Editor) State(hand Hand) State {
	if s, ok := e.sessions[hand]; ok {
		return s.state
	}
	return Idle
}

// Active returns the hand that currently holds a session
func (e *Editor) Active() (Hand, bool) {
	if s := e.active(); s != nil {
		return s.hand, true
	}
	return Left, false
}

func (e *Editor) active() *session {
	for _, h := range []Hand{Left, Right} {
		if s, ok := e.sessions[h]; ok {
			return s
		}
	}
	return nil
}

// Load swaps in another mesh. History, sessions and locks are dropped.
func (e *Editor) Load(m *mesh.Mesh) {
	e.mesh = m
	e.history.Reset()
	e.clearSelection()
	e.log.Info("mesh loaded", "faces", m.FaceCount(), "vertices", m.VertexCount())
	e.notifyTopology()
}

// LoopCut cuts the edge ring through seed. The undo step is only recorded
// when the cut succeeds; on failure the mesh is unchanged.
func (e *Editor) LoopCut(seed mesh.Edge) error {
	if s := e.active(); s != nil {
		return fmt.Errorf("%w: %s hand is %s", ErrSessionActive, s.hand, s.state)
	}
	if e.mesh.Dirty() {
		e.mesh.Rebuild()
	}

	before := e.mesh.Snapshot()
	if err := mesh.LoopCut(e.mesh, seed); err != nil {
		e.log.Debug("loop cut refused", "edge", seed, "err", err)
		return err
	}
	e.history.Push(before)
	e.log.Info("loop cut", "edge", seed, "faces", e.mesh.FaceCount())
	e.notifyTopology()
	return nil
}

// LoopCutAt cuts through the edge whose midpoint is nearest to the given
// hand, provided it lies within the selection radius. It reports whether an
// edge was found.
func (e *Editor) LoopCutAt(hand Hand) (bool, error) {
	if e.mesh.Dirty() {
		e.mesh.Rebuild()
	}
	p := e.controllers.Pose(hand).Position
	marker, ok := ClosestEdgeMarker(e.mesh, p, e.settings.SelectionRadius)
	if !ok {
		return false, nil
	}
	return true, e.LoopCut(marker.Edge)
}

// Undo steps back one edit. Sessions and locks are cleared either way.
func (e *Editor) Undo() (bool, error) {
	return e.step("undo", e.history.Undo)
}

// Redo reapplies the last undone edit. Sessions and locks are cleared
// either way.
func (e *Editor) Redo() (bool, error) {
	return e.step("redo", e.history.Redo)
}

func (e *Editor) step(name string, op func(*mesh.Mesh) (bool, error)) (bool, error) {
	e.clearSelection()
	ok, err := op(e.mesh)
	if err != nil || !ok {
		return false, err
	}
	e.log.Debug(name, "undo", e.history.UndoLen(), "redo", e.history.RedoLen())
	e.notifyTopology()
	return true, nil
}

func (e *Editor) clearSelection() {
	clear(e.sessions)
	e.locks.Clear()
}

func (e *Editor) notifyTopology() {
	for _, l := range e.listeners {
		l.OnMeshTopologyChanged(e.mesh)
	}
}

func (e *Editor) notifyGeometry(moved []int) {
	for _, l := range e.listeners {
		if gl, ok := l.(GeometryListener); ok {
			gl.OnMeshGeometryChanged(e.mesh, slices.Clone(moved))
		}
	}
}
