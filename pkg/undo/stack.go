package undo

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/philipparndt/boxmod/pkg/mesh"
)

// DefaultMaxDepth is the number of undo steps kept when none is configured
const DefaultMaxDepth = 50

// Stack keeps bounded undo and redo histories of mesh snapshots.
// Snapshots are copied in and copied out, so nothing on the stack aliases
// the live mesh.
type Stack struct {
	// MaxDepth bounds the undo history. Values below 1 mean DefaultMaxDepth.
	MaxDepth int

	undo []mesh.Snapshot
	redo []mesh.Snapshot
}

// New creates a stack holding at most maxDepth undo steps
func New(maxDepth int) *Stack {
	return &Stack{MaxDepth: maxDepth}
}

func (s *Stack) depth() int {
	if s.MaxDepth < 1 {
		return DefaultMaxDepth
	}
	return s.MaxDepth
}

// Save records the current state of m and clears the redo history
func (s *Stack) Save(m *mesh.Mesh) {
	s.push(m.Snapshot())
}

// Push records snap as the newest undo step and clears the redo history
func (s *Stack) Push(snap mesh.Snapshot) {
	s.push(snap.Clone())
}

func (s *Stack) push(snap mesh.Snapshot) {
	s.undo = append(s.undo, snap)
	if over := len(s.undo) - s.depth(); over > 0 {
		s.undo = append(s.undo[:0], s.undo[over:]...)
	}
	s.redo = nil
}

// Undo restores the newest undo step and moves the current state onto the
// redo history. It reports false when there is nothing to undo.
func (s *Stack) Undo(m *mesh.Mesh) (bool, error) {
	if len(s.undo) == 0 {
		return false, nil
	}
	current := m.Snapshot()
	if err := m.Restore(s.undo[len(s.undo)-1]); err != nil {
		return false, fmt.Errorf("undo: %w", err)
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, current)
	return true, nil
}

// Redo reapplies the newest redo step and moves the current state back onto
// the undo history. It reports false when there is nothing to redo.
func (s *Stack) Redo(m *mesh.Mesh) (bool, error) {
	if len(s.redo) == 0 {
		return false, nil
	}
	current := m.Snapshot()
	if err := m.Restore(s.redo[len(s.redo)-1]); err != nil {
		return false, fmt.Errorf("redo: %w", err)
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, current)
	return true, nil
}

// Discard restores the newest undo step without recording a redo step.
// The redo history is left as it is.
func (s *Stack) Discard(m *mesh.Mesh) (bool, error) {
	if len(s.undo) == 0 {
		return false, nil
	}
	if err := m.Restore(s.undo[len(s.undo)-1]); err != nil {
		return false, fmt.Errorf("discard: %w", err)
	}
	s.undo = s.undo[:len(s.undo)-1]
	return true, nil
}

// Pop drops the newest undo step without touching the mesh
func (s *Stack) Pop() (mesh.Snapshot, bool) {
	if len(s.undo) == 0 {
		return mesh.Snapshot{}, false
	}
	snap := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	return snap, true
}

// Peek returns a copy of the newest undo step
func (s *Stack) Peek() (mesh.Snapshot, bool) {
	if len(s.undo) == 0 {
		return mesh.Snapshot{}, false
	}
	return s.undo[len(s.undo)-1].Clone(), true
}

// History returns copies of the undo steps, oldest first
func (s *Stack) History() []mesh.Snapshot {
	var out []mesh.Snapshot
	if err := copier.CopyWithOption(&out, &s.undo, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("undo: history copy failed: %v", err))
	}
	return out
}

func (s *Stack) UndoLen() int { return len(s.undo) }

func (s *Stack) RedoLen() int { return len(s.redo) }

// Reset drops both histories
func (s *Stack) Reset() {
	s.undo = nil
	s.redo = nil
}
