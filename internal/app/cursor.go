package app

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/boxmod/pkg/editor"
	"github.com/philipparndt/boxmod/pkg/geometry"
)

// parked is where a hand rests when it is not placed on the mesh
var parked = geometry.NewVector3(1e6, 1e6, 1e6)

// cursors are the two virtual hands the mouse stands in for. The active
// hand follows the mouse; the other one can be parked on a face to act as
// the plane snap target.
type cursors struct {
	active editor.Hand
	pos    map[editor.Hand]geometry.Vector3
}

func newCursors() *cursors {
	return &cursors{active: editor.Right, pos: make(map[editor.Hand]geometry.Vector3)}
}

// Pose implements editor.Controllers
func (c *cursors) Pose(hand editor.Hand) editor.Pose {
	p, ok := c.pos[hand]
	if !ok {
		p = parked
	}
	return editor.Pose{Position: p, Rotation: mgl64.QuatIdent()}
}

func (c *cursors) place(hand editor.Hand, p geometry.Vector3) {
	c.pos[hand] = p
}

func (c *cursors) move(hand editor.Hand, delta geometry.Vector3) {
	if p, ok := c.pos[hand]; ok {
		c.pos[hand] = p.Add(delta)
	}
}

func (c *cursors) lift(hand editor.Hand) {
	delete(c.pos, hand)
}

func (c *cursors) placed(hand editor.Hand) (geometry.Vector3, bool) {
	p, ok := c.pos[hand]
	return p, ok
}

func (c *cursors) swap() {
	c.active = c.active.Other()
}
