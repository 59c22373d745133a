package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/boxmod/pkg/editor"
)

var (
	edgeColor     = rl.NewColor(30, 30, 40, 255)
	boundaryColor = rl.Orange
	faceColor     = rl.NewColor(90, 200, 255, 255)
	vertexColor   = rl.NewColor(255, 255, 255, 255)
	lockedColor   = rl.Magenta
	hoverColor    = rl.Yellow
)

// drawWireframe draws every logical edge as a thin cylinder
func (app *App) drawWireframe() {
	m := app.Editor.Mesh()
	radius := app.Model.size * 0.003
	for _, marker := range app.Handles.Edges() {
		a := toRaylib(m.WorldPosition(marker.Edge.A))
		b := toRaylib(m.WorldPosition(marker.Edge.B))
		color := edgeColor
		if marker.Boundary {
			color = boundaryColor
		}
		rl.DrawCylinderEx(a, b, radius, radius, 6, color)
	}
}

// drawHandles draws the signifiers for the current edit mode: face centers
// for face drags and extrudes, vertex groups for vertex drags, and the edge
// markers for loop cuts
func (app *App) drawHandles() {
	size := app.Model.size * 0.015

	if app.Interaction.mode == editor.ActionDragVertex {
		for i, h := range app.Handles.Vertices() {
			color := vertexColor
			switch {
			case app.Interaction.hovered == hoverVertex && app.Interaction.hoverIndex == i:
				color = hoverColor
			case h.Locked:
				color = lockedColor
			}
			rl.DrawCube(toRaylib(h.Position), size, size, size, color)
		}
	} else {
		for i, h := range app.Handles.Faces() {
			color := faceColor
			switch {
			case app.Interaction.hovered == hoverFace && app.Interaction.hoverIndex == i:
				color = hoverColor
			case h.Locked:
				color = lockedColor
			}
			c := toRaylib(h.Center)
			tip := toRaylib(h.Center.Add(h.Normal.Mul(float64(size) * 3)))
			rl.DrawSphere(c, size*0.6, color)
			rl.DrawLine3D(c, tip, color)
		}
	}

	if i := app.Interaction.hoverEdge; i >= 0 && i < len(app.Handles.Edges()) {
		rl.DrawSphere(toRaylib(app.Handles.Edges()[i].Midpoint), size*0.4, hoverColor)
	}
}

// drawCursors marks where both hands are placed
func (app *App) drawCursors() {
	size := app.Model.size * 0.01
	for _, hand := range []editor.Hand{editor.Left, editor.Right} {
		p, ok := app.Hands.placed(hand)
		if !ok {
			continue
		}
		color := rl.Green
		if hand != app.Hands.active {
			color = rl.Purple
		}
		rl.DrawSphereWires(toRaylib(p), size, 6, 6, color)
	}
}
