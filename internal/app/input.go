package app

import (
	"errors"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/boxmod/pkg/editor"
	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
)

// hoverRadius is the pick distance in screen pixels
const hoverRadius = 14

// handleInput processes one frame of keyboard and mouse input
func (app *App) handleInput() {
	if !app.Interaction.dragging {
		app.updateHover()
	}
	app.handleKeys()
	app.handleCamera()
	app.handleDrag()
}

func (app *App) handleKeys() {
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)

	switch {
	case ctrl && rl.IsKeyPressed(rl.KeyZ) && shift, ctrl && rl.IsKeyPressed(rl.KeyY):
		app.step("redo", app.Editor.Redo)
	case ctrl && rl.IsKeyPressed(rl.KeyZ):
		app.step("undo", app.Editor.Undo)
	case ctrl && rl.IsKeyPressed(rl.KeyS):
		app.saveModel()
	}
	if ctrl || app.Interaction.dragging {
		return
	}

	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		app.setMode(editor.ActionDragFace)
	case rl.IsKeyPressed(rl.KeyTwo):
		app.setMode(editor.ActionExtrude)
	case rl.IsKeyPressed(rl.KeyThree):
		app.setMode(editor.ActionDragVertex)
	case rl.IsKeyPressed(rl.KeyTab):
		app.Hands.swap()
		app.setStatus("active hand: " + app.Hands.active.String())
	case rl.IsKeyPressed(rl.KeyL):
		app.toggleLock()
	case rl.IsKeyPressed(rl.KeyC):
		app.loopCut()
	case rl.IsKeyPressed(rl.KeyF):
		app.parkOtherHand()
	case rl.IsKeyPressed(rl.KeyW):
		app.View.showWireframe = !app.View.showWireframe
	case rl.IsKeyPressed(rl.KeyS):
		app.View.showFilled = !app.View.showFilled
	case rl.IsKeyPressed(rl.KeyM):
		app.View.showHandles = !app.View.showHandles
	case rl.IsKeyPressed(rl.KeyH):
		app.View.showHelp = !app.View.showHelp
	case rl.IsKeyPressed(rl.KeyHome):
		app.resetCameraView()
	case rl.IsKeyPressed(rl.KeySeven):
		app.setCameraTopView()
	case rl.IsKeyPressed(rl.KeyEight):
		app.setCameraFrontView()
	case rl.IsKeyPressed(rl.KeyNine):
		app.setCameraRightView()
	}
}

func (app *App) handleCamera() {
	delta := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		app.orbit(delta)
	}
	app.Interaction.isPanning = rl.IsMouseButtonDown(rl.MouseMiddleButton)
	if app.Interaction.isPanning {
		app.doPan(delta)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		app.zoom(wheel)
	}
}

// updateHover finds the handle under the mouse for the current mode and the
// nearest edge marker
func (app *App) updateHover() {
	mouse := rl.GetMousePosition()
	app.Interaction.hovered = hoverNone
	app.Interaction.hoverEdge = -1

	if app.Interaction.mode == editor.ActionDragVertex {
		if i := app.nearestOnScreen(mouse, len(app.Handles.Vertices()), func(i int) geometry.Vector3 {
			return app.Handles.Vertices()[i].Position
		}); i >= 0 {
			app.Interaction.hovered, app.Interaction.hoverIndex = hoverVertex, i
		}
	} else {
		if i := app.nearestOnScreen(mouse, len(app.Handles.Faces()), func(i int) geometry.Vector3 {
			return app.Handles.Faces()[i].Center
		}); i >= 0 {
			app.Interaction.hovered, app.Interaction.hoverIndex = hoverFace, i
		}
	}

	app.Interaction.hoverEdge = app.nearestOnScreen(mouse, len(app.Handles.Edges()), func(i int) geometry.Vector3 {
		return app.Handles.Edges()[i].Midpoint
	})
}

// nearestOnScreen returns the index of the point closest to mouse within the
// hover radius, or -1
func (app *App) nearestOnScreen(mouse rl.Vector2, n int, at func(int) geometry.Vector3) int {
	best := -1
	bestDist := float32(math.MaxFloat32)
	for i := 0; i < n; i++ {
		p := rl.GetWorldToScreen(toRaylib(at(i)), app.Camera.camera)
		if d := rl.Vector2Distance(mouse, p); d <= hoverRadius && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// hoverPoint is the world position of the hovered handle
func (app *App) hoverPoint() (geometry.Vector3, bool) {
	switch app.Interaction.hovered {
	case hoverFace:
		return app.Handles.Faces()[app.Interaction.hoverIndex].Center, true
	case hoverVertex:
		return app.Handles.Vertices()[app.Interaction.hoverIndex].Position, true
	}
	return geometry.Vector3{}, false
}

// handleDrag maps the left mouse button to trigger down and up of the
// active hand. While held, mouse motion moves the hand in the screen plane.
func (app *App) handleDrag() {
	hand := app.Hands.active

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		p, ok := app.hoverPoint()
		if !ok {
			return
		}
		app.Hands.place(hand, p)
		hit, err := app.Editor.TriggerDown(hand, app.Interaction.mode)
		switch {
		case err != nil:
			app.setError("trigger", err)
		case hit:
			app.Interaction.dragging = true
		}
		return
	}

	if !app.Interaction.dragging {
		return
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		if delta := rl.GetMouseDelta(); delta.X != 0 || delta.Y != 0 {
			app.Hands.move(hand, app.screenToWorldDelta(delta, app.Config.View.CursorSpeed))
		}
		app.Editor.Tick()
		return
	}

	app.Interaction.dragging = false
	if err := app.Editor.TriggerUp(hand); err != nil {
		app.setError("release", err)
	}
	app.Hands.lift(hand)
	app.Handles.RefreshLocks()
}

func (app *App) setMode(mode editor.Action) {
	app.Interaction.mode = mode
	app.setStatus("mode: " + mode.String())
}

// toggleLock locks or unlocks the hovered face or vertex group
func (app *App) toggleLock() {
	locks, ok := app.Editor.Locks().(*editor.Locks)
	if !ok {
		return
	}
	p, ok := app.hoverPoint()
	if !ok {
		return
	}
	var locked bool
	if app.Interaction.hovered == hoverVertex {
		locked = locks.ToggleVertex(p)
	} else {
		locked = locks.ToggleFace(p)
	}
	app.Handles.RefreshLocks()
	if locked {
		app.setStatus("locked")
	} else {
		app.setStatus("unlocked")
	}
}

// loopCut cuts through the hovered edge marker with the active hand
func (app *App) loopCut() {
	i := app.Interaction.hoverEdge
	if i < 0 {
		return
	}
	hand := app.Hands.active
	app.Hands.place(hand, app.Handles.Edges()[i].Midpoint)
	defer app.Hands.lift(hand)

	ok, err := app.Editor.LoopCutAt(hand)
	switch {
	case errors.Is(err, mesh.ErrTopologyPrecondition):
		app.setStatus("edge ring cannot be cut here")
	case err != nil:
		app.setError("loop cut", err)
	case ok:
		app.setStatus("loop cut")
	}
}

// parkOtherHand leaves the inactive hand on the hovered face, where it
// serves as the plane snap target; pressing again over nothing lifts it
func (app *App) parkOtherHand() {
	other := app.Hands.active.Other()
	if p, ok := app.hoverPoint(); ok && app.Interaction.hovered == hoverFace {
		app.Hands.place(other, p)
		app.setStatus(other.String() + " hand parked")
		return
	}
	app.Hands.lift(other)
}

func (app *App) step(name string, op func() (bool, error)) {
	if app.Interaction.dragging {
		app.Interaction.dragging = false
		app.Hands.lift(app.Hands.active)
	}
	ok, err := op()
	switch {
	case err != nil:
		app.setError(name, err)
	case ok:
		app.setStatus(name)
	default:
		app.setStatus("nothing to " + name)
	}
}
