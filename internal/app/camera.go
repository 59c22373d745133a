package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/boxmod/pkg/geometry"
)

// resetCameraView resets the camera to the default view
func (app *App) resetCameraView() {
	app.Camera.distance = app.Camera.defaultDist
	app.Camera.angleX = app.Camera.defaultAngleX
	app.Camera.angleY = app.Camera.defaultAngleY
	app.Camera.target = app.Model.center
}

// setCameraTopView looks straight down the Y axis
func (app *App) setCameraTopView() {
	app.Camera.angleX = math.Pi/2 - 0.001
	app.Camera.angleY = 0
	app.Camera.target = app.Model.center
}

// setCameraFrontView looks along -Z
func (app *App) setCameraFrontView() {
	app.Camera.angleX = 0
	app.Camera.angleY = 0
	app.Camera.target = app.Model.center
}

// setCameraRightView looks along -X
func (app *App) setCameraRightView() {
	app.Camera.angleX = 0
	app.Camera.angleY = math.Pi / 2
	app.Camera.target = app.Model.center
}

// updateCamera updates camera position based on angles
func (app *App) updateCamera() {
	c := &app.Camera
	x := c.distance * float32(math.Cos(float64(c.angleX))) * float32(math.Sin(float64(c.angleY)))
	y := c.distance * float32(math.Sin(float64(c.angleX)))
	z := c.distance * float32(math.Cos(float64(c.angleX))) * float32(math.Cos(float64(c.angleY)))

	c.camera.Position = rl.Vector3{X: c.target.X + x, Y: c.target.Y + y, Z: c.target.Z + z}
	c.camera.Target = c.target
}

// orbit rotates the camera around its target
func (app *App) orbit(delta rl.Vector2) {
	app.Camera.angleY -= delta.X * 0.01
	app.Camera.angleX += delta.Y * 0.01
	limit := float32(math.Pi/2 - 0.01)
	app.Camera.angleX = max(-limit, min(limit, app.Camera.angleX))
}

// zoom scales the camera distance by wheel steps
func (app *App) zoom(wheel float32) {
	app.Camera.distance *= 1 - wheel*0.1
	app.Camera.distance = max(app.Model.size*0.2, app.Camera.distance)
}

// screenPlane returns the camera right and up vectors
func (app *App) screenPlane() (right, up rl.Vector3) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(app.Camera.target, app.Camera.camera.Position))
	right = rl.Vector3Normalize(rl.Vector3CrossProduct(forward, app.Camera.camera.Up))
	up = rl.Vector3Normalize(rl.Vector3CrossProduct(right, forward))
	return right, up
}

// doPan performs camera panning based on mouse delta
func (app *App) doPan(delta rl.Vector2) {
	right, up := app.screenPlane()
	panSpeed := app.Camera.distance * 0.001

	app.Camera.target = rl.Vector3Add(app.Camera.target, rl.Vector3Scale(right, -delta.X*panSpeed))
	app.Camera.target = rl.Vector3Add(app.Camera.target, rl.Vector3Scale(up, delta.Y*panSpeed))
}

// screenToWorldDelta turns a mouse delta into a world movement in the plane
// facing the camera, scaled like panning
func (app *App) screenToWorldDelta(delta rl.Vector2, speed float64) geometry.Vector3 {
	right, up := app.screenPlane()
	k := float64(app.Camera.distance) * 0.001 * speed
	return toVector(right).Mul(float64(delta.X) * k).Add(toVector(up).Mul(-float64(delta.Y) * k))
}

func toRaylib(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func toVector(v rl.Vector3) geometry.Vector3 {
	return geometry.NewVector3(float64(v.X), float64(v.Y), float64(v.Z))
}
