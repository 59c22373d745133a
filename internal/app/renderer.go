package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/philipparndt/boxmod/pkg/stl"
)

// lightDir is the direction of the baked light
var lightDir = geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

// meshToRaylib triangulates m in world space and uploads it with baked
// lighting in the vertex colors
func meshToRaylib(m *mesh.Mesh) rl.Mesh {
	model := stl.FromMesh("", m)
	triangleCount := len(model.Triangles)
	vertexCount := triangleCount * 3

	out := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	vertices := make([]float32, vertexCount*3)
	normals := make([]float32, vertexCount*3)
	texcoords := make([]float32, vertexCount*2)
	colors := make([]uint8, vertexCount*4)

	idx := 0
	for _, triangle := range model.Triangles {
		normal := triangle.Normal

		// Min 30% ambient, max 100% diffuse
		light := math.Max(0.3, -normal.Dot(lightDir))
		r := uint8(200 * light * 0.55)
		g := uint8(200 * light * 0.65)
		b := uint8(200 * light)

		for k, v := range [3]geometry.Vector3{triangle.V1, triangle.V2, triangle.V3} {
			vertices[idx*3+0] = float32(v.X)
			vertices[idx*3+1] = float32(v.Y)
			vertices[idx*3+2] = float32(v.Z)
			normals[idx*3+0] = float32(normal.X)
			normals[idx*3+1] = float32(normal.Y)
			normals[idx*3+2] = float32(normal.Z)
			texcoords[idx*2+0] = float32(k & 1)
			texcoords[idx*2+1] = float32(k >> 1)
			colors[idx*4+0] = r
			colors[idx*4+1] = g
			colors[idx*4+2] = b
			colors[idx*4+3] = 255
			idx++
		}
	}

	if vertexCount > 0 {
		out.Vertices = &vertices[0]
		out.Normals = &normals[0]
		out.Texcoords = &texcoords[0]
		out.Colors = &colors[0]
		rl.UploadMesh(&out, false)
	}
	return out
}

// uploadMesh replaces the GPU mesh when the edited mesh changed
func (app *App) uploadMesh() {
	if !app.Model.dirty {
		return
	}
	m := app.Editor.Mesh()
	if m.Dirty() {
		m.Rebuild()
	}
	next := meshToRaylib(m)
	if app.Model.uploaded {
		rl.UnloadMesh(&app.Model.mesh)
	}
	app.Model.mesh = next
	app.Model.uploaded = next.VertexCount > 0
	app.Model.dirty = false
}

// frame fits the camera defaults to the current mesh bounds
func (app *App) frame() {
	bbox := stl.FromMesh("", app.Editor.Mesh()).BoundingBox()
	center := bbox.Center()
	size := bbox.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		maxDim = 1
	}

	app.Model.center = toRaylib(center)
	app.Model.size = float32(maxDim)
	app.Camera.defaultDist = float32(maxDim * 2.5)
	app.Camera.defaultAngleX = 0.5
	app.Camera.defaultAngleY = 0.6
	app.resetCameraView()
}
