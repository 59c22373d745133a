// Package app is the desktop preview of the editor: the mouse stands in for
// the two hands, and the mesh is rendered with its signifiers.
package app

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/boxmod/internal/config"
	"github.com/philipparndt/boxmod/internal/signifier"
	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/editor"
	"github.com/philipparndt/boxmod/pkg/mesh"
)

// Options configures Run
type Options struct {
	Path   string
	Config config.Config
	Logger *slog.Logger
}

type App struct {
	Camera      CameraState
	Model       ModelData
	View        ViewSettings
	Interaction InteractionState
	FileWatch   FileWatchState
	Status      StatusState

	Config  config.Config
	Editor  *editor.Editor
	Handles *signifier.Set
	Hands   *cursors
	IO      *store.Background

	log *slog.Logger
}

// OnMeshTopologyChanged marks the GPU mesh for upload
func (app *App) OnMeshTopologyChanged(*mesh.Mesh) {
	app.Model.dirty = true
}

// OnMeshGeometryChanged marks the GPU mesh for upload
func (app *App) OnMeshGeometryChanged(*mesh.Mesh, []int) {
	app.Model.dirty = true
}

// Run opens the window and runs the edit loop until it is closed
func Run(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	m, created, err := loadOrCreate(opts.Path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.Path, err)
	}
	if created {
		log.Info("file does not exist, starting from a cube", "path", opts.Path)
	}

	locks := editor.NewLocks()
	app := &App{
		Config:  opts.Config,
		Handles: signifier.New(locks, log),
		Hands:   newCursors(),
		IO:      store.NewBackground(),
		View: ViewSettings{
			showWireframe: true,
			showFilled:    true,
			showHandles:   true,
			showHelp:      true,
		},
		Interaction: InteractionState{mode: editor.ActionDragFace, hoverEdge: -1},
		log:         log,
	}
	app.FileWatch.sourceFile = opts.Path
	app.Editor = editor.New(m, app.Hands,
		editor.WithLocks(locks),
		editor.WithSettings(opts.Config.Editor),
		editor.WithLogger(log),
		editor.WithListener(app.Handles),
		editor.WithListener(app),
	)
	app.Handles.OnMeshTopologyChanged(m)
	app.Model.dirty = true

	if !created {
		if err := app.setupFileWatcher(); err != nil {
			log.Warn("auto-reload is not available", "err", err)
		} else {
			defer app.FileWatch.fileWatcher.Close()
		}
	}

	view := opts.Config.View
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(view.Width), int32(view.Height), "boxmod")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(view.TargetFPS))

	app.Model.material = rl.LoadMaterialDefault()
	app.Camera.camera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
	app.frame()

	for !rl.WindowShouldClose() {
		app.applyResults()
		app.reloadModel()
		app.handleInput()
		app.uploadMesh()
		app.updateCamera()
		app.draw()
	}

	// Let a save started just before closing finish
	for app.FileWatch.isSaving {
		time.Sleep(10 * time.Millisecond)
		app.applyResults()
	}

	if app.Model.uploaded {
		rl.UnloadMesh(&app.Model.mesh)
	}
	return nil
}

func (app *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(25, 25, 35, 255))

	rl.BeginMode3D(app.Camera.camera)
	if app.View.showFilled && app.Model.uploaded {
		rl.DrawMesh(app.Model.mesh, app.Model.material, rl.MatrixIdentity())
	}
	if app.View.showWireframe {
		app.drawWireframe()
	}
	if app.View.showHandles {
		app.drawHandles()
	}
	app.drawCursors()
	rl.EndMode3D()

	app.drawUI()
	rl.EndDrawing()
}
