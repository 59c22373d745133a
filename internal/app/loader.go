package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/philipparndt/boxmod/pkg/watcher"
)

// loadOrCreate reads the mesh at path, or starts from a unit cube when the
// file does not exist yet
func loadOrCreate(path string) (*mesh.Mesh, bool, error) {
	m, err := store.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return mesh.NewCube(1), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, false, nil
}

// setupFileWatcher watches the source file and flags a reload on change
func (app *App) setupFileWatcher() error {
	debounce, err := time.ParseDuration(app.Config.View.WatchDebounce)
	if err != nil {
		return fmt.Errorf("invalid watch_debounce: %w", err)
	}

	fw, err := watcher.NewFileWatcher(debounce)
	if err != nil {
		return err
	}
	fw.SetLogger(app.log)

	callback := func(changedFile string) {
		app.log.Info("file changed", "path", changedFile)
		app.FileWatch.needsReload.Store(true)
	}
	if err := fw.Watch([]string{app.FileWatch.sourceFile}, callback); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch files: %w", err)
	}

	fw.Start()
	app.FileWatch.fileWatcher = fw
	app.log.Info("watching file for changes", "path", app.FileWatch.sourceFile)
	return nil
}

// reloadModel starts loading the changed file in the background. Changes
// caused by our own save are skipped, and nothing is reloaded in the middle
// of a drag.
func (app *App) reloadModel() {
	if app.Interaction.dragging || app.FileWatch.isLoading || app.FileWatch.isSaving {
		return
	}
	if !app.FileWatch.needsReload.Swap(false) {
		return
	}
	if time.Since(app.FileWatch.lastSave) < 2*time.Second {
		app.log.Debug("skipping reload of own save")
		return
	}

	app.FileWatch.isLoading = true
	app.log.Info("reloading model", "path", app.FileWatch.sourceFile)
	app.IO.Load(app.FileWatch.sourceFile)
}

// saveModel writes the edited mesh in the background
func (app *App) saveModel() {
	if app.FileWatch.isSaving {
		app.setStatus("save in progress")
		return
	}
	app.FileWatch.isSaving = true
	app.IO.Save(app.FileWatch.sourceFile, app.Editor.Mesh())
}

// applyResults hands finished loads and saves to the editor (must be called
// on the main thread)
func (app *App) applyResults() {
	for {
		r, ok := app.IO.Poll()
		if !ok {
			return
		}
		switch r.Op {
		case store.OpLoad:
			app.FileWatch.isLoading = false
			if r.Err != nil {
				app.setError("reload", r.Err)
				continue
			}
			if app.Interaction.dragging {
				// Picked up again after the drag
				app.FileWatch.needsReload.Store(true)
				continue
			}
			app.Editor.Load(r.Mesh)
			app.log.Info("model reloaded", "elapsed", r.Elapsed)
			app.setStatus("reloaded")
		case store.OpSave:
			app.FileWatch.isSaving = false
			if r.Err != nil {
				app.setError("save", r.Err)
				continue
			}
			app.FileWatch.lastSave = time.Now()
			app.log.Info("model saved", "path", r.Path, "elapsed", r.Elapsed)
			app.setStatus("saved " + r.Path)
		}
	}
}
