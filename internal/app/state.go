package app

import (
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/boxmod/pkg/editor"
	"github.com/philipparndt/boxmod/pkg/watcher"
)

// CameraState holds all camera-related state
type CameraState struct {
	camera        rl.Camera3D
	distance      float32
	angleX        float32
	angleY        float32
	target        rl.Vector3 // Current camera target (can be panned)
	defaultDist   float32
	defaultAngleX float32
	defaultAngleY float32
}

// ModelData holds the GPU copy of the edited mesh
type ModelData struct {
	mesh     rl.Mesh
	material rl.Material
	uploaded bool
	dirty    bool       // Mesh changed since the last upload
	center   rl.Vector3 // Bounding box center when loaded
	size     float32    // Max dimension, used to scale markers
}

// ViewSettings holds display settings
type ViewSettings struct {
	showWireframe bool
	showFilled    bool
	showHandles   bool
	showHelp      bool
}

// handleKind tells which signifier list a hover refers to
type handleKind int

const (
	hoverNone handleKind = iota
	hoverFace
	hoverVertex
	hoverEdge
)

// InteractionState holds mouse and interaction state
type InteractionState struct {
	mode       editor.Action // What a left click starts
	hovered    handleKind
	hoverIndex int
	hoverEdge  int // Nearest edge marker, for loop cuts
	isPanning  bool
	dragging   bool
}

// FileWatchState holds file watching and reload state
type FileWatchState struct {
	sourceFile  string
	fileWatcher *watcher.FileWatcher
	needsReload atomic.Bool // Set from the watcher goroutine
	isLoading   bool
	isSaving    bool
	lastSave    time.Time // When our last save finished; own saves are not reloaded
}

// StatusState is the last message shown in the corner
type StatusState struct {
	text string
	at   time.Time
	err  bool
}
