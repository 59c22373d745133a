package editor

import "github.com/philipparndt/boxmod/pkg/undo"

// Settings tunes selection, snapping and merging. Distances are world
// units, angles are degrees.
type Settings struct {
	SelectionRadius     float64 `toml:"selection_radius" yaml:"selection_radius"`
	SnapThreshold       float64 `toml:"snap_threshold" yaml:"snap_threshold"`
	PlaneSnapDistance   float64 `toml:"plane_snap_distance" yaml:"plane_snap_distance"`
	PlaneSnapAngle      float64 `toml:"plane_snap_angle" yaml:"plane_snap_angle"`
	CoincidentTolerance float64 `toml:"coincident_tolerance" yaml:"coincident_tolerance"`
	WeldTolerance       float64 `toml:"weld_tolerance" yaml:"weld_tolerance"`
	MinExtrudeDistance  float64 `toml:"min_extrude_distance" yaml:"min_extrude_distance"`
	InitialExtrude      float64 `toml:"initial_extrude" yaml:"initial_extrude"`
	ExtrudeFreeMovement bool    `toml:"extrude_free_movement" yaml:"extrude_free_movement"`
	MaxUndoSteps        int     `toml:"max_undo_steps" yaml:"max_undo_steps"`
	MergeOnRelease      bool    `toml:"merge_on_release" yaml:"merge_on_release"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		SelectionRadius:     0.1,
		SnapThreshold:       0.025,
		PlaneSnapDistance:   0.1,
		PlaneSnapAngle:      5,
		CoincidentTolerance: 1e-4,
		WeldTolerance:       1e-3,
		MinExtrudeDistance:  0.01,
		InitialExtrude:      0.001,
		MaxUndoSteps:        undo.DefaultMaxDepth,
		MergeOnRelease:      true,
	}
}
