package main

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/editor"
	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/spf13/cobra"
)

var (
	dragFace    int
	dragVertex  int
	dragBy      []float64
	dragSteps   int
	dragExtrude bool
	dragLocks   []int
)

var dragCmd = &cobra.Command{
	Use:   "drag [file]",
	Short: "Replay a controller drag on a face or vertex",
	Long: `Replay a drag through the interactive editor: the hand grabs the face
center (or vertex), moves by the given offset in a number of frames and
releases. Snapping to the face normal, locked faces, the extrude threshold
and the merge of coincident faces on release all apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)

	dragCmd.Flags().IntVar(&dragFace, "face", -1, "Face to grab")
	dragCmd.Flags().IntVar(&dragVertex, "vertex", -1, "Vertex to grab instead of a face")
	dragCmd.Flags().Float64SliceVar(&dragBy, "by", nil, "Hand movement as x,y,z")
	dragCmd.Flags().IntVar(&dragSteps, "steps", 10, "Number of frames")
	dragCmd.Flags().BoolVar(&dragExtrude, "extrude", false, "Extrude the face before dragging it")
	dragCmd.Flags().IntSliceVar(&dragLocks, "lock", nil, "Faces locked to move along")
	_ = dragCmd.MarkFlagRequired("by")
}

// scriptedHands is a Controllers whose poses are set by the caller
type scriptedHands struct {
	poses map[editor.Hand]editor.Pose
}

func newScriptedHands() *scriptedHands {
	far := geometry.NewVector3(1e9, 1e9, 1e9)
	return &scriptedHands{poses: map[editor.Hand]editor.Pose{
		editor.Left:  {Position: far, Rotation: mgl64.QuatIdent()},
		editor.Right: {Position: far, Rotation: mgl64.QuatIdent()},
	}}
}

func (h *scriptedHands) Pose(hand editor.Hand) editor.Pose {
	return h.poses[hand]
}

func (h *scriptedHands) place(hand editor.Hand, p geometry.Vector3) {
	h.poses[hand] = editor.Pose{Position: p, Rotation: mgl64.QuatIdent()}
}

// dragScript describes one replayed drag
type dragScript struct {
	Face    int
	Vertex  int
	By      geometry.Vector3
	Steps   int
	Extrude bool
	Locks   []int
}

func runDrag(cmd *cobra.Command, args []string) error {
	if len(dragBy) != 3 {
		return fmt.Errorf("--by needs three components, got %d", len(dragBy))
	}
	m, err := store.Load(args[0])
	if err != nil {
		return err
	}

	script := dragScript{
		Face:    dragFace,
		Vertex:  dragVertex,
		By:      geometry.NewVector3(dragBy[0], dragBy[1], dragBy[2]),
		Steps:   dragSteps,
		Extrude: dragExtrude,
		Locks:   dragLocks,
	}
	if err := replayDrag(m, cfg.Editor, script); err != nil {
		return err
	}

	if err := store.Save(target(args[0]), m); err != nil {
		return err
	}
	fmt.Printf("Dragged by %v, mesh now has %d faces\n", dragBy, m.FaceCount())
	return nil
}

// replayDrag runs script against m through an editor
func replayDrag(m *mesh.Mesh, settings editor.Settings, script dragScript) error {
	hands := newScriptedHands()
	locks := editor.NewLocks()
	e := editor.New(m, hands,
		editor.WithSettings(settings),
		editor.WithLocks(locks),
		editor.WithLogger(slog.Default()),
	)

	for _, fi := range script.Locks {
		c, err := faceCenter(m, fi)
		if err != nil {
			return err
		}
		locks.ToggleFace(c)
	}

	var start geometry.Vector3
	action := editor.ActionDragFace
	switch {
	case script.Vertex >= 0:
		if script.Vertex >= m.VertexCount() {
			return fmt.Errorf("vertex %d out of range (mesh has %d vertices)", script.Vertex, m.VertexCount())
		}
		start = m.WorldPosition(script.Vertex)
		action = editor.ActionDragVertex
	case script.Face >= 0:
		c, err := faceCenter(m, script.Face)
		if err != nil {
			return err
		}
		start = c
		if script.Extrude {
			action = editor.ActionExtrude
		}
	default:
		return fmt.Errorf("either a face or a vertex has to be given")
	}

	hands.place(editor.Right, start)
	ok, err := e.TriggerDown(editor.Right, action)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("nothing to grab at %v", start)
	}

	steps := max(script.Steps, 1)
	for i := 1; i <= steps; i++ {
		hands.place(editor.Right, start.Add(script.By.Mul(float64(i)/float64(steps))))
		e.Tick()
	}
	return e.TriggerUp(editor.Right)
}

func faceCenter(m *mesh.Mesh, fi int) (geometry.Vector3, error) {
	if fi < 0 || fi >= m.FaceCount() {
		return geometry.Vector3{}, fmt.Errorf("face %d out of range (mesh has %d faces)", fi, m.FaceCount())
	}
	return m.FaceCenter(m.Ref(fi))
}
