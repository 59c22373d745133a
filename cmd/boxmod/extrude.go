package main

import (
	"fmt"
	"log/slog"

	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/spf13/cobra"
)

var (
	extrudeFaces    []int
	extrudeDistance float64
)

var extrudeCmd = &cobra.Command{
	Use:   "extrude [file]",
	Short: "Extrude faces along their normals",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtrude,
}

func init() {
	rootCmd.AddCommand(extrudeCmd)

	extrudeCmd.Flags().IntSliceVarP(&extrudeFaces, "face", "f", nil, "Face indices to extrude (repeat or comma separate)")
	extrudeCmd.Flags().Float64VarP(&extrudeDistance, "distance", "d", 0.5, "Extrusion distance")
	_ = extrudeCmd.MarkFlagRequired("face")
}

func runExtrude(cmd *cobra.Command, args []string) error {
	m, err := store.Load(args[0])
	if err != nil {
		return err
	}
	if err := extrudeFacesBy(m, extrudeFaces, extrudeDistance); err != nil {
		return err
	}
	if err := store.Save(target(args[0]), m); err != nil {
		return err
	}
	fmt.Printf("Extruded %d face(s) by %.6f, mesh now has %d faces\n", len(extrudeFaces), extrudeDistance, m.FaceCount())
	return nil
}

func faceRefs(m *mesh.Mesh, indices []int) ([]mesh.FaceRef, error) {
	refs := make([]mesh.FaceRef, len(indices))
	for i, fi := range indices {
		if fi < 0 || fi >= m.FaceCount() {
			return nil, fmt.Errorf("face %d out of range (mesh has %d faces)", fi, m.FaceCount())
		}
		refs[i] = m.Ref(fi)
	}
	return refs, nil
}

func extrudeFacesBy(m *mesh.Mesh, indices []int, distance float64) error {
	refs, err := faceRefs(m, indices)
	if err != nil {
		return err
	}
	if _, err := mesh.Extrude(m, refs, distance); err != nil {
		return err
	}
	slog.Debug("extruded", "faces", indices, "distance", distance)
	return nil
}
