package main

import (
	"fmt"

	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/spf13/cobra"
)

var (
	newSize float64
	newFrom string
)

var newCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Create a cube, or import an STL model, as a new mesh file",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().Float64Var(&newSize, "size", 1.0, "Edge length of the cube")
	newCmd.Flags().StringVar(&newFrom, "from", "", "Import this STL file instead of creating a cube")
}

func runNew(cmd *cobra.Command, args []string) error {
	var m *mesh.Mesh
	if newFrom != "" {
		imported, err := store.Load(newFrom)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", newFrom, err)
		}
		m = imported
	} else {
		if newSize <= 0 {
			return fmt.Errorf("size must be positive, got %g", newSize)
		}
		m = mesh.NewCube(newSize)
	}

	if err := store.Save(args[0], m); err != nil {
		return err
	}
	fmt.Printf("Created %s (%d faces, %d vertices)\n", args[0], m.FaceCount(), m.VertexCount())
	return nil
}
