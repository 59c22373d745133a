package main

import (
	"fmt"

	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/analysis"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/spf13/cobra"
)

var infoFaces bool

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a mesh",
	Long:  "Show face, vertex and shared group counts, dimensions, surface area, volume and edge statistics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoFaces, "faces", false, "List every face with its center and normal")
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := store.Load(args[0])
	if err != nil {
		return err
	}
	printInfo(args[0], m)
	if infoFaces {
		printFaces(m)
	}
	return nil
}

func printInfo(filename string, m *mesh.Mesh) {
	result := analysis.AnalyzeMesh(m)

	fmt.Println("Mesh Information")
	fmt.Println("================")
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Topology:")
	fmt.Printf("  Faces: %d (%d quads)\n", result.FaceCount, result.QuadCount)
	fmt.Printf("  Vertices: %d in %d shared groups\n", result.VertexCount, result.GroupCount)
	fmt.Printf("  Edges: %d (%d on the boundary)\n", result.EdgeCount, result.BoundaryEdges)
	fmt.Printf("  Closed: %t\n\n", result.Closed())

	if result.FaceCount == 0 {
		return
	}

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Printf("  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Printf("  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Printf("  Surface Area: %.6f square units\n", result.SurfaceArea)
	if result.Closed() {
		fmt.Printf("  Volume: %.6f cubic units\n", result.Volume)
	}
	fmt.Println()

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f units\n", result.AvgEdgeLength)
}

func printFaces(m *mesh.Mesh) {
	fmt.Println("\nFaces:")
	for _, ref := range m.FaceRefs() {
		face, _ := m.Face(ref)
		center, _ := m.FaceCenter(ref)
		normal, _ := m.WorldNormal(ref)
		fmt.Printf("  %3d: %v center %s normal %s\n",
			ref.Index, face.Indexes, analysis.FormatVector(center), analysis.FormatVector(normal))
	}
}
