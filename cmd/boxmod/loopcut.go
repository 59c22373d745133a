package main

import (
	"fmt"

	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/spf13/cobra"
)

var loopcutEdge []int

var loopcutCmd = &cobra.Command{
	Use:   "loopcut [file]",
	Short: "Cut an edge loop through the ring of quads across an edge",
	Long: `Cut an edge loop. The ring is grown from the given edge across opposite
sides of quads; every quad it crosses is split at its edge midpoints. Use
"boxmod edges" to find vertex pairs.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoopcut,
}

func init() {
	rootCmd.AddCommand(loopcutCmd)

	loopcutCmd.Flags().IntSliceVarP(&loopcutEdge, "edge", "e", nil, "Seed edge as two vertex indices, e.g. 0,1")
	_ = loopcutCmd.MarkFlagRequired("edge")
}

func runLoopcut(cmd *cobra.Command, args []string) error {
	if len(loopcutEdge) != 2 {
		return fmt.Errorf("--edge needs exactly two vertex indices, got %d", len(loopcutEdge))
	}
	m, err := store.Load(args[0])
	if err != nil {
		return err
	}

	seed := mesh.Edge{A: loopcutEdge[0], B: loopcutEdge[1]}
	ring, err := mesh.EdgeRing(m, seed)
	if err != nil {
		return err
	}
	if err := mesh.Connect(m, ring); err != nil {
		return err
	}

	if err := store.Save(target(args[0]), m); err != nil {
		return err
	}
	fmt.Printf("Cut a loop across %d edges, mesh now has %d faces\n", len(ring), m.FaceCount())
	return nil
}
