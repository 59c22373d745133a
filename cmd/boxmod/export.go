package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/boxmod/internal/store"
	"github.com/philipparndt/boxmod/pkg/stl"
	"github.com/spf13/cobra"
)

var exportASCII bool

var exportCmd = &cobra.Command{
	Use:   "export [file] [out.stl]",
	Short: "Export a mesh as triangulated STL",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportASCII, "ascii", false, "Write ASCII STL instead of binary")
}

func runExport(cmd *cobra.Command, args []string) error {
	m, err := store.Load(args[0])
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	model := stl.FromMesh(name, m)
	if err := stl.WriteFile(args[1], model, exportASCII); err != nil {
		return err
	}
	fmt.Printf("Wrote %d triangles to %s\n", model.TriangleCount(), args[1])
	return nil
}
