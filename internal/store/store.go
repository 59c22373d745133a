// Package store reads and writes meshes by file extension: .stl goes through
// the STL codec, .json and .yaml through the mesh file format.
package store

import (
	"path/filepath"
	"strings"

	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/philipparndt/boxmod/pkg/meshfile"
	"github.com/philipparndt/boxmod/pkg/stl"
)

// IsSTL reports whether path names an STL file
func IsSTL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".stl")
}

// Load reads a mesh file, or imports an STL file with coincident corners
// grouped
func Load(path string) (*mesh.Mesh, error) {
	if IsSTL(path) {
		model, err := stl.Parse(path)
		if err != nil {
			return nil, err
		}
		return model.ToMesh()
	}
	return meshfile.Load(path)
}

// Save writes m as a mesh file, or as binary STL for .stl paths
func Save(path string, m *mesh.Mesh) error {
	if IsSTL(path) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return stl.WriteFile(path, stl.FromMesh(name, m), false)
	}
	return meshfile.Save(path, m)
}
