package meshfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the version written by Encode
const CurrentVersion = 1

var (
	// ErrEmpty is returned when a file holds no mesh at all
	ErrEmpty = errors.New("mesh file is empty")

	// ErrUnsupportedVersion is returned for files written by a newer format
	ErrUnsupportedVersion = errors.New("unsupported mesh file version")

	// ErrUnknownFormat is returned for file extensions without a codec
	ErrUnknownFormat = errors.New("unknown mesh file format")
)

// Format selects the text encoding of a mesh file
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the format from the file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Data is the on-disk form of a mesh: the three arrays in local space
type Data struct {
	Version        int          `json:"version" yaml:"version"`
	Positions      [][3]float64 `json:"positions" yaml:"positions"`
	Faces          [][]int      `json:"faces" yaml:"faces"`
	SharedVertices [][]int      `json:"sharedVertices" yaml:"sharedVertices"`
}

// FromMesh captures the current state of m
func FromMesh(m *mesh.Mesh) Data {
	s := m.Snapshot()
	d := Data{
		Version:        CurrentVersion,
		Positions:      make([][3]float64, len(s.Positions)),
		Faces:          s.Faces,
		SharedVertices: s.SharedVertices,
	}
	for i, p := range s.Positions {
		d.Positions[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return d
}

// Mesh builds and validates a mesh from the data
func (d Data) Mesh() (*mesh.Mesh, error) {
	positions := make([]geometry.Vector3, len(d.Positions))
	for i, p := range d.Positions {
		positions[i] = geometry.NewVector3(p[0], p[1], p[2])
	}
	m, err := mesh.New(positions, d.Faces, d.SharedVertices)
	if err != nil {
		return nil, fmt.Errorf("invalid mesh data: %w", err)
	}
	return m, nil
}

// Encode writes d in the given format
func Encode(w io.Writer, d Data, f Format) error {
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// Decode reads data in the given format. A missing version is read as 1.
func Decode(r io.Reader, f Format) (Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Data{}, fmt.Errorf("failed to read mesh data: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Data{}, ErrEmpty
	}

	var d Data
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &d)
	default:
		err = json.Unmarshal(raw, &d)
	}
	if err != nil {
		return Data{}, fmt.Errorf("failed to decode %s: %w", f, err)
	}

	if d.Version == 0 {
		d.Version = 1
	}
	if d.Version != CurrentVersion {
		return Data{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if len(d.Positions) == 0 && len(d.Faces) == 0 {
		return Data{}, ErrEmpty
	}
	return d, nil
}

// Save writes m to path in the format matching its extension
func Save(path string, m *mesh.Mesh) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, FromMesh(m), f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Load reads the mesh stored at path
func Load(path string) (*mesh.Mesh, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	d, err := Decode(file, f)
	if err != nil {
		return nil, err
	}
	return d.Mesh()
}
