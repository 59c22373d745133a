package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wait polls b like the frame loop does until a result arrives
func wait(t *testing.T, b *Background) Result {
	t.Helper()
	var r Result
	require.Eventually(t, func() bool {
		var ok bool
		r, ok = b.Poll()
		return ok
	}, 5*time.Second, time.Millisecond)
	return r
}

func TestBackgroundLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.json")
	m := mesh.NewCube(1)
	require.NoError(t, Save(path, m))

	b := NewBackground()
	_, ok := b.Poll()
	assert.False(t, ok)

	b.Load(path)
	assert.True(t, b.Busy())

	r := wait(t, b)
	require.NoError(t, r.Err)
	assert.Equal(t, OpLoad, r.Op)
	assert.Equal(t, path, r.Path)
	assert.Equal(t, m.Snapshot(), r.Mesh.Snapshot())
	assert.False(t, b.Busy())
}

func TestBackgroundLoadError(t *testing.T) {
	b := NewBackground()
	b.Load(filepath.Join(t.TempDir(), "missing.json"))

	r := wait(t, b)
	assert.Error(t, r.Err)
	assert.Nil(t, r.Mesh)
}

func TestBackgroundSaveCopiesMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.yaml")
	m := mesh.NewCube(1)
	before := m.Snapshot()

	b := NewBackground()
	b.Save(path, m)
	// Edits after Save must not reach the file
	m.SetPosition(0, geometry.NewVector3(9, 9, 9))

	r := wait(t, b)
	require.NoError(t, r.Err)
	assert.Equal(t, OpSave, r.Op)
	assert.Nil(t, r.Mesh)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, before, loaded.Snapshot())
}

func TestBackgroundSaveKeepsTransform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.stl")
	m := mesh.NewCube(1)
	tr := geometry.IdentityTransform()
	tr.Position = geometry.NewVector3(10, 0, 0)
	m.SetTransform(tr)

	b := NewBackground()
	b.Save(path, m)
	require.NoError(t, wait(t, b).Err)

	loaded, err := Load(path)
	require.NoError(t, err)
	// STL is written in world space
	for _, p := range loaded.Positions() {
		assert.InDelta(t, 10, p.X, 0.5+1e-6)
	}
}
