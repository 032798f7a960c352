package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSceneDefaults(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, scene.DefaultState(), c.State())
	assert.Equal(t, "Class Framework", c.Window.Title)
	assert.Equal(t, "gl", c.Renderer.Backend)
	assert.Equal(t, int64(10), c.PollInterval().Milliseconds())
}

func TestLoadTOMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framework.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[scene]
mode = 4
draw_ground = false

[light]
spin = 45.0

[renderer]
backend = "wgpu"
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Scene.Mode)
	assert.False(t, c.Scene.DrawGround)
	assert.True(t, c.Scene.DrawSpheres)
	assert.Equal(t, float32(45), c.Light.Spin)
	assert.Equal(t, float32(-60), c.Light.Tilt)
	assert.Equal(t, "wgpu", c.Renderer.Backend)
	assert.Equal(t, 750, c.Window.Width)

	st := c.State()
	assert.Equal(t, 4, st.Mode)
	assert.Equal(t, float32(45), st.Light.Spin)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framework.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  width: 1024
  height: 768
scene:
  central_model: 2
  n_spheres: 8
camera:
  zoom: 90
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, c.Window.Width)
	assert.Equal(t, 768, c.Window.Height)
	assert.Equal(t, scene.ModelDragon, c.Scene.CentralModel)
	assert.Equal(t, 8, c.Scene.NSpheres)
	assert.Equal(t, float32(90), c.Camera.Zoom)
	assert.Equal(t, float32(-150), c.Camera.Spin)
}

func TestEmptyYAMLIsDefault(t *testing.T) {
	c, err := Read(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Read(strings.NewReader("[scene]\nmodes = 3\n"), FormatTOML)
	assert.Error(t, err)

	_, err = Read(strings.NewReader("scene:\n  modes: 3\n"), FormatYAML)
	assert.Error(t, err)
}

func TestLoadValidates(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"mode", "[scene]\nmode = 10\n"},
		{"odd spheres", "[scene]\nn_spheres = 7\n"},
		{"backend", "[renderer]\nbackend = \"metal\"\n"},
		{"window", "[window]\nwidth = 0\n"},
		{"clip", "[camera]\nfront = 10.0\nback = 5.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc), FormatTOML)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/b.TOML")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	f, err = FormatFromPath("c.yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("c.json")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	c := Default()
	c.Scene.Mode = 7
	c.Control.Addr = "127.0.0.1:8541"
	c.Prefs.Path = "prefs.db"

	for _, name := range []string{"out.toml", "out.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, c))
		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, c, got, name)
	}
}
