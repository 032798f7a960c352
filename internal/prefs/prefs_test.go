package prefs

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer s.Close()

	p, found, err := s.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Prefs{}, p)
}

func TestSaveSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	st := scene.DefaultState()
	st.Mode = 6
	st.CentralModel = scene.ModelBunny
	st.DrawGround = false
	st.Light.Orbit(30, 0)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(FromState(st)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	p, found, err := s.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 6, p.Mode)
	assert.Equal(t, scene.ModelBunny, p.CentralModel)
	assert.False(t, p.DrawGround)
	assert.True(t, p.DrawSpheres)
	assert.Equal(t, st.Light, p.Light)
}

func TestApplyKeepsViewport(t *testing.T) {
	st := scene.DefaultState()
	st.Width, st.Height = 1024, 512
	p := Prefs{Mode: 2, CentralModel: scene.ModelSphere, DrawSpheres: true, Light: st.Light}

	got := p.Apply(st)
	assert.Equal(t, 2, got.Mode)
	assert.Equal(t, scene.ModelSphere, got.CentralModel)
	assert.False(t, got.DrawGround)
	assert.Equal(t, 1024, got.Width)
	assert.Equal(t, 16, got.NSpheres)
	require.NoError(t, got.Validate())
}
