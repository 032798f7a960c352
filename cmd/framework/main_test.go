package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/Carmen-Shannon/oxy-framework/internal/config"
	"github.com/Carmen-Shannon/oxy-framework/internal/prefs"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func parseFlags(t *testing.T, args ...string) (*cobra.Command, *runFlags) {
	t.Helper()
	var f runFlags
	cmd := &cobra.Command{Use: "framework"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, &f
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	cmd, f := parseFlags(t, "--mode", "6", "--no-ground", "--backend", "wgpu", "--control", ":8541")
	cfg := config.Default()
	cfg.Scene.CentralModel = scene.ModelDragon
	require.NoError(t, f.apply(cmd, cfg))

	assert.Equal(t, 6, cfg.Scene.Mode)
	assert.False(t, cfg.Scene.DrawGround)
	assert.True(t, cfg.Scene.DrawSpheres)
	assert.Equal(t, "wgpu", cfg.Renderer.Backend)
	assert.Equal(t, ":8541", cfg.Control.Addr)
	assert.Equal(t, scene.ModelDragon, cfg.Scene.CentralModel)
	assert.True(t, cfg.Renderer.VSync)
}

func TestFlagsAreValidated(t *testing.T) {
	cmd, f := parseFlags(t, "--mode", "11")
	assert.ErrorContains(t, f.apply(cmd, config.Default()), "invalid flags")
}

func TestConfigInitThenCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framework.toml")
	root := newRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)

	root.SetArgs([]string{"config", "init", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "wrote")

	root.SetArgs([]string{"config", "init", path})
	assert.Error(t, root.Execute())

	out.Reset()
	root.SetArgs([]string{"config", "check", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "backend gl, 750x750")
}

func TestRestorePrefs(t *testing.T) {
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer store.Close()

	state := scene.DefaultState()
	assert.Equal(t, state, restorePrefs(zap.NewNop(), store, state))

	saved := state
	saved.Mode = 8
	saved.DrawSpheres = false
	require.NoError(t, store.Save(prefs.FromState(saved)))
	got := restorePrefs(zap.NewNop(), store, state)
	assert.Equal(t, 8, got.Mode)
	assert.False(t, got.DrawSpheres)

	saved.Mode = 42
	require.NoError(t, store.Save(prefs.FromState(saved)))
	assert.Equal(t, state, restorePrefs(zap.NewNop(), store, state))
}
