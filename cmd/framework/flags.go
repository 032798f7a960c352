package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framework/internal/config"
	"github.com/spf13/cobra"
)

// runFlags override values from the configuration file when set on the command line.
type runFlags struct {
	configPath string

	backend   string
	width     int
	height    int
	mode      int
	model     int
	noGround  bool
	noSpheres bool
	texture   string
	bunny     string
	dragon    string
	shaderDir string
	hotReload bool
	control   string
	prefsPath string
	debug     bool
	software  bool
	noVSync   bool
	dev       bool
	logLevel  string
	logFile   string
	profile   bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "configuration file (.toml, .yaml or .yml)")
	fs.StringVar(&f.backend, "backend", "", "renderer backend: gl or wgpu")
	fs.IntVar(&f.width, "width", 0, "window width in pixels")
	fs.IntVar(&f.height, "height", 0, "window height in pixels")
	fs.IntVarP(&f.mode, "mode", "m", 0, "initial shading mode 0-9")
	fs.IntVar(&f.model, "model", 0, "initial central model: 0 teapot, 1 bunny, 2 dragon, 3 sphere")
	fs.BoolVar(&f.noGround, "no-ground", false, "start with the ground hidden")
	fs.BoolVar(&f.noSpheres, "no-spheres", false, "start with the sphere field hidden")
	fs.StringVar(&f.texture, "texture", "", "ground texture image")
	fs.StringVar(&f.bunny, "bunny", "", "bunny mesh file")
	fs.StringVar(&f.dragon, "dragon", "", "dragon mesh file")
	fs.StringVar(&f.shaderDir, "shaders", "", "directory with the lighting shaders; empty uses the built-in ones")
	fs.BoolVar(&f.hotReload, "hot-reload", false, "rebuild the lighting program when shader files change")
	fs.StringVar(&f.control, "control", "", "listen address of the HTTP control server")
	fs.StringVar(&f.prefsPath, "prefs", "", "preference database file")
	fs.BoolVar(&f.debug, "debug", false, "report every GPU error")
	fs.BoolVar(&f.software, "software", false, "use the software WebGPU adapter")
	fs.BoolVar(&f.noVSync, "no-vsync", false, "present frames without waiting for vertical blank")
	fs.BoolVar(&f.dev, "dev", false, "development logging")
	fs.StringVar(&f.logLevel, "log-level", "", "minimum log level")
	fs.StringVar(&f.logFile, "log-file", "", "append JSON logs to this file")
	fs.BoolVar(&f.profile, "profile", false, "log frame statistics")
}

// apply copies every flag given on the command line into cfg and revalidates it.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("backend") {
		cfg.Renderer.Backend = f.backend
	}
	if changed("width") {
		cfg.Window.Width = f.width
	}
	if changed("height") {
		cfg.Window.Height = f.height
	}
	if changed("mode") {
		cfg.Scene.Mode = f.mode
	}
	if changed("model") {
		cfg.Scene.CentralModel = f.model
	}
	if changed("no-ground") {
		cfg.Scene.DrawGround = !f.noGround
	}
	if changed("no-spheres") {
		cfg.Scene.DrawSpheres = !f.noSpheres
	}
	if changed("texture") {
		cfg.Scene.GroundTexture = f.texture
	}
	if changed("bunny") {
		cfg.Models.Bunny = f.bunny
	}
	if changed("dragon") {
		cfg.Models.Dragon = f.dragon
	}
	if changed("shaders") {
		cfg.Shaders.Dir = f.shaderDir
	}
	if changed("hot-reload") {
		cfg.Shaders.HotReload = f.hotReload
	}
	if changed("control") {
		cfg.Control.Addr = f.control
	}
	if changed("prefs") {
		cfg.Prefs.Path = f.prefsPath
	}
	if changed("debug") {
		cfg.Renderer.Debug = f.debug
	}
	if changed("software") {
		cfg.Renderer.Software = f.software
	}
	if changed("no-vsync") {
		cfg.Renderer.VSync = !f.noVSync
	}
	if changed("dev") {
		cfg.Log.Dev = f.dev
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if changed("profile") {
		cfg.Log.Profile = f.profile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
