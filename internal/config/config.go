// Package config loads the framework configuration from TOML or YAML files.
//
// Every field has a default (see Default); a file only needs to name the values it
// changes. Command line flags are applied on top of the loaded values by the caller.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-framework/engine/light"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
)

// Window configures the application window.
type Window struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`

	// PollMs is how long the event loop waits for input before running its update step.
	PollMs int `toml:"poll_ms" yaml:"poll_ms"`
}

// Renderer selects and tunes the graphics backend.
type Renderer struct {
	// Backend is "gl" or "wgpu".
	Backend    string     `toml:"backend" yaml:"backend"`
	Debug      bool       `toml:"debug" yaml:"debug"`
	VSync      bool       `toml:"vsync" yaml:"vsync"`
	Software   bool       `toml:"software" yaml:"software"`
	ClearColor [4]float32 `toml:"clear_color" yaml:"clear_color"`
}

// Scene holds the initial scene state and the procedural geometry sizes.
type Scene struct {
	Mode            int     `toml:"mode" yaml:"mode"`
	CentralModel    int     `toml:"central_model" yaml:"central_model"`
	DrawGround      bool    `toml:"draw_ground" yaml:"draw_ground"`
	DrawSpheres     bool    `toml:"draw_spheres" yaml:"draw_spheres"`
	NSpheres        int     `toml:"n_spheres" yaml:"n_spheres"`
	SphereDivisions int     `toml:"sphere_divisions" yaml:"sphere_divisions"`
	GroundRange     float32 `toml:"ground_range" yaml:"ground_range"`
	GroundDivisions int     `toml:"ground_divisions" yaml:"ground_divisions"`
	GroundHeight    float32 `toml:"ground_height" yaml:"ground_height"`

	// GroundTexture is an image path; empty uses the built-in checker.
	GroundTexture string `toml:"ground_texture" yaml:"ground_texture"`
}

// Light holds the light parameters.
type Light struct {
	Ambient [3]float32 `toml:"ambient" yaml:"ambient"`
	Color   [3]float32 `toml:"color" yaml:"color"`
	Spin    float32    `toml:"spin" yaml:"spin"`
	Tilt    float32    `toml:"tilt" yaml:"tilt"`
	Dist    float32    `toml:"dist" yaml:"dist"`
}

// Camera holds the initial orbit camera and the mouse controller speeds.
type Camera struct {
	Spin  float32    `toml:"spin" yaml:"spin"`
	Tilt  float32    `toml:"tilt" yaml:"tilt"`
	Zoom  float32    `toml:"zoom" yaml:"zoom"`
	Pan   [2]float32 `toml:"pan" yaml:"pan"`
	Ry    float32    `toml:"ry" yaml:"ry"`
	Front float32    `toml:"front" yaml:"front"`
	Back  float32    `toml:"back" yaml:"back"`

	OrbitSpeed float32 `toml:"orbit_speed" yaml:"orbit_speed"`
	PanSpeed   float32 `toml:"pan_speed" yaml:"pan_speed"`
	ZoomSpeed  float32 `toml:"zoom_speed" yaml:"zoom_speed"`
}

// Models names the mesh files of the loadable central models.
type Models struct {
	Bunny   string `toml:"bunny" yaml:"bunny"`
	Dragon  string `toml:"dragon" yaml:"dragon"`
	Workers int    `toml:"workers" yaml:"workers"`
	Preload bool   `toml:"preload" yaml:"preload"`
}

// Shaders selects where the lighting shaders are read from.
type Shaders struct {
	// Dir is a directory holding lighting.vert/lighting.frag or lighting.wgsl; empty uses the
	// embedded copies.
	Dir       string `toml:"dir" yaml:"dir"`
	HotReload bool   `toml:"hot_reload" yaml:"hot_reload"`
}

// Control configures the HTTP control server.
type Control struct {
	// Addr is the listen address; empty disables the server.
	Addr string `toml:"addr" yaml:"addr"`
}

// Prefs configures the preference store.
type Prefs struct {
	// Path is the bbolt database file; empty disables persistence.
	Path string `toml:"path" yaml:"path"`
}

// Log configures logging and the frame profiler.
type Log struct {
	Dev   bool   `toml:"dev" yaml:"dev"`
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`

	Profile           bool `toml:"profile" yaml:"profile"`
	ProfileIntervalMs int  `toml:"profile_interval_ms" yaml:"profile_interval_ms"`
}

// Config is the complete framework configuration.
type Config struct {
	Window   Window   `toml:"window" yaml:"window"`
	Renderer Renderer `toml:"renderer" yaml:"renderer"`
	Scene    Scene    `toml:"scene" yaml:"scene"`
	Light    Light    `toml:"light" yaml:"light"`
	Camera   Camera   `toml:"camera" yaml:"camera"`
	Models   Models   `toml:"models" yaml:"models"`
	Shaders  Shaders  `toml:"shaders" yaml:"shaders"`
	Control  Control  `toml:"control" yaml:"control"`
	Prefs    Prefs    `toml:"prefs" yaml:"prefs"`
	Log      Log      `toml:"log" yaml:"log"`
}

// Default returns the configuration the framework runs with when no file is given.
//
// Returns:
//   - *Config: a fresh default configuration
func Default() *Config {
	st := scene.DefaultState()
	return &Config{
		Window: Window{
			Title:  "Class Framework",
			Width:  st.Width,
			Height: st.Height,
			PollMs: 10,
		},
		Renderer: Renderer{
			Backend:    renderer.BackendTypeOpenGL.String(),
			VSync:      true,
			ClearColor: [4]float32{0.5, 0.5, 0.5, 1},
		},
		Scene: Scene{
			Mode:            st.Mode,
			CentralModel:    st.CentralModel,
			DrawGround:      st.DrawGround,
			DrawSpheres:     st.DrawSpheres,
			NSpheres:        st.NSpheres,
			SphereDivisions: 32,
			GroundRange:     50,
			GroundDivisions: 100,
			GroundHeight:    -3,
		},
		Light: Light{
			Ambient: st.Light.Ambient,
			Color:   st.Light.Color,
			Spin:    st.Light.Spin,
			Tilt:    st.Light.Tilt,
			Dist:    st.Light.Dist,
		},
		Camera: Camera{
			Spin:       -150,
			Tilt:       30,
			Zoom:       160,
			Pan:        [2]float32{0, -1},
			Ry:         0.2,
			Front:      0.1,
			Back:       10000,
			OrbitSpeed: 0.5,
			PanSpeed:   0.1,
			ZoomSpeed:  10,
		},
		Models: Models{
			Bunny:  "models/bunny.ply",
			Dragon: "models/dragon.ply",
		},
		Log: Log{
			Level:             "info",
			ProfileIntervalMs: 1000,
		},
	}
}

// State converts the scene, light and window sections into the initial scene state.
//
// Returns:
//   - scene.State: the state NewScene starts from
func (c *Config) State() scene.State {
	return scene.State{
		Mode:         c.Scene.Mode,
		DrawGround:   c.Scene.DrawGround,
		DrawSpheres:  c.Scene.DrawSpheres,
		CentralModel: c.Scene.CentralModel,
		Light: light.NewLight(
			light.WithAmbient(c.Light.Ambient[0], c.Light.Ambient[1], c.Light.Ambient[2]),
			light.WithColor(c.Light.Color[0], c.Light.Color[1], c.Light.Color[2]),
			light.WithOrbit(c.Light.Spin, c.Light.Tilt, c.Light.Dist),
		),
		Width:    c.Window.Width,
		Height:   c.Window.Height,
		NSpheres: c.Scene.NSpheres,
	}
}

// PollInterval returns Window.PollMs as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Window.PollMs) * time.Millisecond
}

// ProfileInterval returns Log.ProfileIntervalMs as a duration.
func (c *Config) ProfileInterval() time.Duration {
	return time.Duration(c.Log.ProfileIntervalMs) * time.Millisecond
}

// Validate reports every out-of-range value joined into one error.
//
// Returns:
//   - error: nil when the configuration is usable
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.PollMs < 0 {
		errs = append(errs, fmt.Errorf("window.poll_ms %d is negative", c.Window.PollMs))
	}
	if _, err := renderer.ParseBackendType(c.Renderer.Backend); err != nil {
		errs = append(errs, err)
	}
	if err := c.State().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Scene.SphereDivisions < 3 {
		errs = append(errs, fmt.Errorf("scene.sphere_divisions %d must be at least 3", c.Scene.SphereDivisions))
	}
	if c.Scene.GroundDivisions < 1 || c.Scene.GroundRange <= 0 {
		errs = append(errs, fmt.Errorf("ground %v/%d must have a positive range and divisions", c.Scene.GroundRange, c.Scene.GroundDivisions))
	}
	if c.Camera.Front <= 0 || c.Camera.Back <= c.Camera.Front {
		errs = append(errs, fmt.Errorf("camera clip planes %v..%v must satisfy 0 < front < back", c.Camera.Front, c.Camera.Back))
	}
	if c.Camera.Ry <= 0 {
		errs = append(errs, fmt.Errorf("camera.ry %v must be positive", c.Camera.Ry))
	}
	if c.Log.Profile && c.Log.ProfileIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("log.profile_interval_ms %d must be positive", c.Log.ProfileIntervalMs))
	}
	return errors.Join(errs...)
}
