package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/camera"
	"github.com/Carmen-Shannon/oxy-framework/engine/light"
	"github.com/Carmen-Shannon/oxy-framework/engine/loader"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"go.uber.org/zap"
)

// ErrNotInitialized is returned when drawing a scene that was released.
var ErrNotInitialized = errors.New("scene not initialized")

// animationPeriod is the time the sphere field takes for one full turn.
const animationPeriod = 2 * time.Minute

// Scene owns the lighting program, the drawables and the ground texture, and draws the
// class scene from its State. It is not safe for concurrent use: the event loop that owns
// the GPU context owns the scene too.
type Scene interface {
	// State returns a copy of the current state.
	State() State

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Mode returns the shading mode.
	Mode() int

	// SetMode selects a shading mode.
	//
	// Parameters:
	//   - mode: 0-9
	//
	// Returns:
	//   - error: error if the mode is out of range
	SetMode(mode int) error

	// SetDrawGround enables or disables the ground plane.
	SetDrawGround(enabled bool)

	// SetDrawSpheres enables or disables the sphere field.
	SetDrawSpheres(enabled bool)

	// ToggleGround flips the ground toggle and returns the new value.
	ToggleGround() bool

	// ToggleSpheres flips the sphere toggle and returns the new value.
	ToggleSpheres() bool

	// CentralModel returns the current central model selection.
	CentralModel() int

	// SetCentralModel replaces the central drawable: 0 teapot, 1 bunny, 2 dragon, anything
	// else the fallback sphere. The previous drawable is released only once the new one is
	// ready. When a mesh fails to load the previous selection stays and the *loader.LoadError
	// is returned; with nothing to keep the fallback sphere is installed as selection 3.
	//
	// Parameters:
	//   - index: the selection
	//
	// Returns:
	//   - error: the load or upload failure
	SetCentralModel(index int) error

	// Light returns the light parameters.
	Light() light.Light

	// SetLight replaces the light parameters.
	SetLight(l light.Light)

	// Resize records a new viewport size and updates the camera's aspect ratio.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)

	// Animate sets the sphere field rotation from the time since start, one turn every two
	// minutes.
	//
	// Parameters:
	//   - elapsed: time since the loop started
	Animate(elapsed time.Duration)

	// ATime returns the sphere field rotation in degrees, in [0, 360).
	ATime() float32

	// Compose builds the frame for the current state without drawing it.
	Compose() Frame

	// Draw composes and submits one frame. The caller brackets it with the renderer's
	// BeginFrame and EndFrame.
	//
	// Returns:
	//   - int: the number of draws issued
	//   - error: the first draw failure or GPU errors reported in debug mode
	Draw() (int, error)

	// ReloadProgram links a new lighting program and swaps it in. On failure the current
	// program stays and the typed error is returned.
	//
	// Parameters:
	//   - vs, fs: the new shader stages
	//
	// Returns:
	//   - error: *renderer.ShaderError on compile or link failure
	ReloadProgram(vs, fs shader.Shader) error

	// Release frees every GPU resource the scene owns.
	Release()
}

type scene struct {
	r      renderer.Renderer
	loader loader.Loader
	cam    camera.Camera
	logger *zap.Logger

	state State
	atime float32

	vs, fs  shader.Shader
	program renderer.Program

	sphere        *Drawable
	ground        *Drawable
	central       Slot
	groundTexture renderer.Texture

	sphereDivisions int
	groundRange     float32
	groundDivisions int
	groundHeight    float32
	teapotDivisions int
	bunnyPath       string
	dragonPath      string
	texturePath     string
}

var _ Scene = &scene{}

// NewScene builds the lighting program, the sphere and ground drawables, the ground texture
// and the initial central model. Any shader, link, upload or texture failure releases what
// was built and returns the typed error; the central model falls back to a sphere instead of
// failing. Panics if r is nil.
//
// Parameters:
//   - r: the renderer that owns every GPU resource
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the ready scene
//   - error: *renderer.ShaderError, *loader.LoadError or an upload error
func NewScene(r renderer.Renderer, options ...SceneBuilderOption) (Scene, error) {
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	s := &scene{
		r:               r,
		state:           DefaultState(),
		logger:          zap.NewNop(),
		sphereDivisions: 32,
		groundRange:     50,
		groundDivisions: 100,
		groundHeight:    -3,
		teapotDivisions: 12,
		bunnyPath:       "models/bunny.ply",
		dragonPath:      "models/dragon.ply",
	}
	for _, option := range options {
		option(s)
	}
	if err := s.state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene state: %w", err)
	}
	if s.loader == nil {
		s.loader = loader.NewLoader(loader.WithLogger(s.logger))
	}
	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	s.cam.SetViewport(s.state.Width, s.state.Height)

	if err := s.init(); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *scene) init() error {
	if s.vs == nil || s.fs == nil {
		vs, fs, err := LightingShaders(s.r.BackendType(), "")
		if err != nil {
			return err
		}
		s.vs, s.fs = vs, fs
	}
	program, err := s.r.CreateProgram(s.vs, s.fs)
	if err != nil {
		return err
	}
	s.program = program

	sphere := model.NewModel(model.NewSphere(s.sphereDivisions),
		model.WithName("sphere"), model.WithMaterial(model.SphereMaterial))
	if s.sphere, err = NewDrawable(s.r, sphere); err != nil {
		return err
	}
	ground := model.NewModel(model.NewGround(s.groundRange, s.groundDivisions, s.groundHeight),
		model.WithName("ground"), model.WithMaterial(model.GroundMaterial))
	if s.ground, err = NewDrawable(s.r, ground); err != nil {
		return err
	}

	pixels := common.StagingFromImage(common.CheckerImage(256, 8, [4]uint8{200, 200, 200, 255}, [4]uint8{90, 90, 90, 255}))
	label := "checker"
	if s.texturePath != "" {
		if pixels, err = loader.LoadTexture(s.texturePath); err != nil {
			return err
		}
		label = s.texturePath
	}
	if s.groundTexture, err = s.r.CreateTexture(label, pixels); err != nil {
		return err
	}

	if err := s.SetCentralModel(s.state.CentralModel); err != nil {
		return err
	}
	s.logger.Info("scene ready",
		zap.String("central", ModelName(s.state.CentralModel)),
		zap.String("texture", label),
	)
	return nil
}

func (s *scene) State() State {
	return s.state
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Mode() int {
	return s.state.Mode
}

func (s *scene) SetMode(mode int) error {
	if mode < 0 || mode > MaxMode {
		return fmt.Errorf("mode %d out of range 0-%d", mode, MaxMode)
	}
	s.state.Mode = mode
	return nil
}

func (s *scene) SetDrawGround(enabled bool) {
	s.state.DrawGround = enabled
}

func (s *scene) SetDrawSpheres(enabled bool) {
	s.state.DrawSpheres = enabled
}

func (s *scene) ToggleGround() bool {
	s.state.DrawGround = !s.state.DrawGround
	return s.state.DrawGround
}

func (s *scene) ToggleSpheres() bool {
	s.state.DrawSpheres = !s.state.DrawSpheres
	return s.state.DrawSpheres
}

func (s *scene) CentralModel() int {
	return s.state.CentralModel
}

func (s *scene) Light() light.Light {
	return s.state.Light
}

func (s *scene) SetLight(l light.Light) {
	s.state.Light = l
}

func (s *scene) Resize(width, height int) {
	s.state.Width = width
	s.state.Height = height
	s.cam.SetViewport(width, height)
}

func (s *scene) Animate(elapsed time.Duration) {
	phase := elapsed % animationPeriod
	s.atime = 360 * float32(phase.Milliseconds()) / float32(animationPeriod.Milliseconds())
}

func (s *scene) ATime() float32 {
	return s.atime
}

func (s *scene) drawables() Drawables {
	return Drawables{
		Sphere:           s.sphere,
		Ground:           s.ground,
		Central:          s.central.Drawable(),
		CentralTransform: s.central.Transform(),
	}
}

func (s *scene) Compose() Frame {
	return Compose(s.state, s.atime, s.cam, s.drawables())
}

func (s *scene) Draw() (int, error) {
	if s.program == nil {
		return 0, ErrNotInitialized
	}
	frame := s.Compose()
	return len(frame.Calls), Submit(s.r, s.program, frame, s.groundTexture)
}

func (s *scene) ReloadProgram(vs, fs shader.Shader) error {
	program, err := s.r.CreateProgram(vs, fs)
	if err != nil {
		return err
	}
	if s.program != nil {
		s.program.Release()
	}
	s.program, s.vs, s.fs = program, vs, fs
	s.logger.Info("lighting program reloaded", zap.String("program", program.Key()))
	return nil
}

func (s *scene) Release() {
	s.central.Release()
	s.sphere.Release()
	s.ground.Release()
	s.sphere, s.ground = nil, nil
	if s.groundTexture != nil {
		s.groundTexture.Release()
		s.groundTexture = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
}
