package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/camera"
	"github.com/Carmen-Shannon/oxy-framework/engine/profiler"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/Carmen-Shannon/oxy-framework/engine/window"
	"github.com/Carmen-Shannon/oxy-framework/internal/control"
	"github.com/Carmen-Shannon/oxy-framework/internal/prefs"
	"go.uber.org/zap"
)

// animateInterval is the delay between animation ticks.
const animateInterval = 10 * time.Millisecond

// Clock supplies the time for animation. Tests replace it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// PrefsStore saves the user's selections when the engine stops.
type PrefsStore interface {
	Save(p prefs.Prefs) error
}

// ShaderSource rebuilds the lighting shaders after a file change.
type ShaderSource func() (vs, fs shader.Shader, err error)

type command struct {
	fn    func(scene.Scene) error
	reply chan commandResult
}

type commandResult struct {
	state scene.State
	err   error
}

// engine implements the Engine interface.
// Everything except Do and Quit runs on the goroutine that calls Run.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	logger   *zap.Logger
	clock    Clock

	profiler         *profiler.Profiler
	profilingEnabled bool

	controllerOptions []camera.CameraControllerOption

	prefs   PrefsStore
	watcher shader.Watcher
	shaders ShaderSource

	commands    chan command
	quitChannel chan struct{}
	quitOnce    sync.Once
	stopOnce    sync.Once

	start       time.Time
	nextAnimate time.Time
	redraw      bool
	lastDrawErr string
}

// Engine drives the scene from window events. It owns a single-threaded loop: every window
// message iteration it runs queued commands, reloads changed shaders, advances the
// animation every 10 ms and draws a frame when something changed.
type Engine interface {
	// Window returns the window the engine listens to.
	//
	// Returns:
	//   - window.Window: the window
	Window() window.Window

	// Scene returns the driven scene. It must only be used from the loop goroutine;
	// other goroutines go through Do.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// EnableProfiler enables the per-frame profiler.
	EnableProfiler()

	// DisableProfiler disables the per-frame profiler.
	DisableProfiler()

	// RequestRedraw marks the scene for drawing on the next loop iteration.
	RequestRedraw()

	// Do queues fn for the loop goroutine and waits for it to run. Safe for concurrent use.
	//
	// Parameters:
	//   - ctx: bounds the wait
	//   - fn: the command
	//
	// Returns:
	//   - scene.State: the scene state after fn ran
	//   - error: the error of fn, control.ErrUnavailable after Quit, or ctx.Err()
	Do(ctx context.Context, fn func(scene.Scene) error) (scene.State, error)

	// Run processes window messages until the window closes or Quit is called, then saves
	// preferences and stops the shader watcher.
	Run()

	// Quit stops the loop. Safe to call multiple times and from any goroutine.
	Quit()
}

var (
	_ Engine         = &engine{}
	_ control.Target = &engine{}
)

// NewEngine creates an Engine for an initialized window, renderer and scene and installs
// the window callbacks. A nil window, renderer or scene panics.
//
// Parameters:
//   - w: the window delivering input
//   - r: the renderer frames are drawn with
//   - s: the scene to draw
//   - options: functional options
//
// Returns:
//   - Engine: the engine, ready to Run
func NewEngine(w window.Window, r renderer.Renderer, s scene.Scene, options ...EngineBuilderOption) Engine {
	if w == nil || r == nil || s == nil {
		panic("engine: window, renderer and scene are required")
	}
	e := &engine{
		window:      w,
		renderer:    r,
		scene:       s,
		logger:      zap.NewNop(),
		clock:       systemClock{},
		commands:    make(chan command, 16),
		quitChannel: make(chan struct{}),
		redraw:      true,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profilingEnabled && e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if cam := s.Camera(); cam.Controller() == nil {
		camera.NewCameraController(cam, e.controllerOptions...)
	}

	e.start = e.clock.Now()
	e.nextAnimate = e.start.Add(animateInterval)

	w.SetUpdateCallback(e.update)
	w.SetResizeCallback(e.resize)
	w.SetKeyDownCallback(e.keyDown)
	w.SetMouseButtonCallback(e.mouseButton)
	w.SetMouseMoveCallback(e.mouseMove)
	w.SetScrollCallback(e.scroll)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) EnableProfiler() {
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) RequestRedraw() {
	e.redraw = true
}

func (e *engine) Run() {
	defer e.stop()
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

func (e *engine) Do(ctx context.Context, fn func(scene.Scene) error) (scene.State, error) {
	if e.quitting() {
		return scene.State{}, control.ErrUnavailable
	}
	cmd := command{fn: fn, reply: make(chan commandResult, 1)}
	select {
	case e.commands <- cmd:
	case <-e.quitChannel:
		return scene.State{}, control.ErrUnavailable
	case <-ctx.Done():
		return scene.State{}, ctx.Err()
	}
	select {
	case res := <-cmd.reply:
		return res.state, res.err
	case <-e.quitChannel:
		return scene.State{}, control.ErrUnavailable
	case <-ctx.Done():
		return scene.State{}, ctx.Err()
	}
}

// update is one loop iteration, called by the window after each message batch.
func (e *engine) update() {
	if e.quitting() {
		e.window.RequestClose()
		return
	}
	e.runCommands()
	e.reloadShaders()

	now := e.clock.Now()
	if !now.Before(e.nextAnimate) {
		e.scene.Animate(now.Sub(e.start))
		e.nextAnimate = now.Add(animateInterval)
		e.redraw = true
	}
	if e.redraw {
		e.redraw = false
		e.drawFrame()
	}
}

func (e *engine) runCommands() {
	for {
		select {
		case cmd := <-e.commands:
			err := cmd.fn(e.scene)
			cmd.reply <- commandResult{state: e.scene.State(), err: err}
			e.redraw = true
		default:
			return
		}
	}
}

// reloadShaders rebuilds the program once per batch of file changes. A failed build keeps
// the current program.
func (e *engine) reloadShaders() {
	if e.watcher == nil || e.shaders == nil {
		return
	}
	var changed []string
drain:
	for {
		select {
		case path, ok := <-e.watcher.Changes():
			if !ok {
				e.watcher = nil
				break drain
			}
			changed = append(changed, path)
		default:
			break drain
		}
	}
	if len(changed) == 0 {
		return
	}

	e.logger.Info("shader sources changed", zap.Strings("paths", changed))
	vs, fs, err := e.shaders()
	if err == nil {
		err = e.scene.ReloadProgram(vs, fs)
	}
	if err != nil {
		e.logger.Error("shader reload failed, keeping current program", zap.Error(err))
		return
	}
	e.redraw = true
}

func (e *engine) drawFrame() {
	if err := e.renderer.BeginFrame(); err != nil {
		if !errors.Is(err, renderer.ErrNoFrame) {
			e.logger.Error("begin frame failed", zap.Error(err))
		}
		return
	}
	draws, err := e.scene.Draw()
	e.reportDrawError(err)
	if err := e.renderer.EndFrame(); err != nil {
		e.logger.Error("end frame failed", zap.Error(err))
		return
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(draws)
	}
}

// reportDrawError logs a draw error when it differs from the previous frame's.
func (e *engine) reportDrawError(err error) {
	if err == nil {
		e.lastDrawErr = ""
		return
	}
	if msg := err.Error(); msg != e.lastDrawErr {
		e.lastDrawErr = msg
		e.logger.Error("draw failed", zap.Error(err))
	}
}

func (e *engine) resize(width, height int) {
	e.renderer.Resize(width, height)
	if width > 0 && height > 0 {
		e.scene.Resize(width, height)
	}
	e.redraw = true
}

func (e *engine) keyDown(keyCode uint32) {
	if mode, ok := common.DigitKey(keyCode); ok {
		if err := e.scene.SetMode(mode); err != nil {
			e.logger.Warn("mode rejected", zap.Int("mode", mode), zap.Error(err))
			return
		}
		e.logger.Debug("mode", zap.Int("mode", mode))
		e.redraw = true
		return
	}
	switch keyCode {
	case common.KeyEsc, common.KeyQ:
		e.Quit()
		e.window.RequestClose()
	}
}

func (e *engine) mouseButton(button common.MouseButton, pressed, shift bool, x, y float64) {
	if ctrl := e.scene.Camera().Controller(); ctrl != nil && ctrl.MouseButton(button, pressed, shift, x, y) {
		e.redraw = true
	}
}

func (e *engine) mouseMove(x, y float64) {
	if ctrl := e.scene.Camera().Controller(); ctrl != nil && ctrl.MouseMotion(x, y) {
		e.redraw = true
	}
}

func (e *engine) scroll(dy float64) {
	if ctrl := e.scene.Camera().Controller(); ctrl != nil && ctrl.Scroll(dy) {
		e.redraw = true
	}
}

// stop runs once after the loop ends.
func (e *engine) stop() {
	e.stopOnce.Do(func() {
		e.Quit()
		if e.watcher != nil {
			if err := e.watcher.Close(); err != nil {
				e.logger.Warn("shader watcher close failed", zap.Error(err))
			}
			e.watcher = nil
		}
		if e.prefs != nil {
			if err := e.prefs.Save(prefs.FromState(e.scene.State())); err != nil {
				e.logger.Error("failed to save preferences", zap.Error(err))
			} else {
				e.logger.Info("preferences saved", zap.String("model", scene.ModelName(e.scene.CentralModel())))
			}
		}
	})
}
