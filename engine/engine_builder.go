package engine

import (
	"github.com/Carmen-Shannon/oxy-framework/engine/camera"
	"github.com/Carmen-Shannon/oxy-framework/engine/profiler"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the per-frame profiler.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler frames are reported to. It does not enable profiling.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithLogger sets the engine logger, named "engine".
//
// Parameters:
//   - logger: the parent logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger.Named("engine")
		}
	}
}

// WithClock replaces the wall clock used for animation.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(clock Clock) EngineBuilderOption {
	return func(e *engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithPrefs sets the store the scene selections are saved to when the engine stops.
//
// Parameters:
//   - store: the preference store
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPrefs(store PrefsStore) EngineBuilderOption {
	return func(e *engine) {
		e.prefs = store
	}
}

// WithShaderReload rebuilds the lighting program from source whenever the watcher reports
// a change. The engine closes the watcher when it stops.
//
// Parameters:
//   - w: the shader file watcher
//   - source: builds fresh shaders from disk
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShaderReload(w shader.Watcher, source ShaderSource) EngineBuilderOption {
	return func(e *engine) {
		e.watcher = w
		e.shaders = source
	}
}

// WithControllerOptions configures the mouse controller created for a camera that has none.
//
// Parameters:
//   - options: camera controller options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithControllerOptions(options ...camera.CameraControllerOption) EngineBuilderOption {
	return func(e *engine) {
		e.controllerOptions = options
	}
}
