package renderer

import "go.uber.org/zap"

// defaultUniformSlots is the number of draws a WebGPU program can issue per frame.
const defaultUniformSlots = 256

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithDebug makes CheckError return GPU errors instead of logging each distinct one once.
//
// Parameters:
//   - debug: true to return errors
//
// Returns:
//   - RendererBuilderOption: a function that applies the debug option to a renderer
func WithDebug(debug bool) RendererBuilderOption {
	return func(r *renderer) {
		r.debug = debug
	}
}

// WithUniformSlots sets how many draws a WebGPU program can record per frame. Each draw
// consumes one slot of the program's uniform buffer. Ignored by the OpenGL backend.
//
// Parameters:
//   - slots: the slot count; values below 1 keep the default of 256
//
// Returns:
//   - RendererBuilderOption: a function that applies the slot option to a renderer
func WithUniformSlots(slots int) RendererBuilderOption {
	return func(r *renderer) {
		if slots > 0 {
			r.uniformSlots = slots
		}
	}
}

// WithClearColor sets the color the frame is cleared to.
func WithClearColor(red, green, blue, alpha float32) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = [4]float32{red, green, blue, alpha}
	}
}

// WithLogger sets the logger used for backend setup and GPU error reports.
//
// Parameters:
//   - logger: the parent logger; nil keeps the no-op logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *zap.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger.Named("renderer")
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
