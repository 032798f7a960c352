package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeOpenGL selects the OpenGL 4.1 core profile backend.
	BackendTypeOpenGL RendererBackendType = iota

	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeOpenGL:
		return "opengl"
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return fmt.Sprintf("RendererBackendType(%d)", int(t))
	}
}

// ParseBackendType maps a configuration name to a RendererBackendType.
// "gl", "opengl", "wgpu" and "webgpu" are accepted, case-insensitively.
//
// Parameters:
//   - name: the backend name
//
// Returns:
//   - RendererBackendType: the matching backend
//   - error: error if the name is unknown
func ParseBackendType(name string) (RendererBackendType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gl", "opengl":
		return BackendTypeOpenGL, nil
	case "wgpu", "webgpu":
		return BackendTypeWGPU, nil
	default:
		return 0, fmt.Errorf("unknown renderer backend %q", name)
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// Surface is the window side a backend renders into.
type Surface interface {
	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// SurfaceDescriptor returns the platform surface for WebGPU, or nil for OpenGL windows.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// SwapBuffers presents the OpenGL back buffer.
	SwapBuffers()
}

// RendererBackend is the graphics-API half of the Renderer. The Renderer adds the error
// reporting policy and size bookkeeping on top of it.
type RendererBackend interface {
	// CreateProgram compiles and links a vertex and fragment shader.
	CreateProgram(vs, fs shader.Shader) (Program, error)

	// CreateMesh uploads interleaved vertices and 32-bit indices.
	CreateMesh(label string, mesh *model.MeshData) (Mesh, error)

	// CreateTexture uploads RGBA8 pixels with repeat wrapping and linear filtering.
	CreateTexture(label string, data common.TextureStagingData) (Texture, error)

	// ConfigureSurface (re)creates size dependent targets.
	ConfigureSurface(width, height int)

	// SetPresentMode selects vsync or uncapped presentation.
	SetPresentMode(mode PresentMode)

	// BeginFrame clears the color and depth targets of a width x height frame.
	BeginFrame(width, height int) error

	// EndFrame submits the frame and presents it.
	EndFrame() error

	// PollError returns the oldest pending API error, or nil.
	PollError(op string) *GPUError

	// Release frees backend-owned GPU objects.
	Release()
}
