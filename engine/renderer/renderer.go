package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger

	width, height int
	debug         bool
	reported      map[gpuErrorKey]struct{}

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	uniformSlots         int
	clearColor           [4]float32
}

type gpuErrorKey struct {
	op   string
	code uint32
	msg  string
}

// Renderer is the graphics API facade used by the scene. It creates programs, meshes and textures,
// brackets each frame and polls for API errors.
//
// In debug mode CheckError returns every error as a *GPUError; otherwise each distinct
// (operation, code) pair is logged once and CheckError returns nil.
type Renderer interface {
	// BackendType reports which graphics API the renderer drives.
	//
	// Returns:
	//   - RendererBackendType: the backend in use
	BackendType() RendererBackendType

	// CreateProgram compiles both stages and links them into a Program.
	// Uniform locations are resolved once at link time.
	//
	// Parameters:
	//   - vs: the vertex shader
	//   - fs: the fragment shader
	//
	// Returns:
	//   - Program: the linked program
	//   - error: a *ShaderError for compile and link failures, other errors for API failures
	CreateProgram(vs, fs shader.Shader) (Program, error)

	// CreateMesh uploads mesh data into GPU buffers.
	//
	// Parameters:
	//   - label: a name used in logs and GPU labels
	//   - mesh: the mesh to upload
	//
	// Returns:
	//   - Mesh: the uploaded mesh
	//   - error: error if the mesh is empty or buffer creation fails
	CreateMesh(label string, mesh *model.MeshData) (Mesh, error)

	// CreateTexture uploads RGBA8 staging data into a 2D texture.
	//
	// Parameters:
	//   - label: a name used in logs and GPU labels
	//   - data: the pixel data
	//
	// Returns:
	//   - Texture: the uploaded texture
	//   - error: error if the data is empty or texture creation fails
	CreateTexture(label string, data common.TextureStagingData) (Texture, error)

	// BeginFrame clears the targets and opens a frame for Program.Draw calls.
	// A zero-sized surface (minimized window) yields an error wrapping ErrNoFrame.
	//
	// Returns:
	//   - error: error if the frame could not be started
	BeginFrame() error

	// EndFrame submits and presents the frame.
	//
	// Returns:
	//   - error: error if submission fails
	EndFrame() error

	// Resize records the new surface size and reconfigures size dependent targets.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Size returns the surface size last passed to Resize.
	Size() (width, height int)

	// SetPresentMode sets the present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// CheckError polls the backend for an error raised since the last check.
	//
	// Parameters:
	//   - op: the operation being checked, used to label the error
	//
	// Returns:
	//   - error: a *GPUError in debug mode, nil otherwise
	CheckError(op string) error

	// Debug reports whether GPU errors are returned instead of logged.
	Debug() bool

	// Release frees the backend. Programs, meshes and textures must be released first.
	Release()
}

// Program is a linked shader program with name-addressed uniforms.
// Setting a uniform the program does not declare is a no-op, as in OpenGL.
type Program interface {
	// Key returns the identifier the program was created with.
	Key() string

	// Use makes the program current for subsequent draws.
	Use()

	// Unuse clears the current program.
	Unuse()

	// HasUniform reports whether the linked program declares an active uniform.
	HasUniform(name string) bool

	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetMat4(name string, m mgl32.Mat4)

	// Draw issues an indexed triangle draw of mesh with the current uniform values.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//
	// Returns:
	//   - error: error if no frame is in progress or the draw could not be recorded
	Draw(mesh Mesh) error

	// Release deletes the program.
	Release()
}

// Mesh is geometry resident in GPU buffers.
type Mesh interface {
	Label() string
	IndexCount() int
	Release()
}

// Texture is a 2D RGBA texture resident on the GPU.
type Texture interface {
	Label() string

	// Bind attaches the texture to a texture unit.
	Bind(unit int)

	// Unbind detaches the texture from the unit it was last bound to.
	Unbind()

	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer with the selected backend, rendering into surface.
// For OpenGL the surface's context must be current on the calling goroutine.
//
// Parameters:
//   - backendType: the graphics API to use
//   - surface: the window to render into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: error if the graphics API could not be initialized
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	var err error
	switch backendType {
	case BackendTypeOpenGL:
		r.backend, err = newGLRendererBackend(surface, r.clearColor, r.logger)
	case BackendTypeWGPU:
		r.backend, err = newWGPURendererBackend(surface, wgpuBackendOptions{
			forceFallbackAdapter: r.forceFallbackAdapter,
			uniformSlots:         r.uniformSlots,
			clearColor:           r.clearColor,
			logger:               r.logger,
		})
	default:
		return nil, fmt.Errorf("unsupported renderer backend %s", backendType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", backendType, err)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.Resize(surface.Width(), surface.Height())
	r.logger.Info("renderer ready",
		zap.Stringer("backend", backendType),
		zap.Int("width", r.width),
		zap.Int("height", r.height),
		zap.Bool("debug", r.debug),
	)
	return r, nil
}

// NewRendererWithBackend wraps an existing backend. It is used by tests and by callers that
// construct a backend themselves.
//
// Parameters:
//   - backendType: the type reported by BackendType
//   - backend: the backend to drive
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
func NewRendererWithBackend(backendType RendererBackendType, backend RendererBackend, options ...RendererBuilderOption) Renderer {
	if backend == nil {
		panic("renderer: nil backend")
	}
	r := newRenderer(backendType, options...)
	r.backend = backend
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	return r
}

func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		backendType:  backendType,
		logger:       zap.NewNop(),
		reported:     make(map[gpuErrorKey]struct{}),
		uniformSlots: defaultUniformSlots,
		clearColor:   [4]float32{0.5, 0.5, 0.5, 1},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) CreateProgram(vs, fs shader.Shader) (Program, error) {
	if vs == nil || fs == nil {
		return nil, fmt.Errorf("both vertex and fragment shaders must be set to create a program")
	}
	p, err := r.backend.CreateProgram(vs, fs)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("program linked", zap.String("vertex", vs.Key()), zap.String("fragment", fs.Key()))
	return p, nil
}

func (r *renderer) CreateMesh(label string, mesh *model.MeshData) (Mesh, error) {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("mesh %q has no geometry", label)
	}
	return r.backend.CreateMesh(label, mesh)
}

func (r *renderer) CreateTexture(label string, data common.TextureStagingData) (Texture, error) {
	if data.Width == 0 || data.Height == 0 || len(data.Pixels) < int(data.Width*data.Height*4) {
		return nil, fmt.Errorf("texture %q has no pixel data for %dx%d", label, data.Width, data.Height)
	}
	return r.backend.CreateTexture(label, data)
}

func (r *renderer) BeginFrame() error {
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("%w: zero-sized surface", ErrNoFrame)
	}
	return r.backend.BeginFrame(r.width, r.height)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Resize(width, height int) {
	r.width, r.height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(r.width, r.height)
	}
}

func (r *renderer) CheckError(op string) error {
	gerr := r.backend.PollError(op)
	if gerr == nil {
		return nil
	}
	if r.debug {
		return gerr
	}

	key := gpuErrorKey{op: op, code: gerr.Code}
	if gerr.Err != nil {
		key.msg = gerr.Err.Error()
	}
	if _, seen := r.reported[key]; !seen {
		r.reported[key] = struct{}{}
		r.logger.Warn("gpu error", zap.String("op", op), zap.Uint32("code", gerr.Code), zap.Error(gerr))
	}
	return nil
}

func (r *renderer) Debug() bool {
	return r.debug
}

func (r *renderer) Release() {
	r.backend.Release()
}
