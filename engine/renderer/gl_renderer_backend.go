package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type glRendererBackendImpl struct {
	surface    Surface
	clearColor [4]float32
	logger     *zap.Logger
}

var _ RendererBackend = &glRendererBackendImpl{}

// newGLRendererBackend loads the OpenGL function pointers for the current context and sets the
// fixed pipeline state the scene relies on.
func newGLRendererBackend(surface Surface, clearColor [4]float32, logger *zap.Logger) (*glRendererBackendImpl, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to load OpenGL: %w", err)
	}
	logger.Info("opengl context",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	return &glRendererBackendImpl{
		surface:    surface,
		clearColor: clearColor,
		logger:     logger,
	}, nil
}

func (b *glRendererBackendImpl) ConfigureSurface(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *glRendererBackendImpl) SetPresentMode(mode PresentMode) {
	if mode == PresentModeVSync {
		glfw.SwapInterval(1)
		return
	}
	glfw.SwapInterval(0)
}

func (b *glRendererBackendImpl) BeginFrame(width, height int) error {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (b *glRendererBackendImpl) EndFrame() error {
	b.surface.SwapBuffers()
	return nil
}

// PollError drains the GL error queue and reports the first error in it.
func (b *glRendererBackendImpl) PollError(op string) *GPUError {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == 0 {
			first = code
		}
	}
	if first == 0 {
		return nil
	}
	return &GPUError{Op: op, Code: first, Message: glErrorString(first)}
}

func (b *glRendererBackendImpl) Release() {}

func (b *glRendererBackendImpl) CreateProgram(vs, fs shader.Shader) (Program, error) {
	if vs.Language() != shader.LanguageGLSL || fs.Language() != shader.LanguageGLSL {
		return nil, fmt.Errorf("opengl backend needs GLSL shaders, got %s and %s", vs.Language(), fs.Language())
	}

	vsID, err := compileGLShader(vs, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vsID)
	fsID, err := compileGLShader(fs, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fsID)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vsID)
	gl.AttachShader(prog, fsID)
	for _, attr := range model.VertexAttributes {
		gl.BindAttribLocation(prog, attr.Location, gl.Str(attr.Name+"\x00"))
	}
	gl.LinkProgram(prog)
	gl.DetachShader(prog, vsID)
	gl.DetachShader(prog, fsID)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength)+1)
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return nil, &ShaderError{Key: vs.Key() + "+" + fs.Key(), Link: true, Log: strings.TrimRight(log, "\x00")}
	}

	p := &glProgram{
		key:       vs.Key() + "+" + fs.Key(),
		id:        prog,
		locations: activeUniformLocations(prog),
	}
	b.logger.Debug("uniform locations cached", zap.String("program", p.key), zap.Int("count", len(p.locations)))
	return p, nil
}

func compileGLShader(s shader.Shader, shaderType uint32) (uint32, error) {
	id := gl.CreateShader(shaderType)
	csources, free := gl.Strs(s.Source() + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(id, logLength, nil, gl.Str(log))
		gl.DeleteShader(id)
		return 0, &ShaderError{Key: s.Key(), Stage: s.ShaderType(), Log: strings.TrimRight(log, "\x00")}
	}
	return id, nil
}

// activeUniformLocations enumerates the linked program's active uniforms. Array uniforms are
// recorded under their base name.
func activeUniformLocations(prog uint32) map[string]int32 {
	var count, maxLen int32
	gl.GetProgramiv(prog, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(prog, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if maxLen < 1 {
		maxLen = 1
	}

	locations := make(map[string]int32, count)
	buf := make([]uint8, maxLen)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(prog, uint32(i), maxLen, &length, &size, &xtype, &buf[0])
		name := strings.TrimSuffix(string(buf[:length]), "[0]")
		locations[name] = gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}
	return locations
}

func (b *glRendererBackendImpl) CreateMesh(label string, mesh *model.MeshData) (Mesh, error) {
	m := &glMesh{label: label, indexCount: len(mesh.Indices)}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	vertexData := common.SliceToBytes(mesh.Vertices)
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertexData), gl.Ptr(vertexData), gl.STATIC_DRAW)

	for _, attr := range model.VertexAttributes {
		gl.EnableVertexAttribArray(attr.Location)
		gl.VertexAttribPointer(attr.Location, attr.Components, gl.FLOAT, false, model.VertexStride, gl.PtrOffset(int(attr.Offset)))
	}

	indexData := common.SliceToBytes(mesh.Indices)
	gl.GenBuffers(1, &m.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indexData), gl.Ptr(indexData), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m, nil
}

func (b *glRendererBackendImpl) CreateTexture(label string, data common.TextureStagingData) (Texture, error) {
	t := &glTexture{label: label}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(data.Width), int32(data.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data.Pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// glErrorString names a glGetError code.
func glErrorString(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	default:
		return fmt.Sprintf("GL error 0x%04x", code)
	}
}

type glProgram struct {
	key       string
	id        uint32
	locations map[string]int32
}

var _ Program = &glProgram{}

func (p *glProgram) Key() string {
	return p.key
}

func (p *glProgram) Use() {
	gl.UseProgram(p.id)
}

func (p *glProgram) Unuse() {
	gl.UseProgram(0)
}

func (p *glProgram) HasUniform(name string) bool {
	_, ok := p.locations[name]
	return ok
}

// location returns -1 for unknown names, which GL ignores on upload.
func (p *glProgram) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (p *glProgram) SetInt(name string, v int32) {
	gl.Uniform1i(p.location(name), v)
}

func (p *glProgram) SetFloat(name string, v float32) {
	gl.Uniform1f(p.location(name), v)
}

func (p *glProgram) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3fv(p.location(name), 1, &v[0])
}

func (p *glProgram) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}

func (p *glProgram) Draw(mesh Mesh) error {
	m, ok := mesh.(*glMesh)
	if !ok {
		return fmt.Errorf("mesh %q was not created by the opengl backend", mesh.Label())
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(m.indexCount), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	return nil
}

func (p *glProgram) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

type glMesh struct {
	label         string
	vao, vbo, ibo uint32
	indexCount    int
}

var _ Mesh = &glMesh{}

func (m *glMesh) Label() string {
	return m.label
}

func (m *glMesh) IndexCount() int {
	return m.indexCount
}

func (m *glMesh) Release() {
	if m.vao == 0 {
		return
	}
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ibo)
	gl.DeleteVertexArrays(1, &m.vao)
	m.vao, m.vbo, m.ibo = 0, 0, 0
}

type glTexture struct {
	label string
	id    uint32
	unit  int
	bound bool
}

var _ Texture = &glTexture{}

func (t *glTexture) Label() string {
	return t.label
}

func (t *glTexture) Bind(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	t.unit, t.bound = unit, true
}

func (t *glTexture) Unbind() {
	if !t.bound {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(t.unit))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	t.bound = false
}

func (t *glTexture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
