package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-framework/assets"
	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeBackend struct {
	errs       []*GPUError
	configured [][2]int
	begun      [][2]int
	present    []PresentMode
}

func (f *fakeBackend) CreateProgram(vs, fs shader.Shader) (Program, error) { return nil, nil }
func (f *fakeBackend) CreateMesh(string, *model.MeshData) (Mesh, error)    { return nil, nil }
func (f *fakeBackend) CreateTexture(string, common.TextureStagingData) (Texture, error) {
	return nil, nil
}
func (f *fakeBackend) ConfigureSurface(w, h int)       { f.configured = append(f.configured, [2]int{w, h}) }
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.present = append(f.present, mode) }
func (f *fakeBackend) BeginFrame(w, h int) error {
	f.begun = append(f.begun, [2]int{w, h})
	return nil
}
func (f *fakeBackend) EndFrame() error { return nil }
func (f *fakeBackend) Release()        {}
func (f *fakeBackend) PollError(op string) *GPUError {
	if len(f.errs) == 0 {
		return nil
	}
	e := f.errs[0]
	f.errs = f.errs[1:]
	e.Op = op
	return e
}

func TestCheckErrorDebugReturnsTypedError(t *testing.T) {
	backend := &fakeBackend{errs: []*GPUError{{Code: 0x0502, Message: "GL_INVALID_OPERATION"}}}
	r := NewRendererWithBackend(BackendTypeOpenGL, backend, WithDebug(true))

	err := r.CheckError("draw sun")
	require.Error(t, err)
	var gerr *GPUError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "draw sun", gerr.Op)
	assert.Equal(t, uint32(0x0502), gerr.Code)
	assert.Contains(t, err.Error(), "GL_INVALID_OPERATION")

	assert.NoError(t, r.CheckError("draw sun"))
}

func TestCheckErrorLogsOncePerOpAndCode(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	backend := &fakeBackend{errs: []*GPUError{
		{Code: 0x0502, Message: "GL_INVALID_OPERATION"},
		{Code: 0x0502, Message: "GL_INVALID_OPERATION"},
		{Code: 0x0501, Message: "GL_INVALID_VALUE"},
		{Code: 0x0502, Message: "GL_INVALID_OPERATION"},
	}}
	r := NewRendererWithBackend(BackendTypeOpenGL, backend, WithLogger(zap.New(core)))

	assert.NoError(t, r.CheckError("frame"))
	assert.NoError(t, r.CheckError("frame"))
	assert.NoError(t, r.CheckError("frame"))
	assert.NoError(t, r.CheckError("ground"))

	warnings := logs.FilterMessage("gpu error").All()
	require.Len(t, warnings, 3)
	assert.Equal(t, "frame", warnings[0].ContextMap()["op"])
	assert.Equal(t, uint32(0x0501), warnings[1].ContextMap()["code"])
	assert.Equal(t, "ground", warnings[2].ContextMap()["op"])
}

func TestBeginFrameNeedsSurfaceSize(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRendererWithBackend(BackendTypeWGPU, backend)

	err := r.BeginFrame()
	assert.ErrorIs(t, err, ErrNoFrame)

	r.Resize(0, 400)
	assert.Empty(t, backend.configured)
	assert.ErrorIs(t, r.BeginFrame(), ErrNoFrame)

	r.Resize(750, 750)
	require.NoError(t, r.BeginFrame())
	assert.Equal(t, [][2]int{{750, 750}}, backend.configured)
	assert.Equal(t, [][2]int{{750, 750}}, backend.begun)

	w, h := r.Size()
	assert.Equal(t, 750, w)
	assert.Equal(t, 750, h)
}

func TestPresentModeOptionAndReconfigure(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRendererWithBackend(BackendTypeWGPU, backend, WithPresentMode(PresentModeUncapped))
	assert.Equal(t, []PresentMode{PresentModeUncapped}, backend.present)

	r.Resize(10, 20)
	r.SetPresentMode(PresentModeVSync)
	assert.Equal(t, []PresentMode{PresentModeUncapped, PresentModeVSync}, backend.present)
	assert.Equal(t, [][2]int{{10, 20}, {10, 20}}, backend.configured)
}

func TestCreateRejectsEmptyInputs(t *testing.T) {
	r := NewRendererWithBackend(BackendTypeOpenGL, &fakeBackend{})

	_, err := r.CreateMesh("empty", &model.MeshData{})
	assert.Error(t, err)
	_, err = r.CreateMesh("nil", nil)
	assert.Error(t, err)

	_, err = r.CreateTexture("short", common.TextureStagingData{Pixels: []byte{1, 2, 3}, Width: 1, Height: 1})
	assert.Error(t, err)

	_, err = r.CreateProgram(nil, nil)
	assert.Error(t, err)
}

func TestParseBackendType(t *testing.T) {
	tests := []struct {
		in   string
		want RendererBackendType
		ok   bool
	}{
		{"gl", BackendTypeOpenGL, true},
		{"OpenGL", BackendTypeOpenGL, true},
		{" wgpu ", BackendTypeWGPU, true},
		{"webgpu", BackendTypeWGPU, true},
		{"vulkan", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackendType(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "wgpu", BackendTypeWGPU.String())
}

func TestShaderErrorMessages(t *testing.T) {
	compile := &ShaderError{Key: "lighting.frag", Stage: shader.ShaderTypeFragment, Log: "0:12: syntax error"}
	assert.Equal(t, "fragment shader lighting.frag failed to compile: 0:12: syntax error", compile.Error())

	link := &ShaderError{Key: "a+b", Link: true, Log: "undefined varying"}
	assert.Contains(t, link.Error(), "failed to link")

	cause := errors.New("device lost")
	gerr := &GPUError{Op: "frame", Err: cause}
	assert.ErrorIs(t, gerr, cause)
}

func lightingUniforms(t *testing.T) *shader.UniformLayout {
	t.Helper()
	s, err := shader.NewShader("lighting", shader.ShaderTypeVertex, shader.WithSourceFS(assets.Shaders, assets.LightingWGSL))
	require.NoError(t, err)
	require.NotNil(t, s.Uniforms())
	return s.Uniforms()
}

func TestUniformBlockWritesAtReflectedOffsets(t *testing.T) {
	layout := lightingUniforms(t)
	block := newUniformBlock(layout)
	require.Len(t, block.data, 416)

	m := mgl32.Translate3D(1, 2, 3)
	require.True(t, block.setMat4("ModelMatrix", m))
	off, _ := layout.Field("ModelMatrix")
	for i := 0; i < 16; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(block.data[off.Offset+uint64(4*i):]))
		assert.Equal(t, m[i], got)
	}

	require.True(t, block.setVec3("diffuse", mgl32.Vec3{100, 1, 1}))
	off, _ = layout.Field("diffuse")
	assert.Equal(t, float32(100), math.Float32frombits(binary.LittleEndian.Uint32(block.data[off.Offset:])))

	require.True(t, block.setInt("direct", 1))
	off, _ = layout.Field("direct")
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(block.data[off.Offset:]))

	require.True(t, block.setFloat("shininess", 120))
	off, _ = layout.Field("shininess")
	assert.Equal(t, float32(120), math.Float32frombits(binary.LittleEndian.Uint32(block.data[off.Offset:])))

	assert.False(t, block.setInt("missing", 3))
	assert.False(t, block.setMat4("diffuse", mgl32.Ident4()), "a vec3 member cannot take a matrix")
	assert.True(t, block.has("lightPos"))
	assert.False(t, block.has("groundTex"))
}

func TestUniformSlotStride(t *testing.T) {
	assert.Equal(t, uint64(512), roundUp(416, uniformSlotAlignment))
	assert.Equal(t, uint64(256), roundUp(256, uniformSlotAlignment))
	assert.Equal(t, uint64(256), roundUp(1, uniformSlotAlignment))
}

func TestMergeBindGroupLayoutsOrsVisibility(t *testing.T) {
	uniformEntry := func(vis wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    0,
			Visibility: vis,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 416},
		}
	}
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(wgpu.ShaderStageVertex)}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(wgpu.ShaderStageFragment)}},
		1: textureBindGroupLayoutDescriptor(),
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 2)
	require.Len(t, merged[0].Entries, 1)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, merged[0].Entries[0].Visibility)
	assert.Len(t, merged[1].Entries, 2)
}

func TestReflectedTextureGroupMatchesSharedLayout(t *testing.T) {
	fs, err := shader.NewShader("lighting", shader.ShaderTypeFragment, shader.WithSourceFS(assets.Shaders, assets.LightingWGSL))
	require.NoError(t, err)

	group, ok := fs.BindGroupLayoutDescriptors()[1]
	require.True(t, ok)
	want := textureBindGroupLayoutDescriptor()
	require.Len(t, group.Entries, len(want.Entries))
	for i := range want.Entries {
		assert.Equal(t, want.Entries[i].Binding, group.Entries[i].Binding)
		assert.Equal(t, want.Entries[i].Texture.SampleType, group.Entries[i].Texture.SampleType)
		assert.Equal(t, want.Entries[i].Sampler.Type, group.Entries[i].Sampler.Type)
	}
}

func TestPickSurfaceFormatPrefersLinear(t *testing.T) {
	got := pickSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatBGRA8Unorm})
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, got)
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, pickSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float}))
}
