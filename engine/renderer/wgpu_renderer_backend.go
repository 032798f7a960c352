package renderer

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// uniformSlotAlignment is the WebGPU default minUniformBufferOffsetAlignment.
const uniformSlotAlignment = 256

type wgpuBackendOptions struct {
	forceFallbackAdapter bool
	uniformSlots         int
	clearColor           [4]float32
	logger               *zap.Logger
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode  wgpu.PresentMode
	clearColor   wgpu.Color
	uniformSlots int
	logger       *zap.Logger

	// Group 1 of the lighting shader: a 2D texture and its sampler.
	textureLayout  *wgpu.BindGroupLayout
	sampler        *wgpu.Sampler
	defaultTexture *wgpuTexture
	boundTexture   *wgpuTexture

	// Frame state for batched rendering across multiple draw calls
	frame        uint64
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	pending []*GPUError
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surface Surface, opts wgpuBackendOptions) (*wgpuRendererBackendImpl, error) {
	desc := surface.SurfaceDescriptor()
	if desc == nil {
		return nil, fmt.Errorf("window has no WebGPU surface; create it without an OpenGL context")
	}

	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:           &sync.Mutex{},
		instance:     wgpu.CreateInstance(nil),
		presentMode:  wgpu.PresentModeFifo,
		clearColor:   wgpu.Color{R: float64(opts.clearColor[0]), G: float64(opts.clearColor[1]), B: float64(opts.clearColor[2]), A: float64(opts.clearColor[3])},
		uniformSlots: opts.uniformSlots,
		logger:       opts.logger,
	}
	b.surface = b.instance.CreateSurface(desc)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: opts.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()
	b.surfaceFormat = pickSurfaceFormat(b.surface.GetCapabilities(b.adapter).Formats)

	if err := b.initTextureBinding(); err != nil {
		return nil, err
	}
	b.logger.Info("wgpu device ready", zap.Int("surface_format", int(b.surfaceFormat)), zap.Int("uniform_slots", b.uniformSlots))
	return b, nil
}

// pickSurfaceFormat prefers a linear 8-bit format so output matches the OpenGL backend,
// which writes shader colors to the framebuffer unconverted.
func pickSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	if len(formats) == 0 {
		return wgpu.TextureFormatBGRA8Unorm
	}
	return formats[0]
}

// textureBindGroupLayoutDescriptor matches `texture_2d<f32>` at binding 0 and `sampler` at binding 1.
func textureBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// initTextureBinding creates the shared texture layout, the repeat/linear sampler and a 1x1
// white texture bound when no texture is.
func (b *wgpuRendererBackendImpl) initTextureBinding() error {
	desc := textureBindGroupLayoutDescriptor()
	layout, err := b.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return fmt.Errorf("failed to create texture bind group layout: %w", err)
	}
	b.textureLayout = layout

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Texture Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}
	b.sampler = samp

	white, err := b.createTexture("Default White", common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	})
	if err != nil {
		return err
	}
	b.defaultTexture = white
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
		b.depthTextureView, b.depthTexture = nil, nil
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        pipeline.DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		b.record("configure surface", err)
		return
	}
	view, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		b.record("configure surface", err)
		return
	}
	b.depthTexture, b.depthTextureView = depthTexture, view

	// View is set per-frame to the swapchain view.
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

// record queues an error for the next PollError. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) record(op string, err error) {
	b.pending = append(b.pending, &GPUError{Op: op, Err: err})
}

func (b *wgpuRendererBackendImpl) PollError(op string) *GPUError {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		return nil
	}
	first := b.pending[0]
	b.pending = b.pending[1:]
	return &GPUError{Op: op, Err: fmt.Errorf("%s: %w", first.Op, first.Err)}
}

func (b *wgpuRendererBackendImpl) CreateProgram(vs, fs shader.Shader) (Program, error) {
	if vs.Language() != shader.LanguageWGSL || fs.Language() != shader.LanguageWGSL {
		return nil, fmt.Errorf("wgpu backend needs WGSL shaders, got %s and %s", vs.Language(), fs.Language())
	}
	uniforms := vs.Uniforms()
	if uniforms == nil {
		uniforms = fs.Uniforms()
	}
	if uniforms == nil {
		return nil, fmt.Errorf("program %s+%s declares no uniform block at group 0 binding 0", vs.Key(), fs.Key())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vsModule, err := b.device.CreateShaderModule(vs.Module())
	if err != nil {
		return nil, &ShaderError{Key: vs.Key(), Stage: shader.ShaderTypeVertex, Log: err.Error()}
	}
	fsModule, err := b.device.CreateShaderModule(fs.Module())
	if err != nil {
		vsModule.Release()
		return nil, &ShaderError{Key: fs.Key(), Stage: shader.ShaderTypeFragment, Log: err.Error()}
	}

	key := vs.Key() + "+" + fs.Key()
	p := &wgpuProgram{
		backend: b,
		key:     key,
		block:   newUniformBlock(uniforms),
		stride:  roundUp(uniforms.Size, uniformSlotAlignment),
		modules: []*wgpu.ShaderModule{vsModule, fsModule},
	}

	merged := mergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	uniformDesc, ok := merged[0]
	if !ok {
		p.Release()
		return nil, fmt.Errorf("program %s has no bind group 0", key)
	}
	p.uniformLayout, err = b.device.CreateBindGroupLayout(&uniformDesc)
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("failed to create bind group layout for group 0: %w", err)
	}
	bindGroupLayouts := []*wgpu.BindGroupLayout{p.uniformLayout}
	if _, ok := merged[1]; ok {
		bindGroupLayouts = append(bindGroupLayouts, b.textureLayout)
		p.usesTexture = true
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            key,
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	p.pipelineLayout = pipelineLayout

	state := pipeline.NewPipeline(key)
	p.pipeline, err = b.device.CreateRenderPipeline(state.Descriptor(
		pipelineLayout,
		pipeline.Stage{Module: vsModule, EntryPoint: vs.EntryPoint(), Buffers: vs.VertexLayout()},
		pipeline.Stage{Module: fsModule, EntryPoint: fs.EntryPoint()},
		b.surfaceFormat,
	))
	if err != nil {
		p.Release()
		return nil, &ShaderError{Key: key, Link: true, Log: err.Error()}
	}

	if err := p.initSlots(b.uniformSlots); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (b *wgpuRendererBackendImpl) CreateMesh(label string, mesh *model.MeshData) (Mesh, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexData := common.SliceToBytes(mesh.Vertices)
	vbo, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if err := b.queue.WriteBuffer(vbo, 0, vertexData); err != nil {
		vbo.Release()
		return nil, err
	}

	// Buffer sizes must be multiples of 4; uint32 indices always are.
	indexData := common.SliceToBytes(mesh.Indices)
	ibo, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vbo.Release()
		return nil, err
	}
	if err := b.queue.WriteBuffer(ibo, 0, indexData); err != nil {
		vbo.Release()
		ibo.Release()
		return nil, err
	}

	return &wgpuMesh{label: label, vertexBuffer: vbo, indexBuffer: ibo, indexCount: len(mesh.Indices)}, nil
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, data common.TextureStagingData) (Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTexture(label, data)
}

func (b *wgpuRendererBackendImpl) createTexture(label string, data common.TextureStagingData) (*wgpuTexture, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: b.sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	return &wgpuTexture{backend: b, label: label, texture: tex, view: view, bindGroup: bindGroup}, nil
}

func (b *wgpuRendererBackendImpl) BeginFrame(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	if b.renderPassDescriptor == nil {
		return fmt.Errorf("%w: surface not configured", ErrNoFrame)
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.renderPassDescriptor.ColorAttachments[0].View = view
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.frame++

	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	defer b.releaseFrame()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) releaseFrame() {
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrame()
	if b.defaultTexture != nil {
		b.defaultTexture.release()
		b.defaultTexture = nil
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.textureLayout != nil {
		b.textureLayout.Release()
		b.textureLayout = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
		b.depthTextureView, b.depthTexture = nil, nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// wgpuProgram is a render pipeline plus a uniform buffer divided into per-draw slots.
// Setters write the CPU uniform block; Draw copies it into the next free slot, so every draw of
// a frame sees the values set immediately before it.
type wgpuProgram struct {
	backend *wgpuRendererBackendImpl
	key     string

	modules        []*wgpu.ShaderModule
	uniformLayout  *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	pipeline       *wgpu.RenderPipeline
	usesTexture    bool

	block         *uniformBlock
	stride        uint64
	uniformBuffer *wgpu.Buffer
	slotGroups    []*wgpu.BindGroup

	frame    uint64
	nextSlot int
}

var _ Program = &wgpuProgram{}

func (p *wgpuProgram) initSlots(slots int) error {
	b := p.backend
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.key + " Uniform Buffer",
		Size:  p.stride * uint64(slots),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform buffer: %w", err)
	}
	p.uniformBuffer = buf

	p.slotGroups = make([]*wgpu.BindGroup, slots)
	for i := range p.slotGroups {
		group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("%s Uniform Slot %d", p.key, i),
			Layout: p.uniformLayout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  buf,
					Offset:  uint64(i) * p.stride,
					Size:    p.block.layout.Size,
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create uniform slot %d: %w", i, err)
		}
		p.slotGroups[i] = group
	}
	return nil
}

func (p *wgpuProgram) Key() string {
	return p.key
}

// Use and Unuse are no-ops: the pipeline is set per draw.
func (p *wgpuProgram) Use() {}

func (p *wgpuProgram) Unuse() {}

func (p *wgpuProgram) HasUniform(name string) bool {
	return p.block.has(name)
}

func (p *wgpuProgram) SetInt(name string, v int32) {
	p.block.setInt(name, v)
}

func (p *wgpuProgram) SetFloat(name string, v float32) {
	p.block.setFloat(name, v)
}

func (p *wgpuProgram) SetVec3(name string, v mgl32.Vec3) {
	p.block.setVec3(name, v)
}

func (p *wgpuProgram) SetMat4(name string, m mgl32.Mat4) {
	p.block.setMat4(name, m)
}

func (p *wgpuProgram) Draw(mesh Mesh) error {
	m, ok := mesh.(*wgpuMesh)
	if !ok {
		return fmt.Errorf("mesh %q was not created by the wgpu backend", mesh.Label())
	}

	b := p.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	if p.frame != b.frame {
		p.frame = b.frame
		p.nextSlot = 0
	}
	if p.nextSlot >= len(p.slotGroups) {
		return fmt.Errorf("%w: %d slots in program %s", ErrUniformSlotsExhausted, len(p.slotGroups), p.key)
	}
	slot := p.nextSlot
	p.nextSlot++

	if err := b.queue.WriteBuffer(p.uniformBuffer, uint64(slot)*p.stride, p.block.data); err != nil {
		b.record("draw "+m.label, err)
		return err
	}

	b.framePass.SetPipeline(p.pipeline)
	b.framePass.SetBindGroup(0, p.slotGroups[slot], nil)
	if p.usesTexture {
		tex := b.boundTexture
		if tex == nil {
			tex = b.defaultTexture
		}
		b.framePass.SetBindGroup(1, tex.bindGroup, nil)
	}
	b.framePass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(m.indexCount), 1, 0, 0, 0)
	return nil
}

func (p *wgpuProgram) Release() {
	for _, g := range p.slotGroups {
		if g != nil {
			g.Release()
		}
	}
	p.slotGroups = nil
	if p.uniformBuffer != nil {
		p.uniformBuffer.Release()
		p.uniformBuffer = nil
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	if p.uniformLayout != nil {
		p.uniformLayout.Release()
		p.uniformLayout = nil
	}
	for _, m := range p.modules {
		m.Release()
	}
	p.modules = nil
}

type wgpuMesh struct {
	label        string
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

var _ Mesh = &wgpuMesh{}

func (m *wgpuMesh) Label() string {
	return m.label
}

func (m *wgpuMesh) IndexCount() int {
	return m.indexCount
}

func (m *wgpuMesh) Release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}

type wgpuTexture struct {
	backend   *wgpuRendererBackendImpl
	label     string
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

var _ Texture = &wgpuTexture{}

func (t *wgpuTexture) Label() string {
	return t.label
}

// Bind makes the texture the one sampled by subsequent draws. WebGPU has a single texture
// binding in the lighting shader, so the unit is not used.
func (t *wgpuTexture) Bind(unit int) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	t.backend.boundTexture = t
}

func (t *wgpuTexture) Unbind() {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if t.backend.boundTexture == t {
		t.backend.boundTexture = nil
	}
}

func (t *wgpuTexture) Release() {
	t.Unbind()
	t.release()
}

func (t *wgpuTexture) release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
		t.bindGroup = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

func roundUp(value, alignment uint64) uint64 {
	return (value + alignment - 1) / alignment * alignment
}

// mergeBindGroupLayouts merges the bind group layout descriptors from a vertex and fragment shader
// into a unified set of descriptors suitable for a render pipeline layout.
//
// For each group index present in either shader:
//   - Entries with the same binding number have their Visibility flags ORed together
//   - Entries unique to one shader are included with their original visibility
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	groupIndices := make(map[int]bool)
	for g := range vertexLayouts {
		groupIndices[g] = true
	}
	for g := range fragmentLayouts {
		groupIndices[g] = true
	}

	for g := range groupIndices {
		vDesc, hasV := vertexLayouts[g]
		fDesc, hasF := fragmentLayouts[g]

		switch {
		case hasV && !hasF:
			merged[g] = vDesc
		case hasF && !hasV:
			merged[g] = fDesc
		default:
			entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range vDesc.Entries {
				entryMap[e.Binding] = e
			}
			for _, e := range fDesc.Entries {
				if existing, ok := entryMap[e.Binding]; ok {
					existing.Visibility |= e.Visibility
					entryMap[e.Binding] = existing
				} else {
					entryMap[e.Binding] = e
				}
			}

			entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
			for _, e := range entryMap {
				entries = append(entries, e)
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Binding < entries[j].Binding
			})

			merged[g] = wgpu.BindGroupLayoutDescriptor{
				Label:   vDesc.Label,
				Entries: entries,
			}
		}
	}

	return merged
}
