package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the depth attachment format every render pipeline is created against.
const DepthFormat = wgpu.TextureFormatDepth24Plus

// Stage is one programmable stage of a render pipeline.
type Stage struct {
	Module     *wgpu.ShaderModule
	EntryPoint string
	Buffers    []wgpu.VertexBufferLayout
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key string

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
	sampleCount         uint32
}

// Pipeline holds the fixed-function state of a render pipeline: depth, blend, cull and
// topology settings. It turns shader stages and a layout into a wgpu render pipeline descriptor.
type Pipeline interface {
	// Key returns the label the pipeline is created with.
	//
	// Returns:
	//   - string: the pipeline key
	Key() string

	// DepthTestEnabled reports whether fragments are depth tested.
	//
	// Returns:
	//   - bool: true if depth testing is enabled
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth.
	//
	// Returns:
	//   - bool: true if depth writes are enabled
	DepthWriteEnabled() bool

	// BlendEnabled reports whether the color target blends.
	//
	// Returns:
	//   - bool: true if blending is enabled
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the topology
	Topology() wgpu.PrimitiveTopology

	// Descriptor builds the render pipeline descriptor for the given stages.
	//
	// Parameters:
	//   - layout: the pipeline layout
	//   - vertex: the vertex stage, including its vertex buffer layouts
	//   - fragment: the fragment stage
	//   - format: the color target format
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor, ready for Device.CreateRenderPipeline
	Descriptor(layout *wgpu.PipelineLayout, vertex, fragment Stage, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline with depth testing and writes on, blending and culling off,
// counter-clockwise triangle lists and a single sample.
//
// Parameters:
//   - key: the pipeline label
//   - opts: functional options
//
// Returns:
//   - Pipeline: the configured pipeline state
func NewPipeline(key string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:               key,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		sampleCount:       1,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, vertex, fragment Stage, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		target.Blend = p.blendState
	}

	// With depth testing off the attachment is still bound, so the compare always passes.
	compare := wgpu.CompareFunctionAlways
	if p.depthTestEnabled {
		compare = wgpu.CompareFunctionLess
	}

	return &wgpu.RenderPipelineDescriptor{
		Label:  p.key + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vertex.Module,
			EntryPoint: vertex.EntryPoint,
			Buffers:    vertex.Buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragment.Module,
			EntryPoint: fragment.EntryPoint,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: p.sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              DepthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        compare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}
}
