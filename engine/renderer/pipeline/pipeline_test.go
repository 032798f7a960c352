package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDescriptor(t *testing.T) {
	p := NewPipeline("lighting")
	d := p.Descriptor(nil,
		Stage{EntryPoint: "vs_main", Buffers: []wgpu.VertexBufferLayout{{ArrayStride: 32}}},
		Stage{EntryPoint: "fs_main"},
		wgpu.TextureFormatBGRA8Unorm,
	)

	assert.Equal(t, "lighting Render Pipeline", d.Label)
	assert.Equal(t, "vs_main", d.Vertex.EntryPoint)
	require.Len(t, d.Vertex.Buffers, 1)
	require.NotNil(t, d.Fragment)
	assert.Equal(t, "fs_main", d.Fragment.EntryPoint)
	require.Len(t, d.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, d.Fragment.Targets[0].Format)
	assert.Nil(t, d.Fragment.Targets[0].Blend)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, d.Primitive.Topology)
	assert.Equal(t, wgpu.CullModeNone, d.Primitive.CullMode)
	assert.Equal(t, uint32(1), d.Multisample.Count)
	require.NotNil(t, d.DepthStencil)
	assert.Equal(t, DepthFormat, d.DepthStencil.Format)
	assert.True(t, d.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, d.DepthStencil.DepthCompare)
}

func TestOptions(t *testing.T) {
	p := NewPipeline("overlay",
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithDepthBias(2, 1.5),
		WithSampleCount(0),
	)
	assert.False(t, p.DepthTestEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())

	d := p.Descriptor(nil, Stage{}, Stage{}, wgpu.TextureFormatRGBA8Unorm)
	assert.Equal(t, wgpu.CompareFunctionAlways, d.DepthStencil.DepthCompare)
	assert.False(t, d.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, int32(2), d.DepthStencil.DepthBias)
	assert.NotNil(t, d.Fragment.Targets[0].Blend)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, d.Primitive.Topology)
	assert.Equal(t, uint32(1), d.Multisample.Count)
}
