package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// uniformBlock is the CPU copy of a WGSL uniform struct. Named setters write into it at the
// reflected offsets; a draw copies the whole block into that draw's slot of the GPU buffer.
type uniformBlock struct {
	layout *shader.UniformLayout
	data   []byte
}

func newUniformBlock(layout *shader.UniformLayout) *uniformBlock {
	return &uniformBlock{
		layout: layout,
		data:   make([]byte, layout.Size),
	}
}

func (b *uniformBlock) has(name string) bool {
	_, ok := b.layout.Field(name)
	return ok
}

// field returns the byte window of a member, or nil when the member is missing or smaller than want.
func (b *uniformBlock) field(name string, want uint64) []byte {
	f, ok := b.layout.Field(name)
	if !ok || f.Size < want || f.Offset+want > uint64(len(b.data)) {
		return nil
	}
	return b.data[f.Offset : f.Offset+want]
}

func (b *uniformBlock) setInt(name string, v int32) bool {
	dst := b.field(name, 4)
	if dst == nil {
		return false
	}
	if f, _ := b.layout.Field(name); f.Type == "f32" {
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
		return true
	}
	binary.LittleEndian.PutUint32(dst, uint32(v))
	return true
}

func (b *uniformBlock) setFloat(name string, v float32) bool {
	dst := b.field(name, 4)
	if dst == nil {
		return false
	}
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
	return true
}

func (b *uniformBlock) setVec3(name string, v mgl32.Vec3) bool {
	dst := b.field(name, 12)
	if dst == nil {
		return false
	}
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v[i]))
	}
	return true
}

// setMat4 writes m column-major, the layout of both mgl32.Mat4 and WGSL mat4x4f.
func (b *uniformBlock) setMat4(name string, m mgl32.Mat4) bool {
	dst := b.field(name, 64)
	if dst == nil {
		return false
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(m[i]))
	}
	return true
}
