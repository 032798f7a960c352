package model

import "unsafe"

// VertexAttribute describes one attribute of the interleaved Vertex layout.
type VertexAttribute struct {
	// Location is the shader input location.
	Location uint32

	// Name is the GLSL input name bound to Location before linking.
	Name string

	// Components is the number of float32 components.
	Components int32

	// Offset is the byte offset of the attribute inside a Vertex.
	Offset uintptr
}

// VertexStride is the size in bytes of one Vertex.
const VertexStride = int32(unsafe.Sizeof(Vertex{}))

// VertexAttributes lists the Vertex fields in location order.
// Names match the `in` variables of the lighting vertex shader.
var VertexAttributes = []VertexAttribute{
	{Location: 0, Name: "vertex", Components: 3, Offset: unsafe.Offsetof(Vertex{}.Position)},
	{Location: 1, Name: "vertexNormal", Components: 3, Offset: unsafe.Offsetof(Vertex{}.Normal)},
	{Location: 2, Name: "vertexTexture", Components: 2, Offset: unsafe.Offsetof(Vertex{}.TexCoord)},
	{Location: 3, Name: "vertexTangent", Components: 3, Offset: unsafe.Offsetof(Vertex{}.Tangent)},
}
