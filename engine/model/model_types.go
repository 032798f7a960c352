package model

import "github.com/go-gl/mathgl/mgl32"

// --- Mesh Data ---

// Vertex is the interleaved per-vertex layout shared by every mesh in the framework.
// The field order matches the attribute locations in VertexAttributes.
type Vertex struct {
	// Position is the object-space position.
	Position [3]float32

	// Normal is the object-space surface normal.
	Normal [3]float32

	// TexCoord is the texture coordinate.
	TexCoord [2]float32

	// Tangent is the object-space tangent along increasing u.
	Tangent [3]float32
}

// MeshData is CPU-side triangle geometry produced by a procedural generator or a file loader.
type MeshData struct {
	// Name identifies the mesh in logs and GPU labels.
	Name string

	// Vertices holds the interleaved vertex data.
	Vertices []Vertex

	// Indices holds triangle-list indices into Vertices.
	Indices []uint32
}

// TriangleCount returns the number of triangles described by the index list.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the largest half-extent of the box. A unit sphere has size 1.
func (b Bounds) Size() float32 {
	d := b.Max.Sub(b.Min)
	return 0.5 * max(d[0], d[1], d[2])
}

// --- Material ---

// Material holds the Phong lighting parameters uploaded before each draw.
type Material struct {
	// Diffuse is the diffuse reflectance color.
	Diffuse mgl32.Vec3

	// Specular is the specular reflectance color.
	Specular mgl32.Vec3

	// Shininess is the Phong exponent.
	Shininess float32
}

// Default materials for the built-in drawables.
var (
	SphereMaterial = Material{Diffuse: mgl32.Vec3{0.5, 0.5, 1.0}, Specular: mgl32.Vec3{1.0, 1.0, 1.0}, Shininess: 120}
	GroundMaterial = Material{Diffuse: mgl32.Vec3{0.3, 0.2, 0.1}, Specular: mgl32.Vec3{0.2, 0.2, 0.2}, Shininess: 10}
	TeapotMaterial = Material{Diffuse: mgl32.Vec3{0.5, 0.5, 0.1}, Specular: mgl32.Vec3{1.0, 1.0, 1.0}, Shininess: 120}
	MeshMaterial   = Material{Diffuse: mgl32.Vec3{0.8, 0.8, 0.5}, Specular: mgl32.Vec3{1.0, 1.0, 1.0}, Shininess: 120}
)
