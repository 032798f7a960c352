package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	name     string
	mesh     *MeshData
	material Material
	bounds   Bounds
}

// Model is CPU-side geometry plus the material and normalization metadata the scene needs.
// It carries no GPU resources; the renderer turns its MeshData into a drawable mesh.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh retrieves the triangle data.
	//
	// Returns:
	//   - *MeshData: the mesh
	Mesh() *MeshData

	// Material retrieves the lighting parameters for this model.
	//
	// Returns:
	//   - Material: the material
	Material() Material

	// SetMaterial replaces the lighting parameters.
	//
	// Parameters:
	//   - m: the new material
	SetMaterial(m Material)

	// Bounds retrieves the axis-aligned bounding box of the mesh.
	//
	// Returns:
	//   - Bounds: the box
	Bounds() Bounds

	// Size returns the largest half-extent of the bounding box.
	//
	// Returns:
	//   - float32: the bounding size
	Size() float32

	// Center returns the midpoint of the bounding box.
	//
	// Returns:
	//   - mgl32.Vec3: the center
	Center() mgl32.Vec3
}

var _ Model = &model{}

// NewModel creates a Model from mesh data and computes its bounds.
// The material defaults to MeshMaterial.
// Panics if mesh is nil or has no vertices.
//
// Parameters:
//   - mesh: the triangle data
//   - options: functional options for name and material
//
// Returns:
//   - Model: the new model
func NewModel(mesh *MeshData, options ...ModelBuilderOption) Model {
	if mesh == nil || len(mesh.Vertices) == 0 {
		panic("model: mesh must contain at least one vertex")
	}
	m := &model{
		name:     mesh.Name,
		mesh:     mesh,
		material: MeshMaterial,
		bounds:   ComputeBounds(mesh.Vertices),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() *MeshData {
	return m.mesh
}

func (m *model) Material() Material {
	return m.material
}

func (m *model) SetMaterial(mat Material) {
	m.material = mat
}

func (m *model) Bounds() Bounds {
	return m.bounds
}

func (m *model) Size() float32 {
	return m.bounds.Size()
}

func (m *model) Center() mgl32.Vec3 {
	return m.bounds.Center()
}

func (m *model) String() string {
	return fmt.Sprintf("%s (%d vertices, %d triangles)", m.name, len(m.mesh.Vertices), m.mesh.TriangleCount())
}

// ComputeBounds returns the axis-aligned bounding box of a vertex list.
// An empty list yields the zero box.
//
// Parameters:
//   - vertices: the vertices to enclose
//
// Returns:
//   - Bounds: the enclosing box
func ComputeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: mgl32.Vec3(vertices[0].Position), Max: mgl32.Vec3(vertices[0].Position)}
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	return b
}
