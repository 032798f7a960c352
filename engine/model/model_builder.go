package model

import "github.com/go-gl/mathgl/mgl32"

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMaterial is an option builder that sets all lighting parameters at once.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat Material) ModelBuilderOption {
	return func(m *model) {
		m.material = mat
	}
}

// WithDiffuse is an option builder that sets the diffuse color.
//
// Parameters:
//   - c: the diffuse color
//
// Returns:
//   - ModelBuilderOption: a function that applies the diffuse option to a model
func WithDiffuse(c mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.material.Diffuse = c
	}
}

// WithSpecular is an option builder that sets the specular color.
//
// Parameters:
//   - c: the specular color
//
// Returns:
//   - ModelBuilderOption: a function that applies the specular option to a model
func WithSpecular(c mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.material.Specular = c
	}
}

// WithShininess is an option builder that sets the Phong exponent.
//
// Parameters:
//   - s: the shininess
//
// Returns:
//   - ModelBuilderOption: a function that applies the shininess option to a model
func WithShininess(s float32) ModelBuilderOption {
	return func(m *model) {
		m.material.Shininess = s
	}
}
