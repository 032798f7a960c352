package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Drawable pairs CPU model data with the GPU mesh built from it.
type Drawable struct {
	Model model.Model
	Mesh  renderer.Mesh
}

// NewDrawable uploads a model's mesh through the renderer.
//
// Parameters:
//   - r: the renderer that owns the GPU mesh
//   - m: the model to upload
//
// Returns:
//   - *Drawable: the drawable
//   - error: the renderer's error when the upload fails
func NewDrawable(r renderer.Renderer, m model.Model) (*Drawable, error) {
	mesh, err := r.CreateMesh(m.Name(), m.Mesh())
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", m.Name(), err)
	}
	return &Drawable{Model: m, Mesh: mesh}, nil
}

// Material returns the model's lighting parameters.
func (d *Drawable) Material() model.Material {
	return d.Model.Material()
}

// Release frees the GPU mesh. Safe to call on a nil drawable.
func (d *Drawable) Release() {
	if d == nil || d.Mesh == nil {
		return
	}
	d.Mesh.Release()
	d.Mesh = nil
}

// Slot is the single owner of the central drawable. The drawable, its normalizing transform
// and the selection index always change together.
type Slot struct {
	drawable  *Drawable
	transform mgl32.Mat4
	index     int
}

// Swap installs a new drawable and releases the previous one.
//
// Parameters:
//   - d: the new drawable
//   - transform: the normalizing transform for d
//   - index: the selection that produced d
func (s *Slot) Swap(d *Drawable, transform mgl32.Mat4, index int) {
	old := s.drawable
	s.drawable = d
	s.transform = transform
	s.index = index
	if old != nil && old != d {
		old.Release()
	}
}

// Drawable returns the installed drawable, or nil.
func (s *Slot) Drawable() *Drawable {
	return s.drawable
}

// Transform returns the normalizing transform of the installed drawable.
func (s *Slot) Transform() mgl32.Mat4 {
	return s.transform
}

// Index returns the selection of the installed drawable.
func (s *Slot) Index() int {
	return s.index
}

// Empty reports whether no drawable is installed.
func (s *Slot) Empty() bool {
	return s.drawable == nil
}

// Release frees the installed drawable and empties the slot.
func (s *Slot) Release() {
	s.drawable.Release()
	s.drawable = nil
}
