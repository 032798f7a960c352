package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framework/engine/light"
)

// Central model selections.
const (
	ModelTeapot = iota
	ModelBunny
	ModelDragon
	ModelSphere
)

// MaxMode is the highest shading mode the lighting shader understands.
const MaxMode = 9

// ModelName returns the display name of a central model selection. Any index past the
// meshes selects the fallback sphere.
//
// Parameters:
//   - index: the selection
//
// Returns:
//   - string: Teapot, Bunny, Dragon or Sphere
func ModelName(index int) string {
	switch index {
	case ModelTeapot:
		return "Teapot"
	case ModelBunny:
		return "Bunny"
	case ModelDragon:
		return "Dragon"
	default:
		return "Sphere"
	}
}

// State is everything the composer reads besides time, camera and drawables.
// It is a plain value; the event loop owns the only mutable copy.
type State struct {
	// Mode selects the shading path in the lighting shader, 0-9.
	Mode int `json:"mode"`

	// DrawGround enables the ground plane.
	DrawGround bool `json:"drawGround"`

	// DrawSpheres enables the environment sphere field.
	DrawSpheres bool `json:"drawSpheres"`

	// CentralModel is the current central model selection.
	CentralModel int `json:"centralModel"`

	// Light holds the light parameters; the position is derived per frame.
	Light light.Light `json:"light"`

	// Width and Height are the viewport size in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// NSpheres controls the density of the sphere field.
	NSpheres int `json:"nSpheres"`
}

// DefaultState returns the initial scene state: mode 0, both toggles on, the teapot, the
// default light, a 750x750 viewport and 16 sphere divisions.
//
// Returns:
//   - State: the default state
func DefaultState() State {
	return State{
		Mode:         0,
		DrawGround:   true,
		DrawSpheres:  true,
		CentralModel: ModelTeapot,
		Light:        light.NewLight(),
		Width:        750,
		Height:       750,
		NSpheres:     16,
	}
}

// Validate checks the fields that the composer relies on.
//
// Returns:
//   - error: a description of the first invalid field, or nil
func (s State) Validate() error {
	if s.Mode < 0 || s.Mode > MaxMode {
		return fmt.Errorf("mode %d out of range 0-%d", s.Mode, MaxMode)
	}
	if s.NSpheres < 2 || s.NSpheres%2 != 0 {
		return fmt.Errorf("sphere count %d must be even and at least 2", s.NSpheres)
	}
	if s.CentralModel < 0 {
		return fmt.Errorf("central model %d is negative", s.CentralModel)
	}
	return nil
}
