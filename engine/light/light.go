package light

import (
	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Light holds the parameters of the scene's single point light. The light orbits the
// origin: its position is derived from Spin, Tilt and Dist each time it is needed and is
// never stored, so changing any of them moves the light on the next frame.
type Light struct {
	// Ambient is the ambient term applied to every lit surface.
	Ambient mgl32.Vec3 `json:"ambient"`
	// Color is the light's radiance.
	Color mgl32.Vec3 `json:"color"`
	// Spin is the azimuth around the world z axis in degrees.
	Spin float32 `json:"spin"`
	// Tilt is the angle from the world z axis in degrees.
	Tilt float32 `json:"tilt"`
	// Dist is the distance from the origin.
	Dist float32 `json:"dist"`
}

// NewLight creates the default class light: ambient (0.5, 0.5, 0.5), color (0.8, 0.8, 0.8),
// spin -90, tilt -60, dist 60.
//
// Parameters:
//   - opts: functional options applied over the defaults
//
// Returns:
//   - Light: the configured light
func NewLight(opts ...LightBuilderOption) Light {
	l := Light{
		Ambient: mgl32.Vec3{0.5, 0.5, 0.5},
		Color:   mgl32.Vec3{0.8, 0.8, 0.8},
		Spin:    -90,
		Tilt:    -60,
		Dist:    60,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Position returns the world-space light position for the current spin, tilt and distance.
//
// Returns:
//   - mgl32.Vec3: the light position
func (l Light) Position() mgl32.Vec3 {
	return common.SphericalToCartesian(l.Spin, l.Tilt, l.Dist)
}

// Orbit adds to spin and tilt.
//
// Parameters:
//   - dSpin, dTilt: angle deltas in degrees
func (l *Light) Orbit(dSpin, dTilt float32) {
	l.Spin += dSpin
	l.Tilt += dTilt
}
