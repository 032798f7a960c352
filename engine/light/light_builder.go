package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light during construction.
type LightBuilderOption func(*Light)

// WithAmbient is an option builder that sets the ambient term.
//
// Parameters:
//   - r, g, b: the ambient color components
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option to a Light
func WithAmbient(r, g, b float32) LightBuilderOption {
	return func(l *Light) {
		l.Ambient = mgl32.Vec3{r, g, b}
	}
}

// WithColor is an option builder that sets the RGB radiance of the light.
//
// Parameters:
//   - r, g, b: the color components
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a Light
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *Light) {
		l.Color = mgl32.Vec3{r, g, b}
	}
}

// WithOrbit is an option builder that places the light by spherical coordinates.
//
// Parameters:
//   - spin: azimuth around z in degrees
//   - tilt: angle from +z in degrees
//   - dist: distance from the origin
//
// Returns:
//   - LightBuilderOption: a function that applies the orbit option to a Light
func WithOrbit(spin, tilt, dist float32) LightBuilderOption {
	return func(l *Light) {
		l.Spin = spin
		l.Tilt = tilt
		l.Dist = dist
	}
}
