package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// HSV2RGB converts a hue/saturation/value triple to linear RGB.
// Hue is a fraction of the color wheel (red at 0, green at 1/3, blue at 2/3) and wraps,
// so 1.0 maps to the same color as 0.0. Saturation and value are clamped to [0, 1] and
// NaN counts as 0, so every input produces a defined color.
//
// Parameters:
//   - h: hue as a fraction of a full turn
//   - s: saturation, 0 is achromatic
//   - v: value (brightness)
//
// Returns:
//   - mgl32.Vec3: the RGB color
func HSV2RGB(h, s, v float32) mgl32.Vec3 {
	s = clampUnit(s)
	v = clampUnit(v)
	if s == 0 {
		return mgl32.Vec3{v, v, v}
	}

	h = h - math32.Floor(h)
	if math32.IsNaN(h) || math32.IsInf(h, 0) {
		h = 0
	}

	sector := math32.Floor(h * 6)
	f := h*6 - sector
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(sector) % 6 {
	case 1:
		return mgl32.Vec3{q, v, p}
	case 2:
		return mgl32.Vec3{p, v, t}
	case 3:
		return mgl32.Vec3{p, q, v}
	case 4:
		return mgl32.Vec3{t, p, v}
	case 5:
		return mgl32.Vec3{v, p, q}
	default:
		return mgl32.Vec3{v, t, p}
	}
}

// clampUnit clamps x to [0, 1], mapping NaN to 0.
func clampUnit(x float32) float32 {
	if math32.IsNaN(x) {
		return 0
	}
	return mgl32.Clamp(x, 0, 1)
}
