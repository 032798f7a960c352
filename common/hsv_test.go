package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3InDelta(t *testing.T, expected, actual mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], delta, "component %d of %v vs %v", i, expected, actual)
	}
}

func TestHSV2RGBPrimaries(t *testing.T) {
	data := []struct {
		name     string
		h        float32
		expected mgl32.Vec3
	}{
		{"red", 0, mgl32.Vec3{1, 0, 0}},
		{"yellow", 1.0 / 6, mgl32.Vec3{1, 1, 0}},
		{"green", 1.0 / 3, mgl32.Vec3{0, 1, 0}},
		{"cyan", 0.5, mgl32.Vec3{0, 1, 1}},
		{"blue", 2.0 / 3, mgl32.Vec3{0, 0, 1}},
		{"magenta", 5.0 / 6, mgl32.Vec3{1, 0, 1}},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			assertVec3InDelta(t, d.expected, HSV2RGB(d.h, 1, 1), 1e-5)
		})
	}
}

func TestHSV2RGBFirstSectorPattern(t *testing.T) {
	// sector 0 yields (v, t, p)
	h, s, v := float32(0.1), float32(0.6), float32(0.8)
	f := h * 6
	p := v * (1 - s)
	tt := v * (1 - s*(1-f))
	assertVec3InDelta(t, mgl32.Vec3{v, tt, p}, HSV2RGB(h, s, v), 1e-6)
}

func TestHSV2RGBWrapsAtOne(t *testing.T) {
	for _, s := range []float32{0.25, 0.5, 1} {
		assertVec3InDelta(t, HSV2RGB(0, s, 1), HSV2RGB(1, s, 1), 1e-6)
		assertVec3InDelta(t, HSV2RGB(0.25, s, 1), HSV2RGB(1.25, s, 1), 1e-5)
		assertVec3InDelta(t, HSV2RGB(0.75, s, 1), HSV2RGB(-0.25, s, 1), 1e-5)
	}
}

func TestHSV2RGBIsTotal(t *testing.T) {
	for i := -24; i <= 24; i++ {
		h := float32(i) / 12
		c := HSV2RGB(h, 0.7, 0.9)
		for k := 0; k < 3; k++ {
			assert.GreaterOrEqual(t, c[k], float32(0), "h=%v", h)
			assert.LessOrEqual(t, c[k], float32(0.9)+1e-6, "h=%v", h)
		}
	}
}

func TestHSV2RGBAchromatic(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0.4, 0.4, 0.4}, HSV2RGB(0.3, 0, 0.4))
	// negative saturation is clamped to zero
	assert.Equal(t, mgl32.Vec3{0.4, 0.4, 0.4}, HSV2RGB(0.3, -1, 0.4))
}

func TestHSV2RGBNaNInputs(t *testing.T) {
	nan := math32.NaN()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, HSV2RGB(0.2, nan, 1), "NaN saturation is achromatic")
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, HSV2RGB(0.2, 1, nan), "NaN value is black")
	assert.Equal(t, HSV2RGB(0, 1, 1), HSV2RGB(nan, 1, 1), "NaN hue is red")
}
