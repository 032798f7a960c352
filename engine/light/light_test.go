package light

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDefaultLightPosition(t *testing.T) {
	l := NewLight()
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, l.Ambient)
	assert.Equal(t, mgl32.Vec3{0.8, 0.8, 0.8}, l.Color)

	spin := -90 * math.Pi / 180
	tilt := -60 * math.Pi / 180
	want := [3]float64{
		60 * math.Cos(spin) * math.Sin(tilt),
		60 * math.Sin(spin) * math.Sin(tilt),
		60 * math.Cos(tilt),
	}
	got := l.Position()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4)
	}
	assert.InDelta(t, 51.9615, got[1], 1e-3)
	assert.InDelta(t, 30, got[2], 1e-3)
}

func TestPositionFollowsParameters(t *testing.T) {
	l := NewLight(WithOrbit(0, 90, 10), WithColor(1, 0, 0), WithAmbient(0.1, 0.1, 0.1))
	p := l.Position()
	assert.InDelta(t, 10, p[0], 1e-4)
	assert.InDelta(t, 0, p[2], 1e-4)

	l.Orbit(90, 0)
	p = l.Position()
	assert.InDelta(t, 0, p[0], 1e-4)
	assert.InDelta(t, 10, p[1], 1e-4)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, l.Color)
}
