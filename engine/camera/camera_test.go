package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legacyWorldProj is the fixed row-major world projection the class framework used before
// the camera existed.
var legacyWorldProj = [4][4]float32{
	{-4.3301, 2.5, 0, 0},
	{-1.25, -2.1651, 4.3301, -5},
	{-0.4330, -0.75, -0.5, 159.8032},
	{-0.4330, -0.75, -0.5, 160},
}

func TestDefaultCameraMatchesLegacyWorldProj(t *testing.T) {
	c := NewCamera(WithViewport(750, 750))
	pv := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			assert.InDelta(t, legacyWorldProj[row][col], pv.At(row, col), 1e-3, "element (%d,%d)", row, col)
		}
	}
}

func TestViewInverseIsInverse(t *testing.T) {
	c := NewCamera(WithSpin(20), WithTilt(70), WithZoom(90))
	product := c.ViewMatrix().Mul4(c.ViewInverseMatrix())
	assert.True(t, product.ApproxEqualThreshold(mgl32.Ident4(), 1e-4))

	eye := c.EyePosition()
	assert.InDelta(t, 90, eye.Len(), 1.5, "the default pan keeps the eye near the zoom distance")
}

func TestAspectFollowsViewport(t *testing.T) {
	c := NewCamera()
	c.SetViewport(1500, 750)
	assert.Equal(t, float32(2), c.Aspect())

	p := c.ProjectionMatrix()
	assert.InDelta(t, 2.5, p.At(0, 0), 1e-4)
	assert.InDelta(t, 5, p.At(1, 1), 1e-4)

	c.SetViewport(800, 0)
	assert.Equal(t, float32(2), c.Aspect(), "a zero height keeps the previous aspect")
}

func TestClampedParameters(t *testing.T) {
	c := NewCamera(WithTiltBounds(0, 90), WithZoomBounds(10, 200))

	c.Orbit(15, 100)
	assert.Equal(t, float32(-135), c.Spin())
	assert.Equal(t, float32(90), c.Tilt())

	c.SetTilt(-5)
	assert.Equal(t, float32(0), c.Tilt())

	c.Dolly(1000)
	assert.Equal(t, float32(200), c.Zoom())
	c.SetZoom(1)
	assert.Equal(t, float32(10), c.Zoom())

	c.Translate(2, 3)
	x, y := c.Pan()
	assert.Equal(t, float32(2), x)
	assert.Equal(t, float32(2), y)
}

func TestControllerDrags(t *testing.T) {
	c := NewCamera()
	cc := NewCameraController(c, WithOrbitSpeed(0.5), WithPanSpeed(0.1), WithZoomSpeed(10))
	require.Equal(t, cc, c.Controller())

	assert.False(t, cc.MouseMotion(50, 50), "motion without a button does nothing")

	assert.True(t, cc.MouseButton(common.MouseButtonLeft, true, false, 100, 100))
	assert.True(t, cc.Held(common.MouseButtonLeft))
	assert.True(t, cc.MouseMotion(110, 104))
	assert.InDelta(t, -145, c.Spin(), 1e-5)
	assert.InDelta(t, 32, c.Tilt(), 1e-5)
	assert.False(t, cc.MouseMotion(110, 104), "no movement")
	cc.MouseButton(common.MouseButtonLeft, false, false, 110, 104)
	assert.False(t, cc.Held(common.MouseButtonLeft))

	cc.MouseButton(common.MouseButtonLeft, true, true, 0, 0)
	assert.True(t, cc.Shifted())
	cc.MouseMotion(10, 20)
	x, y := c.Pan()
	assert.InDelta(t, 1, x, 1e-5)
	assert.InDelta(t, -3, y, 1e-5)
	cc.MouseButton(common.MouseButtonLeft, false, false, 10, 20)

	cc.MouseButton(common.MouseButtonRight, true, false, 0, 0)
	cc.MouseMotion(0, 10)
	assert.InDelta(t, 170, c.Zoom(), 1e-4)
	cc.MouseButton(common.MouseButtonRight, false, false, 0, 10)

	assert.True(t, cc.Scroll(2))
	assert.InDelta(t, 150, c.Zoom(), 1e-4)
	assert.False(t, cc.Scroll(0))
}

func TestControllerRequiresCamera(t *testing.T) {
	assert.Panics(t, func() { NewCameraController(nil) })
}

func TestControllerZeroSpeedKeepsDefault(t *testing.T) {
	cc := NewCameraController(NewCamera(), WithOrbitSpeed(0), WithPanSpeed(0.25), WithZoomSpeed(0))
	assert.Equal(t, defaultOrbitSpeed, cc.OrbitSpeed())
	assert.Equal(t, float32(0.25), cc.PanSpeed())
	assert.Equal(t, defaultZoomSpeed, cc.ZoomSpeed())
}
