package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestRotateAxes(t *testing.T) {
	x := Rotate(AxisZ, 90).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, x[0], 1e-6)
	assert.InDelta(t, 1, x[1], 1e-6)

	y := Rotate(AxisX, 90).Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, 1, y[2], 1e-6)

	z := Rotate(AxisY, 90).Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.InDelta(t, 1, z[0], 1e-6)

	assert.Equal(t, mgl32.Ident4(), Rotate(7, 45))
}

func TestNormalMatrixUniformScale(t *testing.T) {
	m := Scale(2).Mul4(Rotate(AxisZ, 30))
	n := NormalMatrix(m)
	// for rotation times uniform scale s the normal matrix is rotation / s
	expected := Rotate(AxisZ, 30).Mul(0.5)
	assert.True(t, n.ApproxEqualThreshold(expected, 1e-5), "got %v", n)
}

func TestSphericalToCartesian(t *testing.T) {
	p := SphericalToCartesian(-90, -60, 60)
	spin := float32(-90) * math32.Pi / 180
	tilt := float32(-60) * math32.Pi / 180
	assert.InDelta(t, 60*math32.Cos(spin)*math32.Sin(tilt), p[0], 1e-4)
	assert.InDelta(t, 60*math32.Sin(spin)*math32.Sin(tilt), p[1], 1e-4)
	assert.InDelta(t, 60*math32.Cos(tilt), p[2], 1e-4)
	assert.InDelta(t, 51.9615, p[1], 1e-3)
	assert.InDelta(t, 30, p[2], 1e-4)
	assert.InDelta(t, 60, p.Len(), 1e-4)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes[float32](nil))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
}

func TestDigitKey(t *testing.T) {
	v, ok := DigitKey(Key7)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = DigitKey(KeyQ)
	assert.False(t, ok)
}

func TestCheckerImage(t *testing.T) {
	img := CheckerImage(4, 2, [4]uint8{255, 255, 255, 255}, [4]uint8{0, 0, 0, 255})
	staged := StagingFromImage(img)
	assert.Equal(t, uint32(4), staged.Width)
	assert.Equal(t, uint32(4), staged.Height)
	assert.Len(t, staged.Pixels, 64)
	assert.Equal(t, uint8(255), staged.Pixels[0])
	// pixel (2,0) is in the second cell
	assert.Equal(t, uint8(0), staged.Pixels[8])
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "a", Coalesce("", "a"))
	assert.Equal(t, float32(0), Coalesce[float32](0, 0))
}
