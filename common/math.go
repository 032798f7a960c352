package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Axis indices accepted by Rotate, matching the x=0, y=1, z=2 convention of the scene code.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// Rotate builds a homogeneous rotation about a principal axis.
//
// Parameters:
//   - axis: AxisX, AxisY or AxisZ
//   - degrees: rotation angle in degrees, counter-clockwise when looking down the axis
//
// Returns:
//   - mgl32.Mat4: the rotation matrix; identity for an unknown axis
func Rotate(axis int, degrees float32) mgl32.Mat4 {
	rad := mgl32.DegToRad(degrees)
	switch axis {
	case AxisX:
		return mgl32.HomogRotate3DX(rad)
	case AxisY:
		return mgl32.HomogRotate3DY(rad)
	case AxisZ:
		return mgl32.HomogRotate3DZ(rad)
	default:
		return mgl32.Ident4()
	}
}

// Scale builds a uniform scale matrix.
func Scale(s float32) mgl32.Mat4 {
	return mgl32.Scale3D(s, s, s)
}

// Translate builds a translation matrix from a vector.
func Translate(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// NormalMatrix returns the inverse-transpose of a model matrix, used to transform normals
// under non-uniform scale. A singular matrix yields the zero matrix, as mgl32.Mat4.Inv does.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat4: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	return model.Inv().Transpose()
}

// SphericalToCartesian converts spin/tilt angles (degrees) and a distance into a position.
// Tilt is measured from the +z axis and spin around it, so tilt 0 points straight up.
//
// Parameters:
//   - spin: azimuth around z in degrees
//   - tilt: angle from +z in degrees
//   - dist: distance from the origin
//
// Returns:
//   - mgl32.Vec3: (d·cos(spin)·sin(tilt), d·sin(spin)·sin(tilt), d·cos(tilt))
func SphericalToCartesian(spin, tilt, dist float32) mgl32.Vec3 {
	s := mgl32.DegToRad(spin)
	t := mgl32.DegToRad(tilt)
	return mgl32.Vec3{
		dist * math32.Cos(s) * math32.Sin(t),
		dist * math32.Sin(s) * math32.Sin(t),
		dist * math32.Cos(t),
	}
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}
