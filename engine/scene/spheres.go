package scene

import (
	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SphereInstance is one sphere of the environment field.
type SphereInstance struct {
	Model mgl32.Mat4
	Color mgl32.Vec3
}

// SphereField lays out the environment spheres for a field density n and animation angle
// atime. Spheres sit 30 units from the origin on a grid of longitudes u and latitudes v;
// hue follows longitude, saturation peaks at the equator and size follows sin(v·π).
// The whole field turns about z by atime degrees. n = 16 gives 64 spheres.
//
// Parameters:
//   - n: field density, expected even and at least 2
//   - atime: rotation of the whole field in degrees
//
// Returns:
//   - []SphereInstance: the spheres in draw order
func SphereField(n int, atime float32) []SphereInstance {
	if n < 2 {
		return nil
	}
	spin := common.Rotate(common.AxisZ, atime)
	out := make([]SphereInstance, 0, n*(n/4))
	for i := 0; i < 2*n; i += 2 {
		u := float32(i) / float32(2*n)
		for j := 2; j <= n/2; j += 2 {
			v := float32(j) / float32(n)
			s := 3 * math32.Sin(v*3.14)
			m := spin.
				Mul4(common.Rotate(common.AxisZ, 360*u)).
				Mul4(common.Rotate(common.AxisY, 180*v)).
				Mul4(mgl32.Translate3D(0, 0, 30)).
				Mul4(common.Scale(s))
			out = append(out, SphereInstance{
				Model: m,
				Color: common.HSV2RGB(u, 1-2*math32.Abs(v-0.5), 1),
			})
		}
	}
	return out
}
