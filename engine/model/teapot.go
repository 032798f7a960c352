package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// teapotPoints are the control points of the Newell teapot for the quadrant x >= 0, y <= 0
// (handle and spout lie in the y = 0 plane). Z is up; the bottom sits on z = 0.
var teapotPoints = [...][3]float32{
	// 0: lid knob ring
	{0.2, 0, 2.7}, {0.2, -0.112, 2.7}, {0.112, -0.2, 2.7}, {0, -0.2, 2.7},
	// 4: rim
	{1.3375, 0, 2.53125}, {1.3375, -0.749, 2.53125}, {0.749, -1.3375, 2.53125}, {0, -1.3375, 2.53125},
	{1.4375, 0, 2.53125}, {1.4375, -0.805, 2.53125}, {0.805, -1.4375, 2.53125}, {0, -1.4375, 2.53125},
	// 12: body
	{1.5, 0, 2.4}, {1.5, -0.84, 2.4}, {0.84, -1.5, 2.4}, {0, -1.5, 2.4},
	{1.75, 0, 1.875}, {1.75, -0.98, 1.875}, {0.98, -1.75, 1.875}, {0, -1.75, 1.875},
	{2, 0, 1.35}, {2, -1.12, 1.35}, {1.12, -2, 1.35}, {0, -2, 1.35},
	{2, 0, 0.9}, {2, -1.12, 0.9}, {1.12, -2, 0.9}, {0, -2, 0.9},
	// 28: handle end
	{-2, 0, 0.9},
	// 29: body
	{2, 0, 0.45}, {2, -1.12, 0.45}, {1.12, -2, 0.45}, {0, -2, 0.45},
	{1.5, 0, 0.225}, {1.5, -0.84, 0.225}, {0.84, -1.5, 0.225}, {0, -1.5, 0.225},
	{1.5, 0, 0.15}, {1.5, -0.84, 0.15}, {0.84, -1.5, 0.15}, {0, -1.5, 0.15},
	// 41: handle
	{-1.6, 0, 2.025}, {-1.6, -0.3, 2.025}, {-1.5, -0.3, 2.25}, {-1.5, 0, 2.25},
	{-2.3, 0, 2.025}, {-2.3, -0.3, 2.025}, {-2.5, -0.3, 2.25}, {-2.5, 0, 2.25},
	{-2.7, 0, 2.025}, {-2.7, -0.3, 2.025}, {-3, -0.3, 2.25}, {-3, 0, 2.25},
	{-2.7, 0, 1.8}, {-2.7, -0.3, 1.8}, {-3, -0.3, 1.8}, {-3, 0, 1.8},
	{-2.7, 0, 1.575}, {-2.7, -0.3, 1.575}, {-3, -0.3, 1.35}, {-3, 0, 1.35},
	{-2.5, 0, 1.125}, {-2.5, -0.3, 1.125}, {-2.65, -0.3, 0.9375}, {-2.65, 0, 0.9375},
	{-2, -0.3, 0.9}, {-1.9, -0.3, 0.6}, {-1.9, 0, 0.6},
	// 68: spout
	{1.7, 0, 1.425}, {1.7, -0.66, 1.425}, {1.7, -0.66, 0.6}, {1.7, 0, 0.6},
	{2.6, 0, 1.425}, {2.6, -0.66, 1.425}, {3.1, -0.66, 0.825}, {3.1, 0, 0.825},
	{2.3, 0, 2.1}, {2.3, -0.25, 2.1}, {2.4, -0.25, 2.025}, {2.4, 0, 2.025},
	{2.7, 0, 2.4}, {2.7, -0.25, 2.4}, {3.3, -0.25, 2.4}, {3.3, 0, 2.4},
	{2.8, 0, 2.475}, {2.8, -0.25, 2.475}, {3.525, -0.25, 2.49375}, {3.525, 0, 2.49375},
	{2.9, 0, 2.475}, {2.9, -0.15, 2.475}, {3.45, -0.15, 2.5125}, {3.45, 0, 2.5125},
	{2.8, 0, 2.4}, {2.8, -0.15, 2.4}, {3.2, -0.15, 2.4}, {3.2, 0, 2.4},
	// 96: lid
	{0, 0, 3.15}, {0.8, 0, 3.15}, {0.8, -0.45, 3.15}, {0.45, -0.8, 3.15}, {0, -0.8, 3.15},
	{0, 0, 2.85},
	// 102: rim inner edge
	{1.4, 0, 2.4}, {1.4, -0.784, 2.4}, {0.784, -1.4, 2.4}, {0, -1.4, 2.4},
	// 106: lid
	{0.4, 0, 2.55}, {0.4, -0.224, 2.55}, {0.224, -0.4, 2.55}, {0, -0.4, 2.55},
	{1.3, 0, 2.55}, {1.3, -0.728, 2.55}, {0.728, -1.3, 2.55}, {0, -1.3, 2.55},
	{1.3, 0, 2.4}, {1.3, -0.728, 2.4}, {0.728, -1.3, 2.4}, {0, -1.3, 2.4},
	// 118: bottom
	{0, 0, 0},
	{1.425, 0, 0}, {1.425, -0.798, 0}, {0.798, -1.425, 0}, {0, -1.425, 0},
	{1.5, 0, 0.075}, {1.5, -0.84, 0.075}, {0.84, -1.5, 0.075}, {0, -1.5, 0.075},
}

// teapotPatch is a bicubic patch as a 4x4 row-major grid of teapotPoints indices. Rows run
// along u, columns along v. Quadrant patches are mirrored into all four quadrants, the
// handle and spout only across y = 0.
type teapotPatch struct {
	points    [16]int
	quadrants bool
}

var teapotPatches = [...]teapotPatch{
	{[16]int{102, 103, 104, 105, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, true},
	{[16]int{12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27}, true},
	{[16]int{24, 25, 26, 27, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40}, true},
	{[16]int{96, 96, 96, 96, 97, 98, 99, 100, 101, 101, 101, 101, 0, 1, 2, 3}, true},
	{[16]int{0, 1, 2, 3, 106, 107, 108, 109, 110, 111, 112, 113, 114, 115, 116, 117}, true},
	{[16]int{118, 118, 118, 118, 122, 121, 120, 119, 126, 125, 124, 123, 40, 39, 38, 37}, true},
	{[16]int{41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51, 52, 53, 54, 55, 56}, false},
	{[16]int{53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63, 64, 28, 65, 66, 67}, false},
	{[16]int{68, 69, 70, 71, 72, 73, 74, 75, 76, 77, 78, 79, 80, 81, 82, 83}, false},
	{[16]int{80, 81, 82, 83, 84, 85, 86, 87, 88, 89, 90, 91, 92, 93, 94, 95}, false},
}

// teapotMirror places a quadrant patch. Mirrors that flip orientation also reverse the
// columns so every copy keeps outward winding.
type teapotMirror struct {
	sx, sy  float32
	reverse bool
}

var (
	teapotQuadrants = []teapotMirror{{1, 1, false}, {1, -1, true}, {-1, 1, true}, {-1, -1, false}}
	teapotHalves    = teapotQuadrants[:2]
)

// teapotNormalEps keeps normal evaluation off the collapsed patch edges at the lid and
// bottom poles, where one partial derivative vanishes.
const teapotNormalEps = 1e-3

// TeapotPatchCount is the number of bicubic patches NewTeapot tessellates.
const TeapotPatchCount = 32

// NewTeapot generates the Newell teapot by tessellating its 32 bicubic Bezier patches into
// an n x n grid each. The teapot stands on z = 0 with the spout along +x.
// Panics if n < 1.
//
// Parameters:
//   - n: the subdivision count per patch side
//
// Returns:
//   - *MeshData: the teapot geometry
func NewTeapot(n int) *MeshData {
	if n < 1 {
		panic(fmt.Sprintf("model: teapot subdivisions must be at least 1, got %d", n))
	}
	side := n + 1
	mesh := &MeshData{
		Name:     fmt.Sprintf("teapot-%d", n),
		Vertices: make([]Vertex, 0, TeapotPatchCount*side*side),
		Indices:  make([]uint32, 0, TeapotPatchCount*n*n*6),
	}

	for _, patch := range teapotPatches {
		mirrors := teapotHalves
		if patch.quadrants {
			mirrors = teapotQuadrants
		}
		for _, m := range mirrors {
			cp := patch.controlPoints(m)
			base := uint32(len(mesh.Vertices))
			for a := 0; a <= n; a++ {
				u := float32(a) / float32(n)
				for b := 0; b <= n; b++ {
					v := float32(b) / float32(n)
					pos, _, _ := evalBezierPatch(&cp, u, v)
					_, du, dv := evalBezierPatch(&cp,
						mgl32.Clamp(u, teapotNormalEps, 1-teapotNormalEps),
						mgl32.Clamp(v, teapotNormalEps, 1-teapotNormalEps))
					mesh.Vertices = append(mesh.Vertices, Vertex{
						Position: pos,
						Normal:   safeNormalize(dv.Cross(du), mgl32.Vec3{0, 0, 1}),
						TexCoord: [2]float32{u, v},
						Tangent:  safeNormalize(dv, mgl32.Vec3{1, 0, 0}),
					})
				}
			}
			for _, idx := range gridIndices(n, n, true) {
				mesh.Indices = append(mesh.Indices, base+idx)
			}
		}
	}
	return mesh
}

func (p teapotPatch) controlPoints(m teapotMirror) [4][4]mgl32.Vec3 {
	var cp [4][4]mgl32.Vec3
	for i := 0; i < 4; i++ {
		for k := 0; k < 4; k++ {
			col := k
			if m.reverse {
				col = 3 - k
			}
			pt := teapotPoints[p.points[i*4+col]]
			cp[i][k] = mgl32.Vec3{pt[0] * m.sx, pt[1] * m.sy, pt[2]}
		}
	}
	return cp
}

// bernstein returns the cubic Bernstein basis and its derivative at t.
func bernstein(t float32) (b, d [4]float32) {
	s := 1 - t
	b = [4]float32{s * s * s, 3 * t * s * s, 3 * t * t * s, t * t * t}
	d = [4]float32{-3 * s * s, 3*s*s - 6*t*s, 6*t*s - 3*t*t, 3 * t * t}
	return b, d
}

// evalBezierPatch returns the position and the partial derivatives along u and v.
func evalBezierPatch(cp *[4][4]mgl32.Vec3, u, v float32) (pos, du, dv mgl32.Vec3) {
	bu, dbu := bernstein(u)
	bv, dbv := bernstein(v)
	for i := 0; i < 4; i++ {
		for k := 0; k < 4; k++ {
			p := cp[i][k]
			pos = pos.Add(p.Mul(bu[i] * bv[k]))
			du = du.Add(p.Mul(dbu[i] * bv[k]))
			dv = dv.Add(p.Mul(bu[i] * dbv[k]))
		}
	}
	return pos, du, dv
}

func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 1e-12 {
		return v.Mul(1 / l)
	}
	return fallback
}
