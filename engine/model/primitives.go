package model

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Procedural geometry used by the scene. Every generator returns a triangle list with
// consistent counter-clockwise winding seen from outside the surface.

// NewSphere generates a unit sphere centered at the origin with 2n longitudinal and n latitudinal slices.
// Normals equal positions and texture coordinates span [0,1] in both directions.
// Panics if n < 2.
//
// Parameters:
//   - n: the latitudinal subdivision count
//
// Returns:
//   - *MeshData: the sphere geometry
func NewSphere(n int) *MeshData {
	if n < 2 {
		panic(fmt.Sprintf("model: sphere subdivisions must be at least 2, got %d", n))
	}
	mesh := &MeshData{Name: fmt.Sprintf("sphere-%d", n)}
	cols := 2 * n
	for i := 0; i <= cols; i++ {
		s := float32(i) / float32(cols)
		theta := 2 * math32.Pi * s
		sinT, cosT := math32.Sincos(theta)
		for j := 0; j <= n; j++ {
			t := float32(j) / float32(n)
			phi := math32.Pi * t
			sinP, cosP := math32.Sincos(phi)
			p := [3]float32{cosT * sinP, sinT * sinP, cosP}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: p,
				Normal:   p,
				TexCoord: [2]float32{s, t},
				Tangent:  [3]float32{-sinT, cosT, 0},
			})
		}
	}
	mesh.Indices = gridIndices(cols, n, true)
	return mesh
}

// NewGround generates a flat square grid spanning [-rng, rng] in x and y at z = height, facing +z.
// Texture coordinates repeat once per ten world units.
// Panics if n < 1 or rng <= 0.
//
// Parameters:
//   - rng: the half-width of the square
//   - n: the number of cells per side
//   - height: the z coordinate of the plane
//
// Returns:
//   - *MeshData: the ground geometry
func NewGround(rng float32, n int, height float32) *MeshData {
	if n < 1 || rng <= 0 {
		panic(fmt.Sprintf("model: invalid ground parameters range=%v n=%d", rng, n))
	}
	mesh := &MeshData{Name: fmt.Sprintf("ground-%d", n)}
	for i := 0; i <= n; i++ {
		x := -rng + 2*rng*float32(i)/float32(n)
		for j := 0; j <= n; j++ {
			y := -rng + 2*rng*float32(j)/float32(n)
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: [3]float32{x, y, height},
				Normal:   [3]float32{0, 0, 1},
				TexCoord: [2]float32{x / 10, y / 10},
				Tangent:  [3]float32{1, 0, 0},
			})
		}
	}
	mesh.Indices = gridIndices(n, n, false)
	return mesh
}

// gridIndices triangulates a (cols+1) x (rows+1) vertex lattice stored column-major.
// flip reverses the winding for lattices whose row direction runs against the surface orientation.
func gridIndices(cols, rows int, flip bool) []uint32 {
	stride := uint32(rows + 1)
	indices := make([]uint32, 0, cols*rows*6)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			c := b + 1
			d := a + 1
			if flip {
				indices = append(indices, a, d, c, a, c, b)
			} else {
				indices = append(indices, a, b, c, a, c, d)
			}
		}
	}
	return indices
}
