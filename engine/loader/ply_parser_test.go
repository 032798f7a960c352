package loader

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiQuadPLY = `ply
format ascii 1.0
comment unit quad in the xy plane
element vertex 4
property float x
property float y
property float z
property float confidence
element face 1
property list uchar int vertex_indices
end_header
0 0 0 1
1 0 0 1
1 1 0 1
0 1 0 1
4 0 1 2 3
`

func binaryTrianglePLY(t *testing.T, order binary.ByteOrder, format string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\nformat " + format + " 1.0\n")
	buf.WriteString("element vertex 3\nproperty float x\nproperty float y\nproperty float z\n")
	buf.WriteString("property float nx\nproperty float ny\nproperty float nz\n")
	buf.WriteString("element face 1\nproperty list uchar uint vertex_indices\nend_header\n")
	for _, v := range [][6]float32{{0, 0, 0, 0, 0, 1}, {2, 0, 0, 0, 0, 1}, {0, 2, 0, 0, 0, 1}} {
		require.NoError(t, binary.Write(&buf, order, v))
	}
	buf.WriteByte(3)
	require.NoError(t, binary.Write(&buf, order, [3]uint32{0, 1, 2}))
	return buf.Bytes()
}

func TestParsePLYASCIIFanTriangulates(t *testing.T) {
	mesh, hasNormals, err := parsePLY("quad", strings.NewReader(asciiQuadPLY))
	require.NoError(t, err)

	assert.False(t, hasNormals)
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Equal(t, [3]float32{1, 1, 0}, mesh.Vertices[2].Position)
}

func TestParsePLYBinary(t *testing.T) {
	tests := []struct {
		name   string
		order  binary.ByteOrder
		format string
	}{
		{"little endian", binary.LittleEndian, "binary_little_endian"},
		{"big endian", binary.BigEndian, "binary_big_endian"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, hasNormals, err := parsePLY("tri", bytes.NewReader(binaryTrianglePLY(t, tt.order, tt.format)))
			require.NoError(t, err)

			assert.True(t, hasNormals)
			assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
			assert.Equal(t, [3]float32{2, 0, 0}, mesh.Vertices[1].Position)
			assert.Equal(t, [3]float32{0, 0, 1}, mesh.Vertices[1].Normal)
		})
	}
}

func TestParsePLYErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no magic", "obj\n", ErrMalformed},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n", ErrUnsupportedFormat},
		{"missing format", "ply\nelement vertex 0\nend_header\n", ErrMalformed},
		{"bad property type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n", ErrMalformed},
		{"truncated body", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n", ErrMalformed},
		{"index out of range", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n3 0 1 2\n", ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parsePLY("bad", strings.NewReader(tt.src))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPLYBackendGeneratesNormalsAndTangents(t *testing.T) {
	mesh, err := newPLYLoaderBackend().LoadReader("quad", strings.NewReader(asciiQuadPLY))
	require.NoError(t, err)

	for _, v := range mesh.Vertices {
		assert.InDelta(t, 1.0, v.Normal[2], 1e-6)
		tangent := mgl32.Vec3(v.Tangent)
		assert.InDelta(t, 1.0, tangent.Len(), 1e-5)
		assert.InDelta(t, 0.0, tangent.Dot(mgl32.Vec3(v.Normal)), 1e-5)
	}
}
