package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer packs three VEC3 positions followed by three uint16 indices (padded to 4 bytes).
func triangleBuffer(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [9]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [4]uint16{0, 1, 2, 0}))
	return buf.Bytes()
}

func triangleJSON(uri string, withNode bool) string {
	nodes := ""
	if withNode {
		nodes = `"scene": 0, "scenes": [{"nodes": [0]}],
		"nodes": [{"mesh": 0, "translation": [0, 0, 5], "scale": [2, 2, 2]}],`
	}
	uriField := ""
	if uri != "" {
		uriField = fmt.Sprintf(`"uri": %q,`, uri)
	}
	return fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		%s
		"meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"buffers": [{%s "byteLength": 44}]
	}`, nodes, uriField)
}

func buildGLB(t *testing.T, jsonDoc string, bin []byte) []byte {
	t.Helper()
	jsonBytes := []byte(jsonDoc)
	for len(jsonBytes)%4 != 0 {
		jsonBytes = append(jsonBytes, ' ')
	}
	var buf bytes.Buffer
	total := 12 + 8 + len(jsonBytes) + 8 + len(bin)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: 2, Length: uint32(total)}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonBytes)), ChunkType: gltfGLBChunkJSON}))
	buf.Write(jsonBytes)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN}))
	buf.Write(bin)
	return buf.Bytes()
}

func TestGLTFDataURIMesh(t *testing.T) {
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBuffer(t))
	mesh, err := newGLTFLoaderBackend(false).LoadReader("tri", strings.NewReader(triangleJSON(uri, false)))
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	require.Len(t, mesh.Vertices, 3)
	for _, v := range mesh.Vertices {
		assert.InDelta(t, 1.0, v.Normal[2], 1e-6, "generated normal faces +z")
		assert.InDelta(t, 1.0, mgl32.Vec3(v.Tangent).Len(), 1e-5)
	}
}

func TestGLBAppliesNodeTransform(t *testing.T) {
	glb := buildGLB(t, triangleJSON("", true), triangleBuffer(t))
	mesh, err := newGLTFLoaderBackend(true).LoadReader("tri", bytes.NewReader(glb))
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 3)
	assert.InDeltaSlice(t, []float32{2, 0, 5}, mesh.Vertices[1].Position[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 2, 5}, mesh.Vertices[2].Position[:], 1e-6)
}

func TestGLTFErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		glb  bool
		want error
	}{
		{"bad json", "{", false, ErrMalformed},
		{"wrong version", `{"asset": {"version": "1.0"}}`, false, ErrMalformed},
		{"no triangles", `{"asset": {"version": "2.0"}}`, false, ErrMalformed},
		{"bad magic", "nope-nope-nope", true, ErrMalformed},
		{"missing buffer", `{"asset": {"version": "2.0"}, "buffers": [{"byteLength": 4}]}`, false, ErrMalformed},
		{"points primitive", `{"asset": {"version": "2.0"}, "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "mode": 0}]}]}`, false, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newGLTFLoaderBackend(tt.glb).LoadReader("bad", strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGLTFAccessorBoundsChecked(t *testing.T) {
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBuffer(t))
	doc := strings.Replace(triangleJSON(uri, false), `"count": 3, "type": "VEC3"`, `"count": 30, "type": "VEC3"`, 1)

	_, err := newGLTFLoaderBackend(false).LoadReader("tri", strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrMalformed)
}
