package loader

import (
	"bytes"
	"encoding/binary"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// Mesh container types registered with filetype so content can be matched when a file
// carries no usable extension.
var (
	typePLY  = filetype.NewType("ply", "model/ply")
	typeGLB  = filetype.NewType("glb", "model/gltf-binary")
	typeGLTF = filetype.NewType("gltf", "model/gltf+json")
)

func init() {
	filetype.AddMatcher(typePLY, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("ply\n")) || bytes.HasPrefix(buf, []byte("ply\r\n"))
	})
	filetype.AddMatcher(typeGLB, func(buf []byte) bool {
		return len(buf) >= 4 && binary.LittleEndian.Uint32(buf) == gltfGLBMagic
	})
	filetype.AddMatcher(typeGLTF, func(buf []byte) bool {
		trimmed := bytes.TrimLeft(buf, " \t\r\n")
		return bytes.HasPrefix(trimmed, []byte("{")) && bytes.Contains(buf, []byte(`"asset"`))
	})
}

// sniffMeshType returns the registered mesh type matching header, or types.Unknown.
func sniffMeshType(header []byte) types.Type {
	for _, t := range []types.Type{typePLY, typeGLB, typeGLTF} {
		if filetype.IsType(header, t) {
			return t
		}
	}
	return types.Unknown
}
