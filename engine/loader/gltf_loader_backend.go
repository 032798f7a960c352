package loader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-framework/engine/model"
)

// gltfLoaderBackendImpl is the loaderBackend for glTF and GLB files.
// Every triangle primitive of every mesh is merged into a single MeshData.
type gltfLoaderBackendImpl struct {
	glb bool
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a glTF backend. glb selects the binary container for LoadReader.
func newGLTFLoaderBackend(glb bool) loaderBackend {
	return &gltfLoaderBackendImpl{glb: glb}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.MeshData, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return newGLTFMeshExtractor(parser).ExtractMerged(name)
}

func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader) (*model.MeshData, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, b.glb); err != nil {
		return nil, err
	}
	return newGLTFMeshExtractor(parser).ExtractMerged(name)
}
