package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-framework/engine/model"
)

// plyLoaderBackendImpl is the loaderBackend for Stanford PLY files.
type plyLoaderBackendImpl struct{}

var _ loaderBackend = &plyLoaderBackendImpl{}

func newPLYLoaderBackend() loaderBackend {
	return &plyLoaderBackendImpl{}
}

func (b *plyLoaderBackendImpl) Load(path string) (*model.MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return b.LoadReader(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), f)
}

func (b *plyLoaderBackendImpl) LoadReader(name string, r io.Reader) (*model.MeshData, error) {
	mesh, hasNormals, err := parsePLY(name, r)
	if err != nil {
		return nil, err
	}
	if !hasNormals {
		generateNormals(mesh.Vertices, mesh.Indices)
	}
	generateTangents(mesh.Vertices, mesh.Indices)
	return mesh, nil
}
