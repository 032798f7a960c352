package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-framework/engine/model"
)

// loaderBackend defines the generic interface for decoding mesh files.
// Concrete implementations (e.g., plyLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load decodes the mesh stored at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.MeshData: the decoded triangle mesh
	//   - error: error if loading fails
	Load(path string) (*model.MeshData, error)

	// LoadReader decodes a mesh from a stream. Backends that need sibling files
	// (external glTF buffers) resolve them relative to the working directory.
	//
	// Parameters:
	//   - name: the mesh name
	//   - r: the reader providing mesh data
	//
	// Returns:
	//   - *model.MeshData: the decoded triangle mesh
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*model.MeshData, error)
}
