package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"go.uber.org/zap"
)

// BackendType identifies a mesh file format backend.
type BackendType int

const (
	// BackendTypePLY selects the Stanford PLY backend.
	BackendTypePLY BackendType = iota
	// BackendTypeGLTF selects the glTF JSON backend.
	BackendTypeGLTF
	// BackendTypeGLB selects the binary glTF backend.
	BackendTypeGLB
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backends map[BackendType]loaderBackend

	workers  int
	pool     worker.DynamicWorkerPool
	poolOnce sync.Once

	logger *zap.Logger
}

// Loader reads mesh files into CPU-side models and caches them by path.
// The backend is chosen from the file extension, falling back to content sniffing.
// Every failure is reported as *LoadError.
type Loader interface {
	// Load imports a mesh file and caches the result.
	// If the path is already cached the cached model is returned.
	//
	// Parameters:
	//   - path: the file path to the mesh file
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: *LoadError if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a mesh from a stream and caches it by name.
	//
	// Parameters:
	//   - name: the cache key and mesh name
	//   - r: the reader providing mesh data
	//   - backendType: the format of the stream
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: *LoadError if loading fails
	LoadReader(name string, r io.Reader, backendType BackendType) (model.Model, error)

	// Preload decodes several files concurrently on the loader's worker pool and fills the cache.
	// All paths are attempted; the returned error joins every individual *LoadError.
	//
	// Parameters:
	//   - paths: the files to load
	//
	// Returns:
	//   - error: nil when every file loaded
	Preload(paths ...string) error

	// Get retrieves a cached model by key. Returns nil if not found.
	//
	// Parameters:
	//   - key: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(key string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by path or name
	Models() map[string]model.Model

	// Evict drops a cached model so the next Load reads the file again.
	//
	// Parameters:
	//   - key: the cache key to remove
	Evict(key string)
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the PLY, glTF and GLB backends registered.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		backends: map[BackendType]loaderBackend{
			BackendTypePLY:  newPLYLoaderBackend(),
			BackendTypeGLTF: newGLTFLoaderBackend(false),
			BackendTypeGLB:  newGLTFLoaderBackend(true),
		},
		workers: 4,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	start := time.Now()
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	mesh, err := backend.Load(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	m := l.store(path, mesh)
	l.logger.Debug("Mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, backendType BackendType) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, ok := l.backends[backendType]
	if !ok {
		return nil, &LoadError{Path: name, Err: fmt.Errorf("%w: backend %d", ErrUnsupportedFormat, backendType)}
	}
	mesh, err := backend.LoadReader(name, r)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return l.store(name, mesh), nil
}

// store caches a freshly decoded mesh. A concurrent load of the same key keeps the first entry.
func (l *loader) store(key string, mesh *model.MeshData) model.Model {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.modelCache[key]; ok {
		return existing
	}
	m := model.NewModel(mesh)
	l.modelCache[key] = m
	return m
}

func (l *loader) Preload(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	pool := l.workerPool()

	var wg sync.WaitGroup
	errs := make([]error, len(paths))
	for i, path := range paths {
		wg.Add(1)
		idx, p := i, path
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				_, err := l.Load(p)
				errs[idx] = err
				return nil, err
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

// workerPool lazily creates the preload pool on first use.
func (l *loader) workerPool() worker.DynamicWorkerPool {
	l.poolOnce.Do(func() {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	})
	return l.pool
}

func (l *loader) Get(key string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[key]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) Evict(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.modelCache, key)
}

// resolveBackend selects a backend from the file extension, sniffing the header when the
// extension is not recognized.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		return l.backends[BackendTypePLY], nil
	case ".gltf":
		return l.backends[BackendTypeGLTF], nil
	case ".glb":
		return l.backends[BackendTypeGLB], nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	header := make([]byte, 512)
	n, _ := io.ReadFull(f, header)

	switch sniffMeshType(header[:n]) {
	case typePLY:
		return l.backends[BackendTypePLY], nil
	case typeGLB:
		return l.backends[BackendTypeGLB], nil
	case typeGLTF:
		return l.backends[BackendTypeGLTF], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}
