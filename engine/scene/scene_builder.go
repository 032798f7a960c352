package scene

import (
	"github.com/Carmen-Shannon/oxy-framework/engine/camera"
	"github.com/Carmen-Shannon/oxy-framework/engine/loader"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"go.uber.org/zap"
)

// SceneBuilderOption is a functional option for configuring a Scene via NewScene.
type SceneBuilderOption func(s *scene)

// WithState replaces the initial state. The central model in it is the first selection.
//
// Parameters:
//   - state: the initial state
//
// Returns:
//   - SceneBuilderOption: a function that applies the state option to a scene
func WithState(state State) SceneBuilderOption {
	return func(s *scene) {
		s.state = state
	}
}

// WithCamera sets the camera. A default orbit camera is created when omitted.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: a function that applies the camera option to a scene
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithLoader sets the mesh loader used for the bunny and dragon.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - SceneBuilderOption: a function that applies the loader option to a scene
func WithLoader(l loader.Loader) SceneBuilderOption {
	return func(s *scene) {
		s.loader = l
	}
}

// WithShaders sets the lighting program stages. The embedded shaders for the renderer's
// backend are used when omitted.
//
// Parameters:
//   - vs, fs: the vertex and fragment shaders
//
// Returns:
//   - SceneBuilderOption: a function that applies the shader option to a scene
func WithShaders(vs, fs shader.Shader) SceneBuilderOption {
	return func(s *scene) {
		s.vs = vs
		s.fs = fs
	}
}

// WithMeshPaths sets the files for the bunny and dragon selections.
//
// Parameters:
//   - bunny, dragon: mesh file paths
//
// Returns:
//   - SceneBuilderOption: a function that applies the mesh path option to a scene
func WithMeshPaths(bunny, dragon string) SceneBuilderOption {
	return func(s *scene) {
		s.bunnyPath = bunny
		s.dragonPath = dragon
	}
}

// WithGroundTexture sets the ground texture file. A checker pattern is used when empty.
//
// Parameters:
//   - path: the image path
//
// Returns:
//   - SceneBuilderOption: a function that applies the texture option to a scene
func WithGroundTexture(path string) SceneBuilderOption {
	return func(s *scene) {
		s.texturePath = path
	}
}

// WithGround sets the ground plane's half-width, cell count and height.
//
// Parameters:
//   - rng: half-width of the square
//   - divisions: cells per side
//   - height: z of the plane
//
// Returns:
//   - SceneBuilderOption: a function that applies the ground option to a scene
func WithGround(rng float32, divisions int, height float32) SceneBuilderOption {
	return func(s *scene) {
		s.groundRange = rng
		s.groundDivisions = divisions
		s.groundHeight = height
	}
}

// WithSphereDivisions sets the tessellation of the sphere mesh.
//
// Parameters:
//   - n: latitudinal subdivisions
//
// Returns:
//   - SceneBuilderOption: a function that applies the sphere option to a scene
func WithSphereDivisions(n int) SceneBuilderOption {
	return func(s *scene) {
		s.sphereDivisions = n
	}
}

// WithLogger sets the scene's logger, named "scene".
//
// Parameters:
//   - logger: the parent logger
//
// Returns:
//   - SceneBuilderOption: a function that applies the logger option to a scene
func WithLogger(logger *zap.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger.Named("scene")
		}
	}
}
