package scene

import (
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-framework/assets"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
)

// LightingShaders builds the vertex and fragment stages of the lighting program for a backend.
// OpenGL uses lighting.vert and lighting.frag; WebGPU uses both entry points of lighting.wgsl.
// An empty dir reads the embedded copies.
//
// Parameters:
//   - backend: the renderer backend the shaders target
//   - dir: a directory holding the shader files, or empty for the embedded set
//
// Returns:
//   - vs, fs: the vertex and fragment shaders
//   - error: error if a source cannot be read
func LightingShaders(backend renderer.RendererBackendType, dir string) (vs, fs shader.Shader, err error) {
	vertName, fragName := assets.LightingVertGLSL, assets.LightingFragGLSL
	if backend == renderer.BackendTypeWGPU {
		vertName, fragName = assets.LightingWGSL, assets.LightingWGSL
	}

	source := func(name string) shader.ShaderBuilderOption {
		if dir == "" {
			return shader.WithSourceFS(assets.Shaders, name)
		}
		return shader.WithSourcePath(filepath.Join(dir, filepath.Base(name)))
	}

	vs, err = shader.NewShader(filepath.Base(vertName), shader.ShaderTypeVertex, source(vertName))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load vertex shader: %w", err)
	}
	fs, err = shader.NewShader(filepath.Base(fragName), shader.ShaderTypeFragment, source(fragName))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load fragment shader: %w", err)
	}
	return vs, fs, nil
}

// LightingShaderPaths returns the on-disk files LightingShaders reads from dir.
//
// Parameters:
//   - backend: the renderer backend
//   - dir: the shader directory
//
// Returns:
//   - []string: the distinct file paths
func LightingShaderPaths(backend renderer.RendererBackendType, dir string) []string {
	if backend == renderer.BackendTypeWGPU {
		return []string{filepath.Join(dir, filepath.Base(assets.LightingWGSL))}
	}
	return []string{
		filepath.Join(dir, filepath.Base(assets.LightingVertGLSL)),
		filepath.Join(dir, filepath.Base(assets.LightingFragGLSL)),
	}
}
