package shader

import "io/fs"

// ShaderBuilderOption is a functional option for configuring a Shader via NewShader.
type ShaderBuilderOption func(*shader)

// WithSourcePath is an option builder that reads the source from a file on disk.
// Shaders read from disk can be reloaded and watched.
//
// Parameters:
//   - path: the source file path
//
// Returns:
//   - ShaderBuilderOption: a function that applies the path option to a shader
func WithSourcePath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.path = path
		s.fsys = nil
	}
}

// WithSourceFS is an option builder that reads the source from a file system, such as an embed.FS.
//
// Parameters:
//   - fsys: the file system
//   - name: the slash-separated file name inside fsys
//
// Returns:
//   - ShaderBuilderOption: a function that applies the file system option to a shader
func WithSourceFS(fsys fs.FS, name string) ShaderBuilderOption {
	return func(s *shader) {
		s.fsys = fsys
		s.path = name
	}
}

// WithSource is an option builder that uses an in-memory source string.
//
// Parameters:
//   - source: the shader source
//
// Returns:
//   - ShaderBuilderOption: a function that applies the source option to a shader
func WithSource(source string) ShaderBuilderOption {
	return func(s *shader) {
		s.source = source
		s.path = ""
		s.fsys = nil
	}
}

// WithLanguage is an option builder that overrides language detection.
//
// Parameters:
//   - lang: the shading language
//
// Returns:
//   - ShaderBuilderOption: a function that applies the language option to a shader
func WithLanguage(lang Language) ShaderBuilderOption {
	return func(s *shader) {
		s.language = lang
		s.langSet = true
	}
}
