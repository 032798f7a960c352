package shader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is used for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// Language identifies the shading language of a source.
type Language int

const (
	// LanguageGLSL is GLSL 3.30+/4.10 core, one file per stage.
	LanguageGLSL Language = iota

	// LanguageWGSL is WGSL; one file usually holds both stage entry points.
	LanguageWGSL
)

func (l Language) String() string {
	if l == LanguageWGSL {
		return "wgsl"
	}
	return "glsl"
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	shaderType ShaderType
	language   Language
	langSet    bool
	path       string
	fsys       fs.FS
	source     string
	entryPoint string

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayout               []wgpu.VertexBufferLayout
	uniforms                   *UniformLayout
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a loaded shader stage source plus the reflection data a backend needs to build a program.
// GLSL shaders carry only source; WGSL shaders additionally expose bind group layouts,
// the vertex buffer layout and the uniform block layout parsed from the source.
type Shader interface {
	// Key retrieves the identifier used in logs and GPU labels.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// ShaderType returns the stage this shader is used for.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Language returns the shading language of the source.
	//
	// Returns:
	//   - Language: LanguageGLSL or LanguageWGSL
	Language() Language

	// Path returns the file the source was read from, or an empty string for in-memory sources.
	//
	// Returns:
	//   - string: the source path
	Path() string

	// Source retrieves the shader source code.
	//
	// Returns:
	//   - string: the source
	Source() string

	// EntryPoint returns the WGSL entry point for this stage, or "main" for GLSL.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// BindGroupLayoutDescriptors retrieves the WGSL bind group layouts keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// VertexLayout retrieves the vertex buffer layout of the WGSL vertex input struct.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layout, or nil for GLSL or fragment shaders
	VertexLayout() []wgpu.VertexBufferLayout

	// Uniforms returns the layout of the uniform block at @group(0) @binding(0).
	//
	// Returns:
	//   - *UniformLayout: the uniform layout, or nil when absent
	Uniforms() *UniformLayout

	// Module returns the WGSL shader module descriptor.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor, or nil for GLSL
	Module() *wgpu.ShaderModuleDescriptor

	// Reload re-reads the source from its path or file system and re-parses it.
	// The shader is unchanged when reading fails.
	//
	// Returns:
	//   - Shader: a new Shader with the fresh source
	//   - error: error if the source cannot be read
	Reload() (Shader, error)
}

var _ Shader = &shader{}

// NewShader creates a Shader from exactly one source option.
// The language is inferred from the file extension (.wgsl is WGSL, anything else GLSL) unless
// WithLanguage is given.
//
// Parameters:
//   - key: an identifier for the shader used in logs and labels
//   - shaderType: the pipeline stage
//   - options: source and language options
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if no source was provided or it could not be read
func NewShader(key string, shaderType ShaderType, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.path == "" && s.source == "" {
		return nil, fmt.Errorf("shader %s: no source provided", key)
	}
	if s.path != "" {
		data, err := s.read()
		if err != nil {
			return nil, fmt.Errorf("shader %s: %w", key, err)
		}
		s.source = data
	}
	if !s.langSet {
		s.language = languageFromPath(s.path)
	}
	s.parse()
	return s, nil
}

func (s *shader) read() (string, error) {
	var data []byte
	var err error
	if s.fsys != nil {
		data, err = fs.ReadFile(s.fsys, s.path)
	} else {
		data, err = os.ReadFile(s.path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read source file %q: %w", s.path, err)
	}
	return string(data), nil
}

// parse derives reflection data from the source. GLSL sources are passed through untouched.
func (s *shader) parse() {
	s.bindGroupLayoutDescriptors = map[int]wgpu.BindGroupLayoutDescriptor{}
	s.bindingVarNames = map[int]map[int]string{}
	s.vertexLayout = nil
	s.uniforms = nil
	s.module = nil

	if s.language == LanguageGLSL {
		s.entryPoint = "main"
		return
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	s.entryPoint = parseEntryPoint(s.source, s.shaderType)

	visibility := wgpu.ShaderStageFragment
	if s.shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayout = parseVertexLayout(s.source)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(s.source, visibility)
	s.uniforms = parseUniformLayout(s.source, 0, 0)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Language() Language {
	return s.language
}

func (s *shader) Path() string {
	return s.path
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayout() []wgpu.VertexBufferLayout {
	return s.vertexLayout
}

func (s *shader) Uniforms() *UniformLayout {
	return s.uniforms
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Reload() (Shader, error) {
	if s.path == "" {
		return s, nil
	}
	data, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", s.key, err)
	}
	next := &shader{
		key:        s.key,
		shaderType: s.shaderType,
		language:   s.language,
		langSet:    true,
		path:       s.path,
		fsys:       s.fsys,
		source:     data,
	}
	next.parse()
	return next, nil
}

func languageFromPath(path string) Language {
	if strings.EqualFold(filepath.Ext(path), ".wgsl") {
		return LanguageWGSL
	}
	return LanguageGLSL
}
