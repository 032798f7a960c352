// Package renderertest provides a recording renderer.Renderer for tests that exercise scene
// composition without a GPU.
package renderertest

import (
	"fmt"
	"maps"
	"sync"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one recorded Program.Draw with the uniform and texture state it saw.
type Draw struct {
	Program string
	Mesh    string
	Ints    map[string]int32
	Floats  map[string]float32
	Vec3s   map[string]mgl32.Vec3
	Mat4s   map[string]mgl32.Mat4

	// Texture is the label of the texture bound when the draw was issued, or empty.
	Texture     string
	TextureUnit int
}

// Recorder is a renderer.Renderer that records draws and tracks live resources.
type Recorder struct {
	mu sync.Mutex

	// ProgramErr, when set, is returned by the next CreateProgram.
	ProgramErr error

	// Errors are handed out one per CheckError call.
	Errors []*renderer.GPUError

	// FailDraw, when set, sees every draw before it is recorded. A non-nil error is returned
	// from Program.Draw and the draw is dropped; the hook may also panic. It runs with the
	// recorder locked and must not call back into it.
	FailDraw func(d Draw) error

	debug   bool
	width   int
	height  int
	inFrame bool
	frames  int
	draws   []Draw

	bound     *texture
	used      *program
	programs  map[*program]struct{}
	meshes    map[*mesh]struct{}
	textures  map[*texture]struct{}
	releasedR bool
}

var _ renderer.Renderer = &Recorder{}

// New returns an empty Recorder with a 750x750 surface.
func New() *Recorder {
	return &Recorder{
		width:    750,
		height:   750,
		programs: map[*program]struct{}{},
		meshes:   map[*mesh]struct{}{},
		textures: map[*texture]struct{}{},
	}
}

// SetDebug selects whether CheckError returns queued errors.
func (r *Recorder) SetDebug(debug bool) {
	r.debug = debug
}

// Draws returns the draws recorded since the last Reset.
func (r *Recorder) Draws() []Draw {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Draw(nil), r.draws...)
}

// Frames returns the number of completed frames.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Reset drops recorded draws.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws = nil
}

// Live returns the number of created and not yet released programs, meshes and textures.
func (r *Recorder) Live() (programs, meshes, textures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.programs), len(r.meshes), len(r.textures)
}

// LiveMeshes returns the labels of unreleased meshes.
func (r *Recorder) LiveMeshes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.meshes))
	for m := range r.meshes {
		out = append(out, m.label)
	}
	return out
}

// Uniforms returns the current uniform values of the program that last called Use, as a
// Draw without mesh or texture. It is the zero Draw when no program was used.
func (r *Recorder) Uniforms() Draw {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.used == nil {
		return Draw{}
	}
	return r.used.snapshot()
}

// BoundTexture returns the label of the currently bound texture, or empty.
func (r *Recorder) BoundTexture() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bound == nil {
		return ""
	}
	return r.bound.label
}

func (r *Recorder) BackendType() renderer.RendererBackendType {
	return renderer.BackendTypeOpenGL
}

func (r *Recorder) CreateProgram(vs, fs shader.Shader) (renderer.Program, error) {
	if vs == nil || fs == nil {
		return nil, fmt.Errorf("both vertex and fragment shaders must be set to create a program")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ProgramErr; err != nil {
		r.ProgramErr = nil
		return nil, err
	}
	p := &program{
		rec:    r,
		key:    vs.Key() + "+" + fs.Key(),
		ints:   map[string]int32{},
		floats: map[string]float32{},
		vec3s:  map[string]mgl32.Vec3{},
		mat4s:  map[string]mgl32.Mat4{},
	}
	r.programs[p] = struct{}{}
	return p, nil
}

func (r *Recorder) CreateMesh(label string, data *model.MeshData) (renderer.Mesh, error) {
	if data == nil || len(data.Indices) == 0 {
		return nil, fmt.Errorf("mesh %q has no geometry", label)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m := &mesh{rec: r, label: label, indexCount: len(data.Indices)}
	r.meshes[m] = struct{}{}
	return m, nil
}

func (r *Recorder) CreateTexture(label string, data common.TextureStagingData) (renderer.Texture, error) {
	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("texture %q has no pixel data", label)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &texture{rec: r, label: label}
	r.textures[t] = struct{}{}
	return t, nil
}

func (r *Recorder) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("%w: zero-sized surface", renderer.ErrNoFrame)
	}
	r.inFrame = true
	return nil
}

func (r *Recorder) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inFrame {
		return renderer.ErrNoFrame
	}
	r.inFrame = false
	r.frames++
	return nil
}

func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) SetPresentMode(renderer.PresentMode) {}

func (r *Recorder) CheckError(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Errors) == 0 {
		return nil
	}
	e := r.Errors[0]
	r.Errors = r.Errors[1:]
	if !r.debug {
		return nil
	}
	out := *e
	out.Op = op
	return &out
}

func (r *Recorder) Debug() bool {
	return r.debug
}

func (r *Recorder) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releasedR = true
}

// Released reports whether Release was called on the renderer itself.
func (r *Recorder) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releasedR
}

type program struct {
	rec      *Recorder
	key      string
	released bool

	ints   map[string]int32
	floats map[string]float32
	vec3s  map[string]mgl32.Vec3
	mat4s  map[string]mgl32.Mat4
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Use() {
	p.rec.mu.Lock()
	defer p.rec.mu.Unlock()
	p.rec.used = p
}

func (p *program) Unuse() {}

func (p *program) snapshot() Draw {
	return Draw{
		Program: p.key,
		Ints:    maps.Clone(p.ints),
		Floats:  maps.Clone(p.floats),
		Vec3s:   maps.Clone(p.vec3s),
		Mat4s:   maps.Clone(p.mat4s),
	}
}

// HasUniform reports true for every name; the recorder accepts any uniform.
func (p *program) HasUniform(string) bool {
	return true
}

func (p *program) SetInt(name string, v int32) {
	p.ints[name] = v
}

func (p *program) SetFloat(name string, v float32) {
	p.floats[name] = v
}

func (p *program) SetVec3(name string, v mgl32.Vec3) {
	p.vec3s[name] = v
}

func (p *program) SetMat4(name string, m mgl32.Mat4) {
	p.mat4s[name] = m
}

func (p *program) Draw(rm renderer.Mesh) error {
	m, ok := rm.(*mesh)
	if !ok {
		return fmt.Errorf("mesh %q was not created by the recorder", rm.Label())
	}
	r := p.rec
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case !r.inFrame:
		return renderer.ErrNoFrame
	case p.released:
		return fmt.Errorf("program %s used after release", p.key)
	case m.released:
		return fmt.Errorf("mesh %s used after release", m.label)
	}

	d := p.snapshot()
	d.Mesh = m.label
	if r.bound != nil {
		d.Texture = r.bound.label
		d.TextureUnit = r.bound.unit
	}
	if r.FailDraw != nil {
		if err := r.FailDraw(d); err != nil {
			return err
		}
	}
	r.draws = append(r.draws, d)
	return nil
}

func (p *program) Release() {
	p.rec.mu.Lock()
	defer p.rec.mu.Unlock()
	p.released = true
	delete(p.rec.programs, p)
}

type mesh struct {
	rec        *Recorder
	label      string
	indexCount int
	released   bool
}

func (m *mesh) Label() string {
	return m.label
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) Release() {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.released = true
	delete(m.rec.meshes, m)
}

type texture struct {
	rec   *Recorder
	label string
	unit  int
}

func (t *texture) Label() string {
	return t.label
}

func (t *texture) Bind(unit int) {
	t.rec.mu.Lock()
	defer t.rec.mu.Unlock()
	t.unit = unit
	t.rec.bound = t
}

func (t *texture) Unbind() {
	t.rec.mu.Lock()
	defer t.rec.mu.Unlock()
	if t.rec.bound == t {
		t.rec.bound = nil
	}
}

func (t *texture) Release() {
	t.rec.mu.Lock()
	defer t.rec.mu.Unlock()
	if t.rec.bound == t {
		t.rec.bound = nil
	}
	delete(t.rec.textures, t)
}
