package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/camera"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawKind identifies which part of the scene a draw call belongs to.
type DrawKind int

const (
	DrawSun DrawKind = iota
	DrawSphere
	DrawGround
	DrawCentral
)

func (k DrawKind) String() string {
	switch k {
	case DrawSun:
		return "sun"
	case DrawSphere:
		return "spheres"
	case DrawGround:
		return "ground"
	case DrawCentral:
		return "central"
	default:
		return "unknown"
	}
}

// sunDiffuse saturates the lighting so the sun renders as a bright marker.
var sunDiffuse = mgl32.Vec3{100, 1, 1}

// Globals are the per-frame uniforms uploaded once before the first draw.
type Globals struct {
	Width, Height int32
	Projection    mgl32.Mat4
	View          mgl32.Mat4
	ViewInverse   mgl32.Mat4
	LightAmbient  mgl32.Vec3
	LightPos      mgl32.Vec3
	LightValue    mgl32.Vec3
	Mode          int32
}

// DrawCall is one fully specified geometry draw.
type DrawCall struct {
	Kind      DrawKind
	Mesh      renderer.Mesh
	Model     mgl32.Mat4
	Normal    mgl32.Mat4
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32

	// Direct marks the sun: the shader outputs the diffuse color unlit.
	Direct bool

	// Textured binds the ground texture to unit 1 for this draw.
	Textured bool
}

// Frame is the composed output for one redraw.
type Frame struct {
	Globals Globals
	Calls   []DrawCall
}

// Drawables are the GPU resources a frame draws from.
type Drawables struct {
	Sphere  *Drawable
	Ground  *Drawable
	Central *Drawable

	// CentralTransform normalizes the central drawable to size 3 at the origin.
	CentralTransform mgl32.Mat4
}

// Compose turns scene state into a frame. It has no side effects: the same state, time,
// camera and drawables always produce the same frame. Calls are ordered sun, spheres,
// ground, central model; disabled parts and missing drawables produce no calls.
//
// Parameters:
//   - state: the scene state
//   - atime: sphere field rotation in degrees
//   - cam: supplies the view and projection
//   - d: the drawables to reference
//
// Returns:
//   - Frame: globals plus the ordered draw calls
func Compose(state State, atime float32, cam camera.Camera, d Drawables) Frame {
	lightPos := state.Light.Position()
	frame := Frame{
		Globals: Globals{
			Width:        int32(state.Width),
			Height:       int32(state.Height),
			Projection:   cam.ProjectionMatrix(),
			View:         cam.ViewMatrix(),
			ViewInverse:  cam.ViewInverseMatrix(),
			LightAmbient: state.Light.Ambient,
			LightPos:     lightPos,
			LightValue:   state.Light.Color,
			Mode:         int32(state.Mode),
		},
	}

	if d.Sphere != nil {
		mat := d.Sphere.Material()
		sun := common.Translate(lightPos)
		frame.Calls = append(frame.Calls, DrawCall{
			Kind:      DrawSun,
			Mesh:      d.Sphere.Mesh,
			Model:     sun,
			Normal:    common.NormalMatrix(sun),
			Diffuse:   sunDiffuse,
			Specular:  mat.Specular,
			Shininess: mat.Shininess,
			Direct:    true,
		})

		if state.DrawSpheres {
			for _, s := range SphereField(state.NSpheres, atime) {
				frame.Calls = append(frame.Calls, DrawCall{
					Kind:      DrawSphere,
					Mesh:      d.Sphere.Mesh,
					Model:     s.Model,
					Normal:    common.NormalMatrix(s.Model),
					Diffuse:   s.Color,
					Specular:  mat.Specular,
					Shininess: mat.Shininess,
				})
			}
		}
	}

	if state.DrawGround && d.Ground != nil {
		mat := d.Ground.Material()
		frame.Calls = append(frame.Calls, DrawCall{
			Kind:      DrawGround,
			Mesh:      d.Ground.Mesh,
			Model:     mgl32.Ident4(),
			Normal:    mgl32.Ident4(),
			Diffuse:   mat.Diffuse,
			Specular:  mat.Specular,
			Shininess: mat.Shininess,
			Textured:  true,
		})
	}

	if d.Central != nil {
		mat := d.Central.Material()
		frame.Calls = append(frame.Calls, DrawCall{
			Kind:      DrawCentral,
			Mesh:      d.Central.Mesh,
			Model:     d.CentralTransform,
			Normal:    common.NormalMatrix(d.CentralTransform),
			Diffuse:   mat.Diffuse,
			Specular:  mat.Specular,
			Shininess: mat.Shininess,
		})
	}
	return frame
}

// Submit uploads a frame's uniforms and issues its draws on an active program. The ground
// texture, when given, is bound to unit 1 for textured calls and unbound afterwards even if
// the draw fails or panics. GPU errors are polled after each part of the scene through
// r.CheckError. The first failed draw stops the frame after the model and normal matrices
// are reset and errors are polled for its part.
//
// Parameters:
//   - r: the renderer, used for error polling
//   - prog: the lighting program
//   - frame: the composed frame
//   - groundTexture: the texture for textured calls, or nil
//
// Returns:
//   - error: the first draw failure, joined with any GPU errors reported in debug mode
func Submit(r renderer.Renderer, prog renderer.Program, frame Frame, groundTexture renderer.Texture) error {
	prog.Use()
	defer prog.Unuse()

	g := frame.Globals
	prog.SetInt("WIDTH", g.Width)
	prog.SetInt("HEIGHT", g.Height)
	prog.SetMat4("ProjectionMatrix", g.Projection)
	prog.SetMat4("ViewMatrix", g.View)
	prog.SetMat4("ViewInverse", g.ViewInverse)
	prog.SetMat4("ModelMatrix", mgl32.Ident4())
	prog.SetMat4("NormalMatrix", mgl32.Ident4())
	prog.SetVec3("lightAmbient", g.LightAmbient)
	prog.SetVec3("lightPos", g.LightPos)
	prog.SetVec3("lightValue", g.LightValue)
	prog.SetInt("mode", g.Mode)
	prog.SetInt("direct", 0)
	prog.SetInt("useTexture", 0)

	var errs []error
	for i, call := range frame.Calls {
		drawErr := submitCall(prog, call, groundTexture)
		if drawErr != nil {
			errs = append(errs, fmt.Errorf("draw %s: %w", call.Kind, drawErr))
		}

		// A failed draw ends its part of the scene early and stops the frame.
		last := drawErr != nil || i == len(frame.Calls)-1 || frame.Calls[i+1].Kind != call.Kind
		if !last {
			continue
		}
		if call.Kind == DrawSphere {
			prog.SetMat4("ModelMatrix", mgl32.Ident4())
			prog.SetMat4("NormalMatrix", mgl32.Ident4())
		}
		if err := r.CheckError(call.Kind.String()); err != nil {
			errs = append(errs, err)
		}
		if drawErr != nil {
			break
		}
	}
	return errors.Join(errs...)
}

func submitCall(prog renderer.Program, call DrawCall, groundTexture renderer.Texture) error {
	prog.SetMat4("ModelMatrix", call.Model)
	prog.SetMat4("NormalMatrix", call.Normal)
	prog.SetVec3("diffuse", call.Diffuse)
	prog.SetVec3("specular", call.Specular)
	prog.SetFloat("shininess", call.Shininess)

	if call.Direct {
		prog.SetInt("direct", 1)
		defer prog.SetInt("direct", 0)
	}

	if call.Textured && groundTexture != nil {
		groundTexture.Bind(1)
		defer groundTexture.Unbind()
		prog.SetInt("groundTexture", 1)
		prog.SetInt("useTexture", 1)
		defer prog.SetInt("useTexture", 0)
	}

	return prog.Draw(call.Mesh)
}
