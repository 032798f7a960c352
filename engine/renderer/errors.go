package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
)

// ErrUniformSlotsExhausted is returned by a WebGPU Program.Draw when more draws were issued in one
// frame than the program has uniform slots. Raise the count with WithUniformSlots.
var ErrUniformSlotsExhausted = errors.New("uniform slots exhausted for this frame")

// ErrNoFrame is returned when a draw or EndFrame happens outside BeginFrame/EndFrame.
var ErrNoFrame = errors.New("no frame in progress")

// ShaderError reports a failed shader compilation or program link.
type ShaderError struct {
	// Key identifies the shader, or the program for link failures.
	Key string

	// Stage is the failing stage. It is meaningless when Link is true.
	Stage shader.ShaderType

	// Link is true when compilation succeeded and linking failed.
	Link bool

	// Log is the driver's info log.
	Log string
}

func (e *ShaderError) Error() string {
	if e.Link {
		return fmt.Sprintf("program %s failed to link: %s", e.Key, e.Log)
	}
	return fmt.Sprintf("%s shader %s failed to compile: %s", e.Stage, e.Key, e.Log)
}

// GPUError is a graphics API error observed after an operation.
type GPUError struct {
	// Op names the operation that was checked.
	Op string

	// Code is the API error code (glGetError value for OpenGL).
	Code uint32

	// Message is a human readable description of Code.
	Message string

	// Err is the underlying error when the backend reported one as a Go error.
	Err error
}

func (e *GPUError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gpu error after %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gpu error after %s: %s (0x%04x)", e.Op, e.Message, e.Code)
}

func (e *GPUError) Unwrap() error {
	return e.Err
}
