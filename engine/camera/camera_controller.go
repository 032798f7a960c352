package camera

import "github.com/Carmen-Shannon/oxy-framework/common"

// CameraController turns mouse input into camera motion. It tracks which buttons are held
// and whether shift was down when the last button changed state. Every method reports
// whether the camera changed, so the caller knows to request a redraw.
//
// Left drag orbits, shift+left drag pans, right drag and the scroll wheel zoom. The middle
// button is tracked but not bound.
type CameraController interface {
	// Camera returns the camera this controller drives.
	//
	// Returns:
	//   - Camera: the driven camera
	Camera() Camera

	// MouseButton records a button press or release at a cursor position.
	//
	// Parameters:
	//   - button: the button that changed state
	//   - pressed: true on press, false on release
	//   - shift: true if a shift key was held
	//   - x, y: cursor position in window coordinates
	//
	// Returns:
	//   - bool: true if a redraw should follow
	MouseButton(button common.MouseButton, pressed, shift bool, x, y float64) bool

	// MouseMotion moves the cursor and applies the drag for the held buttons.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	//
	// Returns:
	//   - bool: true if the camera changed
	MouseMotion(x, y float64) bool

	// Scroll zooms by wheel steps. Positive steps zoom in.
	//
	// Parameters:
	//   - steps: vertical scroll offset
	//
	// Returns:
	//   - bool: true if the camera changed
	Scroll(steps float64) bool

	// Held reports whether a button is currently down.
	//
	// Parameters:
	//   - button: the button to query
	//
	// Returns:
	//   - bool: true if held
	Held(button common.MouseButton) bool

	// Shifted reports whether shift was held at the last button change.
	//
	// Returns:
	//   - bool: the shift state
	Shifted() bool

	// OrbitSpeed returns degrees of spin/tilt per pixel of drag.
	//
	// Returns:
	//   - float32: degrees per pixel
	OrbitSpeed() float32

	// PanSpeed returns pan units per pixel of drag.
	//
	// Returns:
	//   - float32: units per pixel
	PanSpeed() float32

	// ZoomSpeed returns distance per scroll step; right drag uses a tenth of it per pixel.
	//
	// Returns:
	//   - float32: distance per step
	ZoomSpeed() float32
}
