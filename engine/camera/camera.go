package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	spin float32
	tilt float32
	zoom float32
	pan  [2]float32

	minTilt float32
	maxTilt float32
	minZoom float32
	maxZoom float32

	ry     float32
	aspect float32
	front  float32
	back   float32

	viewMatrix        mgl32.Mat4
	viewInverseMatrix mgl32.Mat4
	projectionMatrix  mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the orbit camera that replaces a hard-coded world
// projection. The eye orbits the origin by spin (around z) and tilt (from +z), sits zoom
// units away and can be panned in screen space. View and projection are recomputed
// whenever a parameter changes.
type Camera interface {
	// Spin returns the rotation around the world z axis in degrees.
	//
	// Returns:
	//   - float32: spin in degrees
	Spin() float32

	// Tilt returns the angle between the view direction and the world z axis in degrees.
	//
	// Returns:
	//   - float32: tilt in degrees
	Tilt() float32

	// Zoom returns the eye distance along the view axis.
	//
	// Returns:
	//   - float32: the distance
	Zoom() float32

	// Pan returns the screen-space translation applied after the rotation.
	//
	// Returns:
	//   - x, y: the pan offsets
	Pan() (x, y float32)

	// Aspect returns the viewport aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Ry returns the frustum half-height at unit distance.
	//
	// Returns:
	//   - float32: the vertical half-extent
	Ry() float32

	// Front returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Front() float32

	// Back returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Back() float32

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: T(pan, -zoom) · Rx(tilt-90) · Rz(spin)
	ViewMatrix() mgl32.Mat4

	// ViewInverseMatrix returns the inverse of the view matrix. Its translation column is the
	// eye position in world space.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse view matrix
	ViewInverseMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current perspective frustum.
	//
	// Returns:
	//   - mgl32.Mat4: Frustum(-rx·front, rx·front, -ry·front, ry·front, front, back)
	ProjectionMatrix() mgl32.Mat4

	// EyePosition returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	EyePosition() mgl32.Vec3

	// SetSpin sets the spin angle in degrees.
	//
	// Parameters:
	//   - degrees: the new spin
	SetSpin(degrees float32)

	// SetTilt sets the tilt angle in degrees, clamped to the configured bounds.
	//
	// Parameters:
	//   - degrees: the new tilt
	SetTilt(degrees float32)

	// SetZoom sets the eye distance, clamped to the configured bounds.
	//
	// Parameters:
	//   - zoom: the new distance
	SetZoom(zoom float32)

	// SetPan sets the screen-space pan offsets.
	//
	// Parameters:
	//   - x, y: the pan offsets
	SetPan(x, y float32)

	// SetViewport derives the aspect ratio from a framebuffer size. A zero height is ignored.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	SetViewport(width, height int)

	// Orbit adds to spin and tilt.
	//
	// Parameters:
	//   - dSpin, dTilt: angle deltas in degrees
	Orbit(dSpin, dTilt float32)

	// Dolly adds to the eye distance.
	//
	// Parameters:
	//   - delta: distance delta, positive moves away
	Dolly(delta float32)

	// Translate adds to the pan offsets.
	//
	// Parameters:
	//   - dx, dy: pan deltas
	Translate(dx, dy float32)

	// Controller returns the attached mouse controller, or nil.
	//
	// Returns:
	//   - CameraController: the controller
	Controller() CameraController

	// SetController attaches a mouse controller.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates an orbit camera. The defaults frame the class scene the way the fixed
// framework matrix did: spin -150, tilt 30, zoom 160, pan (0, -1), ry 0.2, front 0.1,
// back 10000, square aspect.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:      &sync.Mutex{},
		spin:    -150,
		tilt:    30,
		zoom:    160,
		pan:     [2]float32{0, -1},
		minTilt: 0,
		maxTilt: 180,
		minZoom: 1,
		maxZoom: 5000,
		ry:      0.2,
		aspect:  1,
		front:   0.1,
		back:    10000,
	}
	for _, option := range options {
		option(c)
	}
	c.tilt = mgl32.Clamp(c.tilt, c.minTilt, c.maxTilt)
	c.zoom = mgl32.Clamp(c.zoom, c.minZoom, c.maxZoom)
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Spin() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spin
}

func (c *cameraImpl) Tilt() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tilt
}

func (c *cameraImpl) Zoom() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) Pan() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pan[0], c.pan[1]
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Ry() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ry
}

func (c *cameraImpl) Front() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.front
}

func (c *cameraImpl) Back() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.back
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ViewInverseMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewInverseMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) EyePosition() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewInverseMatrix.Col(3).Vec3()
}

func (c *cameraImpl) SetSpin(degrees float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spin = degrees
	c.updateMatrices()
}

func (c *cameraImpl) SetTilt(degrees float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tilt = mgl32.Clamp(degrees, c.minTilt, c.maxTilt)
	c.updateMatrices()
}

func (c *cameraImpl) SetZoom(zoom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = mgl32.Clamp(zoom, c.minZoom, c.maxZoom)
	c.updateMatrices()
}

func (c *cameraImpl) SetPan(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan = [2]float32{x, y}
	c.updateMatrices()
}

func (c *cameraImpl) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = float32(width) / float32(height)
	c.updateMatrices()
}

func (c *cameraImpl) Orbit(dSpin, dTilt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spin += dSpin
	c.tilt = mgl32.Clamp(c.tilt+dTilt, c.minTilt, c.maxTilt)
	c.updateMatrices()
}

func (c *cameraImpl) Dolly(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = mgl32.Clamp(c.zoom+delta, c.minZoom, c.maxZoom)
	c.updateMatrices()
}

func (c *cameraImpl) Translate(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan[0] += dx
	c.pan[1] += dy
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

// updateMatrices recalculates the view, inverse view and projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.Translate3D(c.pan[0], c.pan[1], -c.zoom).
		Mul4(common.Rotate(common.AxisX, c.tilt-90)).
		Mul4(common.Rotate(common.AxisZ, c.spin))
	c.viewInverseMatrix = c.viewMatrix.Inv()

	rx := c.ry * c.aspect
	c.projectionMatrix = mgl32.Frustum(-rx*c.front, rx*c.front, -c.ry*c.front, c.ry*c.front, c.front, c.back)
}
