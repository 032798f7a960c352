package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-framework/common"
)

// Default controller rates, also used when an option is given zero.
const (
	defaultOrbitSpeed float32 = 0.5
	defaultPanSpeed   float32 = 0.1
	defaultZoomSpeed  float32 = 10
)

type cameraControllerImpl struct {
	mu *sync.Mutex

	camera Camera

	held    map[common.MouseButton]bool
	shifted bool
	lastX   float64
	lastY   float64

	orbitSpeed float32
	panSpeed   float32
	zoomSpeed  float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a mouse controller for a camera and attaches itself to it.
// Panics if cam is nil.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	if cam == nil {
		panic("camera controller requires a camera")
	}
	cc := &cameraControllerImpl{
		mu:         &sync.Mutex{},
		camera:     cam,
		held:       map[common.MouseButton]bool{},
		orbitSpeed: defaultOrbitSpeed,
		panSpeed:   defaultPanSpeed,
		zoomSpeed:  defaultZoomSpeed,
	}
	for _, option := range options {
		option(cc)
	}
	cam.SetController(cc)
	return cc
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) MouseButton(button common.MouseButton, pressed, shift bool, x, y float64) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.held[button] = pressed
	cc.shifted = shift
	cc.lastX, cc.lastY = x, y
	return true
}

func (cc *cameraControllerImpl) MouseMotion(x, y float64) bool {
	cc.mu.Lock()
	dx := float32(x - cc.lastX)
	dy := float32(y - cc.lastY)
	cc.lastX, cc.lastY = x, y
	left, right, shifted := cc.held[common.MouseButtonLeft], cc.held[common.MouseButtonRight], cc.shifted
	orbit, pan, zoom := cc.orbitSpeed, cc.panSpeed, cc.zoomSpeed
	cc.mu.Unlock()

	if dx == 0 && dy == 0 {
		return false
	}
	switch {
	case left && shifted:
		// screen y grows downward
		cc.camera.Translate(dx*pan, -dy*pan)
	case left:
		cc.camera.Orbit(dx*orbit, dy*orbit)
	case right:
		cc.camera.Dolly(dy * zoom / 10)
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) Scroll(steps float64) bool {
	if steps == 0 {
		return false
	}
	cc.mu.Lock()
	zoom := cc.zoomSpeed
	cc.mu.Unlock()
	cc.camera.Dolly(-float32(steps) * zoom)
	return true
}

func (cc *cameraControllerImpl) Held(button common.MouseButton) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.held[button]
}

func (cc *cameraControllerImpl) Shifted() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.shifted
}

func (cc *cameraControllerImpl) OrbitSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.orbitSpeed
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}
