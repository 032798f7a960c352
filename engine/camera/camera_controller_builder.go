package camera

import "github.com/Carmen-Shannon/oxy-framework/common"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithOrbitSpeed sets the drag rotation rate.
//
// Parameters:
//   - speed: degrees per pixel, zero for the default
//
// Returns:
//   - CameraControllerOption: functional option to set the orbit speed
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = common.Coalesce(speed, defaultOrbitSpeed)
	}
}

// WithPanSpeed sets the drag pan rate.
//
// Parameters:
//   - speed: units per pixel, zero for the default
//
// Returns:
//   - CameraControllerOption: functional option to set the pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = common.Coalesce(speed, defaultPanSpeed)
	}
}

// WithZoomSpeed sets the distance moved per scroll step.
//
// Parameters:
//   - speed: distance per step, zero for the default
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = common.Coalesce(speed, defaultZoomSpeed)
	}
}
