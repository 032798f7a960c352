package camera

type CameraBuilderOption func(*cameraImpl)

// WithSpin sets the initial rotation around the world z axis.
//
// Parameters:
//   - degrees: spin in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's spin
func WithSpin(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.spin = degrees
	}
}

// WithTilt sets the initial angle from the world z axis.
//
// Parameters:
//   - degrees: tilt in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's tilt
func WithTilt(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.tilt = degrees
	}
}

// WithZoom sets the initial eye distance.
//
// Parameters:
//   - zoom: distance from the pivot
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's zoom
func WithZoom(zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = zoom
	}
}

// WithPan sets the initial screen-space translation.
//
// Parameters:
//   - x, y: pan offsets
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pan
func WithPan(x, y float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pan = [2]float32{x, y}
	}
}

// WithTiltBounds constrains tilt.
//
// Parameters:
//   - min, max: tilt bounds in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the tilt bounds
func WithTiltBounds(min, max float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.minTilt = min
		c.maxTilt = max
	}
}

// WithZoomBounds constrains the eye distance.
//
// Parameters:
//   - min, max: distance bounds
//
// Returns:
//   - CameraBuilderOption: a function that sets the zoom bounds
func WithZoomBounds(min, max float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.minZoom = min
		c.maxZoom = max
	}
}

// WithFrustum sets the frustum half-height at unit distance and the clipping planes.
//
// Parameters:
//   - ry: vertical half-extent at unit distance
//   - front: near plane distance
//   - back: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the frustum
func WithFrustum(ry, front, back float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.ry = ry
		c.front = front
		c.back = back
	}
}

// WithViewport sets the aspect ratio from a framebuffer size.
//
// Parameters:
//   - width, height: the framebuffer size in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.aspect = float32(width) / float32(height)
		}
	}
}

// WithController attaches a controller to the camera.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
