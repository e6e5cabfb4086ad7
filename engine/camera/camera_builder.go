package camera

// CameraBuilderOption is a functional option applied to a camera during NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithLens sets the projection.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near, far: clip plane distances
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithLens(fovY, aspect, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens = Lens{FovY: fovY, Aspect: aspect, Near: near, Far: far}
	}
}

// WithAspect overrides only the aspect ratio of the lens.
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.Aspect = aspect
	}
}

// WithController attaches the controller the view follows.
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
